package credentials

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	reqSignup         = "signup"
	reqLogin          = "login"
	reqUpdatePassword = "updatePassword"
	reqForgotPassword = "forgotPassword"
	reqDeleteUser     = "deleteUser"

	teapotBody = "The server refuses the attempt to brew coffee with a teapot"
)

// Handler exposes the credential operations behind a single JSON endpoint.
type Handler struct {
	store   *Store
	timeout time.Duration
}

// NewHandler constructs a credential HTTP handler. A non-positive timeout
// leaves the request context without a deadline.
func NewHandler(store *Store, timeout time.Duration) *Handler {
	return &Handler{store: store, timeout: timeout}
}

type request struct {
	ReqType   string `json:"reqType"`
	UserEmail string `json:"userEmail"`
	UserPass  string `json:"userPass"`
	OldPass   string `json:"oldPass"`
}

// Handle decodes the request and dispatches on reqType. The body is read as
// JSON regardless of Content-Type; browsers send text/plain to skip preflight.
func (h *Handler) Handle(c *fiber.Ctx) error {
	var req request
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}

	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var res Result
	switch req.ReqType {
	case reqSignup:
		res = h.store.Signup(ctx, req.UserEmail, req.UserPass)
	case reqLogin:
		res = h.store.Verify(ctx, req.UserEmail, req.UserPass)
	case reqUpdatePassword:
		res = h.store.ChangePassword(ctx, req.UserEmail, req.OldPass, req.UserPass)
	case reqForgotPassword:
		h.store.ForgotPassword(ctx, req.UserEmail)
		return c.Status(http.StatusOK).Send(nil)
	case reqDeleteUser:
		res = h.store.DeleteAccount(ctx, req.UserEmail, req.UserPass)
	default:
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
		return c.Status(http.StatusTeapot).SendString(teapotBody)
	}
	return c.Status(http.StatusOK).JSON(res)
}
