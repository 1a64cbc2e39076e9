package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credstore/credstore/internal/logging"
)

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(requestIDHeader), 36)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "caller-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-id", resp.Header.Get(requestIDHeader))
}

func TestAuditLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Audit(logging.NewWithWriter(&buf, "info", "")))
	app.Post("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusTeapot)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/", nil)
	req.Header.Set(requestIDHeader, "rid-1")
	_, err := app.Test(req)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request completed", line["msg"])
	assert.Equal(t, "POST", line["method"])
	assert.Equal(t, float64(fiber.StatusTeapot), line["status"])
	assert.Equal(t, "rid-1", line["request_id"])
}

func TestAuditLogsErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(Audit(logging.NewWithWriter(&buf, "info", "")))
	app.Post("/", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad body")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, float64(fiber.StatusBadRequest), line["status"])
}

func TestAllowAnyOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(AllowAnyOrigin())
	app.Post("/", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad body")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestIsPreflight(t *testing.T) {
	app := fiber.New()
	app.Options("/", func(c *fiber.Ctx) error {
		if IsPreflight(c) {
			return c.SendString("preflight")
		}
		return c.SendString("plain")
	})

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"bare", nil, "plain"},
		{"origin only", map[string]string{fiber.HeaderOrigin: "https://a"}, "plain"},
		{"no request headers", map[string]string{
			fiber.HeaderOrigin:                     "https://a",
			fiber.HeaderAccessControlRequestMethod: "POST",
		}, "plain"},
		{"complete", map[string]string{
			fiber.HeaderOrigin:                      "https://a",
			fiber.HeaderAccessControlRequestMethod:  "POST",
			fiber.HeaderAccessControlRequestHeaders: "content-type",
		}, "preflight"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodOptions, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(body))
		})
	}
}
