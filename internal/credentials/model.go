package credentials

// Record is the value persisted under a user's email.
type Record struct {
	Salt string `json:"salt"`
	Hash string `json:"hash"`
}

// Result is the outcome of a credential operation as returned to callers.
// Hash is set on successful signup, login and password change; Message on failure.
type Result struct {
	Success bool   `json:"success"`
	Hash    string `json:"hash,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	MessageUsernameTaken    = "Sorry! That username is taken."
	MessageWrongPassword    = "wrong password"
	MessageOldPasswordWrong = "old password is wrong"
	MessageInternalError    = "internal error"
	MessageDeleteFailed     = "an internal error occurred"
)

func succeeded(hash string) Result {
	return Result{Success: true, Hash: hash}
}

func failed(message string) Result {
	return Result{Success: false, Message: message}
}
