package models

import "errors"

// UserIDKey is the fiber Locals key holding the verified owner id.
const UserIDKey = "user_id"

// ErrUnauthenticated covers every failed session check: no token, unknown
// token, or a token whose user no longer exists.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
