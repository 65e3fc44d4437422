package api

import "errors"

// ErrInvalidCredentials is returned by Login for any non-success response.
// The server's own detail is deliberately not surfaced.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUpload and ErrQuery cover both transport failures and non-success
// statuses; callers degrade them to a generic notice.
var (
	ErrUpload = errors.New("upload failed")
	ErrQuery  = errors.New("query failed")
)

// SignupError carries the first validation message the server returned,
// or a generic fallback when it returned none.
type SignupError struct {
	Message string
}

func (e *SignupError) Error() string {
	return e.Message
}
