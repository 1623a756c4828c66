package api

import "encoding/json"

// The services report failures as a JSON body {"error": "..."} with a
// non-2xx status. Each caller-facing failure class gets its own type
// so screens can surface the server text without string matching.

// AuthError is an invalid-credentials or blocked-account rejection
// from the login action.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// RegistrationError is a rejected registration, e.g. a duplicate
// username.
type RegistrationError struct {
	Message string
}

func (e *RegistrationError) Error() string { return e.Message }

// NotFoundError is a lookup whose target id did not resolve.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// FriendRequestError is a rejected friend-graph mutation, e.g. the
// users are already friends or a request is already pending.
type FriendRequestError struct {
	Message string
}

func (e *FriendRequestError) Error() string { return e.Message }

// AdminError is a rejected admin operation, typically "Admin access
// required" for non-admin callers.
type AdminError struct {
	Message string
}

func (e *AdminError) Error() string { return e.Message }

// serverMessage extracts the error text from a response body, falling
// back to the given default when the body is not the error envelope.
func serverMessage(body []byte, fallback string) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return fallback
}
