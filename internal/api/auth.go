package api

import (
	"context"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account. The server assigns the user id and
// rejects duplicate usernames with a RegistrationError.
func (c *Client) Register(ctx context.Context, username, password string) (*models.User, error) {
	status, body, err := c.post(ctx, c.authURL, authRequest{
		Action:   "register",
		Username: username,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &RegistrationError{Message: serverMessage(body, "Registration failed")}
	}

	var user models.User
	if err := decode(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates existing credentials. Invalid credentials and
// blocked accounts both surface as an AuthError carrying the server's
// message.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	status, body, err := c.post(ctx, c.authURL, authRequest{
		Action:   "login",
		Username: username,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &AuthError{Message: serverMessage(body, "Login failed")}
	}

	var user models.User
	if err := decode(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
