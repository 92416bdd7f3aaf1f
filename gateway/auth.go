package gateway

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a bearer token and role names.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var out LoginResult
	err := c.call(ctx, "login", func(ctx context.Context) error {
		_, err := c.doEnvelope(ctx, http.MethodPost, "/auth/login", nil, req, &out)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "login response carried no token"}
	}
	return &out, nil
}

// Register creates a customer and returns the API confirmation message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	return c.message(ctx, "register", http.MethodPost, "/auth/register", req)
}

// ForgotPassword asks the API to email a reset code to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.message(ctx, "forgot_password", http.MethodPost, "/auth/forgot-password", map[string]string{
		"email": email,
	})
}

// ResetPassword sets a new password using an emailed reset code.
func (c *Client) ResetPassword(ctx context.Context, code, newPassword string) (string, error) {
	return c.message(ctx, "reset_password", http.MethodPost, "/auth/reset-password", map[string]string{
		"code":        code,
		"newPassword": newPassword,
	})
}

// message performs a call whose only useful output is the envelope message.
func (c *Client) message(ctx context.Context, op, method, path string, in any) (string, error) {
	var msg string
	err := c.call(ctx, op, func(ctx context.Context) error {
		env, err := c.doEnvelope(ctx, method, path, nil, in, nil)
		if err != nil {
			return err
		}
		msg = env.Message
		return nil
	})
	return msg, err
}
