package api

import (
	"context"
	"errors"
	"net/http"
)

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

// Signup creates an account and returns its token.
func (c *Client) Signup(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/signup", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, request{method: http.MethodPost, path: path, body: creds}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("server returned no token")
	}
	return &resp, nil
}
