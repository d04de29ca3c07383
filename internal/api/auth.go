package api

import "context"

// loginResponse is the body of a successful login.
type loginResponse struct {
	Token string `json:"token"`
}

// registerResponse is the body of a successful registration.
type registerResponse struct {
	ID string `json:"id"`
}

// Login exchanges credentials for a bearer token. The caller decides where to
// persist it (see the session package).
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	creds := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.post(ctx, "/user/login", creds, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates a new account and returns the new user id. Registration
// does not log the user in; a separate Login call is required.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp registerResponse
	if err := c.post(ctx, "/user/register", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
