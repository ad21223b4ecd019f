package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"tableflip.dev/boost/pkg/failure"
)

// User is the identity the API returns on login, register and profile.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResult is the payload of login and register.
type AuthResult struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// Stats summarises the account.
type Stats struct {
	TotalEntries int `json:"totalEntries"`
}

// AuthGateway is the set of authentication calls the session store needs.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Register(ctx context.Context, username, email, password string) (AuthResult, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (User, error)
	Stats(ctx context.Context, token string) (Stats, error)
}

var _ AuthGateway = (*Client)(nil)

const (
	msgEmailTaken    = "this email address is already in use"
	msgUsernameTaken = "this username is already taken"
	msgNoToken       = "no token received from server"
)

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	in := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/auth/login", "", in, &out, "login failed"); err != nil {
		return AuthResult{}, err
	}
	if out.Token == "" {
		return AuthResult{}, failure.Auth(msgNoToken, http.StatusOK)
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	var out AuthResult
	in := map[string]string{"username": username, "email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/auth/register", "", in, &out, "registration failed"); err != nil {
		switch {
		case serverSaid(err, "email"):
			return AuthResult{}, failure.Conflict(msgEmailTaken, statusOf(err))
		case serverSaid(err, "username"):
			return AuthResult{}, failure.Conflict(msgUsernameTaken, statusOf(err))
		}
		return AuthResult{}, err
	}
	if out.Token == "" {
		return AuthResult{}, failure.Auth(msgNoToken, http.StatusOK)
	}
	return out, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	c.stats.Delete(token)
	return c.call(ctx, http.MethodPost, "/auth/logout", token, nil, nil, "logout failed")
}

func (c *Client) Profile(ctx context.Context, token string) (User, error) {
	if err := requireToken(token); err != nil {
		return User{}, err
	}
	var out struct {
		User User `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/profile", token, nil, &out, "failed to fetch profile"); err != nil {
		return User{}, err
	}
	return out.User, nil
}

// Stats returns the account statistics, reusing a recent answer for the same
// credential.
func (c *Client) Stats(ctx context.Context, token string) (Stats, error) {
	if err := requireToken(token); err != nil {
		return Stats{}, err
	}
	if cached, ok := c.stats.Get(token); ok {
		c.log.Debug("stats served from cache")
		return cached.(Stats), nil
	}
	var out Stats
	if err := c.call(ctx, http.MethodGet, "/auth/stats", token, nil, &out, "failed to fetch stats"); err != nil {
		return Stats{}, err
	}
	c.stats.SetDefault(token, out)
	c.log.Debug("stats refreshed", zap.Int("total", out.TotalEntries))
	return out, nil
}
