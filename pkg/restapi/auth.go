package restapi

import (
	"context"
	"fmt"

	"github.com/tutorchat/client/pkg/domain"
)

type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (a *AuthAPI) Login(ctx context.Context, creds domain.Credentials) (domain.User, string, error) {
	var resp authResponse
	if err := a.c.postJSON(ctx, "/auth/login", creds, &resp); err != nil {
		return domain.User{}, "", fmt.Errorf("logging in: %w", err)
	}
	return resp.User, resp.Token, nil
}

func (a *AuthAPI) Register(ctx context.Context, reg domain.Registration) (domain.User, string, error) {
	var resp authResponse
	if err := a.c.postJSON(ctx, "/auth/register", reg, &resp); err != nil {
		return domain.User{}, "", fmt.Errorf("registering: %w", err)
	}
	return resp.User, resp.Token, nil
}

func (a *AuthAPI) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := a.c.getJSON(ctx, "/auth/me", &user); err != nil {
		return domain.User{}, fmt.Errorf("fetching current user: %w", err)
	}
	return user, nil
}

func (a *AuthAPI) Refresh(ctx context.Context) (string, error) {
	var resp authResponse
	if err := a.c.postJSON(ctx, "/auth/refresh", nil, &resp); err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}
	return resp.Token, nil
}
