// Package auth talks to the /auth endpoints.
package auth

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
)

const loginPath = "/auth/login"

type Credentials struct {
	Username string `json:"username" form:"username" validate:"required,notblank"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Username = core.CleanString(c.Username, true /* lower */)
	return validate.Struct(c)
}

type LoginResult struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
	// ExpiresIn is the token lifetime in milliseconds, when the API reports it.
	ExpiresIn int64 `json:"expiresIn"`
}

// ExpiresAt converts ExpiresIn into an absolute time, zero when unknown.
func (r LoginResult) ExpiresAt() time.Time {
	if r.ExpiresIn <= 0 {
		return time.Time{}
	}
	return core.NowFunc().Add(time.Duration(r.ExpiresIn) * time.Millisecond)
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (svc *Service) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var res LoginResult
	err := svc.client.Post(ctx, loginPath, creds, &res)
	return res, err
}
