package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/irsalhamdi/smartshop/backend"
)

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupNew struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordShort    = fmt.Errorf("password shorter than %d characters", MinPasswordLength)
)

// checkPasswords runs the signup checks that need no network call.
func (s SignupNew) checkPasswords() error {
	if s.Password != s.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len([]rune(s.Password)) < MinPasswordLength {
		return ErrPasswordShort
	}
	return nil
}

type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Service issues tokens for customers. The remote API implements it.
type Service interface {
	Login(ctx context.Context, l Login) (string, error)
	Register(ctx context.Context, s SignupNew) (string, error)
}

// ErrBadCredentials is returned when the backend refuses the credentials.
var ErrBadCredentials = errors.New("bad credentials")

type Client struct {
	api *backend.Client
}

func NewClient(api *backend.Client) *Client {
	return &Client{api: api}
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (c *Client) Login(ctx context.Context, l Login) (string, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{strings.TrimSpace(l.Email), l.Password}

	var out tokenResponse
	err := c.api.Do(ctx, http.MethodPost, "/auth/authenticate", in, &out, "")
	if backend.IsStatus(err, http.StatusUnauthorized) || backend.IsStatus(err, http.StatusForbidden) {
		return "", fmt.Errorf("%w: %w", ErrBadCredentials, err)
	}
	if err != nil {
		return "", fmt.Errorf("authenticating: %w", err)
	}

	if out.Token == "" {
		return "", errors.New("no token received from server")
	}
	return out.Token, nil
}

func (c *Client) Register(ctx context.Context, s SignupNew) (string, error) {
	in := struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}{s.FirstName, s.LastName, strings.TrimSpace(s.Email), s.Password}

	var out tokenResponse
	if err := c.api.Do(ctx, http.MethodPost, "/auth/register", in, &out, ""); err != nil {
		return "", fmt.Errorf("registering: %w", err)
	}
	return out.Token, nil
}
