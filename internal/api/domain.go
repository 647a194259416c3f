package api

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PGXPool is the subset of *pgxpool.Pool the repositories use. pgxmock
// satisfies it too, so repository tests run against a mocked pool.
type PGXPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Response is the standard success envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJI..."`
	RefreshToken string `json:"refresh_token" example:"4f1trt8s..."`
	Message      string `json:"message" example:"Login realizado com sucesso!"`
}

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Nome     string `json:"nome" example:"Maria Silva"`
	Email    string `json:"email" example:"newuser@example.com"`
	Password string `json:"password" example:"Str0ngP@ss!"`
}

// RefreshTokenRequest represents the expected JSON body for refreshing tokens.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"4f1trt8s..."`
}

// TokenResponse represents the successful JSON response after refreshing tokens.
type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJI..."`
	RefreshToken string `json:"refresh_token" example:"9a8b7c..."`
}

// TrackProgressRequest is the body for recording an engagement action.
type TrackProgressRequest struct {
	Acao string `json:"acao" example:"versiculo_lido"`
}

// CheckoutResponse carries the fixed external checkout URL the client opens
// in a new browsing context.
type CheckoutResponse struct {
	CheckoutURL string  `json:"checkout_url"`
	Valor       float64 `json:"valor"`
}
