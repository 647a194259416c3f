package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SubscriptionState is the value stored in users_meta.status_assinatura. The
// column keeps the original Portuguese values; expiry of a trial is derived
// from data_expiracao, never stored as a fourth state.
type SubscriptionState string

const (
	SubscriptionTrial    SubscriptionState = "trial"
	SubscriptionActive   SubscriptionState = "ativo"
	SubscriptionInactive SubscriptionState = "inativo"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserAuth is the credential record behind the identity gateway.
type UserAuth struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile is a row in users_meta, keyed by the identity user id.
// Created at registration with a 7-day trial; never deleted in-app.
type UserProfile struct {
	ID               uuid.UUID         `json:"id"`
	Email            string            `json:"email"`
	Nome             string            `json:"nome"`
	Role             string            `json:"role"`
	StatusAssinatura SubscriptionState `json:"status_assinatura"`
	DataInicio       time.Time         `json:"data_inicio"`
	DataExpiracao    time.Time         `json:"data_expiracao"`
	ProgressoBiblico int               `json:"progresso_biblico"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Claims carried in access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Nome   string `json:"nome"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
