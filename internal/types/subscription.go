package types

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus is the descriptor the evaluator derives from a stored
// profile: what the user can see right now and what the popup should say.
type SubscriptionStatus struct {
	Status           SubscriptionState `json:"status"`
	DataExpiracao    time.Time         `json:"data_expiracao"`
	DiasRestantes    int               `json:"dias_restantes"`
	PodeAcessar      bool              `json:"pode_acessar_premium"`
	MostrarPopup     bool              `json:"mostrar_popup"`
	MensagemPopup    string            `json:"mensagem_popup,omitempty"`
}

// Payment states stored in assinaturas.status.
const (
	PaymentPending   = "pendente"
	PaymentActive    = "ativo"
	PaymentCancelled = "cancelado"
)

// Payment is a row of the assinaturas audit trail. Activation is manual
// (admin) or out-of-band; there is no gateway callback.
type Payment struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Status          string     `json:"status"`
	Valor           float64    `json:"valor"`
	MetodoPagamento string     `json:"metodo_pagamento"`
	DataPagamento   *time.Time `json:"data_pagamento,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
