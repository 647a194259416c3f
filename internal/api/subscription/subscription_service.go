package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/luisbelezaPF-sys/encontroDeus/app/observability/metrics"
	"github.com/luisbelezaPF-sys/encontroDeus/config"
	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

// Popup copy shown when premium access is denied.
const (
	MsgTrialEnded = "Seu período gratuito de 7 dias terminou! Assine agora para continuar acessando o conteúdo premium."
	MsgInactive   = "Sua assinatura está inativa. Renove agora para acessar todo o conteúdo premium!"
)

// Ensure implementation satisfies the interface
var _ SubscriptionService = (*SubscriptionServiceImpl)(nil)

type SubscriptionService interface {
	// Evaluate derives the current access descriptor for a user,
	// provisioning a trial profile when none exists.
	Evaluate(ctx context.Context, userID uuid.UUID) (*types.SubscriptionStatus, error)
	Activate(ctx context.Context, userID uuid.UUID) error
	Deactivate(ctx context.Context, userID uuid.UUID) error
	CreatePendingSubscription(ctx context.Context, userID uuid.UUID) (*types.Payment, error)
	PaymentHistory(ctx context.Context, userID uuid.UUID) ([]types.Payment, error)
	CheckoutURL() (string, float64)
}

type SubscriptionServiceImpl struct {
	logger *slog.Logger
	repo   SubscriptionRepo
	cfg    config.SubscriptionConfig
}

func NewSubscriptionService(repo SubscriptionRepo, cfg config.SubscriptionConfig, logger *slog.Logger) *SubscriptionServiceImpl {
	return &SubscriptionServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
	}
}

// Evaluate never fails closed: a store error yields a permissive trial
// default so content stays available when the database is degraded.
func (s *SubscriptionServiceImpl) Evaluate(ctx context.Context, userID uuid.UUID) (*types.SubscriptionStatus, error) {
	ctx, span := otel.Tracer("SubscriptionService").Start(ctx, "Evaluate", trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	l := s.logger.With(slog.String("method", "Evaluate"), slog.String("userID", userID.String()))

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			provisioned, perr := s.repo.ProvisionTrialProfile(ctx, userID, s.cfg.TrialDays)
			if perr != nil {
				l.WarnContext(ctx, "Trial provisioning failed, returning permissive default", slog.Any("error", perr))
				span.RecordError(perr)
				return s.permissiveDefault(ctx, "provision_error"), nil
			}
			span.SetStatus(codes.Ok, "Trial profile provisioned")
			s.countCheck(ctx, "provisioned")
			return &types.SubscriptionStatus{
				Status:        types.SubscriptionTrial,
				DataExpiracao: provisioned.DataExpiracao,
				DiasRestantes: s.cfg.TrialDays,
				PodeAcessar:   true,
				MostrarPopup:  false,
			}, nil
		}
		l.WarnContext(ctx, "Profile lookup failed, returning permissive default", slog.Any("error", err))
		span.RecordError(err)
		return s.permissiveDefault(ctx, "store_error"), nil
	}

	now := time.Now()
	expirou := now.After(profile.DataExpiracao)
	diasRestantes := int(math.Max(0, math.Ceil(profile.DataExpiracao.Sub(now).Hours()/24)))

	status := &types.SubscriptionStatus{
		Status:        profile.StatusAssinatura,
		DataExpiracao: profile.DataExpiracao,
		DiasRestantes: diasRestantes,
	}

	switch profile.StatusAssinatura {
	case types.SubscriptionActive:
		status.PodeAcessar = true
	case types.SubscriptionTrial:
		if expirou {
			status.MostrarPopup = true
			status.MensagemPopup = MsgTrialEnded
		} else {
			status.PodeAcessar = true
		}
	case types.SubscriptionInactive:
		status.MostrarPopup = true
		status.MensagemPopup = MsgInactive
	}

	span.SetAttributes(
		attribute.String("subscription.status", string(status.Status)),
		attribute.Bool("subscription.can_access", status.PodeAcessar),
	)
	span.SetStatus(codes.Ok, "Status evaluated")
	s.countCheck(ctx, string(status.Status))
	return status, nil
}

// Activate flips the user to ativo with a fresh 30-day window and settles
// any pending payment rows. Settling is best effort.
func (s *SubscriptionServiceImpl) Activate(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("SubscriptionService").Start(ctx, "Activate", trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	l := s.logger.With(slog.String("method", "Activate"), slog.String("userID", userID.String()))

	expiresAt := time.Now().AddDate(0, 0, s.cfg.ActivationDays)
	if err := s.repo.UpdateSubscription(ctx, userID, types.SubscriptionActive, &expiresAt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Activation failed")
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	if err := s.repo.SettlePendingPayments(ctx, userID); err != nil {
		l.WarnContext(ctx, "Failed to settle pending payments", slog.Any("error", err))
	}

	l.InfoContext(ctx, "Subscription activated", slog.Time("expiresAt", expiresAt))
	span.SetStatus(codes.Ok, "Subscription activated")
	return nil
}

func (s *SubscriptionServiceImpl) Deactivate(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("SubscriptionService").Start(ctx, "Deactivate", trace.WithAttributes(attribute.String("user.id", userID.String())))
	defer span.End()

	if err := s.repo.UpdateSubscription(ctx, userID, types.SubscriptionInactive, nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Deactivation failed")
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	s.logger.InfoContext(ctx, "Subscription deactivated", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Subscription deactivated")
	return nil
}

func (s *SubscriptionServiceImpl) CreatePendingSubscription(ctx context.Context, userID uuid.UUID) (*types.Payment, error) {
	return s.repo.CreatePendingPayment(ctx, userID, s.cfg.Price, "pagbank")
}

func (s *SubscriptionServiceImpl) PaymentHistory(ctx context.Context, userID uuid.UUID) ([]types.Payment, error) {
	return s.repo.ListPayments(ctx, userID)
}

// CheckoutURL returns the fixed external checkout redirect and its price.
// There is no payment callback; activation is a manual admin action.
func (s *SubscriptionServiceImpl) CheckoutURL() (string, float64) {
	return s.cfg.CheckoutURL, s.cfg.Price
}

func (s *SubscriptionServiceImpl) permissiveDefault(ctx context.Context, reason string) *types.SubscriptionStatus {
	s.countCheck(ctx, reason)
	return &types.SubscriptionStatus{
		Status:        types.SubscriptionTrial,
		DataExpiracao: time.Now().AddDate(0, 0, s.cfg.TrialDays),
		DiasRestantes: s.cfg.TrialDays,
		PodeAcessar:   true,
		MostrarPopup:  false,
	}
}

func (s *SubscriptionServiceImpl) countCheck(ctx context.Context, outcome string) {
	if m := metrics.Get(); m != nil {
		m.SubscriptionChecksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}
