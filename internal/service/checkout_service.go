package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/shopspring/decimal"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/config"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/repository"
)

var (
	ErrUnknownPurchaseType = errors.New("unknown purchase type")
	ErrAmountMismatch      = errors.New("amount does not match the listed price")
)

// CheckoutService issues sandbox payment authorizations and records custom
// requests. It never talks to a real payment provider.
type CheckoutService struct {
	workflows *repository.WorkflowRepository
	payments  *repository.PaymentRepository
	requests  *repository.CustomRequestRepository
	pricing   config.Pricing
	baseURL   string
	log       zerolog.Logger
	now       func() time.Time
}

func NewCheckoutService(
	workflows *repository.WorkflowRepository,
	payments *repository.PaymentRepository,
	requests *repository.CustomRequestRepository,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		workflows: workflows,
		payments:  payments,
		requests:  requests,
		pricing:   cfg.Pricing,
		baseURL:   strings.TrimRight(cfg.Stub.CheckoutBaseURL, "/"),
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type PaymentInput struct {
	User         models.User
	Email        string
	Amount       decimal.Decimal
	PurchaseType models.PurchaseKind
	WorkflowID   *int64
	WorkflowName string
}

type PaymentResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// InitializePayment re-prices the purchase from the catalog and refuses any
// amount that differs from it.
func (s *CheckoutService) InitializePayment(ctx context.Context, input PaymentInput) (PaymentResult, error) {
	expected, name, err := s.price(ctx, input)
	if err != nil {
		return PaymentResult{}, err
	}
	if !input.Amount.Equal(expected) {
		s.log.Warn().
			Str("user_id", input.User.ID).
			Str("requested", input.Amount.String()).
			Str("expected", expected.String()).
			Msg("payment amount mismatch")
		return PaymentResult{}, ErrAmountMismatch
	}

	id := ksuid.New().String()
	reference := "VEXA-" + id
	// The tail of a KSUID is its random payload.
	accessCode := strings.ToLower(id[len(id)-12:])
	payment := models.Payment{
		Reference:    reference,
		AccessCode:   accessCode,
		UserID:       input.User.ID,
		Email:        input.Email,
		Amount:       expected,
		PurchaseType: input.PurchaseType,
		WorkflowID:   input.WorkflowID,
		WorkflowName: name,
		Status:       models.PaymentPending,
		CreatedAt:    s.now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return PaymentResult{}, fmt.Errorf("record payment: %w", err)
	}

	s.log.Info().
		Str("reference", reference).
		Str("purchase_type", string(input.PurchaseType)).
		Str("amount", expected.String()).
		Msg("payment initialized")

	return PaymentResult{
		AuthorizationURL: s.baseURL + "/" + accessCode,
		AccessCode:       accessCode,
		Reference:        reference,
	}, nil
}

func (s *CheckoutService) price(ctx context.Context, input PaymentInput) (decimal.Decimal, string, error) {
	switch input.PurchaseType {
	case models.PurchaseAllAccess:
		return s.pricing.AllAccess, models.AllAccessName, nil
	case models.PurchaseSingle:
		if input.WorkflowID == nil {
			return decimal.Decimal{}, "", repository.ErrWorkflowNotFound
		}
		item, err := s.workflows.GetActive(ctx, *input.WorkflowID)
		if err != nil {
			return decimal.Decimal{}, "", err
		}
		if !item.Price.IsPositive() {
			return s.pricing.SingleWorkflow, item.Name, nil
		}
		return item.Price, item.Name, nil
	default:
		return decimal.Decimal{}, "", ErrUnknownPurchaseType
	}
}

func (s *CheckoutService) ListCustomRequests(ctx context.Context, limit, offset int) ([]models.CustomRequestRecord, error) {
	return s.requests.List(ctx, limit, offset)
}

func (s *CheckoutService) SubmitCustomRequest(ctx context.Context, request models.CustomRequest) (int64, error) {
	id, err := s.requests.Create(ctx, models.CustomRequestRecord{
		CustomRequest: request,
		Status:        "new",
		CreatedAt:     s.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("store custom request: %w", err)
	}
	s.log.Info().Int64("request_id", id).Str("email", request.Email).Msg("custom request received")
	return id, nil
}
