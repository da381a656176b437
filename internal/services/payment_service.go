// Package services – PaymentService
//
// This file implements the two-step payment flow: CreateOrder registers
// a PENDING transaction and a gateway order, then Verify checks the
// checkout signature and settles the transaction. A TIER_UPGRADE that
// verifies also applies the tier. Signature verification happens locally
// with the gateway key secret; no gateway round-trip is needed on the
// settle path.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/payments"
	"github.com/Abroon25/ideax/internal/repo"
	"github.com/Abroon25/ideax/internal/tier"
)

// OrderRequest describes what the user is paying for.
type OrderRequest struct {
	Type domain.TxType
	// Tier is required for TIER_UPGRADE.
	Tier domain.Tier
	// Units is required for the char/storage pay-per-post types.
	Units int
}

// CreatedOrder pairs the local transaction with the gateway order the
// client completes through checkout.
type CreatedOrder struct {
	TransactionID string `json:"transaction_id"`
	OrderID       string `json:"order_id"`
	// AmountPaise is the charge in the gateway's smallest unit.
	AmountPaise int64  `json:"amount_paise"`
	Currency    string `json:"currency"`
}

// PaymentService owns order creation and verification.
type PaymentService struct {
	DB        *gorm.DB
	Gateway   payments.Gateway
	KeySecret string
	Tiers     *TierService
}

// NewPaymentService constructs a PaymentService. gateway may be nil when
// payments are not configured; order creation then fails with
// ErrGatewayUnavailable.
func NewPaymentService(db *gorm.DB, gateway payments.Gateway, keySecret string, tiers *TierService) *PaymentService {
	return &PaymentService{DB: db, Gateway: gateway, KeySecret: keySecret, Tiers: tiers}
}

// CreateOrder prices the request, registers a gateway order, and stores
// a PENDING transaction carrying the purchase metadata.
func (s *PaymentService) CreateOrder(ctx context.Context, userID string, req OrderRequest) (*CreatedOrder, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "CreateOrder",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("tx.type", string(req.Type)),
		),
	)
	defer span.End()

	if s.Gateway == nil {
		return nil, ErrGatewayUnavailable
	}

	amount, txn, err := s.price(userID, req)
	if err != nil {
		return nil, err
	}

	order, err := s.Gateway.CreateOrder(ctx, amount*100, "txn_"+txn.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("gateway order creation failed")
		return nil, ErrGatewayUnavailable
	}
	txn.OrderID = order.ID
	txn.Amount = amount

	if err := repo.CreateTransaction(ctx, s.DB, txn); err != nil {
		return nil, err
	}
	return &CreatedOrder{
		TransactionID: txn.ID,
		OrderID:       order.ID,
		AmountPaise:   order.Amount,
		Currency:      order.Currency,
	}, nil
}

// Verify settles the transaction for the given gateway callback. A bad
// signature marks the transaction FAILED and returns
// ErrInvalidSignature; a good one marks it COMPLETED and applies any
// tier upgrade it carries.
func (s *PaymentService) Verify(ctx context.Context, userID, transactionID, paymentID, signature string) (*domain.Transaction, error) {
	tr := otel.Tracer("services/PaymentService")
	ctx, span := tr.Start(ctx, "Verify",
		trace.WithAttributes(attribute.String("tx.id", transactionID)),
	)
	defer span.End()

	txn, err := repo.GetTransaction(ctx, s.DB, transactionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if txn.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	if txn.Status != domain.TxPending {
		// Settled transactions are immutable; re-verification of a
		// completed one is idempotent.
		if txn.Status == domain.TxCompleted {
			return txn, nil
		}
		return nil, ErrInvalidSignature
	}

	if !payments.VerifySignature(s.KeySecret, txn.OrderID, paymentID, signature) {
		if err := repo.MarkTransactionFailed(ctx, s.DB, txn.ID); err != nil {
			return nil, err
		}
		log.Warn().Str("tx.id", txn.ID).Msg("payment signature mismatch")
		return nil, ErrInvalidSignature
	}

	if err := repo.MarkTransactionCompleted(ctx, s.DB, txn.ID, paymentID, signature); err != nil {
		return nil, err
	}
	txn.Status = domain.TxCompleted
	txn.PaymentID = paymentID
	txn.Signature = signature

	if txn.Type == domain.TxTierUpgrade {
		if err := s.Tiers.ApplyUpgrade(ctx, userID, txn.MetaTier); err != nil {
			return nil, err
		}
	}
	return txn, nil
}

// List returns the caller's most recent transactions.
func (s *PaymentService) List(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return repo.ListTransactions(ctx, s.DB, userID, 50)
}

// price computes the charge in rupees and the transaction skeleton for a
// request.
func (s *PaymentService) price(userID string, req OrderRequest) (int64, *domain.Transaction, error) {
	txn := &domain.Transaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   req.Type,
		Status: domain.TxPending,
	}

	switch req.Type {
	case domain.TxTierUpgrade:
		limits, err := tier.Lookup(req.Tier)
		if err != nil || req.Tier == domain.TierFree {
			return 0, nil, ErrInvalidUpgrade
		}
		txn.MetaTier = req.Tier
		return limits.MonthlyPrice, txn, nil

	case domain.TxPayPerPostChars:
		if req.Units < 1 {
			return 0, nil, fmt.Errorf("%w: units", ErrInvalidInput)
		}
		txn.MetaCharUnits = req.Units
		return int64(req.Units) * tier.UnitPriceChars, txn, nil

	case domain.TxPayPerPostStorage:
		if req.Units < 1 {
			return 0, nil, fmt.Errorf("%w: units", ErrInvalidInput)
		}
		txn.MetaStorageUnits = req.Units
		return int64(req.Units) * tier.UnitPriceStorage, txn, nil

	case domain.TxPayPerPostMonetize:
		return tier.MonetizeUnlockPrice, txn, nil

	default:
		return 0, nil, fmt.Errorf("%w: type", ErrInvalidInput)
	}
}
