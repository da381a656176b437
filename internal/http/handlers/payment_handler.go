// Payment and tier HTTP handlers.
//
// This file exposes:
//   - GET  /tiers                      (tier ladder + pay-per-post rates)
//   - POST /payments/create-order
//   - POST /payments/verify
//   - GET  /payments/transactions
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/services"
	"github.com/Abroon25/ideax/internal/tier"
)

// CreateOrderRequest is the JSON payload for starting a payment.
type CreateOrderRequest struct {
	// Type is TIER_UPGRADE, PAY_PER_POST_CHARS, PAY_PER_POST_STORAGE, or
	// PAY_PER_POST_MONETIZE.
	Type  string `json:"type" binding:"required"`
	Tier  string `json:"tier"`
	Units int    `json:"units"`
}

// VerifyPaymentRequest is the gateway checkout callback payload.
type VerifyPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	PaymentID     string `json:"payment_id" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

// TiersResponse pairs the tier ladder with the pay-per-post rate table.
type TiersResponse struct {
	Tiers      map[domain.Tier]tier.Limits `json:"tiers"`
	PayPerPost PayPerPostRates             `json:"pay_per_post"`
}

// PayPerPostRates is the one-off purchase rate table.
type PayPerPostRates struct {
	CharsPerUnit        int   `json:"chars_per_unit"`
	UnitPriceChars      int64 `json:"unit_price_chars"`
	StorageMBPerUnit    int   `json:"storage_mb_per_unit"`
	UnitPriceStorage    int64 `json:"unit_price_storage"`
	MonetizeUnlockPrice int64 `json:"monetize_unlock_price"`
}

// ListTiers godoc
// @ID          listTiers
// @Summary     Tier ladder and pay-per-post pricing
// @Tags        Payments
// @Produce     json
// @Success     200 {object} handlers.TiersResponse
// @Router      /tiers [get]
func (h *Handlers) ListTiers(c *gin.Context) {
	ok(c, http.StatusOK, TiersResponse{
		Tiers: h.Tiers.Catalog(),
		PayPerPost: PayPerPostRates{
			CharsPerUnit:        tier.CharsPerUnit,
			UnitPriceChars:      tier.UnitPriceChars,
			StorageMBPerUnit:    tier.StorageMBPerUnit,
			UnitPriceStorage:    tier.UnitPriceStorage,
			MonetizeUnlockPrice: tier.MonetizeUnlockPrice,
		},
	})
}

// CreateOrder godoc
// @ID          createOrder
// @Summary     Start a payment
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       body body handlers.CreateOrderRequest true "Order payload"
// @Success     201 {object} services.CreatedOrder
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     503 {object} handlers.ErrorResponse "Gateway unavailable"
// @Router      /payments/create-order [post]
func (h *Handlers) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	order, err := h.Payments.CreateOrder(c.Request.Context(), userID(c), services.OrderRequest{
		Type:  domain.TxType(req.Type),
		Tier:  domain.Tier(req.Tier),
		Units: req.Units,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, order)
}

// VerifyPayment godoc
// @ID          verifyPayment
// @Summary     Verify a checkout signature and settle the transaction
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       body body handlers.VerifyPaymentRequest true "Checkout callback"
// @Success     200 {object} domain.Transaction
// @Failure     400 {object} handlers.ErrorResponse "Signature mismatch"
// @Router      /payments/verify [post]
func (h *Handlers) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	txn, err := h.Payments.Verify(c.Request.Context(), userID(c), req.TransactionID, req.PaymentID, req.Signature)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, txn)
}

// ListTransactions godoc
// @ID          listTransactions
// @Summary     List own recent transactions
// @Tags        Payments
// @Produce     json
// @Success     200 {array} domain.Transaction
// @Router      /payments/transactions [get]
func (h *Handlers) ListTransactions(c *gin.Context) {
	txns, err := h.Payments.List(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, txns)
}
