// Package payments integrates a Razorpay-style payment gateway: order
// creation over its REST API and local HMAC verification of the
// signature the checkout widget returns.
package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Order is the gateway-side order a client completes through checkout.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Gateway creates orders on the payment provider.
type Gateway interface {
	// CreateOrder registers an order for the given amount in paise.
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*Order, error)
}

// ErrNotConfigured is returned when no gateway credentials are set.
var ErrNotConfigured = errors.New("payment gateway not configured")

// HTTPGateway talks to the provider's orders endpoint with basic auth.
type HTTPGateway struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Client    *http.Client
}

// NewGateway returns an HTTP gateway, or nil when keyID is empty.
func NewGateway(baseURL, keyID, keySecret string) *HTTPGateway {
	if keyID == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return &HTTPGateway{
		BaseURL:   baseURL,
		KeyID:     keyID,
		KeySecret: keySecret,
		Client:    &http.Client{Timeout: 20 * time.Second},
	}
}

// CreateOrder posts to /orders and decodes the created order.
func (g *HTTPGateway) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*Order, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.KeyID, g.KeySecret)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("create order: status %d: %s", resp.StatusCode, b)
	}

	var out Order
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifySignature checks the checkout callback signature: hex-encoded
// HMAC-SHA256 of "orderID|paymentID" under the key secret. The compare
// is constant time.
func VerifySignature(keySecret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// Stub is an in-memory gateway for tests. Orders get deterministic IDs.
type Stub struct {
	Orders []Order
	// Fail makes CreateOrder return an error.
	Fail bool
}

// CreateOrder fabricates an order without any network traffic.
func (s *Stub) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*Order, error) {
	if s.Fail {
		return nil, errors.New("gateway unavailable")
	}
	o := Order{
		ID:       fmt.Sprintf("order_stub_%d", len(s.Orders)+1),
		Amount:   amountPaise,
		Currency: "INR",
		Receipt:  receipt,
	}
	s.Orders = append(s.Orders, o)
	return &o, nil
}
