// Package handlers – shared wiring.
//
// This file defines the Handlers aggregate that binds every endpoint to
// its service, plus the helpers shared across endpoints: authenticated
// user extraction, pagination clamping, and the translation of
// service-level errors into HTTP error envelopes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/http/middleware"
	"github.com/Abroon25/ideax/internal/policy"
	"github.com/Abroon25/ideax/internal/services"
	"github.com/Abroon25/ideax/internal/utils"
)

// Handlers groups the HTTP endpoints for the public API. It depends on
// concrete services wired at router setup.
type Handlers struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Genres        *services.GenreService
	Ideas         *services.IdeaService
	Interests     *services.InterestService
	Tiers         *services.TierService
	Payments      *services.PaymentService
	Analytics     *services.AnalyticsService
	Notifications *services.NotificationService
	Conversations *services.ConversationService
}

// userID extracts the authenticated user id set by the auth middleware.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// userFrom returns the authenticated user, or nil for anonymous calls.
func userFrom(c *gin.Context) *domain.User {
	return middleware.UserFrom(c)
}

// Pagination carries pagination metadata for list responses. HasMore is
// computed as (page*limit) < total.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}

// paginate builds the metadata block for one page.
func paginate(page, limit int, total int64) Pagination {
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: int64(page*limit) < total,
	}
}

// clampPagination parses and bounds page and limit query params.
func clampPagination(c *gin.Context) (page, limit int) {
	const (
		defaultPage  = 1
		defaultLimit = 10
		maxLimit     = 50
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	limit = utils.AtoiDefault(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return
}

// failErr translates a service error into the standard envelope. Policy
// violations keep their own code and computed limit; everything
// unrecognized becomes a 500.
func failErr(c *gin.Context, err error) {
	var violation *policy.Violation
	if errors.As(err, &violation) {
		fail(c, http.StatusUnprocessableEntity, violation.Code, violation.Error())
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidUpgrade):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, err.Error())

	case errors.Is(err, services.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, ErrCodeInvalidToken, err.Error())

	case errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())

	case errors.Is(err, services.ErrIdeaNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrGenreNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrConversationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrUsernameTaken):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrSelfInterest),
		errors.Is(err, services.ErrNotMonetized),
		errors.Is(err, services.ErrAlreadySold):
		fail(c, http.StatusUnprocessableEntity, ErrCodeConflict, err.Error())

	case errors.Is(err, services.ErrInvalidSignature):
		fail(c, http.StatusBadRequest, ErrCodePaymentFailed, err.Error())

	case errors.Is(err, services.ErrGatewayUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())

	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
