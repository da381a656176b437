// Business HTTP handlers: NDA generation, disputes, creator analytics,
// and the admin platform summary.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenerateNDARequest identifies the idea and buyer for an NDA.
type GenerateNDARequest struct {
	IdeaID  string `json:"idea_id" binding:"required"`
	BuyerID string `json:"buyer_id"`
}

// RaiseDisputeRequest opens a dispute on one of the caller's
// transactions.
type RaiseDisputeRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
}

// GenerateNDA godoc
// @ID          generateNDA
// @Summary     Generate an NDA for an idea negotiation
// @Tags        Business
// @Accept      json
// @Produce     json
// @Param       body body handlers.GenerateNDARequest true "NDA payload"
// @Success     201 {object} domain.NDA
// @Failure     422 {object} handlers.ErrorResponse
// @Router      /business/ndas/generate [post]
func (h *Handlers) GenerateNDA(c *gin.Context) {
	var req GenerateNDARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	nda, err := h.Interests.GenerateNDA(c.Request.Context(), userID(c), req.IdeaID, req.BuyerID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, nda)
}

// RaiseDispute godoc
// @ID          raiseDispute
// @Summary     Open a dispute on a transaction
// @Tags        Business
// @Accept      json
// @Produce     json
// @Param       body body handlers.RaiseDisputeRequest true "Dispute payload"
// @Success     201 {object} domain.Dispute
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /business/disputes [post]
func (h *Handlers) RaiseDispute(c *gin.Context) {
	var req RaiseDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	dispute, err := h.Interests.RaiseDispute(c.Request.Context(), userID(c), req.TransactionID, req.Reason)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, dispute)
}

// CreatorAnalytics godoc
// @ID          creatorAnalytics
// @Summary     Own creator analytics
// @Tags        Business
// @Produce     json
// @Success     200 {object} services.CreatorSummary
// @Router      /business/analytics [get]
func (h *Handlers) CreatorAnalytics(c *gin.Context) {
	summary, err := h.Analytics.CreatorSummary(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, summary)
}

// AdminStats godoc
// @ID          adminStats
// @Summary     Platform totals (admin only)
// @Tags        Business
// @Produce     json
// @Success     200 {object} repo.PlatformStats
// @Failure     403 {object} handlers.ErrorResponse
// @Router      /business/admin/stats [get]
func (h *Handlers) AdminStats(c *gin.Context) {
	stats, err := h.Analytics.PlatformStats(c.Request.Context(), userFrom(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}
