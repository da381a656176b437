// Idea HTTP handlers.
//
// This file exposes REST endpoints for idea resources:
//   - POST   /ideas                     (create, multipart or JSON)
//   - GET    /ideas/feed                (paginated, filter + personalization)
//   - GET    /ideas/search              (substring search)
//   - GET    /ideas/{id}               (read, counts view)
//   - PUT    /ideas/{id}               (owner edit)
//   - DELETE /ideas/{id}               (owner delete)
//   - POST   /ideas/{id}/like          (toggle)
//   - POST   /ideas/{id}/bookmark      (toggle)
//   - POST   /ideas/{id}/comments      (comment or reply)
//   - GET    /ideas/{id}/comments      (threads)
//   - POST   /ideas/{id}/interest      (express interest)
//   - GET    /ideas/{id}/interests     (author only)
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/services"
)

// maxAttachmentBytes caps a single uploaded file read into memory.
const maxAttachmentBytes = 1 << 30

// CreateIdeaRequest is the JSON (or multipart "payload" field) body for
// creating an idea.
type CreateIdeaRequest struct {
	Content  string `json:"content" binding:"required"`
	GenreID  string `json:"genre_id" binding:"required"`
	IsPublic *bool  `json:"is_public"`

	MonetizeType    string   `json:"monetize_type"`
	AskingPrice     *float64 `json:"asking_price"`
	ProfitSharePct  *float64 `json:"profit_share_pct"`
	ShareHoldingPct *float64 `json:"share_holding_pct"`

	CharUnitsTxID    string `json:"char_units_tx_id"`
	StorageUnitsTxID string `json:"storage_units_tx_id"`
	MonetizeTxID     string `json:"monetize_tx_id"`
}

// UpdateIdeaRequest is the JSON payload for editing idea content.
type UpdateIdeaRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentRequest is the JSON payload for commenting.
type CommentRequest struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *string `json:"parent_id"`
}

// InterestRequest is the JSON payload for expressing interest.
type InterestRequest struct {
	Message     string   `json:"message"`
	OfferAmount *float64 `json:"offer_amount"`
}

// FeedResponse wraps a page of ideas and pagination information.
type FeedResponse struct {
	Ideas      []services.IdeaView `json:"ideas"`
	Pagination Pagination          `json:"pagination"`
}

// CreateIdea godoc
// @ID          createIdea
// @Summary     Post a new idea
// @Description Creates an idea under the caller's tier limits. Accepts JSON, or
// @Description multipart/form-data with a "payload" JSON field plus "files" parts.
// @Tags        Ideas
// @Accept      json
// @Produce     json
// @Param       body body handlers.CreateIdeaRequest true "Idea payload"
// @Success     201 {object} domain.Idea
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     422 {object} handlers.ErrorResponse "Policy violation"
// @Router      /ideas [post]
func (h *Handlers) CreateIdea(c *gin.Context) {
	req, attachments, ok2 := h.bindCreateIdea(c)
	if !ok2 {
		return
	}

	monetize := domain.MonetizeNone
	if req.MonetizeType != "" {
		monetize = domain.MonetizeType(req.MonetizeType)
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	idea, err := h.Ideas.Create(c.Request.Context(), userFrom(c), services.CreateIdeaInput{
		Content:          req.Content,
		GenreID:          req.GenreID,
		IsPublic:         isPublic,
		MonetizeType:     monetize,
		AskingPrice:      req.AskingPrice,
		ProfitSharePct:   req.ProfitSharePct,
		ShareHoldingPct:  req.ShareHoldingPct,
		CharUnitsTxID:    req.CharUnitsTxID,
		StorageUnitsTxID: req.StorageUnitsTxID,
		MonetizeTxID:     req.MonetizeTxID,
		Attachments:      attachments,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, idea)
}

// bindCreateIdea parses the create payload from JSON or multipart form.
func (h *Handlers) bindCreateIdea(c *gin.Context) (CreateIdeaRequest, []services.AttachmentInput, bool) {
	var req CreateIdeaRequest

	ct := c.ContentType()
	if ct != "multipart/form-data" {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return req, nil, false
		}
		return req, nil, true
	}

	payload := c.PostForm("payload")
	if payload == "" || json.Unmarshal([]byte(payload), &req) != nil || req.Content == "" || req.GenreID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart form requires a valid payload field")
		return req, nil, false
	}

	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid multipart form")
		return req, nil, false
	}

	var attachments []services.AttachmentInput
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable file part")
			return req, nil, false
		}
		data, err := io.ReadAll(io.LimitReader(f, maxAttachmentBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > maxAttachmentBytes {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file too large")
			return req, nil, false
		}
		attachments = append(attachments, services.AttachmentInput{
			FileName: fh.Filename,
			FileType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return req, attachments, true
}

// Feed godoc
// @ID          ideaFeed
// @Summary     Browse the idea feed
// @Tags        Ideas
// @Produce     json
// @Param       page          query int    false "Page number" default(1)
// @Param       limit         query int    false "Items per page" default(10)
// @Param       category      query string false "Category filter"
// @Param       genre_id      query string false "Genre filter"
// @Param       monetize_type query string false "Monetize type filter"
// @Param       sort          query string false "latest or popular" default(latest)
// @Success     200 {object} handlers.FeedResponse
// @Router      /ideas/feed [get]
func (h *Handlers) Feed(c *gin.Context) {
	page, limit := clampPagination(c)

	items, total, err := h.Ideas.Feed(c.Request.Context(), userID(c), services.FeedQuery{
		Page:         page,
		Limit:        limit,
		Category:     c.Query("category"),
		GenreID:      c.Query("genre_id"),
		MonetizeType: c.Query("monetize_type"),
		Sort:         c.DefaultQuery("sort", "latest"),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, FeedResponse{Ideas: items, Pagination: paginate(page, limit, total)})
}

// SearchIdeas godoc
// @ID          searchIdeas
// @Summary     Search ideas
// @Tags        Ideas
// @Produce     json
// @Param       q     query string true  "Search query"
// @Param       page  query int    false "Page number" default(1)
// @Param       limit query int    false "Items per page" default(10)
// @Success     200 {object} handlers.FeedResponse
// @Router      /ideas/search [get]
func (h *Handlers) SearchIdeas(c *gin.Context) {
	page, limit := clampPagination(c)

	items, total, err := h.Ideas.Search(c.Request.Context(), userID(c), c.Query("q"), page, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, FeedResponse{Ideas: items, Pagination: paginate(page, limit, total)})
}

// GetIdea godoc
// @ID          getIdea
// @Summary     Read one idea
// @Tags        Ideas
// @Produce     json
// @Param       id path string true "Idea ID (UUID)" format(uuid)
// @Success     200 {object} services.IdeaView
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /ideas/{id} [get]
func (h *Handlers) GetIdea(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "idea id must be a UUID")
		return
	}

	view, err := h.Ideas.Get(c.Request.Context(), id, userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// UpdateIdea godoc
// @ID          updateIdea
// @Summary     Edit an idea's content
// @Tags        Ideas
// @Accept      json
// @Produce     json
// @Param       id   path string true "Idea ID (UUID)" format(uuid)
// @Param       body body handlers.UpdateIdeaRequest true "New content"
// @Success     200 {object} domain.Idea
// @Failure     403 {object} handlers.ErrorResponse
// @Failure     422 {object} handlers.ErrorResponse "Policy violation"
// @Router      /ideas/{id} [put]
func (h *Handlers) UpdateIdea(c *gin.Context) {
	var req UpdateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	idea, err := h.Ideas.Update(c.Request.Context(), userFrom(c), c.Param("id"), req.Content)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, idea)
}

// DeleteIdea godoc
// @ID          deleteIdea
// @Summary     Delete an idea
// @Tags        Ideas
// @Param       id path string true "Idea ID (UUID)" format(uuid)
// @Success     204 {string} string "No Content"
// @Failure     403 {object} handlers.ErrorResponse
// @Router      /ideas/{id} [delete]
func (h *Handlers) DeleteIdea(c *gin.Context) {
	if err := h.Ideas.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ToggleLike godoc
// @ID          toggleLike
// @Summary     Like or unlike an idea
// @Tags        Ideas
// @Produce     json
// @Param       id path string true "Idea ID (UUID)" format(uuid)
// @Success     200 {object} map[string]bool
// @Router      /ideas/{id}/like [post]
func (h *Handlers) ToggleLike(c *gin.Context) {
	liked, err := h.Ideas.ToggleLike(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"liked": liked})
}

// ToggleBookmark godoc
// @ID          toggleBookmark
// @Summary     Bookmark or unbookmark an idea
// @Tags        Ideas
// @Produce     json
// @Param       id path string true "Idea ID (UUID)" format(uuid)
// @Success     200 {object} map[string]bool
// @Router      /ideas/{id}/bookmark [post]
func (h *Handlers) ToggleBookmark(c *gin.Context) {
	bookmarked, err := h.Ideas.ToggleBookmark(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"bookmarked": bookmarked})
}

// PostComment godoc
// @ID          postComment
// @Summary     Comment on an idea
// @Tags        Ideas
// @Accept      json
// @Produce     json
// @Param       id   path string true "Idea ID (UUID)" format(uuid)
// @Param       body body handlers.CommentRequest true "Comment payload"
// @Success     201 {object} domain.Comment
// @Router      /ideas/{id}/comments [post]
func (h *Handlers) PostComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	comment, err := h.Ideas.Comment(c.Request.Context(), userID(c), c.Param("id"), req.Content, req.ParentID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, comment)
}

// ListComments godoc
// @ID          listComments
// @Summary     List an idea's comment threads
// @Tags        Ideas
// @Produce     json
// @Param       id path string true "Idea ID (UUID)" format(uuid)
// @Success     200 {array} services.CommentThread
// @Router      /ideas/{id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	threads, err := h.Ideas.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, threads)
}

// ExpressInterest godoc
// @ID          expressInterest
// @Summary     Express interest in a monetized idea
// @Tags        Ideas
// @Accept      json
// @Produce     json
// @Param       id   path string true "Idea ID (UUID)" format(uuid)
// @Param       body body handlers.InterestRequest true "Interest payload"
// @Success     201 {object} domain.IdeaInterest
// @Failure     422 {object} handlers.ErrorResponse
// @Router      /ideas/{id}/interest [post]
func (h *Handlers) ExpressInterest(c *gin.Context) {
	var req InterestRequest
	_ = c.ShouldBindJSON(&req)

	interest, err := h.Interests.Express(c.Request.Context(), userID(c), c.Param("id"), req.Message, req.OfferAmount)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, interest)
}

// ListInterests godoc
// @ID          listInterests
// @Summary     List interests on an owned idea
// @Tags        Ideas
// @Produce     json
// @Param       id path string true "Idea ID (UUID)" format(uuid)
// @Success     200 {array} domain.IdeaInterest
// @Failure     403 {object} handlers.ErrorResponse
// @Router      /ideas/{id}/interests [get]
func (h *Handlers) ListInterests(c *gin.Context) {
	interests, err := h.Interests.List(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, interests)
}
