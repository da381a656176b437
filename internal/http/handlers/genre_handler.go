// Genre HTTP handlers: catalog listing and the onboarding selection.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SelectGenresRequest is the JSON payload for the onboarding selection.
type SelectGenresRequest struct {
	GenreIDs []string `json:"genre_ids" binding:"required"`
}

// ListGenres godoc
// @ID          listGenres
// @Summary     List the genre catalog
// @Tags        Genres
// @Produce     json
// @Success     200 {array} domain.Genre
// @Router      /genres [get]
func (h *Handlers) ListGenres(c *gin.Context) {
	genres, err := h.Genres.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, genres)
}

// SelectGenres godoc
// @ID          selectGenres
// @Summary     Pick onboarding genres (1-10), replacing any prior pick
// @Tags        Genres
// @Accept      json
// @Produce     json
// @Param       body body handlers.SelectGenresRequest true "Genre IDs"
// @Success     200 {array} domain.UserGenre
// @Failure     400 {object} handlers.ErrorResponse
// @Router      /genres/select [post]
func (h *Handlers) SelectGenres(c *gin.Context) {
	var req SelectGenresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	selection, err := h.Genres.Select(c.Request.Context(), userID(c), req.GenreIDs)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, selection)
}

// MyGenres godoc
// @ID          myGenres
// @Summary     List own genre selection
// @Tags        Genres
// @Produce     json
// @Success     200 {array} domain.UserGenre
// @Router      /genres/mine [get]
func (h *Handlers) MyGenres(c *gin.Context) {
	selection, err := h.Genres.Mine(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, selection)
}
