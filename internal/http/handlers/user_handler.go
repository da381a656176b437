// User HTTP handlers.
//
// This file exposes REST endpoints for profiles and the social graph:
//   - GET  /users/search
//   - GET  /users/{username}
//   - GET  /users/{username}/ideas
//   - POST /users/{id}/follow        (toggle)
//   - PUT  /me/profile
//   - POST /me/password
//   - POST /me/tour-complete
//   - GET  /me/bookmarks
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Abroon25/ideax/internal/services"
)

// maxAvatarBytes caps an uploaded avatar read into memory.
const maxAvatarBytes = 5 << 20

// UpdateProfileRequest is the JSON payload for profile edits. Avatar
// uploads use multipart with an "avatar" file part instead.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

// ChangePasswordRequest is the JSON payload for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// UserSearchResponse wraps a page of users.
type UserSearchResponse struct {
	Users      []any      `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Read a public profile
// @Tags        Users
// @Produce     json
// @Param       username path string true "Username"
// @Success     200 {object} services.Profile
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /users/{username} [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.Users.GetProfile(c.Request.Context(), c.Param("username"), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// UserIdeas godoc
// @ID          userIdeas
// @Summary     List a creator's ideas
// @Tags        Users
// @Produce     json
// @Param       username path  string true  "Username"
// @Param       page     query int    false "Page number" default(1)
// @Param       limit    query int    false "Items per page" default(10)
// @Success     200 {object} handlers.FeedResponse
// @Router      /users/{username}/ideas [get]
func (h *Handlers) UserIdeas(c *gin.Context) {
	p, err := h.Users.GetProfile(c.Request.Context(), c.Param("username"), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}

	page, limit := clampPagination(c)
	items, total, err := h.Ideas.ByAuthor(c.Request.Context(), p.ID, userID(c), page, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, FeedResponse{Ideas: items, Pagination: paginate(page, limit, total)})
}

// ToggleFollow godoc
// @ID          toggleFollow
// @Summary     Follow or unfollow a user
// @Tags        Users
// @Produce     json
// @Param       username path string true "Username"
// @Success     200 {object} map[string]bool
// @Failure     422 {object} handlers.ErrorResponse
// @Router      /users/{username}/follow [post]
func (h *Handlers) ToggleFollow(c *gin.Context) {
	target, err := h.Users.GetProfile(c.Request.Context(), c.Param("username"), userID(c))
	if err != nil {
		failErr(c, err)
		return
	}

	following, err := h.Users.ToggleFollow(c.Request.Context(), userID(c), target.ID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"following": following})
}

// SearchUsers godoc
// @ID          searchUsers
// @Summary     Search users
// @Tags        Users
// @Produce     json
// @Param       q     query string true  "Search query"
// @Param       page  query int    false "Page number" default(1)
// @Param       limit query int    false "Items per page" default(10)
// @Success     200 {object} handlers.UserSearchResponse
// @Router      /users/search [get]
func (h *Handlers) SearchUsers(c *gin.Context) {
	page, limit := clampPagination(c)

	users, total, err := h.Users.Search(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		failErr(c, err)
		return
	}

	out := make([]any, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}
	ok(c, http.StatusOK, UserSearchResponse{Users: out, Pagination: paginate(page, limit, total)})
}

// UpdateProfile godoc
// @ID          updateProfile
// @Summary     Edit own profile
// @Description Accepts JSON, or multipart/form-data with display_name/bio fields
// @Description and an optional "avatar" file part.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Success     200 {object} domain.User
// @Router      /me/profile [put]
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var in services.UpdateProfileInput

	if c.ContentType() == "multipart/form-data" {
		if v, set := c.GetPostForm("display_name"); set {
			in.DisplayName = &v
		}
		if v, set := c.GetPostForm("bio"); set {
			in.Bio = &v
		}
		if fh, err := c.FormFile("avatar"); err == nil {
			f, err := fh.Open()
			if err != nil {
				fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable avatar part")
				return
			}
			data, err := io.ReadAll(io.LimitReader(f, maxAvatarBytes+1))
			f.Close()
			if err != nil || int64(len(data)) > maxAvatarBytes {
				fail(c, http.StatusBadRequest, ErrCodeBadRequest, "avatar too large")
				return
			}
			in.Avatar = data
			in.AvatarName = fh.Filename
		}
	} else {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
		in.DisplayName = req.DisplayName
		in.Bio = req.Bio
	}

	u, err := h.Users.UpdateProfile(c.Request.Context(), userID(c), in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// ChangePassword godoc
// @ID          changePassword
// @Summary     Change own password
// @Tags        Users
// @Accept      json
// @Success     204 {string} string "No Content"
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /me/password [post]
func (h *Handlers) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.Users.ChangePassword(c.Request.Context(), userID(c), req.CurrentPassword, req.NewPassword); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// CompleteTour godoc
// @ID          completeTour
// @Summary     Mark the product tour finished
// @Tags        Users
// @Success     204 {string} string "No Content"
// @Router      /me/tour-complete [post]
func (h *Handlers) CompleteTour(c *gin.Context) {
	if err := h.Users.CompleteTour(c.Request.Context(), userID(c)); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// Bookmarks godoc
// @ID          myBookmarks
// @Summary     List own bookmarked ideas
// @Tags        Users
// @Produce     json
// @Param       page  query int false "Page number" default(1)
// @Param       limit query int false "Items per page" default(10)
// @Success     200 {object} handlers.FeedResponse
// @Router      /me/bookmarks [get]
func (h *Handlers) Bookmarks(c *gin.Context) {
	page, limit := clampPagination(c)

	items, total, err := h.Ideas.Bookmarked(c.Request.Context(), userID(c), page, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, FeedResponse{Ideas: items, Pagination: paginate(page, limit, total)})
}
