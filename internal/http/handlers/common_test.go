package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Abroon25/ideax/internal/policy"
	"github.com/Abroon25/ideax/internal/services"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		page, limit int
		total       int64
		hasMore     bool
	}{
		{1, 10, 25, true},
		{2, 10, 25, true},
		{3, 10, 25, false},
		{1, 10, 10, false},
		{1, 10, 0, false},
	}
	for _, tc := range cases {
		p := paginate(tc.page, tc.limit, tc.total)
		if p.HasMore != tc.hasMore {
			t.Fatalf("paginate(%d, %d, %d).HasMore = %v; want %v", tc.page, tc.limit, tc.total, p.HasMore, tc.hasMore)
		}
		if p.Page != tc.page || p.Limit != tc.limit || p.Total != tc.total {
			t.Fatalf("metadata wrong: %+v", p)
		}
	}
}

func TestClampPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"page=3&limit=25", 3, 25},
		{"page=-1&limit=0", 1, 10},
		{"page=abc&limit=xyz", 1, 10},
		{"limit=500", 1, 50},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/x?"+tc.query, nil)
		page, limit := clampPagination(c)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Fatalf("clampPagination(%q) = %d, %d; want %d, %d", tc.query, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}

func TestFailErr_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", services.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
		{"weak password", services.ErrWeakPassword, http.StatusBadRequest, ErrCodeBadRequest},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{"stale token", services.ErrInvalidToken, http.StatusUnauthorized, ErrCodeInvalidToken},
		{"not owner", services.ErrNotOwner, http.StatusForbidden, ErrCodeForbidden},
		{"idea missing", services.ErrIdeaNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"email taken", services.ErrEmailTaken, http.StatusConflict, ErrCodeConflict},
		{"self follow", services.ErrSelfFollow, http.StatusUnprocessableEntity, ErrCodeConflict},
		{"bad signature", services.ErrInvalidSignature, http.StatusBadRequest, ErrCodePaymentFailed},
		{"gateway down", services.ErrGatewayUnavailable, http.StatusServiceUnavailable, ErrCodeUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			failErr(c, tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", w.Code, tc.wantStatus)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad envelope: %v", err)
			}
			if resp.Code != tc.wantCode {
				t.Fatalf("code = %q; want %q", resp.Code, tc.wantCode)
			}
		})
	}
}

func TestFailErr_PolicyViolationKeepsItsCode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	failErr(c, &policy.Violation{
		Code:                policy.ReasonContentTooLong,
		Limit:               500,
		PayPerPostAvailable: true,
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d; want 422", w.Code)
	}
	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != policy.ReasonContentTooLong {
		t.Fatalf("violation code lost: %q", resp.Code)
	}
	if resp.Message != "exceeds character limit, max is 500" {
		t.Fatalf("message should carry the limit: %q", resp.Message)
	}
}

func TestErrorCodeValues(t *testing.T) {
	if ErrCodeNotFound != "not_found" || ErrCodeRateLimited != "too_many_requests" {
		t.Fatalf("error code constants drifted")
	}
}
