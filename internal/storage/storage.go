// Package storage abstracts the object store that hosts idea attachments
// and avatars. Uploads and deletes are best-effort side channels of the
// operations that trigger them: failures are logged by callers and never
// fail the primary request.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UploadResult identifies a stored object: its public URL and the remote
// ID needed to delete it later.
type UploadResult struct {
	URL      string
	RemoteID string
}

// Uploader is the object-storage contract consumed by the idea and user
// services.
type Uploader interface {
	// Upload stores data under the given folder and returns its location.
	Upload(ctx context.Context, data []byte, fileName, folder string) (*UploadResult, error)
	// Delete removes the object; callers treat errors as log-only.
	Delete(ctx context.Context, remoteID string) error
}

// ErrNotConfigured is returned by the disabled uploader.
var ErrNotConfigured = errors.New("object storage not configured")

// HTTPUploader talks to a Cloudinary-style unsigned upload endpoint:
// multipart POST to <BaseURL>/upload, DELETE to <BaseURL>/<id>.
type HTTPUploader struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPUploader builds an uploader against baseURL, or nil when baseURL
// is empty (callers fall back to the disabled uploader).
func NewHTTPUploader(baseURL, apiKey string) *HTTPUploader {
	if baseURL == "" {
		return nil
	}
	return &HTTPUploader{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload posts the file as multipart form data and decodes the returned
// {url, id} document.
func (u *HTTPUploader) Upload(ctx context.Context, data []byte, fileName, folder string) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("folder", folder); err != nil {
		return nil, err
	}
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if u.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.APIKey)
	}

	resp, err := u.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("storage upload: status %d: %s", resp.StatusCode, b)
	}

	var out struct {
		URL string `json:"url"`
		ID  string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &UploadResult{URL: out.URL, RemoteID: out.ID}, nil
}

// Delete removes a stored object by its remote ID.
func (u *HTTPUploader) Delete(ctx context.Context, remoteID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u.BaseURL+"/"+remoteID, nil)
	if err != nil {
		return err
	}
	if u.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.APIKey)
	}
	resp, err := u.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("storage delete: status %d", resp.StatusCode)
	}
	return nil
}

// Disabled is the no-op uploader used when no storage endpoint is
// configured. Uploads fail with ErrNotConfigured (logged by callers as a
// skipped attachment); deletes succeed silently.
type Disabled struct{}

// Upload always fails with ErrNotConfigured.
func (Disabled) Upload(ctx context.Context, data []byte, fileName, folder string) (*UploadResult, error) {
	log.Debug().Str("file", fileName).Msg("storage disabled, upload skipped")
	return nil, ErrNotConfigured
}

// Delete is a no-op.
func (Disabled) Delete(ctx context.Context, remoteID string) error { return nil }

// Memory is an in-memory uploader used by tests. It records every upload
// and delete it sees.
type Memory struct {
	Uploads []string
	Deletes []string
	// FailUploads makes Upload return an error, to exercise best-effort
	// paths.
	FailUploads bool
}

// Upload stores the file name and fabricates a stable result.
func (m *Memory) Upload(ctx context.Context, data []byte, fileName, folder string) (*UploadResult, error) {
	if m.FailUploads {
		return nil, errors.New("upload failed")
	}
	id := uuid.NewString()
	m.Uploads = append(m.Uploads, fileName)
	return &UploadResult{URL: "mem://" + folder + "/" + fileName, RemoteID: id}, nil
}

// Delete records the remote ID.
func (m *Memory) Delete(ctx context.Context, remoteID string) error {
	m.Deletes = append(m.Deletes, remoteID)
	return nil
}
