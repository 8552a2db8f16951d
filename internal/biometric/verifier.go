// Package biometric calls the external photo-match service that compares a
// selfie against an identity document portrait.
package biometric

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/freshmarket/freshmarket/pkg/httpclient"
)

// Verifier decides whether the submitted photo matches the document portrait.
type Verifier interface {
	// Match reports whether the two images show the same person. An error
	// means the check could not be performed; callers must not treat that as
	// a mismatch.
	Match(ctx context.Context, documentImageURL, photoImageURL string) (bool, error)
}

// ErrUnavailable is returned when the photo-match service cannot be reached,
// including when the circuit breaker is open.
var ErrUnavailable = errors.New("photo match service unavailable")

// HTTPVerifier is a Verifier backed by the photo-match HTTP API, called
// through a circuit breaker.
type HTTPVerifier struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewHTTPVerifier creates a verifier for the photo-match service at baseURL.
func NewHTTPVerifier(client *httpclient.CircuitBreakerClient, baseURL string, logger *slog.Logger) *HTTPVerifier {
	return &HTTPVerifier{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

type matchRequest struct {
	DocumentImageURL string `json:"document_image_url"`
	PhotoImageURL    string `json:"photo_image_url"`
}

type matchResponse struct {
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
}

// Match posts both image URLs to the photo-match service and returns its verdict.
func (v *HTTPVerifier) Match(ctx context.Context, documentImageURL, photoImageURL string) (bool, error) {
	payload, err := json.Marshal(matchRequest{
		DocumentImageURL: documentImageURL,
		PhotoImageURL:    photoImageURL,
	})
	if err != nil {
		return false, fmt.Errorf("marshal match request: %w", err)
	}

	resp, err := v.client.Post(ctx, v.baseURL+"/v1/match", "application/json", bytes.NewReader(payload))
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			v.logger.WarnContext(ctx, "photo match circuit open")
			return false, ErrUnavailable
		}
		return false, fmt.Errorf("call photo match service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return false, fmt.Errorf("photo match service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result matchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode match response: %w", err)
	}

	return result.Match, nil
}

// StaticVerifier is a Verifier with a fixed verdict. Useful in tests and in
// environments without a photo-match service.
type StaticVerifier struct {
	Verdict bool
	Err     error
}

// Match returns the configured verdict.
func (s StaticVerifier) Match(context.Context, string, string) (bool, error) {
	return s.Verdict, s.Err
}
