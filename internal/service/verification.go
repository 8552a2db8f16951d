package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/freshmarket/freshmarket/internal/biometric"
	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/event"
	"github.com/freshmarket/freshmarket/internal/repository"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// VerificationService implements the identity verification workflow. A
// submission runs the document checks and the photo match synchronously and
// settles to verified or rejected; when the photo-match service is down the
// record stays unverified until resubmission.
type VerificationService struct {
	repo     repository.VerificationRepository
	verifier biometric.Verifier
	producer *event.Producer
	logger   *slog.Logger
}

// NewVerificationService creates a new verification service.
func NewVerificationService(repo repository.VerificationRepository, verifier biometric.Verifier, producer *event.Producer, logger *slog.Logger) *VerificationService {
	return &VerificationService{
		repo:     repo,
		verifier: verifier,
		producer: producer,
		logger:   logger,
	}
}

// SubmitVerificationInput holds the parameters for an identity submission.
type SubmitVerificationInput struct {
	UserID           string
	DocumentType     string
	DocumentNumber   string
	DocumentImageURL string
	PhotoImageURL    string
}

// Submit creates a verification record and runs the checks. An unknown
// document type is rejected outright without creating a record.
func (s *VerificationService) Submit(ctx context.Context, input *SubmitVerificationInput) (*domain.IDVerification, error) {
	if !domain.IsValidDocumentType(input.DocumentType) {
		return nil, apperrors.FieldError("document_type", "Document type must be one of: national_id, passport, driving_license.")
	}
	if input.DocumentImageURL == "" {
		return nil, apperrors.FieldError("document_image", "Document image is required.")
	}
	if input.PhotoImageURL == "" {
		return nil, apperrors.FieldError("photo_image", "Photo image is required.")
	}

	if existing, err := s.repo.GetByUser(ctx, input.UserID); err == nil && existing.IsVerified() {
		return nil, apperrors.Conflict("user is already verified")
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check existing verification: %w", err)
	}

	now := time.Now().UTC()
	v := &domain.IDVerification{
		ID:               uuid.New().String(),
		UserID:           input.UserID,
		DocumentType:     input.DocumentType,
		DocumentNumber:   input.DocumentNumber,
		DocumentImageURL: input.DocumentImageURL,
		PhotoImageURL:    input.PhotoImageURL,
		Status:           domain.VerificationStatusUnverified,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	s.decide(ctx, v)

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create verification: %w", err)
	}

	if err := s.producer.PublishVerificationSubmitted(ctx, v); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish verification.submitted event",
			slog.String("verification_id", v.ID),
			slog.String("error", err.Error()),
		)
	}
	if v.Status != domain.VerificationStatusUnverified {
		s.publishDecided(ctx, v)
	}

	s.logger.InfoContext(ctx, "verification submitted",
		slog.String("verification_id", v.ID),
		slog.String("status", v.Status),
	)

	return v, nil
}

// Resubmit replaces the document details on an existing record and re-runs
// every check. Updating a verified record is allowed, but the mutation only
// persists when the new details pass both checks again; a failed re-check
// leaves the stored record untouched.
func (s *VerificationService) Resubmit(ctx context.Context, id string, input *SubmitVerificationInput) (*domain.IDVerification, error) {
	if !domain.IsValidDocumentType(input.DocumentType) {
		return nil, apperrors.FieldError("document_type", "Document type must be one of: national_id, passport, driving_license.")
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get verification for resubmit: %w", err)
	}

	if v.UserID != input.UserID {
		return nil, apperrors.Forbidden("only the submitting user can resubmit")
	}

	wasVerified := v.IsVerified()

	candidate := *v
	candidate.DocumentType = input.DocumentType
	candidate.DocumentNumber = input.DocumentNumber
	if input.DocumentImageURL != "" {
		candidate.DocumentImageURL = input.DocumentImageURL
	}
	if input.PhotoImageURL != "" {
		candidate.PhotoImageURL = input.PhotoImageURL
	}
	candidate.Status = domain.VerificationStatusUnverified
	candidate.RejectionField = ""
	candidate.RejectionReason = ""

	matchErr := s.decide(ctx, &candidate)

	if wasVerified && !candidate.IsVerified() {
		if candidate.Status == domain.VerificationStatusRejected {
			return nil, apperrors.FieldError(candidate.RejectionField, candidate.RejectionReason)
		}
		return nil, fmt.Errorf("re-run photo match: %w", matchErr)
	}

	*v = candidate

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update verification: %w", err)
	}

	if v.Status != domain.VerificationStatusUnverified {
		s.publishDecided(ctx, v)
	}

	return v, nil
}

// Get retrieves a verification record by ID. Only the submitting user may
// read it.
func (s *VerificationService) Get(ctx context.Context, id, userID string) (*domain.IDVerification, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get verification: %w", err)
	}
	if v.UserID != userID {
		return nil, apperrors.Forbidden("only the submitting user can view this record")
	}
	return v, nil
}

// GetByUser retrieves the latest verification record for a user.
func (s *VerificationService) GetByUser(ctx context.Context, userID string) (*domain.IDVerification, error) {
	v, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get verification by user: %w", err)
	}
	return v, nil
}

// decide runs the document number check and then the photo match, settling
// the record's status in place. The number format is checked first: a bad
// number rejects the submission no matter what the photo match would say.
// When the photo-match service is unavailable the status is left unverified
// and the error returned for callers that cannot tolerate a pending outcome.
func (s *VerificationService) decide(ctx context.Context, v *domain.IDVerification) error {
	if !domain.ValidDocumentNumber(v.DocumentType, v.DocumentNumber) {
		v.Status = domain.VerificationStatusRejected
		v.RejectionField = "document_number"
		v.RejectionReason = "Invalid ID number format for the selected document type."
		return nil
	}

	match, err := s.verifier.Match(ctx, v.DocumentImageURL, v.PhotoImageURL)
	if err != nil {
		s.logger.WarnContext(ctx, "photo match unavailable, verification left pending",
			slog.String("verification_id", v.ID),
			slog.String("error", err.Error()),
		)
		v.Status = domain.VerificationStatusUnverified
		return err
	}

	if !match {
		v.Status = domain.VerificationStatusRejected
		v.RejectionField = "photo_image"
		v.RejectionReason = "Photo verification failed. The photo does not match the ID document."
		return nil
	}

	v.Status = domain.VerificationStatusVerified
	return nil
}

func (s *VerificationService) publishDecided(ctx context.Context, v *domain.IDVerification) {
	if err := s.producer.PublishVerificationDecided(ctx, v); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish verification.decided event",
			slog.String("verification_id", v.ID),
			slog.String("error", err.Error()),
		)
	}
}
