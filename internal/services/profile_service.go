package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/profilekeeper/backend/internal/models"
)

// timestampLayout matches JavaScript's Date.toISOString, which existing
// documents already use for updatedAt.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// ValidationError is a client mistake in an update request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type ProfileService struct {
	store ProfileStore
	now   func() time.Time
}

func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store, now: time.Now}
}

// GetProfile returns the caller's stored document unmodified.
func (s *ProfileService) GetProfile(ctx context.Context, email string) (models.Profile, error) {
	if email == "" {
		return nil, ErrMissingPrincipal
	}
	prof, err := s.store.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return prof, nil
}

// UpdateProfile validates req, overwrites name, bio, location and updatedAt
// on the caller's document and returns the document as stored afterwards.
func (s *ProfileService) UpdateProfile(ctx context.Context, email string, req *models.UpdateProfileRequest) (models.Profile, error) {
	if email == "" {
		return nil, ErrMissingPrincipal
	}
	if err := ValidateUpdate(req); err != nil {
		return nil, err
	}

	fields := models.Profile{
		models.FieldName:      trim(*req.Name),
		models.FieldBio:       trimOrEmpty(req.Bio),
		models.FieldLocation:  trimOrEmpty(req.Location),
		models.FieldUpdatedAt: s.now().UTC().Format(timestampLayout),
	}
	if err := s.store.Merge(ctx, email, fields); err != nil {
		return nil, fmt.Errorf("merge profile: %w", err)
	}

	prof, err := s.store.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	return prof, nil
}

// ValidateUpdate applies the update rules in order and reports the first violation.
// Lengths are measured on the values as sent, before trimming, in UTF-16
// code units so limits agree with browser-side counters.
func ValidateUpdate(req *models.UpdateProfileRequest) error {
	if req == nil || req.Name == nil || trim(*req.Name) == "" {
		return &ValidationError{Field: models.FieldName, Message: "Name is required"}
	}
	if textLength(*req.Name) > models.MaxNameLength {
		return &ValidationError{
			Field:   models.FieldName,
			Message: fmt.Sprintf("Name must be %d characters or less", models.MaxNameLength),
		}
	}
	if req.Bio != nil && textLength(*req.Bio) > models.MaxBioLength {
		return &ValidationError{
			Field:   models.FieldBio,
			Message: fmt.Sprintf("Bio must be %d characters or less", models.MaxBioLength),
		}
	}
	if req.Location != nil && textLength(*req.Location) > models.MaxLocationLength {
		return &ValidationError{
			Field:   models.FieldLocation,
			Message: fmt.Sprintf("Location must be %d characters or less", models.MaxLocationLength),
		}
	}
	return nil
}

func trimOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return trim(*s)
}

// trim strips white space and the byte order mark from both ends.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}
