package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidTransition is returned for any status change outside the
	// allowed-edge table of the approval workflow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrEmptyReport is returned when a report with no linked photos is
	// submitted for review.
	ErrEmptyReport = errors.New("report has no linked photos")
	// ErrPhotoLocked is returned when an annotation edit targets a photo owned
	// by an approved report.
	ErrPhotoLocked = errors.New("photo locked by approved report")
	// ErrStaleState is returned when a transition lost a race against a
	// concurrent transition on the same report.
	ErrStaleState = errors.New("report changed concurrently")
	// ErrIneligibleSource is the sentinel wrapped by IneligibleSourceError.
	ErrIneligibleSource = errors.New("ineligible consolidation source")
)

// IneligibleSourceError reports which chosen consolidation sources failed the
// eligibility check (not approved, wrong kind/scope, or already consolidated).
type IneligibleSourceError struct {
	ReportIDs []uuid.UUID
}

func (e *IneligibleSourceError) Error() string {
	ids := make([]string, 0, len(e.ReportIDs))
	for _, id := range e.ReportIDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("ineligible consolidation sources: %s", strings.Join(ids, ", "))
}

func (e *IneligibleSourceError) Unwrap() error {
	return ErrIneligibleSource
}
