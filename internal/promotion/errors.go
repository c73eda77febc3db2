package promotion

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMalformedPromotion marks a catalog record that violates the promotion
// field-group invariant or carries an unparseable schedule. Such records are
// excluded from resolution fail-closed; one bad promotion never aborts a
// quote.
var ErrMalformedPromotion = errors.New("promotion: malformed promotion")

// MalformedError carries the offending promotion id alongside the reason.
type MalformedError struct {
	PromotionID uuid.UUID
	Reason      string
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("promotion %s: %s", e.PromotionID, e.Reason)
}

// Unwrap makes the error match ErrMalformedPromotion under errors.Is.
func (e *MalformedError) Unwrap() error { return ErrMalformedPromotion }

func malformed(id uuid.UUID, format string, args ...any) error {
	return &MalformedError{PromotionID: id, Reason: fmt.Sprintf(format, args...)}
}
