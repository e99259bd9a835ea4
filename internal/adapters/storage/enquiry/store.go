package enquiry

import (
	"context"

	domain "auraboxing/internal/domain/enquiry"
)

// Store persists Enquiry state.
type Store interface {
	Save(ctx context.Context, value domain.Enquiry) error
	ListWithProgram(ctx context.Context) ([]domain.View, error)
}
