package projections

import (
	"context"

	domainEnquiry "auraboxing/internal/domain/enquiry"
	domainProgram "auraboxing/internal/domain/program"
)

// ProgramStore interface for program queries.
type ProgramStore interface {
	List(ctx context.Context) ([]domainProgram.Program, error)
}

// EnquiryStore interface for enquiry queries.
type EnquiryStore interface {
	ListWithProgram(ctx context.Context) ([]domainEnquiry.View, error)
}
