package projections

import (
	"context"
	"errors"
	"fmt"

	domainEnquiry "auraboxing/internal/domain/enquiry"
	domainProgram "auraboxing/internal/domain/program"
)

// ErrAdminRequired is returned when the caller has no admin session.
var ErrAdminRequired = errors.New("admin session required")

// GetAdminDashboardQuery carries query parameters.
type GetAdminDashboardQuery struct {
	IsAdmin bool
}

// EnquiryRow is one line of the enquiries table.
type EnquiryRow struct {
	ID           string `json:"id"`
	ProgramID    string `json:"program_id"`
	CreatedDate  string `json:"created_date"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	ProgramLabel string `json:"program_label"`
	ProgramDate  string `json:"program_date,omitempty"`
	Dangling     bool   `json:"dangling"`
}

// GetAdminDashboardResult carries the query result.
// Each section is fetched independently; a failed section leaves its error set and its rows nil.
type GetAdminDashboardResult struct {
	Programs     []ProgramCard
	Enquiries    []EnquiryRow
	ProgramsErr  error
	EnquiriesErr error
}

// GetAdminDashboardDeps holds dependencies for GetAdminDashboard.
type GetAdminDashboardDeps struct {
	ProgramStore ProgramStore
	EnquiryStore EnquiryStore
}

// QueryGetAdminDashboard loads programs and enquiries for the admin dashboard.
// PRE: query.IsAdmin is true
// POST: Returns whatever sections loaded; the error joins the section failures
func QueryGetAdminDashboard(ctx context.Context, query GetAdminDashboardQuery, deps GetAdminDashboardDeps) (GetAdminDashboardResult, error) {
	if !query.IsAdmin {
		return GetAdminDashboardResult{}, ErrAdminRequired
	}

	var result GetAdminDashboardResult

	programs, err := deps.ProgramStore.List(ctx)
	if err != nil {
		result.ProgramsErr = fmt.Errorf("list programs: %w", err)
	} else {
		result.Programs = toCards(programs)
	}

	views, err := deps.EnquiryStore.ListWithProgram(ctx)
	if err != nil {
		result.EnquiriesErr = fmt.Errorf("list enquiries: %w", err)
	} else {
		result.Enquiries = ToEnquiryRows(views)
	}

	return result, errors.Join(result.ProgramsErr, result.EnquiriesErr)
}

// ToEnquiryRows formats joined enquiries for display.
func ToEnquiryRows(views []domainEnquiry.View) []EnquiryRow {
	rows := make([]EnquiryRow, 0, len(views))
	for _, v := range views {
		row := EnquiryRow{
			ID:           v.ID,
			ProgramID:    v.ProgramID,
			CreatedDate:  v.CreatedAt.UTC().Format(domainEnquiry.CreatedDateLayout),
			Name:         v.Name,
			Phone:        v.Phone,
			Email:        v.EmailOrEmpty(),
			ProgramLabel: v.ProgramLabel(),
			Dangling:     v.IsDangling(),
		}
		if v.Program != nil {
			row.ProgramDate = v.Program.Date.UTC().Format(domainProgram.ShortDateLayout)
		}
		rows = append(rows, row)
	}
	return rows
}
