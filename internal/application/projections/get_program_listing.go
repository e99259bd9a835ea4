package projections

import (
	"context"
	"fmt"

	domainProgram "auraboxing/internal/domain/program"
)

// PlaceholderCount is the number of skeleton cards shown while programs load.
const PlaceholderCount = 3

// ProgramCard is one program as shown on the public page and in the admin list.
type ProgramCard struct {
	ID          string `json:"id"`
	City        string `json:"city"`
	DisplayCity string `json:"display_city"`
	Date        string `json:"date"`
	DisplayDate string `json:"display_date"`
	Time        string `json:"time"`
	MapsLink    string `json:"maps_link"`
}

// GetProgramListingResult carries the query result.
type GetProgramListingResult struct {
	Cards            []ProgramCard
	PlaceholderCount int
}

// Empty reports whether there are no programs to show.
func (r GetProgramListingResult) Empty() bool {
	return len(r.Cards) == 0
}

// GetProgramListingDeps holds dependencies for GetProgramListing.
type GetProgramListingDeps struct {
	ProgramStore ProgramStore
}

// QueryGetProgramListing reads all programs for the public page.
// PRE: none
// POST: Cards are in store order (date ascending); Cards is non-nil so JSON renders []
func QueryGetProgramListing(ctx context.Context, deps GetProgramListingDeps) (GetProgramListingResult, error) {
	programs, err := deps.ProgramStore.List(ctx)
	if err != nil {
		return GetProgramListingResult{PlaceholderCount: PlaceholderCount}, fmt.Errorf("list programs: %w", err)
	}
	return GetProgramListingResult{
		Cards:            toCards(programs),
		PlaceholderCount: PlaceholderCount,
	}, nil
}

// NewProgramCard derives display fields for a single program.
func NewProgramCard(p domainProgram.Program) ProgramCard {
	return ProgramCard{
		ID:          p.ID,
		City:        p.City,
		DisplayCity: p.DisplayCity(),
		Date:        p.Date.UTC().Format(domainProgram.DateLayout),
		DisplayDate: p.DisplayDate(),
		Time:        p.Time,
		MapsLink:    p.MapsLink,
	}
}

func toCards(programs []domainProgram.Program) []ProgramCard {
	cards := make([]ProgramCard, 0, len(programs))
	for _, p := range programs {
		cards = append(cards, NewProgramCard(p))
	}
	return cards
}
