package web

import (
	"log/slog"
	"net/http"
	"time"

	"auraboxing/internal/adapters/http/perf"
	"auraboxing/internal/application/orchestrators"
	"auraboxing/internal/application/projections"
	"auraboxing/internal/domain/enquiry"
)

// Public notifications.
const (
	msgEnquirySent   = "Enquiry sent successfully! We'll contact you soon."
	msgEnquiryFailed = "Failed to send enquiry. Please try again."
)

// enquiryForm is the modal state.
type enquiryForm struct {
	ProgramID string
	City      string
	Name      string
	Phone     string
	Email     string
	Error     string
}

// homeData is the listing page model.
type homeData struct {
	Listing     projections.GetProgramListingResult
	LoadError   bool
	Enquiry     enquiryForm
	EnquiryOpen bool
}

// renderHome re-reads the listing and renders the public page. A non-nil form opens the modal.
// A listing failure switches the page to its error state with 503 unless a worse status is pending.
func renderHome(w http.ResponseWriter, r *http.Request, status int, flash *Flash, form *enquiryForm) {
	listing, err := projections.QueryGetProgramListing(r.Context(), projections.GetProgramListingDeps{
		ProgramStore: stores.ProgramStore,
	})
	data := homeData{Listing: listing}
	if form != nil {
		data.Enquiry = *form
		data.EnquiryOpen = true
	}
	if err != nil {
		slog.Error("listing_unavailable", "error", err.Error())
		data.LoadError = true
		if status < http.StatusInternalServerError {
			status = http.StatusServiceUnavailable
		}
	}
	renderTemplate(w, r, status, "index.html", "", flash, data)
}

// handleHome handles GET /
// ?enquire=<program id> opens the enquiry modal for that program without JavaScript.
func handleHome(w http.ResponseWriter, r *http.Request) {
	var form *enquiryForm
	if id := r.URL.Query().Get("enquire"); id != "" {
		if p, err := stores.ProgramStore.GetByID(r.Context(), id); err == nil {
			form = &enquiryForm{ProgramID: p.ID, City: p.City}
		}
	}
	renderHome(w, r, http.StatusOK, nil, form)
}

// handleSubmitEnquiry handles POST /enquiries
func handleSubmitEnquiry(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.SubmitEnquiryInput
	if err := decodeForm(r, &input); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	form := &enquiryForm{
		ProgramID: input.ProgramID,
		City:      input.City,
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
	}

	_, err := orchestrators.ExecuteSubmitEnquiry(r.Context(), input, orchestrators.SubmitEnquiryDeps{
		EnquiryStore: stores.EnquiryStore,
		ProgramStore: stores.ProgramStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		perfCollector.RecordEnquiry(perf.StatusError)
		if orchestrators.IsEnquiryValidationError(err) {
			form.Error = err.Error()
			renderHome(w, r, http.StatusBadRequest, nil, form)
			return
		}
		slog.Error("internal_error", "error", err.Error(), "op", "submit_enquiry")
		renderHome(w, r, http.StatusInternalServerError, &Flash{Kind: FlashError, Message: msgEnquiryFailed}, form)
		return
	}

	perfCollector.RecordEnquiry(perf.StatusSuccess)
	redirectWithFlash(w, r, "/#programs", FlashSuccess, msgEnquirySent)
}

// handleAPIPrograms handles GET /api/programs
func handleAPIPrograms(w http.ResponseWriter, r *http.Request) {
	listing, err := projections.QueryGetProgramListing(r.Context(), projections.GetProgramListingDeps{
		ProgramStore: stores.ProgramStore,
	})
	if err != nil {
		slog.Error("listing_unavailable", "error", err.Error())
		jsonError(w, http.StatusServiceUnavailable, "programs are unavailable")
		return
	}
	writeJSON(w, http.StatusOK, listing.Cards)
}

// enquiryResponse is the JSON shape of a stored enquiry.
type enquiryResponse struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"program_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toEnquiryResponse(e enquiry.Enquiry) enquiryResponse {
	return enquiryResponse{
		ID:        e.ID,
		ProgramID: e.ProgramID,
		Name:      e.Name,
		Phone:     e.Phone,
		Email:     e.Email,
		CreatedAt: e.CreatedAt,
	}
}

// handleAPIEnquiries handles POST /api/enquiries
func handleAPIEnquiries(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.SubmitEnquiryInput
	if err := strictDecode(r, &input); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	e, err := orchestrators.ExecuteSubmitEnquiry(r.Context(), input, orchestrators.SubmitEnquiryDeps{
		EnquiryStore: stores.EnquiryStore,
		ProgramStore: stores.ProgramStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		perfCollector.RecordEnquiry(perf.StatusError)
		if orchestrators.IsEnquiryValidationError(err) {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("internal_error", "error", err.Error(), "op", "submit_enquiry")
		jsonError(w, http.StatusInternalServerError, msgEnquiryFailed)
		return
	}
	perfCollector.RecordEnquiry(perf.StatusSuccess)
	writeJSON(w, http.StatusCreated, toEnquiryResponse(e))
}
