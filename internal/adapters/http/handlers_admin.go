package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"auraboxing/internal/adapters/http/middleware"
	"auraboxing/internal/adapters/http/perf"
	"auraboxing/internal/application/listutil"
	"auraboxing/internal/application/orchestrators"
	"auraboxing/internal/application/projections"
)

// Admin notifications.
const (
	msgAccessGranted  = "Access granted!"
	msgInvalidSecret  = "Invalid password"
	msgProgramAdded   = "Program added successfully!"
	msgProgramFailed  = "Failed to add program"
	msgProgramDeleted = "Program deleted successfully!"
	msgDeleteFailed   = "Failed to delete program"
	msgLoggedOut      = "Logged out successfully"
)

const dashboardPath = "/admin/dashboard"

// handleAdminGate handles GET (form) and POST (check) for /admin
func handleAdminGate(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if middleware.IsAdmin(r.Context()) {
			http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, http.StatusOK, "admin_login.html", "Admin", nil, nil)
		return
	}

	if r.Method == "POST" {
		var input orchestrators.LoginInput
		if err := decodeForm(r, &input); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.RemoteIP = middleware.ClientIP(r)

		if err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{Gate: adminGate}); err != nil {
			perfCollector.RecordAdminLogin(false)
			renderTemplate(w, r, http.StatusUnauthorized, "admin_login.html", "Admin",
				&Flash{Kind: FlashError, Message: msgInvalidSecret}, nil)
			return
		}
		perfCollector.RecordAdminLogin(true)

		token, err := sessions.Create()
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token, secureCookies)
		redirectWithFlash(w, r, dashboardPath, FlashSuccess, msgAccessGranted)
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// handleAdminLogout handles POST /admin/logout
func handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	slog.Info("auth_event", "event", "logout", "ip", middleware.ClientIP(r))
	middleware.ClearSessionCookie(w, secureCookies)
	redirectWithFlash(w, r, "/admin", FlashSuccess, msgLoggedOut)
}

// dashboardData is the admin page model.
type dashboardData struct {
	Dashboard projections.GetAdminDashboardResult
	Form      orchestrators.AddProgramInput
	FormError string
}

// renderDashboard loads both sections and renders the dashboard.
func renderDashboard(w http.ResponseWriter, r *http.Request, status int, flash *Flash, form orchestrators.AddProgramInput, formError string) {
	result, err := projections.QueryGetAdminDashboard(r.Context(), projections.GetAdminDashboardQuery{
		IsAdmin: middleware.IsAdmin(r.Context()),
	}, projections.GetAdminDashboardDeps{
		ProgramStore: stores.ProgramStore,
		EnquiryStore: stores.EnquiryStore,
	})
	if errors.Is(err, projections.ErrAdminRequired) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("dashboard_partial", "error", err.Error())
	}
	renderTemplate(w, r, status, "admin_dashboard.html", "Dashboard", flash, dashboardData{
		Dashboard: result,
		Form:      form,
		FormError: formError,
	})
}

// handleAdminDashboard handles GET /admin/dashboard
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	renderDashboard(w, r, http.StatusOK, nil, orchestrators.AddProgramInput{}, "")
}

// handleAdminAddProgram handles POST /admin/programs
func handleAdminAddProgram(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.AddProgramInput
	if err := decodeForm(r, &input); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	_, err := orchestrators.ExecuteAddProgram(r.Context(), input, orchestrators.AddProgramDeps{
		ProgramStore: stores.ProgramStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		perfCollector.RecordProgramOp("add", perf.StatusError)
		failed := &Flash{Kind: FlashError, Message: msgProgramFailed}
		if orchestrators.IsProgramValidationError(err) {
			renderDashboard(w, r, http.StatusBadRequest, failed, input, err.Error())
			return
		}
		slog.Error("internal_error", "error", err.Error(), "op", "add_program")
		renderDashboard(w, r, http.StatusInternalServerError, failed, input, "")
		return
	}

	perfCollector.RecordProgramOp("add", perf.StatusSuccess)
	redirectWithFlash(w, r, dashboardPath, FlashSuccess, msgProgramAdded)
}

// handleAdminDeleteProgram handles POST /admin/programs/{id}/delete
func handleAdminDeleteProgram(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteProgram(r.Context(), orchestrators.DeleteProgramInput{
		ProgramID: r.PathValue("id"),
	}, orchestrators.DeleteProgramDeps{ProgramStore: stores.ProgramStore})
	if err != nil {
		perfCollector.RecordProgramOp("delete", perf.StatusError)
		slog.Error("internal_error", "error", err.Error(), "op", "delete_program")
		redirectWithFlash(w, r, dashboardPath, FlashError, msgDeleteFailed)
		return
	}
	perfCollector.RecordProgramOp("delete", perf.StatusSuccess)
	redirectWithFlash(w, r, dashboardPath, FlashSuccess, msgProgramDeleted)
}

// handleAPIAdminPrograms handles GET/POST/DELETE for /api/admin/programs
func handleAPIAdminPrograms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method == "GET" {
		listing, err := projections.QueryGetProgramListing(ctx, projections.GetProgramListingDeps{
			ProgramStore: stores.ProgramStore,
		})
		if err != nil {
			slog.Error("listing_unavailable", "error", err.Error())
			jsonError(w, http.StatusServiceUnavailable, "programs are unavailable")
			return
		}
		writeJSON(w, http.StatusOK, listing.Cards)
		return
	}

	if r.Method == "POST" {
		var input orchestrators.AddProgramInput
		if err := strictDecode(r, &input); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		p, err := orchestrators.ExecuteAddProgram(ctx, input, orchestrators.AddProgramDeps{
			ProgramStore: stores.ProgramStore,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			perfCollector.RecordProgramOp("add", perf.StatusError)
			if orchestrators.IsProgramValidationError(err) {
				jsonError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("internal_error", "error", err.Error(), "op", "add_program")
			jsonError(w, http.StatusInternalServerError, msgProgramFailed)
			return
		}
		perfCollector.RecordProgramOp("add", perf.StatusSuccess)
		writeJSON(w, http.StatusCreated, projections.NewProgramCard(p))
		return
	}

	if r.Method == "DELETE" {
		err := orchestrators.ExecuteDeleteProgram(ctx, orchestrators.DeleteProgramInput{
			ProgramID: r.URL.Query().Get("id"),
		}, orchestrators.DeleteProgramDeps{ProgramStore: stores.ProgramStore})
		if errors.Is(err, orchestrators.ErrMissingProgramID) {
			jsonError(w, http.StatusBadRequest, "id is required")
			return
		}
		if err != nil {
			perfCollector.RecordProgramOp("delete", perf.StatusError)
			slog.Error("internal_error", "error", err.Error(), "op", "delete_program")
			jsonError(w, http.StatusInternalServerError, msgDeleteFailed)
			return
		}
		perfCollector.RecordProgramOp("delete", perf.StatusSuccess)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// handleAPIAdminEnquiries handles GET /api/admin/enquiries
// Optional ?program_id= filters; ?page= and ?per_page= paginate and set X-Total-Count.
func handleAPIAdminEnquiries(w http.ResponseWriter, r *http.Request) {
	views, err := stores.EnquiryStore.ListWithProgram(r.Context())
	if err != nil {
		slog.Error("enquiries_unavailable", "error", err.Error())
		jsonError(w, http.StatusServiceUnavailable, "enquiries are unavailable")
		return
	}

	q := r.URL.Query()
	rows := listutil.FilterBy(projections.ToEnquiryRows(views), q.Get("program_id"),
		func(row projections.EnquiryRow) string { return row.ProgramID })

	if params, ok := listutil.ParsePageParams(q); ok {
		var info listutil.PageInfo
		rows, info = listutil.Paginate(rows, params)
		w.Header().Set("X-Total-Count", strconv.Itoa(info.Total))
		w.Header().Set("X-Total-Pages", strconv.Itoa(info.TotalPages))
	}
	writeJSON(w, http.StatusOK, rows)
}
