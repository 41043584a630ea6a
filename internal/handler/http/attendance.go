package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/attendance"
	"github.com/crewops/ops-portal-go/internal/handler/http/response"
	"github.com/crewops/ops-portal-go/internal/pkg/clock"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	RecordLocation(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetMySessions(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)

	// Admin only
	UpdateSession(w http.ResponseWriter, r *http.Request)
	RunSweep(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	sessionService attendance.SessionService
}

func NewAttendanceHandler(sessionService attendance.SessionService) AttendanceHandler {
	return &AttendanceHandlerImpl{sessionService: sessionService}
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromToken(w, r)
	if !ok {
		return
	}

	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	session, err := h.sessionService.CheckIn(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", session)
}

// RecordLocation implements AttendanceHandler.
func (h *AttendanceHandlerImpl) RecordLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromToken(w, r)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		response.BadRequest(w, "Session ID is required", nil)
		return
	}

	var req attendance.RecordLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RecordLocation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.SessionID = sessionID

	if err := h.sessionService.RecordLocation(r.Context(), userID, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Location recorded", nil)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromToken(w, r)
	if !ok {
		return
	}

	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	session, err := h.sessionService.CheckOut(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", session)
}

// GetMySessions implements AttendanceHandler. Date range defaults to the last
// 30 civil days.
func (h *AttendanceHandlerImpl) GetMySessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromToken(w, r)
	if !ok {
		return
	}

	to := clock.TodayMidnight(time.Now()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -31)

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, clock.Location)
		if err != nil {
			response.BadRequest(w, "Invalid 'from' date, expected YYYY-MM-DD", nil)
			return
		}
		from = parsed.UTC()
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, clock.Location)
		if err != nil {
			response.BadRequest(w, "Invalid 'to' date, expected YYYY-MM-DD", nil)
			return
		}
		to = parsed.AddDate(0, 0, 1).UTC()
	}

	sessions, err := h.sessionService.ListMySessions(r.Context(), userID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sessions)
}

// GetSession implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		response.BadRequest(w, "Session ID is required", nil)
		return
	}

	session, err := h.sessionService.GetSession(r.Context(), sessionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, session)
}

// UpdateSession implements AttendanceHandler.
func (h *AttendanceHandlerImpl) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		response.BadRequest(w, "Session ID is required", nil)
		return
	}

	var req attendance.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSession decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = sessionID

	session, err := h.sessionService.UpdateSession(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session updated successfully", session)
}

// RunSweep implements AttendanceHandler. Manual trigger for the auto-checkout
// sweep the scheduler normally runs at end of civil day.
func (h *AttendanceHandlerImpl) RunSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessionService.AutoCheckout(r.Context(), time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Auto-checkout sweep completed", result)
}
