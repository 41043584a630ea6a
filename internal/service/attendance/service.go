package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/attendance"
	"github.com/crewops/ops-portal-go/internal/domain/notification"
	"github.com/crewops/ops-portal-go/internal/domain/user"
	"github.com/crewops/ops-portal-go/internal/pkg/clock"
	"github.com/crewops/ops-portal-go/internal/pkg/database"
	"github.com/crewops/ops-portal-go/internal/pkg/geo"
)

type SessionServiceImpl struct {
	tx database.Transactor
	attendance.SessionRepository
	userRepo   user.UserRepository
	dispatcher notification.Dispatcher

	// now is swapped in tests
	now func() time.Time
}

func NewSessionService(
	tx database.Transactor,
	sessionRepo attendance.SessionRepository,
	userRepo user.UserRepository,
	dispatcher notification.Dispatcher,
) attendance.SessionService {
	return &SessionServiceImpl{
		tx:                tx,
		SessionRepository: sessionRepo,
		userRepo:          userRepo,
		dispatcher:        dispatcher,
		now:               time.Now,
	}
}

// CheckIn implements attendance.SessionService.
func (s *SessionServiceImpl) CheckIn(ctx context.Context, userID string, req attendance.CheckInRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}
	nowUTC := s.now().UTC()
	day := clock.TodayMidnight(nowUTC)

	// One active session per user per civil day. A fresh check-in after the
	// sweep closed the previous one is allowed; a second concurrent one is
	// not.
	_, err := s.SessionRepository.GetActiveSession(ctx, userID, day)
	if err == nil {
		return attendance.SessionResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrNoActiveSession) {
		return attendance.SessionResponse{}, fmt.Errorf("failed to look up active session: %w", err)
	}

	expected := clock.ExpectedCheckIn(nowUTC)
	late := clock.IsLate(nowUTC)

	status := attendance.StatusOnTime
	var lateMinutes *int
	if late {
		status = attendance.StatusLate
		mins := int(nowUTC.Sub(expected).Minutes())
		lateMinutes = &mins

		if req.LateReason == nil || strings.TrimSpace(*req.LateReason) == "" {
			return attendance.SessionResponse{}, attendance.ErrLateReasonRequired
		}
	}

	session := attendance.Session{
		UserID:              userID,
		Date:                day,
		WorkLocation:        req.WorkLocation,
		Status:              status,
		CheckInTime:         nowUTC,
		ExpectedCheckInTime: expected,
		IsLate:              late,
		LateMinutes:         lateMinutes,
		LateReason:          req.LateReason,
		CheckInLatitude:     req.Latitude,
		CheckInLongitude:    req.Longitude,
		CheckInAddress:      req.Address,
		CheckInNotes:        req.Notes,
	}

	// The session and its initial ping land together or not at all.
	var created attendance.Session
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.SessionRepository.Create(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to create attendance session: %w", err)
		}

		_, err = s.SessionRepository.AppendPing(ctx, attendance.LocationPing{
			SessionID: created.ID,
			Timestamp: nowUTC,
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
			Address:   req.Address,
		})
		if err != nil {
			return fmt.Errorf("failed to record check-in location: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	s.notifyAdmins(ctx, checkInEvent(created, s.displayName(ctx, userID)))

	return mapSessionToResponse(created), nil
}

// RecordLocation implements attendance.SessionService.
func (s *SessionServiceImpl) RecordLocation(ctx context.Context, userID string, req attendance.RecordLocationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	session, err := s.SessionRepository.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session.UserID != userID || !session.IsActive() {
		return attendance.ErrSessionNotActive
	}

	if _, err := s.SessionRepository.AppendPing(ctx, attendance.LocationPing{
		SessionID: session.ID,
		Timestamp: s.now().UTC(),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Address:   req.Address,
		Accuracy:  req.Accuracy,
	}); err != nil {
		return fmt.Errorf("failed to record location: %w", err)
	}

	return nil
}

// CheckOut implements attendance.SessionService.
func (s *SessionServiceImpl) CheckOut(ctx context.Context, userID string, req attendance.CheckOutRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}
	nowUTC := s.now().UTC()
	day := clock.TodayMidnight(nowUTC)

	session, err := s.SessionRepository.GetActiveSession(ctx, userID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveSession) {
			return attendance.SessionResponse{}, attendance.ErrNoActiveSession
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get active session: %w", err)
	}

	if !session.HasCheckInLocation() {
		return attendance.SessionResponse{}, attendance.ErrCheckInLocationMissing
	}

	distance := geo.HaversineMeters(
		*session.CheckInLatitude, *session.CheckInLongitude,
		*req.Latitude, *req.Longitude,
	)
	if distance > geo.CheckOutRadiusMeters {
		return attendance.SessionResponse{}, fmt.Errorf(
			"%w: you are %.0f m from your check-in location, allowed %.0f m",
			attendance.ErrOutsideRadius, distance, geo.CheckOutRadiusMeters,
		)
	}

	totalHours := nowUTC.Sub(session.CheckInTime).Hours()

	patch := attendance.ClosePatch{
		CheckOutTime:      nowUTC,
		CheckOutLatitude:  req.Latitude,
		CheckOutLongitude: req.Longitude,
		CheckOutAddress:   req.Address,
		CheckOutNotes:     req.Notes,
		TotalHours:        totalHours,
		Status:            session.Status,
		AutoCheckedOut:    false,
		Flags:             session.Flags,
	}

	// The close is conditional on the session still being open, so a racing
	// sweep or double submit cannot close it twice.
	if err := s.SessionRepository.CloseSession(ctx, session.ID, patch); err != nil {
		if errors.Is(err, attendance.ErrSessionAlreadyClosed) {
			return attendance.SessionResponse{}, attendance.ErrSessionAlreadyClosed
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to close session: %w", err)
	}

	if _, err := s.SessionRepository.AppendPing(ctx, attendance.LocationPing{
		SessionID: session.ID,
		Timestamp: nowUTC,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Address:   req.Address,
	}); err != nil {
		slog.Warn("failed to record check-out location ping", "session_id", session.ID, "error", err)
	}

	session.CheckOutTime = &nowUTC
	session.CheckOutLatitude = req.Latitude
	session.CheckOutLongitude = req.Longitude
	session.CheckOutAddress = req.Address
	session.CheckOutNotes = req.Notes
	session.TotalHours = &totalHours

	s.notifyAdmins(ctx, notification.Event{
		Type:    notification.TypeCheckOut,
		Title:   "Check-out",
		Message: fmt.Sprintf("%s checked out after %.1f hours", s.displayName(ctx, userID), totalHours),
		Data: map[string]interface{}{
			"session_id": session.ID,
			"user_id":    userID,
			"date":       clock.CivilDate(session.Date),
		},
	})

	return mapSessionToResponse(session), nil
}

// AutoCheckout implements attendance.SessionService. It force-closes every
// session still open on asOf's civil day. Sessions are processed
// independently; one failure never aborts the sweep.
func (s *SessionServiceImpl) AutoCheckout(ctx context.Context, asOf time.Time) (attendance.SweepResponse, error) {
	asOf = asOf.UTC()
	day := clock.TodayMidnight(asOf)

	open, err := s.SessionRepository.ListOpenSessionsForDay(ctx, day)
	if err != nil {
		return attendance.SweepResponse{}, fmt.Errorf("failed to list open sessions: %w", err)
	}

	resp := attendance.SweepResponse{Results: make([]attendance.SweepResult, 0, len(open))}
	for _, session := range open {
		if err := s.autoClose(ctx, session, asOf); err != nil {
			slog.Error("auto-checkout failed for session", "session_id", session.ID, "user_id", session.UserID, "error", err)
			resp.Failed++
			resp.Results = append(resp.Results, attendance.SweepResult{SessionID: session.ID, Error: err.Error()})
			continue
		}
		resp.Processed++
		resp.Results = append(resp.Results, attendance.SweepResult{SessionID: session.ID, Success: true})
	}

	slog.Info("auto-checkout sweep finished", "date", clock.CivilDate(day), "processed", resp.Processed, "failed", resp.Failed)
	return resp, nil
}

func (s *SessionServiceImpl) autoClose(ctx context.Context, session attendance.Session, asOf time.Time) error {
	// Best location we have: latest ping, else the check-in location. The
	// sweep trusts it unconditionally; the geofence only gates manual
	// check-out.
	var lat, lng *float64
	var address *string

	ping, err := s.SessionRepository.LatestPing(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve last known location: %w", err)
	}
	if ping != nil {
		lat, lng, address = &ping.Latitude, &ping.Longitude, ping.Address
	} else if session.HasCheckInLocation() {
		lat, lng, address = session.CheckInLatitude, session.CheckInLongitude, session.CheckInAddress
	}

	patch := attendance.ClosePatch{
		CheckOutTime:      asOf,
		CheckOutLatitude:  lat,
		CheckOutLongitude: lng,
		CheckOutAddress:   address,
		TotalHours:        asOf.Sub(session.CheckInTime).Hours(),
		Status:            attendance.StatusAutoCheckedOut,
		AutoCheckedOut:    true,
		Flags:             append(session.Flags, attendance.FlagAutoCheckedOut),
	}

	if err := s.SessionRepository.CloseSession(ctx, session.ID, patch); err != nil {
		return err
	}

	if lat != nil && lng != nil {
		if _, err := s.SessionRepository.AppendPing(ctx, attendance.LocationPing{
			SessionID: session.ID,
			Timestamp: asOf,
			Latitude:  *lat,
			Longitude: *lng,
			Address:   address,
		}); err != nil {
			slog.Warn("failed to record auto-checkout ping", "session_id", session.ID, "error", err)
		}
	}

	s.notifyAdmins(ctx, notification.Event{
		Type:    notification.TypeAutoCheckedOut,
		Title:   "Session auto-checked out",
		Message: fmt.Sprintf("%s did not check out on %s; the session was closed automatically", s.displayName(ctx, session.UserID), clock.CivilDate(session.Date)),
		Data: map[string]interface{}{
			"session_id": session.ID,
			"user_id":    session.UserID,
			"date":       clock.CivilDate(session.Date),
		},
	})

	return nil
}

// UpdateSession implements attendance.SessionService.
func (s *SessionServiceImpl) UpdateSession(ctx context.Context, req attendance.UpdateSessionRequest) (attendance.SessionResponse, error) {
	if _, err := s.SessionRepository.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.SessionResponse{}, attendance.ErrSessionNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	if err := s.SessionRepository.UpdateOverride(ctx, req); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to update session: %w", err)
	}

	updated, err := s.SessionRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to get updated session: %w", err)
	}

	return mapSessionToResponse(updated), nil
}

// GetSession implements attendance.SessionService.
func (s *SessionServiceImpl) GetSession(ctx context.Context, id string) (attendance.SessionResponse, error) {
	session, err := s.SessionRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			return attendance.SessionResponse{}, attendance.ErrSessionNotFound
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get session: %w", err)
	}
	return mapSessionToResponse(session), nil
}

// ListMySessions implements attendance.SessionService.
func (s *SessionServiceImpl) ListMySessions(ctx context.Context, userID string, from, to time.Time) ([]attendance.SessionResponse, error) {
	sessions, err := s.SessionRepository.ListForUser(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]attendance.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, mapSessionToResponse(session))
	}
	return responses, nil
}

// notifyAdmins dispatches an event to all admin users. Dispatch failures are
// logged and swallowed; notifications never fail the parent operation.
func (s *SessionServiceImpl) notifyAdmins(ctx context.Context, event notification.Event) {
	adminIDs, err := s.userRepo.ListAdminIDs(ctx)
	if err != nil {
		slog.Warn("failed to list admin recipients", "error", err)
		return
	}
	if len(adminIDs) == 0 {
		return
	}
	event.RecipientIDs = adminIDs
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		slog.Warn("failed to dispatch notification", "type", event.Type, "error", err)
	}
}

func (s *SessionServiceImpl) displayName(ctx context.Context, userID string) string {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u.FullName == "" {
		return userID
	}
	return u.FullName
}

func checkInEvent(session attendance.Session, name string) notification.Event {
	data := map[string]interface{}{
		"session_id": session.ID,
		"user_id":    session.UserID,
		"date":       clock.CivilDate(session.Date),
	}

	if session.IsLate {
		mins := 0
		if session.LateMinutes != nil {
			mins = *session.LateMinutes
		}
		reason := ""
		if session.LateReason != nil {
			reason = *session.LateReason
		}
		return notification.Event{
			Type:    notification.TypeCheckInLate,
			Title:   "Late check-in",
			Message: fmt.Sprintf("%s checked in %d minutes late: %s", name, mins, reason),
			Data:    data,
		}
	}

	return notification.Event{
		Type:    notification.TypeCheckIn,
		Title:   "Check-in",
		Message: fmt.Sprintf("%s checked in on time", name),
		Data:    data,
	}
}

// timePtrToString safely converts a *time.Time to a civil-time string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(clock.Location).Format("2006-01-02 15:04:05")
	return &formatted
}

func mapSessionToResponse(session attendance.Session) attendance.SessionResponse {
	return attendance.SessionResponse{
		ID:                  session.ID,
		UserID:              session.UserID,
		UserName:            session.UserName,
		Date:                clock.CivilDate(session.Date),
		WorkLocation:        session.WorkLocation,
		Status:              session.Status,
		CheckInTime:         session.CheckInTime.In(clock.Location).Format("2006-01-02 15:04:05"),
		ExpectedCheckInTime: session.ExpectedCheckInTime.In(clock.Location).Format("2006-01-02 15:04:05"),
		IsLate:              session.IsLate,
		LateMinutes:         session.LateMinutes,
		LateReason:          session.LateReason,
		CheckInLatitude:     session.CheckInLatitude,
		CheckInLongitude:    session.CheckInLongitude,
		CheckInAddress:      session.CheckInAddress,
		CheckInNotes:        session.CheckInNotes,
		CheckOutTime:        timePtrToString(session.CheckOutTime),
		CheckOutLatitude:    session.CheckOutLatitude,
		CheckOutLongitude:   session.CheckOutLongitude,
		CheckOutAddress:     session.CheckOutAddress,
		CheckOutNotes:       session.CheckOutNotes,
		TotalHours:          session.TotalHours,
		AutoCheckedOut:      session.AutoCheckedOut,
		Flags:               session.Flags,
	}
}
