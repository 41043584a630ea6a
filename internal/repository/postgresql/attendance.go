package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/attendance"
	"github.com/crewops/ops-portal-go/internal/domain/user"
	"github.com/crewops/ops-portal-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	id, user_id, date, work_location, status,
	check_in_time, expected_check_in_time, is_late, late_minutes, late_reason,
	check_in_latitude, check_in_longitude, check_in_address, check_in_notes,
	check_out_time, check_out_latitude, check_out_longitude, check_out_address, check_out_notes,
	total_hours, auto_checked_out, flags, created_at, updated_at
`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.Date, &s.WorkLocation, &s.Status,
		&s.CheckInTime, &s.ExpectedCheckInTime, &s.IsLate, &s.LateMinutes, &s.LateReason,
		&s.CheckInLatitude, &s.CheckInLongitude, &s.CheckInAddress, &s.CheckInNotes,
		&s.CheckOutTime, &s.CheckOutLatitude, &s.CheckOutLongitude, &s.CheckOutAddress, &s.CheckOutNotes,
		&s.TotalHours, &s.AutoCheckedOut, &s.Flags, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements attendance.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := querier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			user_id, date, work_location, status,
			check_in_time, expected_check_in_time, is_late, late_minutes, late_reason,
			check_in_latitude, check_in_longitude, check_in_address, check_in_notes,
			auto_checked_out, flags
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING id, created_at, updated_at
	`

	if session.Flags == nil {
		session.Flags = []string{}
	}

	err := q.QueryRow(ctx, query,
		session.UserID,
		session.Date,
		session.WorkLocation,
		session.Status,
		session.CheckInTime,
		session.ExpectedCheckInTime,
		session.IsLate,
		session.LateMinutes,
		session.LateReason,
		session.CheckInLatitude,
		session.CheckInLongitude,
		session.CheckInAddress,
		session.CheckInNotes,
		session.AutoCheckedOut,
		session.Flags,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return session, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := querier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE id = $1`

	session, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// GetActiveSession implements attendance.SessionRepository.
func (r *sessionRepository) GetActiveSession(ctx context.Context, userID string, day time.Time) (attendance.Session, error) {
	q := querier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND date = $2
		  AND check_out_time IS NULL
		ORDER BY check_in_time DESC
		LIMIT 1
	`

	session, err := scanSession(q.QueryRow(ctx, query, userID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrNoActiveSession
		}
		return attendance.Session{}, fmt.Errorf("failed to get active session: %w", err)
	}

	return session, nil
}

// ListOpenSessionsForDay implements attendance.SessionRepository.
func (r *sessionRepository) ListOpenSessionsForDay(ctx context.Context, day time.Time) ([]attendance.Session, error) {
	q := querier(ctx, r.db)

	roles := user.AttendanceEligibleRoles()
	roleStrings := make([]string, 0, len(roles))
	for _, role := range roles {
		roleStrings = append(roleStrings, string(role))
	}

	query := `
		SELECT s.id, s.user_id, s.date, s.work_location, s.status,
		       s.check_in_time, s.expected_check_in_time, s.is_late, s.late_minutes, s.late_reason,
		       s.check_in_latitude, s.check_in_longitude, s.check_in_address, s.check_in_notes,
		       s.check_out_time, s.check_out_latitude, s.check_out_longitude, s.check_out_address, s.check_out_notes,
		       s.total_hours, s.auto_checked_out, s.flags, s.created_at, s.updated_at
		FROM attendance_sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.date = $1
		  AND s.check_out_time IS NULL
		  AND u.is_active = TRUE
		  AND u.role = ANY($2)
		ORDER BY s.check_in_time
	`

	rows, err := q.Query(ctx, query, day, roleStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]attendance.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// CloseSession implements attendance.SessionRepository. The update is guarded
// by check_out_time IS NULL so that only one closer can win.
func (r *sessionRepository) CloseSession(ctx context.Context, id string, patch attendance.ClosePatch) error {
	q := querier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET check_out_time = $2,
		    check_out_latitude = $3,
		    check_out_longitude = $4,
		    check_out_address = $5,
		    check_out_notes = $6,
		    total_hours = $7,
		    status = $8,
		    auto_checked_out = $9,
		    flags = $10,
		    updated_at = NOW()
		WHERE id = $1
		  AND check_out_time IS NULL
	`

	if patch.Flags == nil {
		patch.Flags = []string{}
	}

	tag, err := q.Exec(ctx, query,
		id,
		patch.CheckOutTime,
		patch.CheckOutLatitude,
		patch.CheckOutLongitude,
		patch.CheckOutAddress,
		patch.CheckOutNotes,
		patch.TotalHours,
		patch.Status,
		patch.AutoCheckedOut,
		patch.Flags,
	)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrSessionAlreadyClosed
	}

	return nil
}

// UpdateOverride implements attendance.SessionRepository.
func (r *sessionRepository) UpdateOverride(ctx context.Context, req attendance.UpdateSessionRequest) error {
	q := querier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET status = COALESCE($2, status),
		    is_late = COALESCE($3, is_late),
		    late_minutes = COALESCE($4, late_minutes),
		    late_reason = COALESCE($5, late_reason),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, req.ID, req.Status, req.IsLate, req.LateMinutes, req.LateReason)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrSessionNotFound
	}

	return nil
}

// ListForUser implements attendance.SessionRepository.
func (r *sessionRepository) ListForUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.Session, error) {
	q := querier(ctx, r.db)

	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date DESC, check_in_time DESC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]attendance.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// AppendPing implements attendance.SessionRepository.
func (r *sessionRepository) AppendPing(ctx context.Context, ping attendance.LocationPing) (attendance.LocationPing, error) {
	q := querier(ctx, r.db)

	query := `
		INSERT INTO attendance_location_pings (
			session_id, timestamp, latitude, longitude, address, accuracy
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		ping.SessionID, ping.Timestamp, ping.Latitude, ping.Longitude, ping.Address, ping.Accuracy,
	).Scan(&ping.ID)
	if err != nil {
		return attendance.LocationPing{}, fmt.Errorf("failed to append location ping: %w", err)
	}

	return ping, nil
}

// LatestPing implements attendance.SessionRepository.
func (r *sessionRepository) LatestPing(ctx context.Context, sessionID string) (*attendance.LocationPing, error) {
	q := querier(ctx, r.db)

	query := `
		SELECT id, session_id, timestamp, latitude, longitude, address, accuracy
		FROM attendance_location_pings
		WHERE session_id = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var ping attendance.LocationPing
	err := q.QueryRow(ctx, query, sessionID).Scan(
		&ping.ID, &ping.SessionID, &ping.Timestamp, &ping.Latitude, &ping.Longitude, &ping.Address, &ping.Accuracy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest ping: %w", err)
	}

	return &ping, nil
}
