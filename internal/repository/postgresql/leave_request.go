package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/crewops/ops-portal-go/internal/domain/leave"
	"github.com/crewops/ops-portal-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	id, user_id, leave_type, status, start_date, end_date,
	is_half_day, half_day_type, reason, notes, total_days,
	approved_by_id, approved_at, rejection_reason, created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	err := row.Scan(
		&r.ID, &r.UserID, &r.LeaveType, &r.Status, &r.StartDate, &r.EndDate,
		&r.IsHalfDay, &r.HalfDayType, &r.Reason, &r.Notes, &r.TotalDays,
		&r.ApprovedByID, &r.ApprovedAt, &r.RejectionReason, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := querier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			user_id, leave_type, status, start_date, end_date,
			is_half_day, half_day_type, reason, notes, total_days
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.UserID, req.LeaveType, req.Status, req.StartDate, req.EndDate,
		req.IsHalfDay, req.HalfDayType, req.Reason, req.Notes, req.TotalDays,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := querier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return req, nil
}

// Update implements leave.LeaveRequestRepository. Edits only apply while the
// request is still pending; the guard keeps an edit from racing past an
// approval.
func (r *leaveRequestRepository) Update(ctx context.Context, req leave.LeaveRequest) error {
	q := querier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET leave_type = $2,
		    start_date = $3,
		    end_date = $4,
		    is_half_day = $5,
		    half_day_type = $6,
		    reason = $7,
		    notes = $8,
		    total_days = $9,
		    updated_at = NOW()
		WHERE id = $1
		  AND status = $10
	`

	tag, err := q.Exec(ctx, query,
		req.ID, req.LeaveType, req.StartDate, req.EndDate,
		req.IsHalfDay, req.HalfDayType, req.Reason, req.Notes, req.TotalDays,
		leave.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrInvalidStatusTransition
	}

	return nil
}

// UpdateStatus implements leave.LeaveRequestRepository. The update is
// conditional on the row still holding patch.From, so two transitions racing
// from the same read cannot both land.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, patch leave.StatusPatch) error {
	q := querier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2,
		    approved_by_id = $3,
		    approved_at = $4,
		    rejection_reason = $5,
		    updated_at = NOW()
		WHERE id = $1
		  AND status = $6
	`

	tag, err := q.Exec(ctx, query, id, patch.Status, patch.ApprovedByID, patch.ApprovedAt, patch.RejectionReason, patch.From)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrInvalidStatusTransition
	}

	return nil
}

// ListForUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListForUser(ctx context.Context, userID string, year int) ([]leave.LeaveRequest, error) {
	q := querier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE user_id = $1
		  AND EXTRACT(YEAR FROM start_date) = $2
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// ListByStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByStatus(ctx context.Context, status leave.Status) ([]leave.LeaveRequest, error) {
	q := querier(ctx, r.db)

	query := `
		SELECT lr.id, lr.user_id, lr.leave_type, lr.status, lr.start_date, lr.end_date,
		       lr.is_half_day, lr.half_day_type, lr.reason, lr.notes, lr.total_days,
		       lr.approved_by_id, lr.approved_at, lr.rejection_reason, lr.created_at, lr.updated_at,
		       u.full_name AS user_name
		FROM leave_requests lr
		JOIN users u ON lr.user_id = u.id
		WHERE lr.status = $1
		ORDER BY lr.created_at
	`

	rows, err := q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests by status: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var req leave.LeaveRequest
		if err := rows.Scan(
			&req.ID, &req.UserID, &req.LeaveType, &req.Status, &req.StartDate, &req.EndDate,
			&req.IsHalfDay, &req.HalfDayType, &req.Reason, &req.Notes, &req.TotalDays,
			&req.ApprovedByID, &req.ApprovedAt, &req.RejectionReason, &req.CreatedAt, &req.UpdatedAt,
			&req.UserName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}
