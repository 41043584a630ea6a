package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/crewops/ops-portal-go/internal/domain/leave"
	"github.com/crewops/ops-portal-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const leaveBalanceColumns = `
	user_id, year, leave_type, total_allocated, total_used, total_pending, balance, updated_at
`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.UserID, &b.Year, &b.LeaveType,
		&b.TotalAllocated, &b.TotalUsed, &b.TotalPending, &b.Balance,
		&b.UpdatedAt,
	)
	return b, err
}

// ApplyDelta implements leave.LeaveBalanceRepository. The counters are moved
// in a single upsert so concurrent transitions never read stale values.
func (r *leaveBalanceRepository) ApplyDelta(ctx context.Context, userID string, year int, leaveType leave.LeaveType, delta leave.LedgerDelta) (leave.LeaveBalance, error) {
	q := querier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			user_id, year, leave_type, total_allocated, total_used, total_pending, balance
		) VALUES ($1, $2, $3, 0, $4, $5, $6)
		ON CONFLICT (user_id, year, leave_type) DO UPDATE
		SET total_used = leave_balances.total_used + $4,
		    total_pending = leave_balances.total_pending + $5,
		    balance = leave_balances.balance + $6,
		    updated_at = NOW()
		RETURNING ` + leaveBalanceColumns

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query,
		userID, year, leaveType, delta.Used, delta.Pending, delta.Balance,
	))
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	return balance, nil
}

// Get implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) Get(ctx context.Context, userID string, year int, leaveType leave.LeaveType) (leave.LeaveBalance, error) {
	q := querier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE user_id = $1 AND year = $2 AND leave_type = $3
	`

	balance, err := scanLeaveBalance(q.QueryRow(ctx, query, userID, year, leaveType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A user with no ledger activity has an all-zero row.
			return leave.LeaveBalance{UserID: userID, Year: year, LeaveType: leaveType}, nil
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return balance, nil
}

// ListForUser implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepository) ListForUser(ctx context.Context, userID string, year int) ([]leave.LeaveBalance, error) {
	q := querier(ctx, r.db)

	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE user_id = $1 AND year = $2
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		balance, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, balance)
	}

	return balances, rows.Err()
}
