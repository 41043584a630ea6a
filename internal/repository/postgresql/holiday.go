package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/leave"
	"github.com/crewops/ops-portal-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) leave.HolidayRepository {
	return &holidayRepository{db: db}
}

// ListDatesInRange implements leave.HolidayRepository.
func (r *holidayRepository) ListDatesInRange(ctx context.Context, start, end time.Time) ([]string, error) {
	q := querier(ctx, r.db)

	query := `
		SELECT to_char(date, 'YYYY-MM-DD')
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	dates := make([]string, 0)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		dates = append(dates, date)
	}

	return dates, rows.Err()
}
