package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/leave"
	"github.com/crewops/ops-portal-go/internal/pkg/clock"
)

// HalfDayValue is the ledger charge for a half-day request.
const HalfDayValue = 0.5

// countWorkingDays counts the calendar days in [start, end] that are neither
// a Saturday nor in the holiday set. Dates are civil dates.
func countWorkingDays(start, end time.Time, holidays map[string]struct{}) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday {
			continue
		}
		if _, isHoliday := holidays[d.Format("2006-01-02")]; isHoliday {
			continue
		}
		count++
	}
	return count
}

// totalDaysFor computes the ledger charge for a request: 0.5 for a half day
// regardless of the date's weekday or holiday status, otherwise the
// working-day count of the range.
func (s *LeaveServiceImpl) totalDaysFor(ctx context.Context, start, end time.Time, isHalfDay bool) (float64, error) {
	if isHalfDay {
		return HalfDayValue, nil
	}

	dates, err := s.HolidayRepository.ListDatesInRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", leave.ErrHolidayLookup, err)
	}

	holidays := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		holidays[d] = struct{}{}
	}

	return float64(countWorkingDays(start, end, holidays)), nil
}

func parseCivilDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, clock.Location)
}
