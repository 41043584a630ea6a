package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/leave"
	"github.com/crewops/ops-portal-go/internal/domain/notification"
	"github.com/crewops/ops-portal-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

// passthroughTx runs the function without a real transaction; the fakes below
// are already atomic enough for unit tests.
type passthroughTx struct{}

func (passthroughTx) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRequestRepo struct {
	requests map[string]leave.LeaveRequest
	nextID   int

	// stale, when set, is what GetByID returns instead of the stored row,
	// mimicking a read taken before a concurrent transition commits.
	stale *leave.LeaveRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.nextID++
	req.ID = fmt.Sprintf("request-%d", f.nextID)
	req.CreatedAt = time.Now().UTC()
	req.UpdatedAt = req.CreatedAt
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if f.stale != nil && f.stale.ID == id {
		return *f.stale, nil
	}
	req, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, req leave.LeaveRequest) error {
	stored, ok := f.requests[req.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if stored.Status != leave.StatusPending {
		return leave.ErrInvalidStatusTransition
	}
	stored.LeaveType = req.LeaveType
	stored.StartDate = req.StartDate
	stored.EndDate = req.EndDate
	stored.IsHalfDay = req.IsHalfDay
	stored.HalfDayType = req.HalfDayType
	stored.Reason = req.Reason
	stored.Notes = req.Notes
	stored.TotalDays = req.TotalDays
	f.requests[req.ID] = stored
	return nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id string, patch leave.StatusPatch) error {
	req, ok := f.requests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if req.Status != patch.From {
		return leave.ErrInvalidStatusTransition
	}
	req.Status = patch.Status
	req.ApprovedByID = patch.ApprovedByID
	req.ApprovedAt = patch.ApprovedAt
	req.RejectionReason = patch.RejectionReason
	f.requests[id] = req
	return nil
}

func (f *fakeRequestRepo) ListForUser(ctx context.Context, userID string, year int) ([]leave.LeaveRequest, error) {
	var result []leave.LeaveRequest
	for _, req := range f.requests {
		if req.UserID == userID && req.StartDate.Year() == year {
			result = append(result, req)
		}
	}
	return result, nil
}

func (f *fakeRequestRepo) ListByStatus(ctx context.Context, status leave.Status) ([]leave.LeaveRequest, error) {
	var result []leave.LeaveRequest
	for _, req := range f.requests {
		if req.Status == status {
			result = append(result, req)
		}
	}
	return result, nil
}

type balanceKey struct {
	userID    string
	year      int
	leaveType leave.LeaveType
}

type fakeBalanceRepo struct {
	balances map[balanceKey]leave.LeaveBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[balanceKey]leave.LeaveBalance)}
}

func (f *fakeBalanceRepo) ApplyDelta(ctx context.Context, userID string, year int, leaveType leave.LeaveType, delta leave.LedgerDelta) (leave.LeaveBalance, error) {
	key := balanceKey{userID, year, leaveType}
	balance, ok := f.balances[key]
	if !ok {
		balance = leave.LeaveBalance{UserID: userID, Year: year, LeaveType: leaveType}
	}
	balance.TotalPending += delta.Pending
	balance.TotalUsed += delta.Used
	balance.Balance += delta.Balance
	f.balances[key] = balance
	return balance, nil
}

func (f *fakeBalanceRepo) Get(ctx context.Context, userID string, year int, leaveType leave.LeaveType) (leave.LeaveBalance, error) {
	balance, ok := f.balances[balanceKey{userID, year, leaveType}]
	if !ok {
		return leave.LeaveBalance{UserID: userID, Year: year, LeaveType: leaveType}, nil
	}
	return balance, nil
}

func (f *fakeBalanceRepo) ListForUser(ctx context.Context, userID string, year int) ([]leave.LeaveBalance, error) {
	var result []leave.LeaveBalance
	for key, balance := range f.balances {
		if key.userID == userID && key.year == year {
			result = append(result, balance)
		}
	}
	return result, nil
}

type fakeHolidayRepo struct {
	dates []string
	err   error
}

func (f *fakeHolidayRepo) ListDatesInRange(ctx context.Context, start, end time.Time) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var inRange []string
	for _, d := range f.dates {
		parsed, err := parseCivilDate(d)
		if err != nil {
			return nil, err
		}
		if !parsed.Before(start) && !parsed.After(end) {
			inRange = append(inRange, d)
		}
	}
	return inRange, nil
}

type fakeUserRepo struct {
	adminIDs []string
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{ID: id, FullName: "Asha Rai"}, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ListAdminIDs(ctx context.Context) ([]string, error) {
	return f.adminIDs, nil
}

type fakeDispatcher struct {
	events []notification.Event
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, event notification.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeDispatcher) Stop() {}

// ===== HELPERS =====

type testEnv struct {
	svc        *LeaveServiceImpl
	requests   *fakeRequestRepo
	balances   *fakeBalanceRepo
	holidays   *fakeHolidayRepo
	dispatcher *fakeDispatcher
}

func newTestEnv() *testEnv {
	env := &testEnv{
		requests:   newFakeRequestRepo(),
		balances:   newFakeBalanceRepo(),
		holidays:   &fakeHolidayRepo{},
		dispatcher: &fakeDispatcher{},
	}
	env.svc = &LeaveServiceImpl{
		tx:                     passthroughTx{},
		LeaveRequestRepository: env.requests,
		LeaveBalanceRepository: env.balances,
		HolidayRepository:      env.holidays,
		userRepo:               &fakeUserRepo{adminIDs: []string{"admin-1"}},
		dispatcher:             env.dispatcher,
		now:                    time.Now,
	}
	return env
}

func (e *testEnv) balance(t *testing.T, userID string, year int, leaveType leave.LeaveType) leave.LeaveBalance {
	t.Helper()
	balance, err := e.balances.Get(context.Background(), userID, year, leaveType)
	require.NoError(t, err)
	return balance
}

// 2025-03-02 is a Sunday, 2025-03-04 a Tuesday: three working days.
func createThreeDayRequest(t *testing.T, env *testEnv, userID string) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := env.svc.CreateRequest(context.Background(), userID, leave.CreateLeaveRequestRequest{
		LeaveType: leave.TypeAnnual,
		StartDate: "2025-03-02",
		EndDate:   "2025-03-04",
		Reason:    "family visit out of town",
	})
	require.NoError(t, err)
	require.Equal(t, 3.0, resp.TotalDays)
	return resp
}

// ===== CREATE =====

func TestLeaveService_CreateRequest_ReservesBalance(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	resp := createThreeDayRequest(t, env, "user-1")

	assert.Equal(t, leave.StatusPending, resp.Status)

	balance := env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 3.0, balance.TotalPending)
	assert.Equal(t, 0.0, balance.TotalUsed)
	assert.Equal(t, -3.0, balance.Balance)

	require.Len(t, env.dispatcher.events, 1)
	assert.Equal(t, notification.TypeLeaveRequested, env.dispatcher.events[0].Type)
	assert.Equal(t, []string{"admin-1"}, env.dispatcher.events[0].RecipientIDs)
}

func TestLeaveService_CreateRequest_SkipsSaturdays(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	// Monday 2025-03-03 through Sunday 2025-03-09: seven calendar days, one
	// Saturday, so six working days.
	resp, err := env.svc.CreateRequest(context.Background(), "user-1", leave.CreateLeaveRequestRequest{
		LeaveType: leave.TypeAnnual,
		StartDate: "2025-03-03",
		EndDate:   "2025-03-09",
		Reason:    "trekking trip in the hills",
	})

	require.NoError(t, err)
	assert.Equal(t, 6.0, resp.TotalDays)
}

func TestLeaveService_CreateRequest_SkipsHolidays(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.holidays.dates = []string{"2025-03-03"}

	resp, err := env.svc.CreateRequest(context.Background(), "user-1", leave.CreateLeaveRequestRequest{
		LeaveType: leave.TypeCasual,
		StartDate: "2025-03-02",
		EndDate:   "2025-03-04",
		Reason:    "attending a relative's wedding",
	})

	require.NoError(t, err)
	assert.Equal(t, 2.0, resp.TotalDays)
}

func TestLeaveService_CreateRequest_HalfDay(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	half := leave.FirstHalf
	resp, err := env.svc.CreateRequest(context.Background(), "user-1", leave.CreateLeaveRequestRequest{
		LeaveType:   leave.TypeSick,
		StartDate:   "2025-03-08", // a Saturday; half days charge 0.5 regardless
		EndDate:     "2025-03-08",
		IsHalfDay:   true,
		HalfDayType: &half,
		Reason:      "morning medical appointment",
	})

	require.NoError(t, err)
	assert.Equal(t, 0.5, resp.TotalDays)

	balance := env.balance(t, "user-1", 2025, leave.TypeSick)
	assert.Equal(t, 0.5, balance.TotalPending)
	assert.Equal(t, -0.5, balance.Balance)
}

func TestLeaveService_CreateRequest_HalfDayMultiDay(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	half := leave.SecondHalf
	_, err := env.svc.CreateRequest(context.Background(), "user-1", leave.CreateLeaveRequestRequest{
		LeaveType:   leave.TypeAnnual,
		StartDate:   "2025-03-03",
		EndDate:     "2025-03-04",
		IsHalfDay:   true,
		HalfDayType: &half,
		Reason:      "half day over two days is invalid",
	})

	assert.ErrorIs(t, err, leave.ErrInvalidHalfDay)
}

func TestLeaveService_CreateRequest_InvalidDateRange(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	_, err := env.svc.CreateRequest(context.Background(), "user-1", leave.CreateLeaveRequestRequest{
		LeaveType: leave.TypeAnnual,
		StartDate: "2025-03-04",
		EndDate:   "2025-03-02",
		Reason:    "end date precedes start date",
	})

	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestLeaveService_CreateRequest_ReasonTooShort(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	_, err := env.svc.CreateRequest(context.Background(), "user-1", leave.CreateLeaveRequestRequest{
		LeaveType: leave.TypeAnnual,
		StartDate: "2025-03-02",
		EndDate:   "2025-03-04",
		Reason:    "short",
	})

	assert.ErrorIs(t, err, leave.ErrReasonTooShort)
}

func TestLeaveService_CreateRequest_HolidayLookupFails(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	env.holidays.err = errors.New("connection refused")

	_, err := env.svc.CreateRequest(context.Background(), "user-1", leave.CreateLeaveRequestRequest{
		LeaveType: leave.TypeAnnual,
		StartDate: "2025-03-02",
		EndDate:   "2025-03-04",
		Reason:    "holiday table is unreachable",
	})

	assert.ErrorIs(t, err, leave.ErrHolidayLookup)

	// Nothing was written
	balance := env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 0.0, balance.TotalPending)
}

// ===== LEDGER LIFECYCLE =====

func TestLeaveService_LedgerLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	resp := createThreeDayRequest(t, env, "user-1")

	// Approve: pending moves to used.
	_, err := env.svc.Approve(ctx, "admin-1", resp.ID)
	require.NoError(t, err)
	balance := env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 0.0, balance.TotalPending)
	assert.Equal(t, 3.0, balance.TotalUsed)
	assert.Equal(t, -3.0, balance.Balance)

	// Unapprove: used moves back to pending.
	_, err = env.svc.Unapprove(ctx, "admin-1", resp.ID)
	require.NoError(t, err)
	balance = env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 3.0, balance.TotalPending)
	assert.Equal(t, 0.0, balance.TotalUsed)
	assert.Equal(t, -3.0, balance.Balance)

	// Reject: the reservation is released entirely.
	_, err = env.svc.Reject(ctx, "admin-1", leave.RejectLeaveRequestRequest{
		ID:     resp.ID,
		Reason: "coverage needed that week",
	})
	require.NoError(t, err)
	balance = env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 0.0, balance.TotalPending)
	assert.Equal(t, 0.0, balance.TotalUsed)
	assert.Equal(t, 0.0, balance.Balance)
}

func TestLeaveService_Approve_SetsApprover(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	resp := createThreeDayRequest(t, env, "user-1")

	approved, err := env.svc.Approve(context.Background(), "admin-1", resp.ID)
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedByID)
	assert.Equal(t, "admin-1", *approved.ApprovedByID)
	assert.NotNil(t, approved.ApprovedAt)

	// Owner is notified
	require.Len(t, env.dispatcher.events, 2)
	assert.Equal(t, notification.TypeLeaveApproved, env.dispatcher.events[1].Type)
	assert.Equal(t, []string{"user-1"}, env.dispatcher.events[1].RecipientIDs)
}

func TestLeaveService_Approve_OnlyPending(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	resp := createThreeDayRequest(t, env, "user-1")
	_, err := env.svc.Approve(ctx, "admin-1", resp.ID)
	require.NoError(t, err)

	_, err = env.svc.Approve(ctx, "admin-1", resp.ID)
	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)

	// Double approval must not double-charge the ledger
	balance := env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 3.0, balance.TotalUsed)
}

func TestLeaveService_Approve_StaleReadCannotDoubleApply(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	resp := createThreeDayRequest(t, env, "user-1")

	// Two admins read the request while it is still pending. The first
	// approval lands; the second passes the pre-read status check too, so
	// only the conditional status update can stop it.
	snapshot := env.requests.requests[resp.ID]
	env.requests.stale = &snapshot

	_, err := env.svc.Approve(ctx, "admin-1", resp.ID)
	require.NoError(t, err)

	_, err = env.svc.Approve(ctx, "admin-2", resp.ID)
	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)

	// The ledger moved exactly once.
	balance := env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 3.0, balance.TotalUsed)
	assert.Equal(t, 0.0, balance.TotalPending)
	assert.Equal(t, -3.0, balance.Balance)
}

func TestLeaveService_Cancel_StaleReadCannotUndoApproval(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	resp := createThreeDayRequest(t, env, "user-1")

	// The owner reads the request as pending, then an admin approves it
	// before the cancellation writes.
	snapshot := env.requests.requests[resp.ID]

	_, err := env.svc.Approve(ctx, "admin-1", resp.ID)
	require.NoError(t, err)

	env.requests.stale = &snapshot
	_, err = env.svc.CancelRequest(ctx, "user-1", resp.ID)
	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)

	balance := env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 3.0, balance.TotalUsed)
	assert.Equal(t, 0.0, balance.TotalPending)
}

func TestLeaveService_Reject_RequiresReason(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	resp := createThreeDayRequest(t, env, "user-1")

	_, err := env.svc.Reject(context.Background(), "admin-1", leave.RejectLeaveRequestRequest{
		ID:     resp.ID,
		Reason: "   ",
	})

	assert.ErrorIs(t, err, leave.ErrRejectionReasonRequired)
}

func TestLeaveService_Unapprove_OnlyApproved(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	resp := createThreeDayRequest(t, env, "user-1")

	_, err := env.svc.Unapprove(context.Background(), "admin-1", resp.ID)

	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)
}

// ===== CANCEL =====

func TestLeaveService_CancelRequest_ReleasesReservation(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	resp := createThreeDayRequest(t, env, "user-1")

	cancelled, err := env.svc.CancelRequest(context.Background(), "user-1", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)

	balance := env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 0.0, balance.TotalPending)
	assert.Equal(t, 0.0, balance.Balance)

	// Cancellation notifies nobody
	assert.Len(t, env.dispatcher.events, 1)
}

func TestLeaveService_CancelRequest_OwnerOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	resp := createThreeDayRequest(t, env, "user-1")

	_, err := env.svc.CancelRequest(context.Background(), "user-2", resp.ID)

	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)
}

func TestLeaveService_CancelRequest_OnlyPending(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	resp := createThreeDayRequest(t, env, "user-1")
	_, err := env.svc.Approve(ctx, "admin-1", resp.ID)
	require.NoError(t, err)

	_, err = env.svc.CancelRequest(ctx, "user-1", resp.ID)

	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)
}

// ===== UPDATE =====

func TestLeaveService_UpdateRequest_MovesReservation(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	resp := createThreeDayRequest(t, env, "user-1")

	// Shrink to a single working day.
	endDate := "2025-03-02"
	updated, err := env.svc.UpdateRequest(context.Background(), "user-1", leave.UpdateLeaveRequestRequest{
		ID:      resp.ID,
		EndDate: &endDate,
	})

	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.TotalDays)

	balance := env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 1.0, balance.TotalPending)
	assert.Equal(t, -1.0, balance.Balance)
}

func TestLeaveService_UpdateRequest_TypeChangeMovesRows(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	resp := createThreeDayRequest(t, env, "user-1")

	newType := leave.TypeCasual
	_, err := env.svc.UpdateRequest(context.Background(), "user-1", leave.UpdateLeaveRequestRequest{
		ID:        resp.ID,
		LeaveType: &newType,
	})
	require.NoError(t, err)

	annual := env.balance(t, "user-1", 2025, leave.TypeAnnual)
	assert.Equal(t, 0.0, annual.TotalPending)
	assert.Equal(t, 0.0, annual.Balance)

	casual := env.balance(t, "user-1", 2025, leave.TypeCasual)
	assert.Equal(t, 3.0, casual.TotalPending)
	assert.Equal(t, -3.0, casual.Balance)
}

func TestLeaveService_UpdateRequest_OwnerOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	resp := createThreeDayRequest(t, env, "user-1")

	reason := "trying to edit someone else's request"
	_, err := env.svc.UpdateRequest(context.Background(), "user-2", leave.UpdateLeaveRequestRequest{
		ID:     resp.ID,
		Reason: &reason,
	})

	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)
}

func TestLeaveService_UpdateRequest_OnlyPending(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	resp := createThreeDayRequest(t, env, "user-1")
	_, err := env.svc.Approve(ctx, "admin-1", resp.ID)
	require.NoError(t, err)

	reason := "approved requests cannot be edited"
	_, err = env.svc.UpdateRequest(ctx, "user-1", leave.UpdateLeaveRequestRequest{
		ID:     resp.ID,
		Reason: &reason,
	})

	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)
}

// ===== REVIEW QUEUE =====

func TestLeaveService_ListRequestsByStatus(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	ctx := context.Background()

	first := createThreeDayRequest(t, env, "user-1")
	second := createThreeDayRequest(t, env, "user-2")

	_, err := env.svc.Approve(ctx, "admin-1", first.ID)
	require.NoError(t, err)

	pending, err := env.svc.ListRequestsByStatus(ctx, leave.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	approved, err := env.svc.ListRequestsByStatus(ctx, leave.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, first.ID, approved[0].ID)
}

// ===== WORKING DAYS =====

func TestCountWorkingDays(t *testing.T) {
	t.Parallel()

	monday, err := parseCivilDate("2025-03-03")
	require.NoError(t, err)
	sunday, err := parseCivilDate("2025-03-09")
	require.NoError(t, err)

	noHolidays := map[string]struct{}{}
	assert.Equal(t, 6, countWorkingDays(monday, sunday, noHolidays))

	withHoliday := map[string]struct{}{"2025-03-05": {}}
	assert.Equal(t, 5, countWorkingDays(monday, sunday, withHoliday))

	// A holiday on a Saturday is not double-counted.
	saturdayHoliday := map[string]struct{}{"2025-03-08": {}}
	assert.Equal(t, 6, countWorkingDays(monday, sunday, saturdayHoliday))

	assert.Equal(t, 1, countWorkingDays(monday, monday, noHolidays))
}
