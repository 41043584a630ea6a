package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/attendance"
	"github.com/crewops/ops-portal-go/internal/domain/notification"
	"github.com/crewops/ops-portal-go/internal/domain/user"
	"github.com/crewops/ops-portal-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeSessionRepo struct {
	sessions map[string]attendance.Session
	pings    map[string][]attendance.LocationPing
	nextID   int

	// closeErrFor makes CloseSession fail for the named session ids.
	closeErrFor map[string]error

	// pingErr makes every AppendPing fail.
	pingErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:    make(map[string]attendance.Session),
		pings:       make(map[string][]attendance.LocationPing),
		closeErrFor: make(map[string]error),
	}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	f.nextID++
	session.ID = fmt.Sprintf("session-%d", f.nextID)
	session.CreatedAt = time.Now().UTC()
	session.UpdatedAt = session.CreatedAt
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) GetActiveSession(ctx context.Context, userID string, day time.Time) (attendance.Session, error) {
	for _, session := range f.sessions {
		if session.UserID == userID && session.Date.Equal(day) && session.IsActive() {
			return session, nil
		}
	}
	return attendance.Session{}, attendance.ErrNoActiveSession
}

func (f *fakeSessionRepo) ListOpenSessionsForDay(ctx context.Context, day time.Time) ([]attendance.Session, error) {
	var open []attendance.Session
	for _, session := range f.sessions {
		if session.Date.Equal(day) && session.IsActive() {
			open = append(open, session)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].ID < open[j].ID })
	return open, nil
}

func (f *fakeSessionRepo) CloseSession(ctx context.Context, id string, patch attendance.ClosePatch) error {
	if err := f.closeErrFor[id]; err != nil {
		return err
	}
	session, ok := f.sessions[id]
	if !ok || !session.IsActive() {
		return attendance.ErrSessionAlreadyClosed
	}
	checkOut := patch.CheckOutTime
	session.CheckOutTime = &checkOut
	session.CheckOutLatitude = patch.CheckOutLatitude
	session.CheckOutLongitude = patch.CheckOutLongitude
	session.CheckOutAddress = patch.CheckOutAddress
	session.CheckOutNotes = patch.CheckOutNotes
	hours := patch.TotalHours
	session.TotalHours = &hours
	session.Status = patch.Status
	session.AutoCheckedOut = patch.AutoCheckedOut
	session.Flags = patch.Flags
	f.sessions[id] = session
	return nil
}

func (f *fakeSessionRepo) UpdateOverride(ctx context.Context, req attendance.UpdateSessionRequest) error {
	session, ok := f.sessions[req.ID]
	if !ok {
		return attendance.ErrSessionNotFound
	}
	if req.Status != nil {
		session.Status = *req.Status
	}
	if req.IsLate != nil {
		session.IsLate = *req.IsLate
	}
	if req.LateMinutes != nil {
		session.LateMinutes = req.LateMinutes
	}
	if req.LateReason != nil {
		session.LateReason = req.LateReason
	}
	f.sessions[req.ID] = session
	return nil
}

func (f *fakeSessionRepo) ListForUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.Session, error) {
	var result []attendance.Session
	for _, session := range f.sessions {
		if session.UserID == userID && !session.Date.Before(from) && session.Date.Before(to) {
			result = append(result, session)
		}
	}
	return result, nil
}

func (f *fakeSessionRepo) AppendPing(ctx context.Context, ping attendance.LocationPing) (attendance.LocationPing, error) {
	if f.pingErr != nil {
		return attendance.LocationPing{}, f.pingErr
	}
	ping.ID = fmt.Sprintf("ping-%d", len(f.pings[ping.SessionID])+1)
	f.pings[ping.SessionID] = append(f.pings[ping.SessionID], ping)
	return ping, nil
}

func (f *fakeSessionRepo) LatestPing(ctx context.Context, sessionID string) (*attendance.LocationPing, error) {
	pings := f.pings[sessionID]
	if len(pings) == 0 {
		return nil, nil
	}
	latest := pings[len(pings)-1]
	return &latest, nil
}

type fakeUserRepo struct {
	users    map[string]user.User
	adminIDs []string
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
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

// rollbackTx snapshots the session repo before running the function and
// restores it when the function fails, the way a real transaction would.
type rollbackTx struct {
	repo *fakeSessionRepo
}

func (r rollbackTx) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	sessions := make(map[string]attendance.Session, len(r.repo.sessions))
	for id, s := range r.repo.sessions {
		sessions[id] = s
	}
	pings := make(map[string][]attendance.LocationPing, len(r.repo.pings))
	for id, p := range r.repo.pings {
		pings[id] = p
	}

	if err := fn(ctx); err != nil {
		r.repo.sessions = sessions
		r.repo.pings = pings
		return err
	}
	return nil
}

// ===== HELPERS =====

func newTestService(repo *fakeSessionRepo, at time.Time) (*SessionServiceImpl, *fakeDispatcher) {
	dispatcher := &fakeDispatcher{}
	svc := &SessionServiceImpl{
		tx:                rollbackTx{repo: repo},
		SessionRepository: repo,
		userRepo: &fakeUserRepo{
			users: map[string]user.User{
				"user-1": {ID: "user-1", FullName: "Asha Rai", Role: user.RoleStaff, IsActive: true},
			},
			adminIDs: []string{"admin-1"},
		},
		dispatcher: dispatcher,
		now:        func() time.Time { return at },
	}
	return svc, dispatcher
}

func ptrFloat(v float64) *float64 { return &v }
func ptrString(v string) *string  { return &v }

var (
	kathmanduLat = 27.7172
	kathmanduLng = 85.3240
)

func checkInAt(t *testing.T, svc *SessionServiceImpl, userID string) attendance.SessionResponse {
	t.Helper()
	resp, err := svc.CheckIn(context.Background(), userID, attendance.CheckInRequest{
		WorkLocation: attendance.WorkLocationOffice,
		Latitude:     ptrFloat(kathmanduLat),
		Longitude:    ptrFloat(kathmanduLng),
	})
	require.NoError(t, err)
	return resp
}

// ===== CHECK-IN =====

func TestSessionService_CheckIn_OnTime(t *testing.T) {
	t.Parallel()
	// 09:30 civil time
	svc, dispatcher := newTestService(newFakeSessionRepo(), clock.FromCivil(2025, time.March, 3, 9, 30, 0))

	resp := checkInAt(t, svc, "user-1")

	assert.Equal(t, attendance.StatusOnTime, resp.Status)
	assert.False(t, resp.IsLate)
	assert.Nil(t, resp.LateMinutes)
	assert.Equal(t, "2025-03-03", resp.Date)
	assert.Equal(t, "2025-03-03 09:30:00", resp.CheckInTime)
	assert.Equal(t, "2025-03-03 10:00:00", resp.ExpectedCheckInTime)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, notification.TypeCheckIn, dispatcher.events[0].Type)
	assert.Equal(t, []string{"admin-1"}, dispatcher.events[0].RecipientIDs)
}

func TestSessionService_CheckIn_GraceSecondsNotLate(t *testing.T) {
	t.Parallel()
	// 10:00:30 is still within the on-time minute
	svc, _ := newTestService(newFakeSessionRepo(), clock.FromCivil(2025, time.March, 3, 10, 0, 30))

	resp := checkInAt(t, svc, "user-1")

	assert.False(t, resp.IsLate)
	assert.Equal(t, attendance.StatusOnTime, resp.Status)
}

func TestSessionService_CheckIn_LateRequiresReason(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(newFakeSessionRepo(), clock.FromCivil(2025, time.March, 3, 10, 1, 0))

	_, err := svc.CheckIn(context.Background(), "user-1", attendance.CheckInRequest{
		WorkLocation: attendance.WorkLocationOffice,
		Latitude:     ptrFloat(kathmanduLat),
		Longitude:    ptrFloat(kathmanduLng),
	})

	assert.ErrorIs(t, err, attendance.ErrLateReasonRequired)
}

func TestSessionService_CheckIn_LateWithReason(t *testing.T) {
	t.Parallel()
	// 10:45 civil time
	svc, dispatcher := newTestService(newFakeSessionRepo(), clock.FromCivil(2025, time.March, 3, 10, 45, 0))

	resp, err := svc.CheckIn(context.Background(), "user-1", attendance.CheckInRequest{
		WorkLocation: attendance.WorkLocationSite,
		Latitude:     ptrFloat(kathmanduLat),
		Longitude:    ptrFloat(kathmanduLng),
		LateReason:   ptrString("traffic jam on the ring road"),
	})

	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, attendance.StatusLate, resp.Status)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 45, *resp.LateMinutes)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, notification.TypeCheckInLate, dispatcher.events[0].Type)
}

func TestSessionService_CheckIn_AlreadyCheckedIn(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(newFakeSessionRepo(), clock.FromCivil(2025, time.March, 3, 9, 0, 0))

	checkInAt(t, svc, "user-1")
	_, err := svc.CheckIn(context.Background(), "user-1", attendance.CheckInRequest{
		WorkLocation: attendance.WorkLocationOffice,
		Latitude:     ptrFloat(kathmanduLat),
		Longitude:    ptrFloat(kathmanduLng),
	})

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestSessionService_CheckIn_LocationRequired(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(newFakeSessionRepo(), clock.FromCivil(2025, time.March, 3, 9, 0, 0))

	_, err := svc.CheckIn(context.Background(), "user-1", attendance.CheckInRequest{
		WorkLocation: attendance.WorkLocationOffice,
	})

	assert.ErrorIs(t, err, attendance.ErrLocationRequired)
}

func TestSessionService_CheckIn_PingFailureLeavesNoSession(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	repo.pingErr = errors.New("connection reset by peer")
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))

	_, err := svc.CheckIn(context.Background(), "user-1", attendance.CheckInRequest{
		WorkLocation: attendance.WorkLocationOffice,
		Latitude:     ptrFloat(kathmanduLat),
		Longitude:    ptrFloat(kathmanduLng),
	})
	require.Error(t, err)

	// The failed check-in must not leave an orphaned open session behind.
	assert.Empty(t, repo.sessions)
	_, err = repo.GetActiveSession(context.Background(), "user-1", clock.TodayMidnight(svc.now()))
	assert.ErrorIs(t, err, attendance.ErrNoActiveSession)
}

func TestSessionService_CheckIn_RecordsInitialPing(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))

	resp := checkInAt(t, svc, "user-1")

	require.Len(t, repo.pings[resp.ID], 1)
	assert.Equal(t, kathmanduLat, repo.pings[resp.ID][0].Latitude)
}

// ===== CHECK-OUT =====

func TestSessionService_CheckOut_Success(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, dispatcher := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))

	created := checkInAt(t, svc, "user-1")

	// 09:00 -> 17:30 is 8.5 hours
	svc.now = func() time.Time { return clock.FromCivil(2025, time.March, 3, 17, 30, 0) }
	resp, err := svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptrFloat(kathmanduLat),
		Longitude: ptrFloat(kathmanduLng),
	})

	require.NoError(t, err)
	require.NotNil(t, resp.TotalHours)
	assert.InDelta(t, 8.5, *resp.TotalHours, 0.001)
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, "2025-03-03 17:30:00", *resp.CheckOutTime)
	assert.False(t, resp.AutoCheckedOut)

	// check-in ping plus check-out ping
	assert.Len(t, repo.pings[created.ID], 2)

	require.Len(t, dispatcher.events, 2)
	assert.Equal(t, notification.TypeCheckOut, dispatcher.events[1].Type)
}

func TestSessionService_CheckOut_WithinRadiusBoundary(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))
	checkInAt(t, svc, "user-1")

	// ~489 m north of the check-in point
	svc.now = func() time.Time { return clock.FromCivil(2025, time.March, 3, 17, 0, 0) }
	_, err := svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptrFloat(kathmanduLat + 0.0044),
		Longitude: ptrFloat(kathmanduLng),
	})

	assert.NoError(t, err)
}

func TestSessionService_CheckOut_OutsideRadius(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))
	checkInAt(t, svc, "user-1")

	// ~511 m north of the check-in point
	svc.now = func() time.Time { return clock.FromCivil(2025, time.March, 3, 17, 0, 0) }
	_, err := svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptrFloat(kathmanduLat + 0.0046),
		Longitude: ptrFloat(kathmanduLng),
	})

	require.ErrorIs(t, err, attendance.ErrOutsideRadius)
	assert.Contains(t, err.Error(), "allowed 500 m")

	// Session must still be open
	session, getErr := repo.GetActiveSession(context.Background(), "user-1", clock.TodayMidnight(svc.now()))
	require.NoError(t, getErr)
	assert.True(t, session.IsActive())
}

func TestSessionService_CheckOut_NoActiveSession(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(newFakeSessionRepo(), clock.FromCivil(2025, time.March, 3, 17, 0, 0))

	_, err := svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptrFloat(kathmanduLat),
		Longitude: ptrFloat(kathmanduLng),
	})

	assert.ErrorIs(t, err, attendance.ErrNoActiveSession)
}

func TestSessionService_CheckOut_CheckInLocationMissing(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 17, 0, 0))

	day := clock.TodayMidnight(svc.now())
	_, err := repo.Create(context.Background(), attendance.Session{
		UserID:      "user-1",
		Date:        day,
		Status:      attendance.StatusOnTime,
		CheckInTime: clock.FromCivil(2025, time.March, 3, 9, 0, 0),
	})
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), "user-1", attendance.CheckOutRequest{
		Latitude:  ptrFloat(kathmanduLat),
		Longitude: ptrFloat(kathmanduLng),
	})

	assert.ErrorIs(t, err, attendance.ErrCheckInLocationMissing)
}

// ===== RECORD LOCATION =====

func TestSessionService_RecordLocation(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))
	created := checkInAt(t, svc, "user-1")

	err := svc.RecordLocation(context.Background(), "user-1", attendance.RecordLocationRequest{
		SessionID: created.ID,
		Latitude:  ptrFloat(kathmanduLat + 0.001),
		Longitude: ptrFloat(kathmanduLng),
	})

	require.NoError(t, err)
	assert.Len(t, repo.pings[created.ID], 2)
}

func TestSessionService_RecordLocation_NotOwner(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))
	created := checkInAt(t, svc, "user-1")

	err := svc.RecordLocation(context.Background(), "user-2", attendance.RecordLocationRequest{
		SessionID: created.ID,
		Latitude:  ptrFloat(kathmanduLat),
		Longitude: ptrFloat(kathmanduLng),
	})

	assert.ErrorIs(t, err, attendance.ErrSessionNotActive)
}

// ===== AUTO-CHECKOUT SWEEP =====

func TestSessionService_AutoCheckout_ClosesOpenSessions(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))
	created := checkInAt(t, svc, "user-1")

	sweepAt := clock.FromCivil(2025, time.March, 3, 23, 59, 0)
	result, err := svc.AutoCheckout(context.Background(), sweepAt)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)

	closed, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive())
	assert.Equal(t, attendance.StatusAutoCheckedOut, closed.Status)
	assert.True(t, closed.AutoCheckedOut)
	assert.Contains(t, closed.Flags, attendance.FlagAutoCheckedOut)
}

func TestSessionService_AutoCheckout_Idempotent(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))
	checkInAt(t, svc, "user-1")

	sweepAt := clock.FromCivil(2025, time.March, 3, 23, 59, 0)
	first, err := svc.AutoCheckout(context.Background(), sweepAt)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	second, err := svc.AutoCheckout(context.Background(), sweepAt)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 0, second.Failed)
}

func TestSessionService_AutoCheckout_UsesLatestPingLocation(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))
	created := checkInAt(t, svc, "user-1")

	movedLat := kathmanduLat + 0.01
	require.NoError(t, svc.RecordLocation(context.Background(), "user-1", attendance.RecordLocationRequest{
		SessionID: created.ID,
		Latitude:  ptrFloat(movedLat),
		Longitude: ptrFloat(kathmanduLng),
	}))

	_, err := svc.AutoCheckout(context.Background(), clock.FromCivil(2025, time.March, 3, 23, 59, 0))
	require.NoError(t, err)

	closed, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.CheckOutLatitude)
	assert.Equal(t, movedLat, *closed.CheckOutLatitude)
}

func TestSessionService_AutoCheckout_FailureIsolation(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 9, 0, 0))

	first := checkInAt(t, svc, "user-1")

	day := clock.TodayMidnight(svc.now())
	second, err := repo.Create(context.Background(), attendance.Session{
		UserID:           "user-2",
		Date:             day,
		Status:           attendance.StatusOnTime,
		CheckInTime:      clock.FromCivil(2025, time.March, 3, 9, 10, 0),
		CheckInLatitude:  ptrFloat(kathmanduLat),
		CheckInLongitude: ptrFloat(kathmanduLng),
	})
	require.NoError(t, err)

	repo.closeErrFor[first.ID] = errors.New("deadlock detected")

	result, err := svc.AutoCheckout(context.Background(), clock.FromCivil(2025, time.March, 3, 23, 59, 0))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 2)

	closed, err := repo.GetByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive())
}

// ===== ADMIN OVERRIDE =====

func TestSessionService_UpdateSession(t *testing.T) {
	t.Parallel()
	repo := newFakeSessionRepo()
	svc, _ := newTestService(repo, clock.FromCivil(2025, time.March, 3, 10, 30, 0))

	resp, err := svc.CheckIn(context.Background(), "user-1", attendance.CheckInRequest{
		WorkLocation: attendance.WorkLocationOffice,
		Latitude:     ptrFloat(kathmanduLat),
		Longitude:    ptrFloat(kathmanduLng),
		LateReason:   ptrString("flat tyre on the commute"),
	})
	require.NoError(t, err)
	require.True(t, resp.IsLate)

	notLate := false
	status := attendance.StatusOnTime
	updated, err := svc.UpdateSession(context.Background(), attendance.UpdateSessionRequest{
		ID:     resp.ID,
		Status: &status,
		IsLate: &notLate,
	})

	require.NoError(t, err)
	assert.False(t, updated.IsLate)
	assert.Equal(t, attendance.StatusOnTime, updated.Status)
}

func TestSessionService_UpdateSession_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(newFakeSessionRepo(), clock.FromCivil(2025, time.March, 3, 10, 0, 0))

	_, err := svc.UpdateSession(context.Background(), attendance.UpdateSessionRequest{ID: "missing"})

	assert.ErrorIs(t, err, attendance.ErrSessionNotFound)
}
