package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/leave"
	"github.com/crewops/ops-portal-go/internal/domain/notification"
	"github.com/crewops/ops-portal-go/internal/domain/user"
	"github.com/crewops/ops-portal-go/internal/pkg/clock"
	"github.com/crewops/ops-portal-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	leave.LeaveBalanceRepository
	leave.HolidayRepository
	userRepo   user.UserRepository
	dispatcher notification.Dispatcher

	now func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	requestRepo leave.LeaveRequestRepository,
	balanceRepo leave.LeaveBalanceRepository,
	holidayRepo leave.HolidayRepository,
	userRepo user.UserRepository,
	dispatcher notification.Dispatcher,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: requestRepo,
		LeaveBalanceRepository: balanceRepo,
		HolidayRepository:      holidayRepo,
		userRepo:               userRepo,
		dispatcher:             dispatcher,
		now:                    time.Now,
	}
}

// CreateRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, userID string, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	startDate, err := parseCivilDate(req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := parseCivilDate(req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	if endDate.Before(startDate) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}
	if req.IsHalfDay && !startDate.Equal(endDate) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidHalfDay
	}

	totalDays, err := s.totalDaysFor(ctx, startDate, endDate, req.IsHalfDay)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request := leave.LeaveRequest{
		UserID:      userID,
		LeaveType:   req.LeaveType,
		Status:      leave.StatusPending,
		StartDate:   startDate,
		EndDate:     endDate,
		IsHalfDay:   req.IsHalfDay,
		HalfDayType: req.HalfDayType,
		Reason:      strings.TrimSpace(req.Reason),
		Notes:       req.Notes,
		TotalDays:   totalDays,
	}

	var created leave.LeaveRequest
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.LeaveRequestRepository.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		_, err = s.LeaveBalanceRepository.ApplyDelta(
			ctx, userID, startDate.Year(), req.LeaveType, leave.CreateDelta(totalDays),
		)
		if err != nil {
			return fmt.Errorf("failed to reserve leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.notifyAdmins(ctx, notification.Event{
		Type:    notification.TypeLeaveRequested,
		Title:   "Leave request",
		Message: fmt.Sprintf("%s requested %.1f day(s) of %s leave (%s to %s)", s.displayName(ctx, userID), totalDays, created.LeaveType, req.StartDate, req.EndDate),
		Data: map[string]interface{}{
			"request_id": created.ID,
			"user_id":    userID,
			"leave_type": string(created.LeaveType),
			"total_days": totalDays,
		},
	})

	return mapRequestToResponse(created), nil
}

// UpdateRequest implements leave.LeaveService. Only the owner may edit, and
// only while the request is still pending. The pending reservation follows
// the recalculated total.
func (s *LeaveServiceImpl) UpdateRequest(ctx context.Context, userID string, req leave.UpdateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.UserID != userID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidStatusTransition
	}

	oldDays := request.TotalDays
	oldYear := request.StartDate.Year()
	oldType := request.LeaveType

	if req.LeaveType != nil {
		request.LeaveType = *req.LeaveType
	}
	if req.StartDate != nil {
		if request.StartDate, err = parseCivilDate(*req.StartDate); err != nil {
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
		}
	}
	if req.EndDate != nil {
		if request.EndDate, err = parseCivilDate(*req.EndDate); err != nil {
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
		}
	}
	if req.IsHalfDay != nil {
		request.IsHalfDay = *req.IsHalfDay
	}
	if req.HalfDayType != nil {
		request.HalfDayType = req.HalfDayType
	}
	if req.Reason != nil {
		request.Reason = strings.TrimSpace(*req.Reason)
	}
	if req.Notes != nil {
		request.Notes = req.Notes
	}

	if !leave.IsValidLeaveType(request.LeaveType) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidLeaveType
	}
	if len(request.Reason) < leave.MinReasonLength {
		return leave.LeaveRequestResponse{}, leave.ErrReasonTooShort
	}
	if request.EndDate.Before(request.StartDate) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}
	if request.IsHalfDay {
		if !request.StartDate.Equal(request.EndDate) {
			return leave.LeaveRequestResponse{}, leave.ErrInvalidHalfDay
		}
		if request.HalfDayType == nil || !leave.IsValidHalfDayType(*request.HalfDayType) {
			return leave.LeaveRequestResponse{}, leave.ErrInvalidHalfDay
		}
	}

	newDays, err := s.totalDaysFor(ctx, request.StartDate, request.EndDate, request.IsHalfDay)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	request.TotalDays = newDays
	newYear := request.StartDate.Year()

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		// Same ledger row: shift the reservation in place. Different row
		// (year or type changed): release the old reservation, take a new
		// one.
		if oldYear == newYear && oldType == request.LeaveType {
			if oldDays == newDays {
				return nil
			}
			_, err := s.LeaveBalanceRepository.ApplyDelta(
				ctx, userID, newYear, request.LeaveType, leave.EditDelta(oldDays, newDays),
			)
			if err != nil {
				return fmt.Errorf("failed to adjust leave balance: %w", err)
			}
			return nil
		}

		if _, err := s.LeaveBalanceRepository.ApplyDelta(
			ctx, userID, oldYear, oldType, leave.CancelDelta(oldDays),
		); err != nil {
			return fmt.Errorf("failed to release old leave balance: %w", err)
		}
		if _, err := s.LeaveBalanceRepository.ApplyDelta(
			ctx, userID, newYear, request.LeaveType, leave.CreateDelta(newDays),
		); err != nil {
			return fmt.Errorf("failed to reserve new leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return mapRequestToResponse(request), nil
}

// CancelRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) CancelRequest(ctx context.Context, userID string, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.UserID != userID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidStatusTransition
	}

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		patch := leave.StatusPatch{From: leave.StatusPending, Status: leave.StatusCancelled}
		if err := s.LeaveRequestRepository.UpdateStatus(ctx, requestID, patch); err != nil {
			return fmt.Errorf("failed to cancel leave request: %w", err)
		}
		_, err := s.LeaveBalanceRepository.ApplyDelta(
			ctx, request.UserID, request.StartDate.Year(), request.LeaveType, leave.CancelDelta(request.TotalDays),
		)
		if err != nil {
			return fmt.Errorf("failed to release leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request.Status = leave.StatusCancelled
	return mapRequestToResponse(request), nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, approverID string, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidStatusTransition
	}

	approvedAt := s.now().UTC()
	patch := leave.StatusPatch{
		From:         leave.StatusPending,
		Status:       leave.StatusApproved,
		ApprovedByID: &approverID,
		ApprovedAt:   &approvedAt,
	}

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.LeaveRequestRepository.UpdateStatus(ctx, requestID, patch); err != nil {
			return fmt.Errorf("failed to approve leave request: %w", err)
		}
		_, err := s.LeaveBalanceRepository.ApplyDelta(
			ctx, request.UserID, request.StartDate.Year(), request.LeaveType, leave.ApproveDelta(request.TotalDays),
		)
		if err != nil {
			return fmt.Errorf("failed to move pending balance to used: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request.Status = leave.StatusApproved
	request.ApprovedByID = &approverID
	request.ApprovedAt = &approvedAt

	s.notifyUser(ctx, request.UserID, notification.Event{
		Type:    notification.TypeLeaveApproved,
		Title:   "Leave approved",
		Message: fmt.Sprintf("Your %s leave from %s to %s was approved", request.LeaveType, clock.CivilDate(request.StartDate), clock.CivilDate(request.EndDate)),
		Data:    map[string]interface{}{"request_id": request.ID},
	})

	return mapRequestToResponse(request), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, approverID string, req leave.RejectLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.getRequest(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidStatusTransition
	}

	rejectedAt := s.now().UTC()
	reason := strings.TrimSpace(req.Reason)
	patch := leave.StatusPatch{
		From:            leave.StatusPending,
		Status:          leave.StatusRejected,
		ApprovedByID:    &approverID,
		ApprovedAt:      &rejectedAt,
		RejectionReason: &reason,
	}

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.LeaveRequestRepository.UpdateStatus(ctx, req.ID, patch); err != nil {
			return fmt.Errorf("failed to reject leave request: %w", err)
		}
		_, err := s.LeaveBalanceRepository.ApplyDelta(
			ctx, request.UserID, request.StartDate.Year(), request.LeaveType, leave.RejectDelta(request.TotalDays),
		)
		if err != nil {
			return fmt.Errorf("failed to release leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request.Status = leave.StatusRejected
	request.ApprovedByID = &approverID
	request.ApprovedAt = &rejectedAt
	request.RejectionReason = &reason

	s.notifyUser(ctx, request.UserID, notification.Event{
		Type:    notification.TypeLeaveRejected,
		Title:   "Leave rejected",
		Message: fmt.Sprintf("Your %s leave from %s to %s was rejected: %s", request.LeaveType, clock.CivilDate(request.StartDate), clock.CivilDate(request.EndDate), reason),
		Data:    map[string]interface{}{"request_id": request.ID},
	})

	return mapRequestToResponse(request), nil
}

// Unapprove implements leave.LeaveService. Reverses an approval back to
// PENDING, moving the used days back to pending. Nobody is notified; the
// follow-up approve or reject carries the news.
func (s *LeaveServiceImpl) Unapprove(ctx context.Context, approverID string, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.Status != leave.StatusApproved {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidStatusTransition
	}

	patch := leave.StatusPatch{From: leave.StatusApproved, Status: leave.StatusPending}

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.LeaveRequestRepository.UpdateStatus(ctx, requestID, patch); err != nil {
			return fmt.Errorf("failed to unapprove leave request: %w", err)
		}
		_, err := s.LeaveBalanceRepository.ApplyDelta(
			ctx, request.UserID, request.StartDate.Year(), request.LeaveType, leave.UnapproveDelta(request.TotalDays),
		)
		if err != nil {
			return fmt.Errorf("failed to move used balance back to pending: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request.Status = leave.StatusPending
	request.ApprovedByID = nil
	request.ApprovedAt = nil
	request.RejectionReason = nil

	return mapRequestToResponse(request), nil
}

// GetRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return mapRequestToResponse(request), nil
}

// ListMyRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMyRequests(ctx context.Context, userID string, year int) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.LeaveRequestRepository.ListForUser(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, mapRequestToResponse(request))
	}
	return responses, nil
}

// ListRequestsByStatus implements leave.LeaveService.
func (s *LeaveServiceImpl) ListRequestsByStatus(ctx context.Context, status leave.Status) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.LeaveRequestRepository.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests by status: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, mapRequestToResponse(request))
	}
	return responses, nil
}

// ListMyBalances implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMyBalances(ctx context.Context, userID string, year int) ([]leave.LeaveBalanceResponse, error) {
	balances, err := s.LeaveBalanceRepository.ListForUser(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, balance := range balances {
		responses = append(responses, leave.LeaveBalanceResponse{
			UserID:         balance.UserID,
			Year:           balance.Year,
			LeaveType:      balance.LeaveType,
			TotalAllocated: balance.TotalAllocated,
			TotalUsed:      balance.TotalUsed,
			TotalPending:   balance.TotalPending,
			Balance:        balance.Balance,
		})
	}
	return responses, nil
}

func (s *LeaveServiceImpl) getRequest(ctx context.Context, id string) (leave.LeaveRequest, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}

func (s *LeaveServiceImpl) notifyAdmins(ctx context.Context, event notification.Event) {
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

func (s *LeaveServiceImpl) notifyUser(ctx context.Context, userID string, event notification.Event) {
	event.RecipientIDs = []string{userID}
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		slog.Warn("failed to dispatch notification", "type", event.Type, "error", err)
	}
}

func (s *LeaveServiceImpl) displayName(ctx context.Context, userID string) string {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u.FullName == "" {
		return userID
	}
	return u.FullName
}

func mapRequestToResponse(request leave.LeaveRequest) leave.LeaveRequestResponse {
	var approvedAt *string
	if request.ApprovedAt != nil {
		formatted := request.ApprovedAt.In(clock.Location).Format("2006-01-02 15:04:05")
		approvedAt = &formatted
	}

	return leave.LeaveRequestResponse{
		ID:              request.ID,
		UserID:          request.UserID,
		UserName:        request.UserName,
		LeaveType:       request.LeaveType,
		Status:          request.Status,
		StartDate:       request.StartDate.Format("2006-01-02"),
		EndDate:         request.EndDate.Format("2006-01-02"),
		IsHalfDay:       request.IsHalfDay,
		HalfDayType:     request.HalfDayType,
		Reason:          request.Reason,
		Notes:           request.Notes,
		TotalDays:       request.TotalDays,
		ApprovedByID:    request.ApprovedByID,
		ApprovedAt:      approvedAt,
		RejectionReason: request.RejectionReason,
		CreatedAt:       request.CreatedAt.In(clock.Location).Format("2006-01-02 15:04:05"),
	}
}
