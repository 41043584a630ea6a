package notification

import "time"

// NotificationType tags what event produced a notification.
type NotificationType string

const (
	TypeCheckInLate    NotificationType = "attendance_check_in_late"
	TypeCheckIn        NotificationType = "attendance_check_in"
	TypeCheckOut       NotificationType = "attendance_check_out"
	TypeAutoCheckedOut NotificationType = "attendance_auto_checked_out"
	TypeLeaveRequested NotificationType = "leave_requested"
	TypeLeaveApproved  NotificationType = "leave_approved"
	TypeLeaveRejected  NotificationType = "leave_rejected"
)

// Notification is one in-app notification for one recipient.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
