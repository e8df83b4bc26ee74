package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Request struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	LeaveType string     `json:"leaveType"`
	StartDate time.Time  `json:"startDate"`
	EndDate   time.Time  `json:"endDate"`
	Reason    string     `json:"reason"`
	Status    string     `json:"status"`
	AppliedAt time.Time  `json:"appliedAt"`
	DecidedBy string     `json:"decidedBy,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
}
