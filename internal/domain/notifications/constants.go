package notifications

const (
	TypeAttendance = "attendance_update"
	TypeTask       = "task_update"
	TypeLeave      = "leave_update"
	TypeSystem     = "system"
)
