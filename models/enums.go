package models

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "Planning"
	ProjectStatusOngoing   ProjectStatus = "Ongoing"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusOnHold    ProjectStatus = "On Hold"
	ProjectStatusCancelled ProjectStatus = "Cancelled"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
	AttendanceStatusHalfDay AttendanceStatus = "Half Day"
	AttendanceStatusLeave   AttendanceStatus = "Leave"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "Pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "Approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "Rejected"
)
