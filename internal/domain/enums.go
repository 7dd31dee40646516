package domain

// UserType is the role carried on a profile row (column user_type).
type UserType string

const (
	UserTypeDealer UserType = "dealer"
	UserTypeDriver UserType = "driver"
	UserTypeStaff  UserType = "staff"
	UserTypeAdmin  UserType = "admin"
)

// CanCreateJobs reports whether the role is allowed on dealer-side job surfaces.
func (u UserType) CanCreateJobs() bool {
	switch u {
	case UserTypeDealer, UserTypeStaff, UserTypeAdmin:
		return true
	}
	return false
}

type JobType string

const (
	JobTypeDelivery JobType = "delivery"
	JobTypeSwap     JobType = "swap"
)

// JobStatus transitions are linear: open -> assigned -> in_progress -> completed.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
)

type StaffRole string

const (
	StaffRoleOwner StaffRole = "owner"
	StaffRoleStaff StaffRole = "staff"
)

type DealerStatus string

const (
	DealerStatusActive   DealerStatus = "active"
	DealerStatusInactive DealerStatus = "inactive"
)
