package domain

import "errors"

// Workflow failure conditions. Handlers map these to HTTP responses and
// user-facing messages; wrap with fmt.Errorf("...: %w", err) to add detail.
var (
	ErrUnauthenticated     = errors.New("session missing, login required")
	ErrSessionTokenMissing = errors.New("session token missing, please sign in again")

	ErrProfileMissing         = errors.New("no user profile found, please log out and log back in")
	ErrProfileLookupFailed    = errors.New("profile lookup failed")
	ErrProfileMissingUserType = errors.New("profile missing user type, please contact support")

	ErrPermissionDenied         = errors.New("you do not have permission to perform this action")
	ErrDealerAssociationMissing = errors.New("dealer account is missing dealership information, please contact support")

	ErrJobAlreadyTaken = errors.New("job already taken")

	ErrDealerProfileCreationTimeout = errors.New("failed to create dealer profile, please try again or contact support")

	ErrEmailAlreadyRegistered = errors.New("this email address is already registered, please use the login page instead")
)
