package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrAccountProtected   = errors.New("admin accounts cannot be deleted")
	ErrForbidden          = errors.New("access forbidden")

	// Token failures are distinct so the client can tell a stale session
	// (redirect to login) from a tampered one.
	ErrTokenMissing = errors.New("authentication token missing")
	ErrTokenInvalid = errors.New("authentication token invalid")
	ErrTokenExpired = errors.New("authentication token expired")
	ErrTokenRevoked = errors.New("authentication token revoked")

	ErrUnknownDepartment = errors.New("unknown department")
	ErrUnknownSection    = errors.New("unknown section")
	ErrBucketNotFound    = errors.New("no record for the requested date")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrFieldNotAllowed   = errors.New("field is not updatable")
	ErrInvalidFieldValue = errors.New("field value has the wrong type")
)
