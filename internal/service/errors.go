package service

import "errors"

// Sentinel errors for the service layer. Handlers translate these into
// HTTP status codes and stable machine-readable error codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("not the resource owner")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrResetCooldown      = errors.New("reset code recently requested")
	ErrInvalidImage       = errors.New("unsupported image type")
	ErrImageTooLarge      = errors.New("image exceeds size limit")
	ErrUpstream           = errors.New("upstream collaborator failure")
)
