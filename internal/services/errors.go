package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto HTTP
// statuses and the machine-readable codes of the response envelope.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUser      = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrBankCardNotFound   = errors.New("bank card not found")
	ErrMissingIDs         = errors.New("both donor and recipient IDs are required")
	ErrInvalidAmount      = errors.New("amount must be greater than 0")
	ErrDonorNotFound      = errors.New("donor not found")
	ErrRecipientNotFound  = errors.New("recipient not found")
)
