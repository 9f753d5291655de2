package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	AccountNotFound   ErrorCode = "account_not_found"
	InvalidInput      ErrorCode = "invalid_input"
	InvalidAmount     ErrorCode = "invalid_amount"
	InvalidOperation  ErrorCode = "invalid_operation"
	NotAPlayer        ErrorCode = "not_a_player"
	NoTargetMatched   ErrorCode = "no_target_matched"
	TooManyTargets    ErrorCode = "too_many_targets"
	TargetNotPlayer   ErrorCode = "target_not_player"
	SelfPayment       ErrorCode = "self_payment"
	InsufficientFunds ErrorCode = "insufficient_funds"
	PermissionDenied  ErrorCode = "permission_denied"
	UnknownCommand    ErrorCode = "unknown_command"
	NoOverloadMatched ErrorCode = "no_overload_matched"
	PlayerNotOnline   ErrorCode = "player_not_online"
	PlayerOnline      ErrorCode = "player_already_online"
	LockUnavailable   ErrorCode = "lock_unavailable"
	InternalError     ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target carries the same code and message, so copies
// produced by WithDetails still match the predefined errors.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails returns a copy of e carrying details. Predefined errors are
// shared, so they are never mutated in place.
func (e *AppError) WithDetails(details string) *AppError {
	c := *e
	c.Details = details
	return &c
}

// HTTPStatus maps the error code to the status the HTTP adapter responds with.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case AccountNotFound, PlayerNotOnline:
		return http.StatusNotFound
	case PermissionDenied:
		return http.StatusForbidden
	case PlayerOnline:
		return http.StatusConflict
	case InsufficientFunds, SelfPayment:
		return http.StatusUnprocessableEntity
	case LockUnavailable:
		return http.StatusServiceUnavailable
	case InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Predefined errors for common cases
var (
	ErrAccountNotFound     = NewAppError(AccountNotFound, "account not found")
	ErrInvalidOperation    = NewAppError(InvalidOperation, "operation must be one of add, subtract, set")
	ErrPlayerNotOnline     = NewAppError(PlayerNotOnline, "player is not online")
	ErrPlayerAlreadyOnline = NewAppError(PlayerOnline, "player is already online")
	ErrLockUnavailable     = NewAppError(LockUnavailable, "could not acquire account lock")

	ErrBalanceOriginNotPlayer = NewAppError(NotAPlayer, "You must be a player to check your balance.")
	ErrPayOriginNotPlayer     = NewAppError(NotAPlayer, "You must be a player to pay another player.")
	ErrNoTargetMatched        = NewAppError(NoTargetMatched, "No target matched the specified selector.")
	ErrTooManyBalanceTargets  = NewAppError(TooManyTargets, "You can only check one player's balance at a time.")
	ErrTooManyPayTargets      = NewAppError(TooManyTargets, "You can only pay one player at a time.")
	ErrTargetNotPlayer        = NewAppError(TargetNotPlayer, "The specified target is not a player.")
	ErrSelfPayment            = NewAppError(SelfPayment, "You cannot pay yourself.")
	ErrInvalidAmount          = NewAppError(InvalidAmount, "You must provide a positive amount to pay another player.")
	ErrInsufficientFunds      = NewAppError(InsufficientFunds, "You do not have the sufficient funds to pay another player.")
	ErrPermissionDenied       = NewAppError(PermissionDenied, "You do not have permission to use this command.")
	ErrNoOverloadMatched      = NewAppError(NoOverloadMatched, "No overload matched argument.")
	ErrPaymentFailed          = NewAppError(InternalError, "The payment could not be completed.")
	ErrAmountOutOfRange       = NewAppError(InvalidAmount, "The amount is out of range.")
	ErrBalanceOutOfRange      = NewAppError(InvalidAmount, "The resulting balance is out of range.")
)
