package utils

type ErrCode string

const (
	ErrCodeValidation   ErrCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrCode = "FORBIDDEN"
	ErrCodeInternal     ErrCode = "INTERNAL_ERROR"
	ErrCodeConflict     ErrCode = "CONFLICT"
)

type AppError struct {
	Code    ErrCode `json:"code"`
	Message string  `json:"message"`
	Details string  `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func NewAppError(code ErrCode, message string, details ...string) *AppError {
	d := ""
	if len(details) > 0 {
		d = details[0]
	}
	return &AppError{Code: code, Message: message, Details: d}
}
