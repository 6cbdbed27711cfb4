package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/keepsakehq/keepsake/internal/model"
	"github.com/keepsakehq/keepsake/internal/services/admin"
	"github.com/keepsakehq/keepsake/internal/services/challenge"
	"github.com/keepsakehq/keepsake/internal/services/pet"
	"github.com/keepsakehq/keepsake/internal/services/records"
)

// APIError represents an API error response. The optional fields only appear
// on the errors that carry them: attempts_remaining on wrong challenge
// answers, limited on daily cap hits, reason on blocked admin logins.
type APIError struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	AttemptsRemaining *int   `json:"attempts_remaining,omitempty"`
	Limited           bool   `json:"limited,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeIncorrectAnswer    = "INCORRECT_ANSWER"
	CodeLocked             = "LOCKED"
	CodeNoQuestions        = "NO_QUESTIONS"
	CodeQuestionNotFound   = "QUESTION_NOT_FOUND"
	CodeAdminNotFound      = "ADMIN_NOT_FOUND"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountPending     = "ACCOUNT_PENDING"
	CodeAccountRejected    = "ACCOUNT_REJECTED"
	CodeLastAdmin          = "LAST_ADMIN"
	CodeDailyLimit         = "DAILY_LIMIT_REACHED"
	CodeAccessoryNotOwned  = "ACCESSORY_NOT_OWNED"
	CodeMessageNotFound    = "MESSAGE_NOT_FOUND"
	CodeMemoNotFound       = "MEMO_NOT_FOUND"
	CodePhotoNotFound      = "PHOTO_NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError. A non-zero
// retryAfter becomes a Retry-After header.
type httpError struct {
	status     int
	retryAfter time.Duration
	apiError   APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	if he.retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(he.retryAfter.Seconds())))
	}
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var locked *challenge.LockedError
	if errors.As(err, &locked) {
		return &httpError{
			status:     http.StatusTooManyRequests,
			retryAfter: locked.RetryAfter,
			apiError:   APIError{Code: CodeLocked, Message: "Too many failed attempts, try again later"},
		}
	}

	var incorrect *challenge.IncorrectAnswerError
	if errors.As(err, &incorrect) {
		remaining := incorrect.Remaining
		return &httpError{
			status: http.StatusUnauthorized,
			apiError: APIError{
				Code:              CodeIncorrectAnswer,
				Message:           "Incorrect answer",
				AttemptsRemaining: &remaining,
			},
		}
	}

	var limited *pet.DailyLimitError
	if errors.As(err, &limited) {
		return &httpError{
			status: http.StatusBadRequest,
			apiError: APIError{
				Code:    CodeDailyLimit,
				Message: limited.Error(),
				Limited: true,
			},
		}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrNoQuestions):
		return &httpError{status: http.StatusNotFound, apiError: APIError{Code: CodeNoQuestions, Message: "No questions configured"}}
	case errors.Is(err, model.ErrQuestionNotFound):
		return &httpError{status: http.StatusNotFound, apiError: APIError{Code: CodeQuestionNotFound, Message: "Question not found"}}
	case errors.Is(err, model.ErrAdminNotFound):
		return &httpError{status: http.StatusNotFound, apiError: APIError{Code: CodeAdminNotFound, Message: "Admin account not found"}}
	case errors.Is(err, model.ErrUsernameExists):
		return &httpError{status: http.StatusConflict, apiError: APIError{Code: CodeUsernameExists, Message: "Username already exists"}}
	case errors.Is(err, model.ErrMessageNotFound):
		return &httpError{status: http.StatusNotFound, apiError: APIError{Code: CodeMessageNotFound, Message: "Message not found"}}
	case errors.Is(err, model.ErrMemoNotFound):
		return &httpError{status: http.StatusNotFound, apiError: APIError{Code: CodeMemoNotFound, Message: "Memo not found"}}
	case errors.Is(err, model.ErrPhotoNotFound):
		return &httpError{status: http.StatusNotFound, apiError: APIError{Code: CodePhotoNotFound, Message: "Photo not found"}}

	// Map admin errors
	case errors.Is(err, admin.ErrInvalidCredentials):
		return &httpError{status: http.StatusUnauthorized, apiError: APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, admin.ErrAccountPending):
		return &httpError{status: http.StatusForbidden, apiError: APIError{Code: CodeAccountPending, Message: "Account is pending approval", Reason: "pending"}}
	case errors.Is(err, admin.ErrAccountRejected):
		return &httpError{status: http.StatusForbidden, apiError: APIError{Code: CodeAccountRejected, Message: "Account was rejected", Reason: "rejected"}}
	case errors.Is(err, admin.ErrLastAdmin):
		return &httpError{status: http.StatusConflict, apiError: APIError{Code: CodeLastAdmin, Message: "Cannot delete the last approved admin"}}
	case errors.Is(err, admin.ErrUsernameTooShort),
		errors.Is(err, admin.ErrPasswordTooShort):
		return &httpError{status: http.StatusBadRequest, apiError: APIError{Code: CodeInvalidRequest, Message: err.Error()}}

	// Map pet errors
	case errors.Is(err, pet.ErrAccessoryNotOwned):
		return &httpError{status: http.StatusBadRequest, apiError: APIError{Code: CodeAccessoryNotOwned, Message: "Accessory is not unlocked"}}
	case errors.Is(err, pet.ErrNameRequired),
		errors.Is(err, pet.ErrColorRequired),
		errors.Is(err, pet.ErrInvalidExpAmount):
		return &httpError{status: http.StatusBadRequest, apiError: APIError{Code: CodeInvalidRequest, Message: err.Error()}}

	// Map records errors
	case errors.Is(err, records.ErrNicknameRequired),
		errors.Is(err, records.ErrContentRequired),
		errors.Is(err, records.ErrTitleRequired),
		errors.Is(err, records.ErrURLRequired):
		return &httpError{status: http.StatusBadRequest, apiError: APIError{Code: CodeInvalidRequest, Message: err.Error()}}

	default:
		return &httpError{status: http.StatusInternalServerError, apiError: APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{status: http.StatusBadRequest, apiError: APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{status: http.StatusUnauthorized, apiError: APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewSessionExpiredError creates an unauthorized error for an expired session
func NewSessionExpiredError() error {
	return &httpError{status: http.StatusUnauthorized, apiError: APIError{Code: CodeUnauthorized, Message: "Session expired"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError() error {
	return &httpError{status: http.StatusForbidden, apiError: APIError{Code: CodeForbidden, Message: "Admin access required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{status: http.StatusInternalServerError, apiError: APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
