package controllers

import (
	"fmt"
	"forum-core/apperror"
	"forum-core/helpers"
	"forum-core/models"
	"net/http"
)

// ErrorResponse is the standardized error structure which may be returned by any API
type ErrorResponse struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
}

// HandleError encodes the std ErrorResponse.
// Validation errors are terminal (422/404) and passed on unchanged; only
// wrapped store errors get 503 - those are the ones worth a client retry.
func HandleError(err error) (httpStatus int, apiError ErrorResponse) {

	if err == nil {
		apiError.Code = 0
		apiError.Message = ""

		return 0, apiError
	}

	fmt.Println(err)
	switch err {
	// generic
	case apperror.ErrNoData:
		apiError.Code = TargetNotFound
		httpStatus = http.StatusNotFound
	case apperror.ErrDenied:
		apiError.Code = ActionDenied
		httpStatus = http.StatusUnprocessableEntity
	// verification
	case models.ErrInvalidSubject:
		apiError.Code = InvalidSubject
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrTokenNotFound:
		apiError.Code = TokenNotFound
		httpStatus = http.StatusNotFound
	case models.ErrTokenExpired:
		apiError.Code = TokenExpired
		httpStatus = http.StatusUnprocessableEntity
	// engagement
	case models.ErrAlreadyLiked:
		apiError.Code = AlreadyLiked
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrNotLiked:
		apiError.Code = NotLiked
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrAlreadyBookmarked:
		apiError.Code = AlreadyBookmarked
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrNotBookmarked:
		apiError.Code = NotBookmarked
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrInvalidTarget:
		apiError.Code = InvalidRequest
		httpStatus = http.StatusUnprocessableEntity
	// moderation
	case models.ErrInvalidReport:
		apiError.Code = InvalidReport
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrReportNotFound:
		apiError.Code = ReportNotFound
		httpStatus = http.StatusNotFound
	// user
	case models.ErrUserNameNotAvailable:
		apiError.Code = UserNameTaken
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrInvalidUser:
		apiError.Code = InvalidRequest
		httpStatus = http.StatusUnprocessableEntity
	case models.ErrInvalidPassword:
		apiError.Code = InvalidPassword
		httpStatus = http.StatusUnprocessableEntity
	default:
		if helpers.IsSystemError(err) {
			// transient store failure - retry with backoff is safe,
			// mutations are all-or-nothing
			apiError.Code = StoreUnavailable
			httpStatus = http.StatusServiceUnavailable
		} else {
			apiError.Code = SystemError
			httpStatus = http.StatusInternalServerError
		}
	}

	apiError.Message = apiError.String(apiError.Code)
	return httpStatus, apiError
}

// Application Error Codes (API Errors)
const (
	// client/api
	InvalidJSON int32 = (10000 + iota)
	InvalidRequest
	InvalidLogin
	// generic
	TargetNotFound
	ActionDenied
	// verification
	InvalidSubject
	TokenNotFound
	TokenExpired
	// engagement
	AlreadyLiked
	NotLiked
	AlreadyBookmarked
	NotBookmarked
	// moderation
	InvalidReport
	ReportNotFound
	// user
	UserNameTaken
	InvalidPassword
	// system
	StoreUnavailable
	SystemError = 99999
)

func (er ErrorResponse) String(code int32) string {
	msg := ""
	switch code {
	// common (system)
	case InvalidJSON:
		msg = "Invalid JSON"
	case InvalidRequest:
		msg = "Invalid Request" // JSON was correct, data was not
	case InvalidLogin:
		msg = "invalid user name or password"
	case TargetNotFound:
		msg = "content not found"
	case ActionDenied:
		msg = "update/delete action not allowed"
	// verification
	case InvalidSubject:
		msg = "unknown user"
	case TokenNotFound:
		msg = "verification token unknown or already used"
	case TokenExpired:
		msg = "verification token expired"
	// engagement
	case AlreadyLiked:
		msg = "already liked"
	case NotLiked:
		msg = "not liked"
	case AlreadyBookmarked:
		msg = "already bookmarked"
	case NotBookmarked:
		msg = "not bookmarked"
	// moderation
	case InvalidReport:
		msg = "target type, url and reason are required"
	case ReportNotFound:
		msg = "report not found"
	// user
	case UserNameTaken:
		msg = "user name is not available"
	case InvalidPassword:
		msg = "password does not meet rules"
	case StoreUnavailable:
		msg = "storage temporarily unavailable, try again"
	case SystemError:
		msg = "Server Problem"
	}

	return msg
}
