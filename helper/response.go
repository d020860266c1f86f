package helper

import (
	"rakshak-service/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	ErrInvalidRequest     = "INVALID_REQUEST"
	ErrInvalidOperation   = "INVALID_OPERATION"
	ErrNotFound           = "NOT_FOUND"
	ErrServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrUnauthorized       = "UNAUTHORIZED"
	ErrForbidden          = "FORBIDDEN"
	ErrRateLimited        = "RATE_LIMITED"
)

type APIResponse struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Error      string      `json:"error,omitempty"`
	ErrorCode  string      `json:"error_code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

func SendError(c *gin.Context, statusCode int, err error, errorCode string) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Message:    "error",
		Error:      msg,
		ErrorCode:  errorCode,
	})
}

// SendAppError answers with the status and code derived from the error
// kind. Internal errors never expose the wrapped cause.
func SendAppError(c *gin.Context, err error) {
	sendKind(c, err, nil)
}

// SendAppErrorWithData is SendAppError with a body payload, used when a
// degraded result is still worth rendering.
func SendAppErrorWithData(c *gin.Context, err error, data interface{}) {
	sendKind(c, err, data)
}

func sendKind(c *gin.Context, err error, data interface{}) {
	kind := apperror.KindOf(err)
	status := kind.StatusCode()
	c.JSON(status, APIResponse{
		StatusCode: status,
		Message:    "error",
		Error:      apperror.MessageOf(err),
		ErrorCode:  codeFor(kind),
		Data:       data,
	})
}

func codeFor(kind apperror.Kind) string {
	switch kind {
	case apperror.KindValidation:
		return ErrInvalidRequest
	case apperror.KindNotFound:
		return ErrNotFound
	case apperror.KindServiceUnavailable:
		return ErrServiceUnavailable
	default:
		return ErrInvalidOperation
	}
}
