package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"

	"storefront/domain/shared"
	"storefront/pkg/errors"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetRequestID request id set by the request id middleware, or "".
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// extractStack prefers the stack recorded where a domain error was created.
func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(5)
}

// HandleBindError rejects a request whose body or query could not be bound.
func HandleBindError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	logger.Warn("Invalid request parameters",
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err))

	c.JSON(http.StatusUnprocessableEntity, &Response{
		Success:   false,
		Error:     string(errors.CodeValidation),
		Message:   "invalid request parameters",
		Code:      http.StatusUnprocessableEntity,
		RequestID: requestID,
	})
}

// HandleAppError maps err to its code and status and writes the error envelope.
func HandleAppError(c *gin.Context, err error) {
	HandleAppErrorWithData(c, err, nil)
}

// HandleAppErrorWithData like HandleAppError but keeps a payload in data,
// for failures that still have something useful to show.
func HandleAppErrorWithData(c *gin.Context, err error, data interface{}) {
	requestID := GetRequestID(c)
	appErr := errors.FromDomainError(err)
	status := appErr.HTTPStatusCode()

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", status),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	if status >= http.StatusInternalServerError {
		logger.Error(appErr.Message, append(fields, zap.Strings("stack", extractStack(err)))...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	message := appErr.Message
	if appErr.Code == errors.CodeInternal {
		message = "internal server error"
	}

	c.JSON(status, &Response{
		Success:   false,
		Data:      data,
		Error:     string(appErr.Code),
		Message:   message,
		Code:      status,
		RequestID: requestID,
	})
}

// AbortWithAppError writes the error envelope and stops the handler chain.
// Used by middleware.
func AbortWithAppError(c *gin.Context, err *errors.AppError) {
	status := err.HTTPStatusCode()
	c.AbortWithStatusJSON(status, &Response{
		Success:   false,
		Error:     string(err.Code),
		Message:   err.Message,
		Code:      status,
		RequestID: GetRequestID(c),
	})
}
