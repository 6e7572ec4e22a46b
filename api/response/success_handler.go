package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func HandleSuccess(c *gin.Context, data interface{}, message string) {
	write(c, http.StatusOK, data, message)
}

func HandleCreated(c *gin.Context, data interface{}, message string) {
	write(c, http.StatusCreated, data, message)
}

// HandleList writes one page of a list. An empty page is [] rather than null.
func HandleList[T any](c *gin.Context, items []T, limit, offset int, message string) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, &PaginatedResponse{
		Success:    true,
		Data:       items,
		Pagination: Pagination{Limit: limit, Offset: offset, Count: len(items)},
		Message:    message,
		Code:       http.StatusOK,
		RequestID:  GetRequestID(c),
	})
}

func write(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      status,
		RequestID: GetRequestID(c),
	})
}
