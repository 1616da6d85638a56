package util

import (
	"github.com/gin-gonic/gin"
)

// Business error codes carried next to the HTTP status.
const (
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// JSON writes v as the response body.
func JSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

// Error writes an error response.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, ErrorBody{Code: code, Error: msg})
}

// Abort writes an error response and stops the handler chain.
func Abort(c *gin.Context, httpStatus int, code int, msg string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Code: code, Error: msg})
}
