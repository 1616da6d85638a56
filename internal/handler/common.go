package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"finance-tracker/internal/middleware"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

const msgMissingFields = "Missing required fields"

// currentUser returns the caller's id, answering 401 itself when the
// request did not pass through AuthMiddleware.
func currentUser(c *gin.Context) (int64, bool) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Missing token")
		return 0, false
	}
	return uid, true
}

// pathID parses the :id parameter. Anything that is not a positive integer
// can never match a record, so callers treat !ok as not found.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into v. An empty body leaves v untouched.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid request body")
		return false
	}
	return true
}

// serverError records err for the request logger and answers 500.
func serverError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, msg)
}
