package handler

import (
	"errors"
	"net/http"

	"finance-tracker/internal/store"
	"finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe returns the caller's public profile. Unlike AuthMiddleware this does
// read the store, so a token for a user that no longer exists gets 404.
func GetMe(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}

		user, err := s.FindUserByID(c.Request.Context(), uid)
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "User not found")
			return
		}
		if err != nil {
			serverError(c, "Failed to load user", err)
			return
		}

		util.JSON(c, http.StatusOK, gin.H{"user": user.Public()})
	}
}
