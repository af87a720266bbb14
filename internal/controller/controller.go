package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hxann/bandprep/internal/apperror"
	"github.com/hxann/bandprep/internal/dto"
)

// Context keys populated by the auth middleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

func currentUserID(ctx *gin.Context) (uint, bool) {
	val, ok := ctx.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

func requireUser(ctx *gin.Context) (uint, bool) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return 0, false
	}
	return userID, true
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func queryInt(ctx *gin.Context, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}

// respondError maps a service error onto the error envelope. Unknown
// errors answer 500 without leaking internals.
func respondError(ctx *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		ctx.JSON(appErr.Status, dto.ErrorResponse{Message: appErr.Message, Errors: appErr.Details})
		return
	}
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
}
