package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhlq/coursecast/internal/dto"
	"github.com/minhlq/coursecast/internal/middleware"
	"github.com/minhlq/coursecast/internal/service"
)

// respondError maps service sentinel errors onto HTTP statuses. Handlers with
// special shapes (submit echoing the stored exam) handle those cases before
// falling back here.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrScoreTooLow), errors.Is(err, service.ErrAlreadySubmitted):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Details: []string{err.Error()}})
	}
}

// authedUser pulls the verified user id out of the context; the Auth
// middleware guarantees it is present on protected routes.
func authedUser(ctx *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unauthorized"})
		return 0, false
	}
	return userID, true
}
