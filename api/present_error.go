package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campuskit/grader-backend/dto"
	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/utils"
)

// presentError translates the error taxonomy into HTTP responses. It returns
// true when the error was handled and the handler should stop.
func presentError(ctx context.Context, c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var rubricValidationError models.RubricValidationError
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrors):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"fields":  adaptValidationErrors(validationErrors),
		})
	case errors.As(err, &rubricValidationError):
		c.JSON(http.StatusBadRequest, gin.H{
			"message":    rubricValidationError.Error(),
			"error_code": dto.MalformedRubric,
			"fields":     rubricValidationError.Fields,
		})
	case errors.Is(err, models.BadParameterError):
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.UnAuthorizedError):
		c.JSON(http.StatusUnauthorized, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ForbiddenError):
		c.JSON(http.StatusForbidden, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.NotFoundError):
		c.JSON(http.StatusNotFound, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ConflictError):
		c.JSON(http.StatusConflict, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrConsensusUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.ConsensusUnavailable,
		})
	case errors.Is(err, models.ErrEmbeddingFailure):
		c.JSON(http.StatusServiceUnavailable, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.EmbeddingUnavailable,
		})
	case errors.Is(err, models.ErrExternalServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.APIErrorResponse{Message: err.Error()})
	default:
		logger := utils.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "Unexpected error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, dto.APIErrorResponse{Message: "internal error"})
	}
	return true
}
