package api

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/dto"
	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/pure_utils"
	"github.com/campuskit/grader-backend/usecases"
)

const defaultSimilarCorrections = 3

func handleCreateCorrection(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var data dto.CreateCorrectionBody
		if err := c.ShouldBindJSON(&data); err != nil {
			presentError(ctx, c, errors.Join(models.BadParameterError, err))
			return
		}

		usecase := uc.MemoryUsecase()
		record, err := usecase.AddCorrection(ctx, dto.AdaptNewCorrectionRecord(data))
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusCreated, dto.AdaptCorrectionRecordDto(record))
	}
}

func handleListSimilarCorrections(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		content := c.Query("content")
		if content == "" {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, "content query parameter is required"))
			return
		}
		k := defaultSimilarCorrections
		if raw := c.Query("k"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				presentError(ctx, c, errors.Wrap(models.BadParameterError, "k must be an integer"))
				return
			}
			k = parsed
		}

		usecase := uc.MemoryUsecase()
		hits, err := usecase.Query(ctx, content, k)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"corrections": pure_utils.Map(hits, dto.AdaptRetrievedCorrectionDto),
		})
	}
}

func handleDeleteCorrection(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		correctionId, err := uuid.Parse(c.Param("correction_id"))
		if err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, "invalid correction id"))
			return
		}

		usecase := uc.MemoryUsecase()
		if presentError(ctx, c, usecase.PurgeCorrection(ctx, correctionId)) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}
