package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuskit/grader-backend/dto"
	"github.com/campuskit/grader-backend/models"
	"github.com/campuskit/grader-backend/usecases"
)

func handleCreateGradingPass(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var data dto.CreateGradingPassBody
		if err := c.ShouldBindJSON(&data); err != nil {
			presentError(ctx, c, errors.Join(models.BadParameterError, err))
			return
		}
		async := c.Query("async") == "true"

		usecase := uc.NewConsensusUsecase()
		passId, result, err := usecase.CreateGradingPass(
			ctx,
			dto.AdaptSubmission(data.Submission),
			dto.AdaptRubric(data.Rubric),
			data.PersonaKeys,
			data.Language,
			async,
		)
		if presentError(ctx, c, err) {
			return
		}

		if async {
			c.JSON(http.StatusAccepted, gin.H{"grading_pass_id": passId})
			return
		}
		c.JSON(http.StatusOK, dto.AdaptConsensusResultDto(*result))
	}
}

func handleGetGradingPass(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		passId, err := uuid.Parse(c.Param("pass_id"))
		if err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, "invalid grading pass id"))
			return
		}

		usecase := uc.NewConsensusUsecase()
		result, err := usecase.GetConsensusResult(ctx, passId)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptConsensusResultDto(result))
	}
}
