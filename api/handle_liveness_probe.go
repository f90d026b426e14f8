package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/grader-backend/usecases"
)

func handleLivenessProbe(uc *usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		usecase := uc.NewLivenessUsecase()
		if presentError(ctx, c, usecase.Liveness(ctx)) {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
}
