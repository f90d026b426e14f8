package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"

	"github.com/campuskit/grader-backend/usecases"
)

func timeoutMiddleware(duration time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(duration),
		timeout.WithHandler(func(c *gin.Context) {
			c.Next()
		}),
		timeout.WithResponse(func(c *gin.Context) {
			c.String(http.StatusRequestTimeout, "timeout")
		}),
	)
}

func addRoutes(r *gin.Engine, conf Configuration, uc *usecases.Usecases) {
	r.GET("/liveness", handleLivenessProbe(uc))

	r.POST("/grading-passes", timeoutMiddleware(conf.GradingTimeout), handleCreateGradingPass(uc))
	r.GET("/grading-passes/:pass_id", handleGetGradingPass(uc))

	r.POST("/corrections", handleCreateCorrection(uc))
	r.GET("/corrections/similar", handleListSimilarCorrections(uc))
	r.DELETE("/corrections/:correction_id", handleDeleteCorrection(uc))
}
