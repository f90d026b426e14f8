package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campuskit/grader-backend/usecases"
	"github.com/campuskit/grader-backend/utils"
)

type Configuration struct {
	Env     string
	AppName string
	Port    string
	// GradingTimeout bounds a synchronous grading pass end to end.
	GradingTimeout time.Duration
	DefaultTimeout time.Duration
}

func corsOption(env string) cors.Config {
	allowedOrigins := []string{"*"}

	if env == "development" {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://localhost:5173")
	}

	return cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodOptions, http.MethodHead, http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Api-Key"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
}

func InitRouter(ctx context.Context, conf Configuration, uc *usecases.Usecases) *gin.Engine {
	if conf.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := utils.LoggerFromContext(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsOption(conf.Env)))
	r.Use(utils.StoreLoggerInContextMiddleware(logger))

	addRoutes(r, conf, uc)
	return r
}

func NewServer(router *gin.Engine, conf Configuration) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", conf.Port),
		WriteTimeout: conf.GradingTimeout + 5*time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
		Handler:      router,
	}
}
