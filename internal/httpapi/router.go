package httpapi

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cwbudde/algo-control/ctl/analysis"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(engine *analysis.Engine) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()

	// Allowed origins come from the environment; default to all origins so
	// a locally served frontend can talk to the API out of the box.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	handler := NewHandler(engine)

	v1 := router.Group("/v1")
	v1.POST("/analyze", handler.Analyze)

	router.GET("/health", handler.HealthCheck)

	return router
}
