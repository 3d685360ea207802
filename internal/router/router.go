package router

import (
	"net/http"
	"time"

	"psymap-go/internal/assessment"
	"psymap-go/internal/config"
	"psymap-go/internal/handlers"
	"psymap-go/internal/repository"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
}

func Setup(log *zap.Logger, orchestrator *assessment.Orchestrator, catalog repository.CatalogStore, users *repository.GormUserStore) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	store := cookie.NewStore([]byte(config.Conf.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("psymap_session", store))

	// --- Now that sessions are initialized, other middleware can use them ---
	router.Use(CSRFProtection(log))
	router.Use(UserLoaderMiddleware(log, users))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(log, users)
	userHandler := handlers.NewUserHandler(log, users)
	catalogHandler := handlers.NewCatalogHandler(log, catalog)
	assessmentHandler := handlers.NewAssessmentHandler(log, orchestrator)
	resultsHandler := handlers.NewResultsHandler(log, orchestrator)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/register", limiter, authHandler.Register)
	router.POST("/login", limiter, authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	api := router.Group("/api")
	{
		api.GET("/csrf", CSRFToken)
		api.GET("/configurations", catalogHandler.Configurations)
		api.GET("/test-types/:slug/questions", catalogHandler.Questions)

		// Demo assessments carry no account: anyone may start one, and the
		// session-scoped routes below admit demo IDs without a login.
		api.POST("/demo/assessments", assessmentHandler.StartDemo)

		// Ownership of non-demo sessions is enforced per request by the
		// orchestrator, so these routes stay outside the authorized group.
		sessionRoutes := api.Group("/assessments/:id")
		{
			sessionRoutes.GET("", assessmentHandler.Session)
			sessionRoutes.POST("/responses", assessmentHandler.SubmitResponse)
			sessionRoutes.GET("/progress", assessmentHandler.Progress)
			sessionRoutes.POST("/complete", assessmentHandler.Complete)
			sessionRoutes.GET("/results", resultsHandler.Results)
			sessionRoutes.GET("/results/chart", resultsHandler.Chart)
		}

		authorized := api.Group("/")
		authorized.Use(AuthRequired())
		{
			authorized.POST("/assessments", assessmentHandler.Start)
			authorized.GET("/assessments", assessmentHandler.UserSessions)

			profileRoutes := authorized.Group("/profile")
			{
				profileRoutes.GET("", userHandler.Profile)
				profileRoutes.POST("/update-info", userHandler.UpdateInfo)
				profileRoutes.POST("/update-password", userHandler.UpdatePassword)
				profileRoutes.POST("/update-notifications", userHandler.UpdateNotifications)
				profileRoutes.POST("/delete", userHandler.DeleteAccount)
			}
		}
	}

	return router
}
