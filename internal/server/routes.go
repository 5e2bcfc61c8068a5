// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "campus-connect-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"campus-connect-backend/internal/auth"
	"campus-connect-backend/internal/controller/admin"
	"campus-connect-backend/internal/controller/admissions"
	"campus-connect-backend/internal/controller/application"
	"campus-connect-backend/internal/controller/fees"
	"campus-connect-backend/internal/controller/profile"
	"campus-connect-backend/internal/middleware"
	"campus-connect-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	logoutCtrl := auth.NewLogoutController(s.Blacklist)
	applicationCtrl := application.NewController(s.DB, s.Storage, s.Hub)
	adminCtrl := admin.NewController(s.DB)
	admissionsCtrl := admissions.NewController(s.DB)
	feesCtrl := fees.NewController(s.DB)
	profileCtrl := profile.NewController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Enable cookies/auth
	}))
	r.Use(middleware.SafeHeader())

	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		// Any routes
		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.JwtBlacklistCheck(s.Blacklist))

			needAuth.POST("auth/logout", logoutCtrl.LogoutHandler)
			needAuth.GET("admissions", admissionsCtrl.ListHandler)
			needAuth.GET("fees/deadlines", feesCtrl.DeadlinesHandler)

			profileRoute := needAuth.Group("/profile")
			{
				profileRoute.GET("", profileCtrl.GetHandler)
				profileRoute.PATCH("", profileCtrl.UpdateHandler)
			}

			// Student routes: apply role check once for all student endpoints
			needStudent := needAuth.Group("")
			{
				needStudent.Use(middleware.CheckRole(model.RoleStudent))

				applicationRoute := needStudent.Group("/application")
				{
					applicationRoute.POST("",
						middleware.SizeLimit(10<<20),
						middleware.EnvRateLimitMiddleware(),
						applicationCtrl.SubmitHandler)
					applicationRoute.GET("", applicationCtrl.GetHandler)
					applicationRoute.GET("stream", applicationCtrl.StreamHandler)
					applicationRoute.GET("document/:index", applicationCtrl.DocumentHandler)
				}

				needStudent.GET("fees/payments", feesCtrl.PaymentsHandler)
			}

			needAdmin := needAuth.Group("/admin")
			{
				needAdmin.Use(middleware.CheckRole(model.RoleAdmin))
				needAdmin.GET("applications", adminCtrl.ListApplicationsHandler)
				needAdmin.PATCH("application/:id/status", adminCtrl.UpdateStatusHandler)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
