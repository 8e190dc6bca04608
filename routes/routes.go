package routes

import (
	"stylemanager-backend/config"
	"stylemanager-backend/controllers"
	"stylemanager-backend/gate"
	"stylemanager-backend/services"
	"stylemanager-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	})
}

// SetupRouter wires every route. closings may be nil when no scheduler runs;
// a service without notifier is built in that case.
func SetupRouter(cfg config.Config, closings *services.ClosingService) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(cfg.CORSOrigins))
	r.Use(config.PerformanceLogger(cfg.SlowRequest))

	r.GET("/health", controllers.Health)

	auth := r.Group("/auth")
	auth.Use(utils.RateLimit(cfg.AuthRateSpec))
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
		auth.POST("/logout", controllers.Logout)
		auth.GET("/events", controllers.SessionEvents)
	}

	if closings == nil {
		closings = services.NewClosingService(config.DB, nil, "", cfg.Location)
	}
	reportController := controllers.NewReportController(services.NewReportService(config.DB))
	closingController := controllers.NewClosingController(closings)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		api.GET("/views", controllers.GetViews)
		api.GET("/views/:view", controllers.NavigateView)

		dailyLog := api.Group("/dailylog", utils.RequireView(gate.ViewDailyLog))
		{
			dailyLog.GET("/options", controllers.GetDailyLogOptions)
			dailyLog.POST("/preview", controllers.PreviewDailyLog)
			dailyLog.POST("", controllers.CreateDailyLog)
		}

		// Service routes: every role may browse, only admins change the catalog
		catalog := api.Group("/services", utils.RequireView(gate.ViewServices))
		{
			catalog.GET("", controllers.GetServices)
			catalog.POST("", utils.RequireAdmin(), controllers.CreateService)
			catalog.DELETE("/:id", utils.RequireAdmin(), controllers.DeleteService)
		}

		employees := api.Group("/employees", utils.RequireView(gate.ViewEmployees))
		{
			employees.GET("", controllers.GetEmployees)
			employees.POST("", controllers.CreateEmployee)
			employees.PUT("/:id", controllers.UpdateEmployee)
			employees.DELETE("/:id", controllers.DeleteEmployee)
		}

		reports := api.Group("/reports", utils.RequireView(gate.ViewReports))
		{
			reports.GET("/transactions", reportController.GetTransactions)
			reports.DELETE("/transactions/:id", reportController.DeleteTransaction)
			reports.GET("/export/payroll", reportController.ExportPayroll)
			reports.GET("/export/balance", reportController.ExportBalance)
			reports.GET("/copy", reportController.CopyReport)
			reports.GET("/closings", closingController.GetClosings)
			reports.POST("/closings", closingController.RunClosing)
			reports.GET("/dashboard", controllers.GetDashboardOverview)
		}

		users := api.Group("/users", utils.RequireAdmin())
		{
			users.GET("", controllers.GetUsers)
			users.PUT("/:id/role", controllers.UpdateUserRole)
		}
	}

	return r
}

// SetupModeRouter answers every request with the missing configuration
// notice.
func SetupModeRouter(cfg config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(cfg.CORSOrigins))
	r.NoRoute(controllers.SetupRequired)
	return r
}
