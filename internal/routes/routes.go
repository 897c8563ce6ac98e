package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/controllers"
	"gearguard/internal/repositories"
	"gearguard/internal/services"
	"gearguard/pkg/config"
)

// InitRouter assembles repositories, services and controllers, then mounts the
// whole HTTP surface under /api.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger, cfg *config.Config) {
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, logger)
	requestRepo := repositories.NewMaintenanceRequestRepository(dbConn, logger)
	teamRepo := repositories.NewTeamRepository(dbConn)
	userRepo := repositories.NewUserRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	equipmentService := services.NewEquipmentService(equipmentRepo, teamRepo, userRepo, requestRepo, logger)
	requestService := services.NewMaintenanceRequestService(requestRepo, equipmentRepo, userRepo, cacheRepo, logger)
	teamService := services.NewTeamService(teamRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	dashboardService := services.NewDashboardService(requestRepo, cacheRepo, logger, cfg.Dashboard.CacheTTL)
	reportService := services.NewReportService(requestRepo, logger)

	equipmentController := controllers.NewEquipmentController(equipmentService, requestService, logger)
	requestController := controllers.NewMaintenanceRequestController(requestService, logger)
	teamController := controllers.NewTeamController(teamService, logger)
	userController := controllers.NewUserController(userService, logger)
	dashboardController := controllers.NewDashboardController(dashboardService, logger)
	reportController := controllers.NewReportController(reportService, logger)

	apiGroup := e.Group("/api")

	equipment := apiGroup.Group("/equipment")
	equipment.GET("", equipmentController.GetEquipments)
	equipment.POST("", equipmentController.CreateEquipment)
	equipment.GET("/:id", equipmentController.FindEquipment)
	equipment.PATCH("/:id", equipmentController.UpdateEquipment)
	equipment.GET("/:id/autofill", equipmentController.GetAutofill)
	equipment.GET("/:id/requests", equipmentController.GetEquipmentRequests)
	equipment.GET("/:id/open-count", equipmentController.GetOpenCount)

	requests := apiGroup.Group("/requests")
	requests.GET("", requestController.GetRequests)
	requests.POST("", requestController.CreateRequest)
	requests.GET("/calendar", requestController.GetCalendar)
	requests.GET("/:id", requestController.FindRequest)
	requests.PATCH("/:id/status", requestController.UpdateStatus)
	requests.POST("/:id/complete", requestController.Complete)
	requests.PATCH("/:id/reassign", requestController.Reassign)

	teams := apiGroup.Group("/teams")
	teams.GET("", teamController.GetTeams)
	teams.POST("", teamController.CreateTeam)
	teams.GET("/:id", teamController.FindTeam)
	teams.GET("/:id/members", teamController.GetTeamMembers)

	users := apiGroup.Group("/users")
	users.GET("", userController.GetUsers)
	users.POST("", userController.CreateUser)
	users.GET("/:id", userController.FindUser)

	apiGroup.GET("/dashboard/stats", dashboardController.GetStats)
	apiGroup.GET("/reports/requests/export", reportController.ExportRequests)
}
