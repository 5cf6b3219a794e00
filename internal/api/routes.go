package api

import (
	"smart_condominium/internal/config"     // Token and upload settings
	"smart_condominium/internal/domain"     // User types
	"smart_condominium/internal/middleware" // Auth middleware
	"smart_condominium/internal/report"     // PDF renderer
	"smart_condominium/internal/security"   // Recognition service
	"smart_condominium/internal/storage"    // Captured images

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// BasePath prefixes every API route
const BasePath = "/api"

// Deps are the collaborators shared by the handlers. Redis and Renderer may be nil.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Config   *config.Config
	Security *security.Service
	Storage  storage.ObjectStorage
	Renderer report.Renderer
}

// SetupRoutes registers every API route on r
func SetupRoutes(r *gin.Engine, d Deps) {
	db, rdb := d.DB, d.Redis
	middleware.SetupValidator() // Custom binding tags must exist before the first bind

	v1 := r.Group(BasePath)
	v1.GET("/health", HealthHandler(db, rdb)) // Liveness and dependency check

	// Auth routes
	v1.POST("/auth/register", RegisterHandler(db, rdb, d.Config)) // Registration endpoint
	v1.POST("/auth/login", LoginHandler(db, d.Config))            // Login endpoint
	v1.POST("/auth/refresh", RefreshHandler(db, d.Config))        // Token refresh endpoint

	// Everything else requires an active, authenticated user
	auth := v1.Group("")
	auth.Use(middleware.JWTAuthMiddleware(d.Config.JWTSecret), middleware.RequireUserType(db))

	admin := middleware.AdminOnlyMiddleware(db)
	staff := middleware.RequireUserType(db, domain.UserTypeAdmin, domain.UserTypeSecurity)
	maintenance := middleware.RequireUserType(db, domain.UserTypeAdmin, domain.UserTypeMaintenance)

	// Routes carrying base64 images get a body limit
	maxImage := d.Config.MaxImageBytes
	if maxImage <= 0 {
		maxImage = config.DefaultMaxImageBytes
	}
	image := middleware.BodyLimit(maxImage)

	// Users
	auth.GET("/users", admin, ListUsersHandler(db, rdb))
	auth.GET("/users/:id", GetUserHandler(db))
	auth.PUT("/users/:id", UpdateUserHandler(db, rdb))
	auth.DELETE("/users/:id", DeleteUserHandler(db, rdb))
	auth.PUT("/users/:id/role", admin, UpdateRoleHandler(db, rdb))

	// Units
	auth.GET("/units", ListUnitsHandler(db, rdb))
	auth.POST("/units", admin, CreateUnitHandler(db, rdb))
	auth.GET("/units/:id", GetUnitHandler(db))
	auth.PUT("/units/:id", admin, UpdateUnitHandler(db, rdb))
	auth.DELETE("/units/:id", admin, DeleteUnitHandler(db, rdb))
	auth.POST("/units/:id/residents", admin, AddResidentHandler(db, rdb))
	auth.DELETE("/units/:id/residents/:user_id", admin, RemoveResidentHandler(db, rdb))

	// Common areas
	auth.GET("/common-areas", ListCommonAreasHandler(db, rdb))
	auth.POST("/common-areas", admin, CreateCommonAreaHandler(db, rdb))
	auth.GET("/common-areas/:id", GetCommonAreaHandler(db))
	auth.PUT("/common-areas/:id", admin, UpdateCommonAreaHandler(db, rdb))
	auth.DELETE("/common-areas/:id", admin, DeleteCommonAreaHandler(db, rdb))

	// Reservations
	auth.GET("/reservations", ListReservationsHandler(db))
	auth.POST("/reservations", CreateReservationHandler(db))
	auth.GET("/reservations/:id", GetReservationHandler(db))
	auth.PUT("/reservations/:id", UpdateReservationHandler(db))
	auth.DELETE("/reservations/:id", DeleteReservationHandler(db))

	// Expenses
	auth.GET("/expenses", ListExpensesHandler(db))
	auth.POST("/expenses", admin, CreateExpenseHandler(db))
	auth.GET("/expenses/:id", GetExpenseHandler(db))
	auth.PUT("/expenses/:id", admin, UpdateExpenseHandler(db))
	auth.DELETE("/expenses/:id", admin, DeleteExpenseHandler(db))

	// Vehicles
	auth.GET("/vehicles", ListVehiclesHandler(db))
	auth.POST("/vehicles", CreateVehicleHandler(db))
	auth.GET("/vehicles/:id", GetVehicleHandler(db))
	auth.PUT("/vehicles/:id", UpdateVehicleHandler(db))
	auth.DELETE("/vehicles/:id", DeleteVehicleHandler(db))

	// Visitors
	auth.GET("/visitors", ListVisitorsHandler(db))
	auth.POST("/visitors", CreateVisitorHandler(db))
	auth.GET("/visitors/:id", GetVisitorHandler(db))
	auth.PUT("/visitors/:id", UpdateVisitorHandler(db))
	auth.DELETE("/visitors/:id", DeleteVisitorHandler(db))
	auth.POST("/visitors/:id/entry", staff, VisitorEntryHandler(db))
	auth.POST("/visitors/:id/exit", staff, VisitorExitHandler(db))

	// Face recognition
	auth.POST("/face/register", image, RegisterFaceHandler(d.Security))
	auth.POST("/face/recognize", staff, image, RecognizeFaceHandler(d.Security))
	auth.GET("/face-records", staff, ListFaceRecordsHandler(db))
	auth.GET("/face-records/:id", staff, GetFaceRecordHandler(db))
	auth.DELETE("/face-records/:id", staff, DeleteFaceRecordHandler(db))

	// Security events
	auth.GET("/security/events", staff, ListSecurityEventsHandler(db))
	auth.POST("/security/events", staff, CreateSecurityEventHandler(db))
	auth.GET("/security/events/:id", staff, GetSecurityEventHandler(db))
	auth.PUT("/security/events/:id", staff, UpdateSecurityEventHandler(db))
	auth.DELETE("/security/events/:id", staff, DeleteSecurityEventHandler(db))
	auth.POST("/security/camera-event", staff, image, CameraEventHandler(d.Security))
	auth.GET("/media/*key", staff, GetMediaHandler(d.Storage))

	// Notifications
	auth.GET("/notifications", ListNotificationsHandler(db))
	auth.POST("/notifications", admin, CreateNotificationHandler(db))
	auth.PATCH("/notifications/:id/read", MarkNotificationReadHandler(db))

	// Maintenance
	auth.GET("/maintenance/requests", ListMaintenanceRequestsHandler(db))
	auth.POST("/maintenance/requests", image, CreateMaintenanceRequestHandler(db, d.Storage))
	auth.PATCH("/maintenance/requests/:id/status", maintenance, UpdateMaintenanceStatusHandler(db))

	// Plates and gate access
	auth.GET("/vehicle-plates", ListVehiclePlatesHandler(db))
	auth.POST("/vehicle-plates", admin, CreateVehiclePlateHandler(db))
	auth.GET("/vehicle-plates/:id", GetVehiclePlateHandler(db))
	auth.PUT("/vehicle-plates/:id", admin, UpdateVehiclePlateHandler(db))
	auth.DELETE("/vehicle-plates/:id", admin, DeleteVehiclePlateHandler(db))
	auth.POST("/ocr/recognize-plate", staff, image, RecognizePlateHandler(d.Security))
	auth.GET("/vehicle-access-logs", staff, ListVehicleAccessLogsHandler(db))

	// Reports
	auth.GET("/reports/financial", admin, FinancialReportHandler(db, d.Renderer))
}
