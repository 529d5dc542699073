package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/attend/internal/api/handlers"
	"github.com/your-org/attend/internal/api/ws"
	"github.com/your-org/attend/internal/attendance"
	"github.com/your-org/attend/internal/auth"
	"github.com/your-org/attend/internal/queue"
	"github.com/your-org/attend/internal/storage"
)

// RouterConfig carries everything the HTTP layer depends on.
type RouterConfig struct {
	AdminKey      string
	SuperadminKey string
	DB            *storage.PostgresStore
	MinIO         *storage.MinIOStore
	Producer      *queue.Producer
	Hub           *ws.Hub
	Engine        *attendance.Engine
	Extract       attendance.ExtractFunc
}

// NewRouter wires up all routes. Health probes, metrics and the WebSocket
// feed are open; everything under /v1 requires an API key, and the
// back-office directory mutations require the superadmin key.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-API-Key")
	r.Use(cors.New(corsCfg))

	system := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", system.Healthz)
	r.GET("/readyz", system.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", cfg.Hub.HandleWS)

	att := handlers.NewAttendanceHandler(cfg.Engine, cfg.DB, cfg.MinIO)
	emp := handlers.NewEmployeesHandler(cfg.DB, cfg.Extract)
	loc := handlers.NewLocationsHandler(cfg.DB)
	shf := handlers.NewShiftsHandler(cfg.DB)
	rep := handlers.NewReportsHandler(cfg.DB, cfg.Engine.Zone())

	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.AdminKey, cfg.SuperadminKey))
	{
		v1.POST("/attendance/scan", att.Scan)
		v1.GET("/attendance/events", att.Events)

		v1.POST("/employees/register", att.Register)
		v1.GET("/employees", emp.List)
		v1.GET("/employees/:id", emp.Get)
		v1.PATCH("/employees/:id", emp.Update)
		v1.PUT("/employees/:id/face", emp.ReplaceFace)

		v1.GET("/photos/*key", att.Photo)

		v1.GET("/locations", loc.ListLocations)
		v1.GET("/sites", loc.ListSites)
		v1.GET("/shifts", shf.List)
		v1.GET("/shifts/assignments", shf.Assignments)

		v1.GET("/reports/attendance", rep.MonthlySummary)
		v1.GET("/reports/payroll", rep.Payroll)
		v1.GET("/reports/payroll/:employeeId", rep.EmployeePayroll)

		admin := v1.Group("")
		admin.Use(auth.RequireSuperadmin())
		{
			admin.POST("/locations", loc.CreateLocation)
			admin.PUT("/locations/:id", loc.UpdateLocation)
			admin.DELETE("/locations/:id", loc.DeleteLocation)

			admin.POST("/sites", loc.CreateSite)
			admin.DELETE("/sites/:id", loc.DeleteSite)
			admin.POST("/sites/assign", loc.AssignSites)

			admin.POST("/shifts", shf.Create)
			admin.POST("/shifts/assign", shf.Assign)
		}
	}

	return r
}
