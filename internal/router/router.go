package router

import (
	"time"

	"github.com/mbcx07/SISTRA/internal/config"
	"github.com/mbcx07/SISTRA/internal/handler"
	"github.com/mbcx07/SISTRA/internal/middleware"
	"github.com/mbcx07/SISTRA/internal/rbac"
	"github.com/mbcx07/SISTRA/internal/repository"
	"github.com/mbcx07/SISTRA/internal/service"
	"github.com/mbcx07/SISTRA/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, almacen service.Almacen) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min por IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	tramiteRepo := repository.NewTramiteRepository(db)
	bitacoraRepo := repository.NewBitacoraRepository(db)
	evidenciaRepo := repository.NewEvidenciaRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// Worker dispatcher — bitácora y correos salen por Redis, nunca en línea
	dispatcher := worker.NewDispatcher(rdb, cfg.Domain)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, dispatcher, cfg)
	tramiteSvc := service.NewTramiteService(tramiteRepo, dispatcher, dispatcher)
	impresionSvc := service.NewImpresionService(tramiteRepo, dispatcher)
	evidenciaSvc := service.NewEvidenciaService(tramiteRepo, evidenciaRepo, almacen, dispatcher)
	reporteSvc := service.NewReporteService(reporteRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	tramitesH := handler.NewTramitesHandler(tramiteSvc)
	impresionesH := handler.NewImpresionesHandler(impresionSvc, tramiteRepo)
	evidenciasH := handler.NewEvidenciasHandler(evidenciaSvc)
	bitacoraH := handler.NewBitacoraHandler(tramiteSvc, bitacoraRepo)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// La autorización fina (alcance por unidad, transiciones por rol) vive
		// en la capa de servicio; aquí sólo se cierran vistas completas.
		tramites := v1.Group("/tramites")
		{
			tramites.POST("", tramitesH.Crear)
			tramites.GET("", tramitesH.Listar)
			tramites.GET("/:id", tramitesH.Obtener)
			tramites.PUT("/:id", tramitesH.Actualizar)
			tramites.DELETE("/:id", middleware.RequireRole(string(rbac.AdminSistema)), tramitesH.Eliminar)

			tramites.POST("/:id/impresiones", impresionesH.Imprimir)

			tramites.POST("/:id/evidencias", evidenciasH.Subir)
			tramites.GET("/:id/evidencias", evidenciasH.Listar)
			tramites.GET("/:id/evidencias/:eid", evidenciasH.Descargar)

			tramites.GET("/:id/bitacora", bitacoraH.Listar)
		}

		v1.GET("/reportes/dashboard", reportesH.Dashboard)

		usuarios := v1.Group("/usuarios", middleware.RequireRole(string(rbac.AdminSistema)))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
			usuarios.POST("/:id/reset-password", usuariosH.ResetPassword)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
