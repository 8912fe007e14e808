package router

import (
	"time"

	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/erp/contable/internal/infrastructure/logger"
	"github.com/erp/contable/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const hstsMaxAge = 365 * 24 * time.Hour

// EngineConfig carries what the global middleware chain needs
type EngineConfig struct {
	ServiceName    string
	HTTP           config.HTTPConfig
	Swagger        config.SwaggerConfig
	TracingEnabled bool
	Production     bool
	// Meter records HTTP metrics; nil disables them
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewEngine builds a gin engine with the global middleware chain: request
// ID, recovery, request logging, tracing, metrics and CORS, then security
// headers, body limit and the request deadline. /swagger is mounted behind
// SwaggerProtection.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	} else if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.ServiceName, cfg.TracingEnabled))

	if cfg.Meter != nil {
		httpMetrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(httpMetrics)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))

	// Registered before Secure: the UI loads scripts the API CSP forbids.
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var hsts time.Duration
	if cfg.Production {
		hsts = hstsMaxAge
	}
	engine.Use(middleware.Secure(hsts))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	return engine, nil
}
