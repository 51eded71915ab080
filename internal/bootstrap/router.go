package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/GoSim-25-26J-441/taskflow-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/api/http/routes"
	authsvc "github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/service"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/token"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Store       storage.Store
	Issuer      authsvc.Issuer
	Verifier    token.Verifier
	Log         *zap.Logger
	AuthOptions []authsvc.Option
}

// BuildRouter wires middleware, health, metrics and the API routes. Each
// router gets its own metrics registry.
func BuildRouter(dep RouterDeps) *gin.Engine {
	log := dep.Log
	if log == nil {
		log = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	// Recovery sits inside the access log and metrics so a panicked request
	// is still logged and counted as a 500.
	r := gin.New()
	r.Use(
		middleware.RequestID(log),
		metrics.Handler(),
		middleware.Recovery(log),
		cors.New(corsConfig(dep.CORSOrigins)),
	)

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	routes.RegisterV1(r, routes.V1Deps{
		Store:       dep.Store,
		Issuer:      dep.Issuer,
		Verifier:    dep.Verifier,
		Log:         log,
		AuthOptions: dep.AuthOptions,
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}

// corsConfig allows any origin when origins is empty, echoing it back so
// that credentialed requests work.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
