// Package web is the development backend of the console: the REST
// contract of every entity resource served from a pluggable store.
package web

import (
	"log/slog"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"maxloyalty.com/backoffice/config"
	"maxloyalty.com/backoffice/console"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/store"
	"maxloyalty.com/backoffice/web/handlers"
	"maxloyalty.com/backoffice/web/middlewares"
)

type Dependencies struct {
	Server  config.Server
	Auth    config.Auth
	Company string
	// Secret verifies the tokens of /api requests.
	Secret []byte
	Stores *Stores
	Logger *slog.Logger
}

// CorsConfig allows the configured origins. A "*" entry allows any origin,
// without credentials.
func CorsConfig(origins []string) cors.Config {
	corsConf := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsConf.AllowAllOrigins = true
	} else {
		corsConf.AllowOrigins = origins
		corsConf.AllowCredentials = true
	}
	corsConf.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConf.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", middlewares.RequestIDHeader}
	corsConf.ExposeHeaders = []string{middlewares.RequestIDHeader, "Content-Disposition"}
	corsConf.MaxAge = 1 * 3600 // 1 hour
	return corsConf
}

func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(cors.New(CorsConfig(deps.Server.AllowedOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", handlers.Health)

	protected := r.Group("/api")
	protected.Use(middlewares.Authentication(deps.Secret, deps.Auth.Cookie))
	{
		s := deps.Stores
		register(protected, console.ResClients, s.Clients, log)
		register(protected, console.ResCompanies, s.Companies, log)
		register(protected, console.ResCards, s.Cards, log)
		register(protected, console.ResDrivers, s.Drivers, log)
		register(protected, console.ResVehicles, s.Vehicles, log)
		register(protected, console.ResCostCenters, s.CostCenters, log)
		register(protected, console.ResMembers, s.Members, log)
		register(protected, console.ResShifts, s.Shifts, log)
		register(protected, console.ResPoints, s.Points, log)
		register(protected, console.ResPermissions, s.Permissions, log)
		register(protected, console.ResWallets, s.Wallets, log)

		handlers.RegisterPermissions(protected, s.Permissions, console.Menu, log)
		handlers.RegisterReports(protected, s.Transactions, deps.Company, log)
	}
	return r
}

func register[T listmanager.Record](r *gin.RouterGroup, name string, s store.Store[T], log *slog.Logger) {
	desc, ok := console.Lookup(name)
	if !ok {
		panic("web: unknown resource " + name)
	}
	handlers.RegisterResource(r, desc, s, log.With("resource", name))
}
