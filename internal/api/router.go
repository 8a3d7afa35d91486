package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/haulwise/backoffice/docs"
	"github.com/haulwise/backoffice/internal/api/handler"
	"github.com/haulwise/backoffice/internal/api/middleware"
	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

// Deps is everything the HTTP layer needs; cmd/backoffice builds it.
type Deps struct {
	Logger    zerolog.Logger
	JWTSecret string
	// Location is the zone schedules are displayed in.
	Location *time.Location

	Auth          ports.AuthService
	Orders        ports.OrderService
	Ledger        ports.LedgerService
	Dispatch      ports.DispatchService
	Companies     ports.CompanyService
	Notifications ports.NotificationService
	Events        handler.EventDispatcher
	Health        map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddleware("backoffice"))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret))
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleOperator)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleOperator, domain.RoleCarrier)

	// --- Orders, dispatch and settlement ---
	orders := handler.NewOrderHandler(d.Orders, d.Dispatch, d.Location)
	v1.POST("/orders", orders.Create, staff)
	v1.GET("/orders", orders.List, anyRole)
	v1.GET("/orders/:order_number", orders.Get, anyRole)
	v1.POST("/orders/:order_number/cancel", orders.Cancel, staff)
	v1.POST("/orders/:order_number/dispatch", orders.Dispatch, staff)
	v1.POST("/orders/:order_number/settlement/close", orders.CloseSettlement, middleware.RBAC(domain.RoleAdmin))

	// --- Fee ledger ---
	ledger := handler.NewLedgerHandler(d.Ledger)
	lg := v1.Group("/orders/:order_number/ledger", staff)
	lg.GET("", ledger.Get)
	lg.PUT("/base", ledger.SetBase)
	lg.POST("/fees", ledger.AddFee)
	lg.POST("/fees/import", ledger.ImportFees)
	lg.PATCH("/fees/:fee_id", ledger.UpdateFee)
	lg.DELETE("/fees/:fee_id", ledger.RemoveFee)

	// --- Status events ---
	events := handler.NewEventHandler(d.Events)
	v1.POST("/events", events.Receive, anyRole)
	v1.POST("/events/batch", events.ReceiveBatch, anyRole)

	// --- Company roster ---
	companies := handler.NewCompanyHandler(d.Companies)
	cg := v1.Group("/companies", staff)
	cg.POST("", companies.Create)
	cg.GET("", companies.Search)
	cg.POST("/import", companies.Import)
	cg.GET("/export", companies.Export)
	cg.GET("/:id", companies.Get)
	cg.PUT("/:id", companies.Update)
	cg.DELETE("/:id", companies.Delete)
	cg.POST("/:id/managers", companies.AddManager)
	cg.DELETE("/:id/managers/:manager_id", companies.RemoveManager)

	// --- Notifications ---
	notifications := handler.NewNotificationHandler(d.Notifications)
	v1.POST("/notifications/sms", notifications.SendSMS, staff)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
