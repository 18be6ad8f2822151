package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/xuanhoa/backend/internal/application/catalog"
	appdashboard "github.com/xuanhoa/backend/internal/application/dashboard"
	appmanufacturing "github.com/xuanhoa/backend/internal/application/manufacturing"
	apppartner "github.com/xuanhoa/backend/internal/application/partner"
	appstock "github.com/xuanhoa/backend/internal/application/stock"
	apptrading "github.com/xuanhoa/backend/internal/application/trading"
	"github.com/xuanhoa/backend/internal/infrastructure/config"
	"github.com/xuanhoa/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// MethodFunc handles one RPC method call
type MethodFunc func(c *gin.Context, kw Kwargs)

// Services bundles the application services the RPC surface dispatches to.
type Services struct {
	StockEntries *appstock.StockEntryService
	StockQueries *appstock.StockQueryService
	Items        *appcatalog.ItemService
	ItemGroups   *appcatalog.ItemGroupService
	Parties      *apppartner.PartyService
	BOMs         *appmanufacturing.BOMService
	WorkOrders   *appmanufacturing.WorkOrderService
	Invoices     *apptrading.InvoiceService
	Payments     *apptrading.PaymentService
	Dashboard    *appdashboard.DashboardService
}

// Server exposes the application over method-style RPC: every operation is
// POST /api/method/<name> with keyword arguments in the JSON body.
type Server struct {
	engine   *gin.Engine
	methods  map[string]MethodFunc
	services Services
	logger   *zap.Logger
}

// NewServer builds the gin engine, middleware chain and method registry
func NewServer(cfg *config.Config, services Services, log *zap.Logger) *Server {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}
	engine.Use(
		logger.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		CORS(cfg.HTTP),
	)

	s := &Server{
		engine:   engine,
		methods:  make(map[string]MethodFunc),
		services: services,
		logger:   log.Named("rpc"),
	}
	s.registerStockMethods()
	s.registerCatalogMethods()
	s.registerManufacturingMethods()
	s.registerTradingMethods()
	s.registerDashboardMethods()

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/api/method/:method", s.dispatch)
	// Reads are also accepted as GET with query-string kwargs
	engine.GET("/api/method/:method", s.dispatch)
	return s
}

// register adds a method to the dispatch table
func (s *Server) register(name string, fn MethodFunc) {
	s.methods[name] = fn
}

// dispatch routes a call to the registered method handler. Clients may use
// the fully qualified form (xuanhoa_app.api.create_material_receipt); only
// the last segment selects the method.
func (s *Server) dispatch(c *gin.Context) {
	name := c.Param("method")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	fn, ok := s.methods[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"message": gin.H{"success": false, "message": "Phương thức không tồn tại: " + name},
		})
		return
	}

	var kw Kwargs
	var err error
	if c.Request.Method == http.MethodGet {
		kw = kwargsFromQuery(c)
	} else {
		kw, err = bindKwargs(c)
		if err != nil {
			replyError(c, err)
			return
		}
	}
	fn(c, kw)
}

// kwargsFromQuery lifts query-string parameters into a Kwargs map so read
// methods work over GET
func kwargsFromQuery(c *gin.Context) Kwargs {
	kw := Kwargs{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			if quoted, err := json.Marshal(values[0]); err == nil {
				kw[key] = quoted
			}
		}
	}
	return kw
}

// Handler returns the underlying http handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, cfg *config.Config) error {
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        s.engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("RPC server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down RPC server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.WriteTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
