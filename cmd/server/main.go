package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blsh/salon-dashboard/internal/config"
	"github.com/blsh/salon-dashboard/internal/database"
	"github.com/blsh/salon-dashboard/internal/handlers"
	"github.com/blsh/salon-dashboard/internal/middleware"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/blsh/salon-dashboard/pkg/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting BLSH salon dashboard backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Table store
	cache := database.NewTableCache(cfg.Data.CacheTTL)
	store := database.NewCSVStore(cfg.Data.Dir, cache, logger)
	logger.WithFields(logrus.Fields{
		"data_dir":  cfg.Data.Dir,
		"cache_ttl": cfg.Data.CacheTTL.String(),
		"timezone":  cfg.Business.TimeZone,
	}).Info("CSV table store ready")

	// Optional audit database
	var db *sqlx.DB
	var recorder services.AuditRecorder
	if cfg.AuditEnabled() {
		logger.Info("Connecting to audit database...")
		db, err = database.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = database.EnsureAuditSchema(ctx, db)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to prepare audit schema: %v", err)
		}
		recorder = database.NewAuditRepository(db, logger)
		logger.Info("Audit database connection established")
	} else {
		logger.Info("DATABASE_URL not set, ledger audit events are logged only")
	}

	// Initialize services
	logger.Info("Initializing services...")
	clock := services.NewTimeNormalizer(cfg.Business.Location)
	salesService := services.NewSalesService(clock)
	productService := services.NewProductService(clock)
	slotService := services.NewSlotService(clock)
	staffAnalytics := services.NewStaffAnalyticsService(clock)
	ledgerService := services.NewLedgerService(store, slotService, clock, logger)
	auditService := services.NewAuditService(recorder, logger)
	exportService := services.NewExportService(salesService, productService, staffAnalytics)
	phoneValidator := validator.NewPhoneValidator()

	cronService := services.NewCronService(cache, auditService, logger)
	if cfg.Cron.Enabled {
		if err := cronService.Start(cfg.Cron.CacheSweepSchedule); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
	}
	logger.Info("Services initialized")

	// Initialize handlers
	salesHandler := handlers.NewSalesHandler(store, clock, salesService, productService)
	bookingHandler := handlers.NewBookingHandler(store, clock, slotService, ledgerService, auditService, phoneValidator, logger)
	staffHandler := handlers.NewStaffHandler(store, staffAnalytics, ledgerService, auditService, logger)
	catalogHandler := handlers.NewCatalogHandler(store)
	exportHandler := handlers.NewExportHandler(store, clock, exportService, logger)
	auditHandler := handlers.NewAuditHandler(auditService, logger)

	// Initialize Gin router
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if cfg.Server.EnableRequestLog {
		router.Use(requestLogger(logger))
	}
	if cfg.Server.EnableMetrics {
		router.Use(middleware.Metrics())
		router.GET("/metrics", middleware.MetricsHandler())
	}

	corsConfig := cors.Config{
		AllowOrigins:  cfg.CORS.AllowedOrigins,
		AllowMethods:  cfg.CORS.AllowedMethods,
		AllowHeaders:  cfg.CORS.AllowedHeaders,
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db, cache))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/dashboard/summary", salesHandler.GetSummary)

		sales := v1.Group("/services")
		{
			sales.GET("/cumulative", salesHandler.GetCumulative)
			sales.GET("/incentives", salesHandler.GetIncentives)
			sales.GET("/performance", salesHandler.GetPerformance)
			sales.GET("/peak-hours", salesHandler.GetPeakHours)
			sales.GET("/weekdays", salesHandler.GetWeekdays)
			sales.GET("/service-counts", salesHandler.GetServiceCounts)
			sales.GET("/top-clients", salesHandler.GetTopClients)
			sales.GET("/bottom-clients", salesHandler.GetBottomClients)
			sales.GET("/spend-vs-visits", salesHandler.GetSpendVsVisits)
			sales.GET("/last-visits", salesHandler.GetLastVisits)
			sales.GET("/employee-rankings", salesHandler.GetEmployeeRankings)
			sales.GET("/months", salesHandler.GetMonths)
		}

		products := v1.Group("/products")
		{
			products.GET("/summary", salesHandler.GetProductSummary)
			products.GET("/incentives", salesHandler.GetProductIncentives)
			products.GET("/employee-sales", salesHandler.GetProductEmployeeSales)
			products.GET("/employee-revenue", salesHandler.GetProductEmployeeRevenue)
			products.GET("/top-products", salesHandler.GetTopProducts)
			products.GET("/sales-by-day", salesHandler.GetProductSalesByDay)
		}

		bookings := v1.Group("/bookings")
		{
			bookings.GET("", bookingHandler.ListByDate)
			bookings.GET("/kpis", bookingHandler.GetKPIs)
			bookings.GET("/search", bookingHandler.Search)
			bookings.GET("/heatmap", bookingHandler.GetHeatmap)
			bookings.GET("/timeline", bookingHandler.GetTimeline)
			bookings.GET("/availability", bookingHandler.GetAvailability)
			bookings.POST("", bookingHandler.Create)
			bookings.PUT("/:id", bookingHandler.Update)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
			bookings.POST("/:id/complete", bookingHandler.Complete)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/services", catalogHandler.GetServices)
			catalog.GET("/employees", catalogHandler.GetEmployees)
			catalog.GET("/branches", catalogHandler.GetBranches)
		}

		staff := v1.Group("/staff")
		{
			staff.GET("", staffHandler.List)
			staff.POST("", staffHandler.Create)
			staff.GET("/kpis", staffHandler.GetKPIs)
			staff.GET("/attendance", staffHandler.GetAttendance)
			staff.POST("/leaves", staffHandler.CreateLeave)
			staff.GET("/leaves/upcoming", staffHandler.GetUpcomingLeaves)
			staff.GET("/leaves/calendar", staffHandler.GetLeaveCalendar)
			staff.PUT("/:id", staffHandler.Update)
			staff.DELETE("/:id", staffHandler.Resign)
		}

		v1.GET("/exports/:report", exportHandler.Download)
		v1.GET("/audit", auditHandler.GetRecent)

		v1.GET("/system/jobs", func(c *gin.Context) {
			c.JSON(http.StatusOK, cronService.GetJobStatus())
		})
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if cfg.Cron.Enabled {
		cronService.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": c.Request.UserAgent(),
			"request_id": middleware.GetRequestID(c),
		}
		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler reports service health. The audit database is only checked when configured.
func healthCheckHandler(db *sqlx.DB, cache *database.TableCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "disabled"
		if db != nil {
			dbStatus = "healthy"
			if err := db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "unhealthy",
					"database": "unhealthy",
					"error":    err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":        "healthy",
			"database":      dbStatus,
			"cached_tables": cache.Len(),
			"version":       version,
			"timestamp":     time.Now().Unix(),
		})
	}
}
