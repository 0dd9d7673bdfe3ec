package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hotelapi/docs"
	"hotelapi/internal/config"
	"hotelapi/internal/database"
	handlers "hotelapi/internal/http/handler"
	"hotelapi/internal/http/middleware"
	"hotelapi/internal/metrics"
	"hotelapi/internal/model"
	"hotelapi/internal/otel"
	"hotelapi/internal/repository"
	"hotelapi/internal/repository/cache"
	"hotelapi/internal/repository/memory"
	"hotelapi/internal/repository/postgres"
	"hotelapi/internal/service"
	"hotelapi/internal/storage"
)

type serveOptions struct {
	port    string
	migrate bool
	memory  bool
}

func newServeCmd(cfg *config.AppConfig, log zerolog.Logger) *cobra.Command {
	opts := serveOptions{port: cfg.Port, migrate: true}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Flags().Visit(func(f *pflag.Flag) {
				log.Debug().Str("flag", f.Name).Str("value", f.Value.String()).Msg("flag override")
			})
			cfg.Port = opts.port
			return serve(cmd.Context(), cfg, opts, log)
		},
	}
	cmd.Flags().StringVarP(&opts.port, "port", "p", opts.port, "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", opts.migrate, "create the schema on startup when missing")
	cmd.Flags().BoolVar(&opts.memory, "memory", opts.memory, "keep state in memory with demo rooms and staff instead of PostgreSQL")
	return cmd
}

func serve(ctx context.Context, cfg *config.AppConfig, opts serveOptions, log zerolog.Logger) error {
	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error().Err(err).Msg("tracing shutdown")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	st, closeStore, err := openStore(ctx, cfg, opts, log)
	if err != nil {
		return err
	}
	defer closeStore()

	app, err := newApp(ctx, cfg, st, reg, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("event", "server_start").Str("port", cfg.Port).Bool("memory", opts.memory).Send()
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Str("event", "server_stop").Send()
	return app.ShutdownWithTimeout(10 * time.Second)
}

// stores bundles the repositories the API runs on. db is nil in memory mode.
type stores struct {
	db        handlers.Pinger
	tx        repository.Transactor
	rooms     repository.RoomRepository
	employees repository.EmployeeRepository
	cleanings repository.CleaningRepository
}

func openStore(ctx context.Context, cfg *config.AppConfig, opts serveOptions, log zerolog.Logger) (*stores, func(), error) {
	if opts.memory {
		return memoryStores(seedDemo(memory.NewStore())), func() {}, nil
	}

	db, err := database.Connect(ctx, cfg.Database, log, opts.migrate)
	if err != nil {
		return nil, nil, err
	}
	return &stores{
		db:        db,
		tx:        postgres.NewTransactor(db),
		rooms:     postgres.NewRoomPostgres(db),
		employees: postgres.NewEmployeePostgres(db),
		cleanings: postgres.NewCleaningPostgres(db),
	}, func() { _ = db.Close() }, nil
}

func memoryStores(s *memory.Store) *stores {
	return &stores{
		tx:        s,
		rooms:     s.Rooms(),
		employees: s.Employees(),
		cleanings: s.Cleanings(),
	}
}

// seedDemo fills an empty store with floors 1-3 (rooms x01-x10) and one employee per role.
func seedDemo(s *memory.Store) *memory.Store {
	for floor := 1; floor <= 3; floor++ {
		for n := 1; n <= 10; n++ {
			s.AddRoom(floor*100+n, model.StatusAvailable)
		}
	}
	s.AddEmployee(model.Employee{ID: 1, FirstName: "Rita", LastName: "Desk", Role: model.RoleReceptionist})
	s.AddEmployee(model.Employee{ID: 2, FirstName: "Hana", LastName: "Sweep", Role: model.RoleHousekeeper})
	s.AddEmployee(model.Employee{ID: 3, FirstName: "Mika", LastName: "Fix", Role: model.RoleMaintenance})
	s.AddEmployee(model.Employee{ID: 4, FirstName: "Ada", LastName: "Root", Role: model.RoleAdmin})
	return s
}

func newApp(ctx context.Context, cfg *config.AppConfig, st *stores, reg *prometheus.Registry, log zerolog.Logger) (*fiber.App, error) {
	cleaningMetrics, err := metrics.NewCleaningMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register cleaning metrics: %w", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	employees := cache.NewEmployeeCache(st.employees, cfg.Cache.EmployeeSize, cfg.Cache.EmployeeTTL())
	cleaningSvc := service.NewCleaningService(st.tx, st.rooms, employees, st.cleanings,
		service.WithMetrics(cleaningMetrics),
	)

	var reportSvc service.ReportService
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		reportSvc = service.NewReportService(cleaningSvc, objStore, cfg.ReportURLExpiry, nil)
	} else {
		log.Info().Str("component", "reports").Msg("MINIO_ENDPOINT not set, report export disabled")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	if cfg.RateLimit.RPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10_000, 10*time.Minute,
			"/health", "/healthz", "/metrics")
		app.Use(limiter.Handler())
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        st.db,
		Cleanings: cleaningSvc,
		Reports:   reportSvc,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	})

	return app, nil
}
