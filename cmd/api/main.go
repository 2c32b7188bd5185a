package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fras-portal/internal/api/http"
	"github.com/spec-kit/fras-portal/internal/api/http/handlers"
	"github.com/spec-kit/fras-portal/internal/auth"
	"github.com/spec-kit/fras-portal/internal/config"
	"github.com/spec-kit/fras-portal/internal/domain"
	"github.com/spec-kit/fras-portal/internal/events"
	"github.com/spec-kit/fras-portal/internal/observability"
	"github.com/spec-kit/fras-portal/internal/persistence"
	"github.com/spec-kit/fras-portal/internal/repository"
	"github.com/spec-kit/fras-portal/internal/service"
	"github.com/spec-kit/fras-portal/internal/worker"
)

type repositories struct {
	admins     repository.AdminRepository
	employees  repository.EmployeeRepository
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	attendance repository.AttendanceRepository
	tx         repository.Transactor
	store      string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	adminScope, err := domain.ParseAdminTicketScope(cfg.Tickets.AdminScope)
	if err != nil {
		logger.Fatal("invalid TICKETS_ADMIN_SCOPE", zap.Error(err))
	}

	repos := buildRepositories(pg)
	metrics := observability.NewMetrics(strings.ReplaceAll(cfg.App.Name, "-", "_"))

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))
	if cfg.Kafka.Enabled() {
		publisher := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), logger)
		defer publisher.Close() //nolint:errcheck
		worker.StartEventPublisher(dispatcher, publisher)
		logger.Info("kafka publisher enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	revoker := auth.NewRedisRevoker(redis.Client)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo:    repos.admins,
		EmployeeRepo: repos.employees,
		Revoker:      revoker,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:        repos.tickets,
		HistoryRepo:       repos.history,
		Transactor:        repos.tx,
		AdminRepo:         repos.admins,
		EmployeeRepo:      repos.employees,
		Dispatcher:        dispatcher,
		Metrics:           metrics,
		Logger:            logger,
		StrictTransitions: cfg.Tickets.StrictTransitions,
		AdminScope:        adminScope,
	})
	employeeService := service.NewEmployeeService(repos.employees)
	attendanceService := service.NewAttendanceService(repos.attendance, repos.employees)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.admins, repos.employees, revoker, logger)

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, repos.store, healthDependencies(pg, redis)...),
		Auth:            handlers.NewAuthHandler(authService),
		EmployeeTickets: handlers.NewEmployeeTicketsHandler(ticketService),
		AdminTickets:    handlers.NewAdminTicketsHandler(ticketService),
		Employees:       handlers.NewEmployeesHandler(employeeService),
		Profile:         handlers.NewProfileHandler(authService),
		Attendance:      handlers.NewAttendanceHandler(attendanceService),
		AuthMiddleware:  authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Bool("strict_transitions", cfg.Tickets.StrictTransitions), zap.String("admin_scope", string(adminScope)))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		store := repository.NewMemoryStore()
		return repositories{
			admins:     store.Admins(),
			employees:  store.Employees(),
			tickets:    store.Tickets(),
			history:    store.History(),
			attendance: store.Attendance(),
			tx:         store,
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		admins:     repository.NewAdminRepository(pool),
		employees:  repository.NewEmployeeRepository(pool),
		tickets:    repository.NewTicketRepository(pool),
		history:    repository.NewTicketHistoryRepository(pool),
		attendance: repository.NewAttendanceRepository(pool),
		tx:         repository.NewTransactor(pool),
	}
}

func healthDependencies(pg *persistence.Postgres, redis *persistence.Redis) []handlers.Dependency {
	deps := []handlers.Dependency{{Name: "redis", Ping: redis.Ping}}
	if pg.Enabled() {
		deps = append(deps, handlers.Dependency{Name: "postgres", Ping: pg.Ping})
	}
	return deps
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
