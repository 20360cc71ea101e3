package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/config"
	"github.com/apmb-hris/hrms-backend-go/internal/fixtures"
	appHTTP "github.com/apmb-hris/hrms-backend-go/internal/handler/http"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/cron"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/email"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/geo"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/storage"
	"github.com/apmb-hris/hrms-backend-go/internal/repository/postgresql"
	attendanceService "github.com/apmb-hris/hrms-backend-go/internal/service/attendance"
	serviceAuth "github.com/apmb-hris/hrms-backend-go/internal/service/auth"
	calendarService "github.com/apmb-hris/hrms-backend-go/internal/service/calendar"
	documentService "github.com/apmb-hris/hrms-backend-go/internal/service/document"
	employeeService "github.com/apmb-hris/hrms-backend-go/internal/service/employee"
	"github.com/apmb-hris/hrms-backend-go/internal/service/file"
	invitationService "github.com/apmb-hris/hrms-backend-go/internal/service/invitation"
	leaveService "github.com/apmb-hris/hrms-backend-go/internal/service/leave"
	noticeService "github.com/apmb-hris/hrms-backend-go/internal/service/notice"
	organizationService "github.com/apmb-hris/hrms-backend-go/internal/service/organization"
	payrollService "github.com/apmb-hris/hrms-backend-go/internal/service/payroll"
	weeklyReportService "github.com/apmb-hris/hrms-backend-go/internal/service/weeklyreport"
	"github.com/apmb-hris/hrms-backend-go/migrations"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "apmb-hrms"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := database.NewPostgreSQLDB(connectCtx, cfg.DatabaseURL())
	cancel()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if _, err := database.Migrate(ctx, db, migrations.FS); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	// Reference data
	holidays, err := fixtures.Holidays()
	if err != nil {
		return fmt.Errorf("load holidays: %w", err)
	}
	holidayCalendar, err := calendarService.NewCalendarService(holidays)
	if err != nil {
		return fmt.Errorf("build holiday calendar: %w", err)
	}
	resolver := geo.NewResolver(geo.AllowedRegion, fixtures.OfficeLocations)

	// Repositories
	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	invitationRepo := postgresql.NewInvitationRepository(db)
	weeklyReportRepo := postgresql.NewWeeklyReportRepository(db)
	noticeRepo := postgresql.NewNoticeRepository(db)
	organizationRepo := postgresql.NewOrganizationRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	salaryReportRepo := postgresql.NewSalaryReportRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)

	// Infrastructure
	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}
	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("init local storage: %w", err)
	}
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("init email service: %w", err)
	}
	if cfg.SMTP.Host == "" {
		slog.Warn("SMTP_HOST not set, invitation emails will not be sent")
	}
	fileService := file.NewFileService(fileStorage)

	// Services
	authService := serviceAuth.NewAuthService(transactor, userRepo, invitationRepo, JWTService, refreshTokenRepo)
	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, resolver, holidayCalendar, loc, time.Now)
	invitationSvc := invitationService.NewInvitationService(invitationRepo, userRepo, emailService, cfg.Invitation, loc)
	weeklyReportSvc := weeklyReportService.NewWeeklyReportService(weeklyReportRepo, loc, time.Now)
	noticeSvc := noticeService.NewNoticeService(noticeRepo, fileService, loc)
	organizationSvc := organizationService.NewOrganizationService(transactor, organizationRepo, departmentRepo)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, departmentRepo, refreshTokenRepo, time.Now)
	leaveSvc := leaveService.NewLeaveService(transactor, leaveRepo, fileService, loc, time.Now)
	payrollSvc := payrollService.NewPayrollService(salaryRepo, salaryReportRepo, employeeRepo, fileService, loc)
	documentSvc := documentService.NewDocumentService(transactor, documentRepo, fileService, loc, time.Now)

	// Handlers
	router := appHTTP.NewRouter(
		cfg.App,
		logger,
		JWTService,
		appHTTP.NewAuthHandler(authService, JWTService),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewInvitationHandler(invitationSvc),
		appHTTP.NewWeeklyReportHandler(weeklyReportSvc),
		appHTTP.NewNoticeHandler(noticeSvc),
		appHTTP.NewReferenceHandler(resolver, holidayCalendar, loc),
		appHTTP.NewOrganizationHandler(organizationSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewDocumentHandler(documentSvc),
		fileStorage.BasePath(),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := cron.NewScheduler()
	cron.NewHousekeepingJobs(refreshTokenRepo).RegisterJobs(scheduler)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr, "timezone", loc.String(), "offices", len(resolver.Offices()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
