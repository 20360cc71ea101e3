package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/apmb-hris/hrms-backend-go/internal/config"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/middleware"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	appConfig config.AppConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	invitationHandler InvitationHandler,
	weeklyReportHandler WeeklyReportHandler,
	noticeHandler NoticeHandler,
	referenceHandler ReferenceHandler,
	organizationHandler OrganizationHandler,
	employeeHandler EmployeeHandler,
	leaveHandler LeaveHandler,
	payrollHandler PayrollHandler,
	documentHandler DocumentHandler,
	uploadsDir string,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(uploadsDir)))))

	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json", "multipart/form-data"))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Post("/register/{invitationID}", authHandler.Register)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/me", authHandler.Me)
				r.Put("/password", authHandler.ChangePassword)
			})
		})

		r.Route("/invitations", func(r chi.Router) {
			// Public: the registration page prefills from it
			r.Get("/{id}", invitationHandler.GetForRegistration)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Use(middleware.AdminOnly)
				r.Post("/", invitationHandler.Create)
				r.Get("/", invitationHandler.ListPending)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			authenticated(r)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/", attendanceHandler.Submit)
				r.Get("/today", attendanceHandler.Today)
				r.Get("/my", attendanceHandler.GetMyAttendance)
				r.Get("/{id}", attendanceHandler.Get)

				r.With(middleware.RequireReportViewer).Get("/", attendanceHandler.List)
			})

			r.Route("/weekly-reports", func(r chi.Router) {
				r.Post("/", weeklyReportHandler.Submit)
				r.Get("/my", weeklyReportHandler.ListMine)

				r.With(middleware.RequireReportViewer).Get("/", weeklyReportHandler.List)
			})

			r.Route("/notices", func(r chi.Router) {
				r.Get("/", noticeHandler.List)
				r.Get("/{id}/download", noticeHandler.Download)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", noticeHandler.Upload)
					r.Delete("/{id}", noticeHandler.Delete)
				})
			})

			r.Route("/organizations", func(r chi.Router) {
				r.Get("/", organizationHandler.ListOrganizations)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", organizationHandler.CreateOrganization)
					r.Put("/{id}", organizationHandler.UpdateOrganization)
					r.Delete("/{id}", organizationHandler.DeleteOrganization)
					r.Post("/{id}/departments", organizationHandler.CreateDepartment)
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/{id}", organizationHandler.GetDepartment)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}", organizationHandler.UpdateDepartment)
					r.Delete("/{id}", organizationHandler.DeleteDepartment)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", employeeHandler.MyProfile)
				r.Get("/{id}", employeeHandler.Get)

				r.With(middleware.RequireReportViewer).Get("/", employeeHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}", employeeHandler.Update)
					r.Patch("/{id}/status", employeeHandler.SetStatus)
				})
			})

			r.Route("/leave-applications", func(r chi.Router) {
				r.Post("/", leaveHandler.Apply)
				r.Get("/my", leaveHandler.ListMine)
				r.Post("/{id}/cancel", leaveHandler.Cancel)
				r.Get("/{id}/attachment", leaveHandler.DownloadAttachment)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireReportViewer)
					r.Get("/", leaveHandler.List)
					r.Post("/{id}/decision", leaveHandler.Decide)
				})
			})

			r.Route("/salaries", func(r chi.Router) {
				r.Get("/payslip", payrollHandler.Payslip)

				r.With(middleware.RequireReportViewer).Get("/", payrollHandler.DepartmentSalaries)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/", payrollHandler.UpsertSalary)
					r.Get("/template/{userID}", payrollHandler.SalaryTemplate)
				})
			})

			r.Route("/salary-reports", func(r chi.Router) {
				r.Get("/", payrollHandler.ListReports)
				r.Get("/{id}/download", payrollHandler.DownloadReport)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", payrollHandler.UploadReport)
					r.Delete("/{id}", payrollHandler.DeleteReport)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", documentHandler.Upload)
				r.Get("/my", documentHandler.ListMine)
				r.Delete("/{id}", documentHandler.Delete)
				r.Get("/{id}/download", documentHandler.Download)
				r.Get("/{id}/response/download", documentHandler.DownloadResponse)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", documentHandler.List)
					r.Post("/{id}/response", documentHandler.Respond)
				})
			})

			r.Get("/offices", referenceHandler.Offices)
			r.Get("/holidays", referenceHandler.Holidays)
		})
	})
	return r
}

// noDirListing hides directory indexes of the uploads tree.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
