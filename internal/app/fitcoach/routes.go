// Package fitcoach предоставляет маршруты для основного приложения.
package fitcoach

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminaccounts "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/admin/accounts"
	adminactivate "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/admin/activate"
	admindeactivate "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/admin/deactivate"
	adminmerge "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/admin/merge"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/assistant/suggest"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/auth/register"
	exercisecreate "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/exercise/create"
	exerciselist "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/exercise/list"
	exerciseremove "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/exercise/remove"
	exerciseupdate "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/exercise/update"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/health"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/payment/paymentlist"
	planrequestcreate "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/planrequest/create"
	planrequestlist "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/planrequest/list"
	planrequestupdate "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/planrequest/updatestatus"
	programassign "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/program/assign"
	programcreate "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/program/create"
	programlist "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/program/list"
	reviewcreate "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/review/create"
	reviewlist "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/review/list"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/subscription/activatefrompending"
	weeklyplanget "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/weeklyplan/get"
	weeklyplansave "github.com/magabrotheeeer/fitcoach-backend/internal/http/handlers/weeklyplan/save"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
	assistantservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/assistant"
	authservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/auth"
	exerciseservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/exercise"
	paymentservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/payment"
	programservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/program"
	reviewservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/review"
	subscriptionservice "github.com/magabrotheeeer/fitcoach-backend/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	subscriptionService *subscriptionservice.Service,
	paymentService *paymentservice.Service,
	exerciseService *exerciseservice.Service,
	assistantService *assistantservice.Service,
	programService *programservice.Service,
	reviewService *reviewservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/reviews", reviewlist.New(logger, reviewService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/subscription/activate-from-pending", activatefrompending.New(logger, paymentService).ServeHTTP)
			r.Post("/payment", paymentcreate.New(logger, paymentService).ServeHTTP)

			r.Post("/ai/suggest-exercises", suggest.New(logger, assistantService).ServeHTTP)
			r.Get("/exercises", exerciselist.New(logger, exerciseService).ServeHTTP)

			r.Post("/programs", programcreate.New(logger, programService).ServeHTTP)
			r.Get("/programs", programlist.New(logger, programService).ServeHTTP)
			r.Post("/programs/{id}/assign", programassign.New(logger, programService).ServeHTTP)
			r.Put("/plans/weekly", weeklyplansave.New(logger, programService).ServeHTTP)
			r.Get("/plans/weekly", weeklyplanget.New(logger, programService).ServeHTTP)
			r.Post("/plans/requests", planrequestcreate.New(logger, programService).ServeHTTP)

			r.Post("/reviews", reviewcreate.New(logger, reviewService).ServeHTTP)
		})

		// Группа администратора
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))

			r.Get("/admin/accounts", adminaccounts.New(logger, subscriptionService).ServeHTTP)
			r.Post("/admin/accounts/merge", adminmerge.New(logger, subscriptionService).ServeHTTP)
			r.Post("/admin/subscriptions/activate", adminactivate.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/admin/subscriptions/{uid}", admindeactivate.New(logger, subscriptionService).ServeHTTP)
			r.Get("/admin/payments", paymentlist.New(logger, paymentService).ServeHTTP)
			r.Post("/admin/exercises", exercisecreate.New(logger, exerciseService).ServeHTTP)
			r.Put("/admin/exercises/{id}", exerciseupdate.New(logger, exerciseService).ServeHTTP)
			r.Delete("/admin/exercises/{id}", exerciseremove.New(logger, exerciseService).ServeHTTP)
			r.Get("/admin/plan-requests", planrequestlist.New(logger, programService).ServeHTTP)
			r.Patch("/admin/plan-requests/{id}", planrequestupdate.New(logger, programService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
