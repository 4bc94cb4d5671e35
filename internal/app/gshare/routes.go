// Package gshare собирает HTTP-приложение сервиса общих игровых аккаунтов.
package gshare

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/poorboygaming/gshare/internal/http/handlers/admin/categorycreate"
	admincategorylist "github.com/poorboygaming/gshare/internal/http/handlers/admin/categorylist"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/categoryremove"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/categoryupdate"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/gamecreate"
	admingamelist "github.com/poorboygaming/gshare/internal/http/handlers/admin/gamelist"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/gameremove"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/gameupdate"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/plancreate"
	adminplanlist "github.com/poorboygaming/gshare/internal/http/handlers/admin/planlist"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/planremove"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/planupdate"
	adminreportlist "github.com/poorboygaming/gshare/internal/http/handlers/admin/reportlist"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/reportremove"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/reportupdate"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/stats"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/usercreate"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/userextend"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/userlist"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/userremove"
	"github.com/poorboygaming/gshare/internal/http/handlers/admin/userupdate"
	"github.com/poorboygaming/gshare/internal/http/handlers/auth/login"
	"github.com/poorboygaming/gshare/internal/http/handlers/auth/register"
	"github.com/poorboygaming/gshare/internal/http/handlers/plan/planlist"
	"github.com/poorboygaming/gshare/internal/http/handlers/user/categorylist"
	"github.com/poorboygaming/gshare/internal/http/handlers/user/gamelist"
	"github.com/poorboygaming/gshare/internal/http/handlers/user/gametoken"
	"github.com/poorboygaming/gshare/internal/http/handlers/user/reportcreate"
	"github.com/poorboygaming/gshare/internal/http/handlers/user/reportlist"
	"github.com/poorboygaming/gshare/internal/http/middlewarectx"
	"github.com/poorboygaming/gshare/internal/lib/jwt"
	authservice "github.com/poorboygaming/gshare/internal/services/auth"
	categoryservice "github.com/poorboygaming/gshare/internal/services/category"
	"github.com/poorboygaming/gshare/internal/services/entitlement"
	gameservice "github.com/poorboygaming/gshare/internal/services/game"
	planservice "github.com/poorboygaming/gshare/internal/services/plan"
	reportservice "github.com/poorboygaming/gshare/internal/services/report"
	statsservice "github.com/poorboygaming/gshare/internal/services/stats"
	userservice "github.com/poorboygaming/gshare/internal/services/user"
	"github.com/poorboygaming/gshare/internal/storage/repository"
)

// Services собирает сервисы бизнес-уровня, которые обслуживают маршруты.
type Services struct {
	Auth     *authservice.AuthService
	Game     *gameservice.GameService
	Report   *reportservice.ReportService
	Category *categoryservice.CategoryService
	Plan     *planservice.PlanService
	User     *userservice.UserService
	Stats    *statsservice.StatsService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	evaluator *entitlement.Evaluator, db *repository.Storage, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	loginLimiter := rate.NewLimiter(rate.Limit(5), 10)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, loginLimiter))
			r.Post("/auth/register", register.New(logger, svc.Auth).ServeHTTP)
			r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)
		})
		r.Get("/plans", planlist.New(logger, svc.Plan).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))

			r.Get("/user/reports", reportlist.New(logger, svc.Report).ServeHTTP)

			// Доступ к играм только при действующей подписке
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.EntitlementMiddleware(logger, db, evaluator))
				r.Get("/user/games", gamelist.New(logger, svc.Game).ServeHTTP)
				r.Get("/user/games/{id}/token", gametoken.New(logger, svc.Game).ServeHTTP)
				r.Post("/user/games/{id}/report", reportcreate.New(logger, svc.Report).ServeHTTP)
				r.Get("/user/categories", categorylist.New(logger, svc.Category).ServeHTTP)
			})

			// Административная панель
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))

				r.Get("/admin/stats", stats.New(logger, svc.Stats).ServeHTTP)

				r.Get("/admin/users", userlist.New(logger, svc.User).ServeHTTP)
				r.Post("/admin/users", usercreate.New(logger, svc.User).ServeHTTP)
				r.Put("/admin/users/{id}", userupdate.New(logger, svc.User).ServeHTTP)
				r.Delete("/admin/users/{id}", userremove.New(logger, svc.User).ServeHTTP)
				r.Post("/admin/users/{id}/extend-subscription", userextend.New(logger, svc.User).ServeHTTP)

				r.Get("/admin/games", admingamelist.New(logger, svc.Game).ServeHTTP)
				r.Post("/admin/games", gamecreate.New(logger, svc.Game).ServeHTTP)
				r.Put("/admin/games/{id}", gameupdate.New(logger, svc.Game).ServeHTTP)
				r.Delete("/admin/games/{id}", gameremove.New(logger, svc.Game).ServeHTTP)

				r.Get("/admin/categories", admincategorylist.New(logger, svc.Category).ServeHTTP)
				r.Post("/admin/categories", categorycreate.New(logger, svc.Category).ServeHTTP)
				r.Put("/admin/categories/{id}", categoryupdate.New(logger, svc.Category).ServeHTTP)
				r.Delete("/admin/categories/{id}", categoryremove.New(logger, svc.Category).ServeHTTP)

				r.Get("/admin/plans", adminplanlist.New(logger, svc.Plan).ServeHTTP)
				r.Post("/admin/plans", plancreate.New(logger, svc.Plan).ServeHTTP)
				r.Put("/admin/plans/{id}", planupdate.New(logger, svc.Plan).ServeHTTP)
				r.Delete("/admin/plans/{id}", planremove.New(logger, svc.Plan).ServeHTTP)

				r.Get("/admin/reports", adminreportlist.New(logger, svc.Report).ServeHTTP)
				r.Put("/admin/reports/{id}", reportupdate.New(logger, svc.Report).ServeHTTP)
				r.Delete("/admin/reports/{id}", reportremove.New(logger, svc.Report).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
