package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/league-system/docs"
)

type Options struct {
	CORSOrigins    []string
	LoginPerMinute int
}

type Handlers struct {
	League    *handlers.LeagueHandler
	Admin     *handlers.AdminHandler
	Auth      *handlers.AuthHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, auth middleware.TokenParser, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		// Публичные страницы
		r.Get("/standings", h.League.Standings)
		r.Get("/matches", h.League.Matches)
		r.Get("/bracket", h.League.Bracket)
		r.Get("/players", h.League.Players)
		r.Get("/hall-of-fame", h.League.HallOfFame)
		r.Get("/overview", h.League.Overview)
		r.Get("/export/matches", h.League.ExportMatches)
		r.Get("/export/table", h.League.ExportTable)

		r.Route("/admin", func(r chi.Router) {
			r.With(middleware.RateLimit(opts.LoginPerMinute, time.Minute)).Post("/login", h.Auth.Login)

			// Защищенные маршруты только для администратора
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(auth))

				r.Post("/schedule", h.Admin.GenerateSchedule)
				r.Post("/stages/{stage}", h.Admin.CreateStage)

				r.Post("/matches", h.Admin.AddManualMatch)
				r.Post("/matches/import", h.Admin.ImportMatches)
				r.Post("/matches/{matchID}/result", h.Admin.RecordResult)
				r.Delete("/matches/{matchID}/result", h.Admin.ClearResult)

				r.Post("/teams", h.Admin.AddTeam)
				r.Patch("/teams/{teamID}", h.Admin.RenameTeam)
				r.Post("/teams/{teamID}/logo", h.Admin.UploadTeamLogo)

				r.Post("/players", h.Admin.AddPlayer)
				r.Delete("/players/{playerID}", h.Admin.RemovePlayer)

				r.Put("/table", h.Admin.ImportTable)
				r.Delete("/table", h.Admin.ClearCustomTable)

				r.Post("/reset", h.Admin.ResetData)
			})
		})
	})
}
