package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/tournament-progression/docs"
	"github.com/Dosada05/tournament-progression/handlers"
	"github.com/Dosada05/tournament-progression/middleware"
)

type Handlers struct {
	Bracket   *handlers.BracketHandler
	Match     *handlers.MatchHandler
	Standings *handlers.StandingsHandler
	League    *handlers.LeagueHandler
	WebSocket *handlers.WebSocketHandler
	Metrics   http.Handler
}

func SetupRoutes(router *chi.Mux, h Handlers, jwtSecret string, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", h.Metrics)
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/ws", func(r chi.Router) {
		r.Get("/tournaments/{tournamentID}", h.WebSocket.ServeTournament)
		r.Get("/leagues/{leagueID}", h.WebSocket.ServeLeague)
	})

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/categories/{categoryID}/standings", h.Standings.CategoryStandings)
		r.Get("/categories/{categoryID}/integrity", h.Standings.CategoryIntegrity)
		r.Get("/leagues/{leagueID}/standings", h.League.Standings)
		r.Get("/leagues/{leagueID}/link-suggestions", h.League.LinkSuggestions)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret, logger))
			r.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleOrganizer))

			r.Post("/categories/{categoryID}/knockout", h.Bracket.GenerateKnockout)
			r.Post("/categories/{categoryID}/group-stage", h.Bracket.GenerateGroupStage)
			r.Post("/tournaments/{tournamentID}/matches/{matchNumber}/resolve", h.Bracket.ResolveFeeder)
			r.Put("/tournaments/{tournamentID}/matches/{matchNumber}/result", h.Match.RecordResult)
			r.Post("/leagues/{leagueID}/recompute", h.League.Recompute)
		})
	})
}
