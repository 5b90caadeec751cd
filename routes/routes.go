package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kacemyassine/league-tracker/handlers"
	"github.com/kacemyassine/league-tracker/middleware"
	"github.com/kacemyassine/league-tracker/services"
)

func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	leagueHandler *handlers.LeagueHandler,
	statsHandler *handlers.StatsHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	archiveHandler *handlers.ArchiveHandler,
	syncHandler *handlers.SyncHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/login", authHandler.LoginHandler)

	// Публичные маршруты для просмотра лиги
	router.Get("/league", leagueHandler.SnapshotHandler)
	router.Get("/standings", statsHandler.StandingsHandler)
	router.Get("/topscorers", statsHandler.TopScorersHandler)
	router.Get("/stats/points", statsHandler.PointsProgressionHandler)
	router.Get("/teams", teamHandler.ListTeamsHandler)
	router.Get("/players", playerHandler.ListPlayersHandler)
	router.Get("/matches", matchHandler.ListMatchesHandler)
	router.Get("/archives", archiveHandler.ListArchivesHandler)
	router.Get("/archives/{archiveID}", archiveHandler.GetArchiveHandler)
	router.Get("/ws/league", webSocketHandler.ServeWs)

	// Relay endpoint keeps its own bearer check.
	router.Post("/api/update-json", syncHandler.RelayHandler)

	// Защищённые маршруты только для администратора
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(authService))

		r.Post("/matches", matchHandler.RecordMatchHandler)
		r.Put("/matches/{matchID}", matchHandler.EditMatchHandler)
		r.Delete("/matches/{matchID}", matchHandler.DeleteMatchHandler)

		r.Post("/players", playerHandler.AddPlayerHandler)
		r.Patch("/players/{playerID}", playerHandler.EditPlayerHandler)
		r.Delete("/players/{playerID}", playerHandler.DeletePlayerHandler)
		r.Post("/players/{playerID}/image", playerHandler.UploadPlayerImageHandler)

		r.Put("/teams/{teamID}/logo", teamHandler.UpdateTeamLogoHandler)
		r.Post("/teams/{teamID}/logo", teamHandler.UploadTeamLogoHandler)

		r.Post("/league/reset", leagueHandler.ResetLeagueHandler)
		r.Post("/archives", archiveHandler.CreateArchiveHandler)

		r.Post("/sync/pull", syncHandler.PullHandler)
		r.Post("/sync/push", syncHandler.PushHandler)
	})
}
