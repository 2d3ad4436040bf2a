package routes

import (
	"github.com/bramley-breezers/club-records/handlers"
	"github.com/bramley-breezers/club-records/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes mounts the public read surface, the public submission
// endpoints and the JWT-protected admin surface.
func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	memberHandler *handlers.MemberHandler,
	resultHandler *handlers.ResultHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	championshipHandler *handlers.ChampionshipHandler,
	settingsHandler *handlers.SettingsHandler,
	maintenanceHandler *handlers.MaintenanceHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Public surface.
	router.Get("/leaderboard", leaderboardHandler.Get)
	router.Get("/settings", settingsHandler.Get)
	router.Post("/submissions", resultHandler.Submit)
	router.Get("/ws", webSocketHandler.ServeWs)

	router.Route("/championship", func(r chi.Router) {
		r.Get("/calendar", championshipHandler.Calendar)
		r.Get("/standings", championshipHandler.Standings)
		r.Post("/submissions", championshipHandler.Submit)
	})

	router.Post("/auth/login", authHandler.Login)

	// Admin surface.
	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Post("/password", authHandler.ChangePassword)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", memberHandler.List)
			r.Post("/", memberHandler.Create)
			r.Get("/{memberID}", memberHandler.Get)
			r.Put("/{memberID}", memberHandler.Update)
			r.Delete("/{memberID}", memberHandler.Delete)
		})

		r.Route("/pending", func(r chi.Router) {
			r.Get("/", resultHandler.ListPending)
			r.Post("/{submissionID}/approve", resultHandler.Approve)
			r.Delete("/{submissionID}", resultHandler.Reject)
		})

		r.Route("/results", func(r chi.Router) {
			r.Get("/", resultHandler.List)
			r.Put("/{resultID}", resultHandler.Update)
			r.Delete("/{resultID}", resultHandler.Delete)
		})

		r.Route("/championship", func(r chi.Router) {
			r.Put("/calendar/{slot}", championshipHandler.UpsertCalendarSlot)
			r.Get("/reference-times", championshipHandler.ListReferenceTimes)
			r.Put("/reference-times", championshipHandler.UpsertReferenceTime)
			r.Get("/pending", championshipHandler.ListPending)
			r.Post("/pending/{submissionID}/approve", championshipHandler.Approve)
			r.Delete("/pending/{submissionID}", championshipHandler.Reject)
			r.Get("/results", championshipHandler.ListResults)
			r.Put("/results/{resultID}/points", championshipHandler.OverridePoints)
			r.Delete("/results/{resultID}", championshipHandler.DeleteResult)
		})

		r.Put("/settings", settingsHandler.Update)
		r.Post("/settings/logo", settingsHandler.UploadLogo)

		r.Route("/maintenance", func(r chi.Router) {
			r.Post("/dedupe", maintenanceHandler.RepairDuplicates)
			r.Post("/rebuild", maintenanceHandler.RebuildCaches)
			r.Delete("/pending-queues", maintenanceHandler.ClearPendingQueues)
		})

		r.Get("/stats", maintenanceHandler.Stats)
	})
}
