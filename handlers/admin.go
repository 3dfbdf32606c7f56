package handlers

import (
	"crackcode-tournament/middleware"
	"crackcode-tournament/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, tournamentService *services.TournamentService, adminKey string) {
	admin := app.Group("/admin", middleware.AdminAuthMiddleware(adminKey))

	admin.Post("/tournaments", tournamentService.CreateTournament)
	admin.Post("/tournaments/:id/end", tournamentService.ForceEndTournament)
	admin.Post("/matches/:id/cancel", tournamentService.CancelMatch)

	admin.Get("/status", tournamentService.LiveStatus)
	admin.Post("/broadcast", tournamentService.Broadcast)
	admin.Post("/reset", tournamentService.ResetAll)
}
