package handlers

import (
	"crackcode-tournament/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService, matchService *services.MatchService, tournamentService *services.TournamentService) {
	app.Post("/players", playerService.RegisterPlayer)
	app.Get("/players/:id", playerService.GetPlayer)

	app.Post("/players/:id/code", playerService.SetCode)
	app.Post("/players/:id/ready", playerService.Ready)

	app.Get("/players/:id/match", matchService.GetMatch)
	app.Post("/players/:id/guess", matchService.SubmitGuess)

	// Leaving a tournament is a two-step confirmation.
	app.Post("/players/:id/exit", playerService.ExitRequest)
	app.Post("/players/:id/exit/confirm", playerService.ExitConfirm)
	app.Post("/players/:id/exit/cancel", playerService.ExitCancel)

	app.Get("/tournaments/current", tournamentService.GetCurrentTournament)
	app.Get("/tournaments/:id/bracket", tournamentService.GetBracket)
}
