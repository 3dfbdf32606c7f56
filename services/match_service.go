package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"crackcode-tournament/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TournamentStatusChecker lets the match engine trigger a bracket
// re-evaluation after settlement without importing the tournament service
// directly. Wired in main after both services exist.
type TournamentStatusChecker interface {
	CheckTournamentStatus(tournamentID uint)
}

// MatchService runs individual code-cracking duels: creation, guess
// processing and settlement.
type MatchService struct {
	DB       *gorm.DB
	Notifier Notifier
	Config   Config
	Status   TournamentStatusChecker
}

func NewMatchService(db *gorm.DB, notifier Notifier, cfg Config) *MatchService {
	return &MatchService{DB: db, Notifier: notifier, Config: cfg}
}

// StartMatch creates a duel between two paired players. If either player has
// no secret code set the match is not created and both players are told why.
// Player1 always takes the first turn.
func (ms *MatchService) StartMatch(tournamentID uint, round int, player1ID, player2ID int64) (*models.Match, error) {
	var p1, p2 models.Player
	if err := ms.DB.First(&p1, "id = ?", player1ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load player %d: %w", player1ID, err)
	}
	if err := ms.DB.First(&p2, "id = ?", player2ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load player %d: %w", player2ID, err)
	}

	if !p1.HasSecretCode() || !p2.HasSecretCode() {
		log.Printf("⚠️ [MATCH] Cannot start match %d vs %d in tournament %d round %d: missing secret code",
			player1ID, player2ID, tournamentID, round)
		ms.Notifier.Notify(player1ID, "Your match could not start: a secret code is missing. Please contact the administrator.")
		ms.Notifier.Notify(player2ID, "Your match could not start: a secret code is missing. Please contact the administrator.")
		return nil, nil
	}

	// Snapshot both codes onto the match: a later change to a player row
	// must never redirect a duel already in progress.
	empty := models.EmptyProgress(ms.Config.CodeLength)
	match := models.Match{
		TournamentID:      tournamentID,
		Round:             round,
		Player1ID:         player1ID,
		Player2ID:         player2ID,
		CurrentTurnID:     player1ID,
		SecretCodePlayer1: *p1.SecretCode,
		SecretCodePlayer2: *p2.SecretCode,
		Player1Progress:   empty,
		Player2Progress:   empty,
		Status:            models.MatchActive,
	}

	now := time.Now()
	err := ms.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Player{}).Where("id IN ?", []int64{player1ID, player2ID}).
			Updates(map[string]interface{}{
				"state":         models.StateInMatch,
				"last_activity": now,
			}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	ms.Notifier.Notify(player1ID, fmt.Sprintf(
		"⚔️ Round %d: your match against %s has started. You move first! Guess with a digit and a position (1-%d).",
		round, p2.DisplayName, ms.Config.CodeLength))
	ms.Notifier.Notify(player2ID, fmt.Sprintf(
		"⚔️ Round %d: your match against %s has started. %s moves first.",
		round, p1.DisplayName, p1.DisplayName))

	log.Printf("✅ [MATCH] Started match %d: %d vs %d (tournament %d, round %d)",
		match.ID, player1ID, player2ID, tournamentID, round)
	return &match, nil
}

type guessRequest struct {
	Digit    string `json:"digit"`
	Position int    `json:"position"` // 1-based
}

// SubmitGuess handles POST /players/:id/guess. One digit at one position;
// the turn passes to the opponent unless the guess completes the code.
func (ms *MatchService) SubmitGuess(c *fiber.Ctx) error {
	playerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid player id"})
	}

	var req guessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if len(req.Digit) != 1 || req.Digit[0] < '0' || req.Digit[0] > '9' {
		return c.Status(400).JSON(fiber.Map{"error": "guess must be a single digit"})
	}
	if req.Position < 1 || req.Position > ms.Config.CodeLength {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("position must be between 1 and %d", ms.Config.CodeLength)})
	}

	var player models.Player
	if err := ms.DB.First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if player.State != models.StateInMatch {
		return c.Status(409).JSON(fiber.Map{"error": "you are not in an active match"})
	}

	var match models.Match
	if err := ms.DB.Where("(player1_id = ? OR player2_id = ?) AND status = ?",
		playerID, playerID, models.MatchActive).First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "no active match found"})
		}
		log.Printf("DB Error fetching match for player %d: %v", playerID, err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	if match.CurrentTurnID != int64(playerID) {
		return c.Status(409).JSON(fiber.Map{"error": "it is your opponent's turn"})
	}

	opponentID := match.Opponent(int64(playerID))
	targetCode := match.SecretCodeOf(opponentID)
	if len(targetCode) != ms.Config.CodeLength {
		log.Printf("❌ [MATCH] Match %d has a corrupt code snapshot for %d", match.ID, opponentID)
		return c.Status(500).JSON(fiber.Map{"error": "corrupt match state, contact the administrator"})
	}

	slots, err := models.ProgressSlots(match.ProgressOf(int64(playerID)))
	if err != nil {
		log.Printf("❌ [MATCH] Corrupt progress in match %d: %v", match.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "corrupt match state"})
	}

	outcome, updated := EvaluateGuess(targetCode, slots, req.Position-1, req.Digit)

	progressCol := "player2_progress"
	if int64(playerID) == match.Player1ID {
		progressCol = "player1_progress"
	}
	if err := ms.DB.Model(&match).Update(progressCol, models.EncodeProgress(updated)).Error; err != nil {
		log.Printf("DB Error saving progress for match %d: %v", match.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save guess"})
	}

	if AllRevealed(updated) {
		ms.Notifier.Notify(int64(playerID), "🎉 You cracked your opponent's code!")
		if err := ms.EndMatch(match.ID, int64(playerID)); err != nil {
			log.Printf("❌ [MATCH] Settlement failed for match %d: %v", match.ID, err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to settle match"})
		}
		if ms.Status != nil {
			ms.Status.CheckTournamentStatus(match.TournamentID)
		}
		return c.JSON(fiber.Map{
			"outcome":  outcome,
			"progress": updated,
			"finished": true,
			"winner":   playerID,
		})
	}

	// Pass the turn and restart the opponent's clock.
	now := time.Now()
	if err := ms.DB.Model(&match).Update("current_turn_id", opponentID).Error; err != nil {
		log.Printf("DB Error passing turn in match %d: %v", match.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to pass turn"})
	}
	ms.DB.Model(&models.Player{}).Where("id = ?", opponentID).Update("last_activity", now)

	ms.Notifier.Notify(opponentID, fmt.Sprintf(
		"Your turn! Opponent's last guess: %s. Guess with a digit and a position (1-%d).",
		outcome, ms.Config.CodeLength))

	return c.JSON(fiber.Map{
		"outcome":   outcome,
		"progress":  updated,
		"finished":  false,
		"next_turn": opponentID,
	})
}

// EndMatch settles a match exactly once. The winner advances a round and
// must set a fresh code; the loser is eliminated. Safe to call concurrently:
// the row lock plus the active-status guard make a second settlement a no-op.
func (ms *MatchService) EndMatch(matchID uint, winnerID int64) error {
	var winnerCode, loserCode string
	var winnerP, loserP models.Player

	err := ms.DB.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ?", matchID).Error; err != nil {
			return err
		}
		if match.Status != models.MatchActive {
			log.Printf("ℹ️ [MATCH] Match %d already settled (%s), skipping", matchID, match.Status)
			return nil
		}

		loserID := match.Opponent(winnerID)
		now := time.Now()

		if err := tx.Model(&match).Updates(map[string]interface{}{
			"status":      models.MatchFinished,
			"winner_id":   winnerID,
			"finished_at": now,
		}).Error; err != nil {
			return err
		}

		if err := tx.First(&winnerP, "id = ?", winnerID).Error; err != nil {
			return err
		}
		if err := tx.First(&loserP, "id = ?", loserID).Error; err != nil {
			return err
		}
		// Reveal the codes the duel was actually played against.
		winnerCode = match.SecretCodeOf(winnerID)
		loserCode = match.SecretCodeOf(loserID)

		// Winner must set a new code for the next round.
		if err := tx.Model(&models.Player{}).Where("id = ?", winnerID).
			Updates(map[string]interface{}{
				"state":         models.StateWaitingForTournament,
				"secret_code":   nil,
				"wins":          gorm.Expr("wins + 1"),
				"last_activity": now,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Player{}).Where("id = ?", loserID).
			Updates(map[string]interface{}{
				"state":  models.StateStart,
				"losses": gorm.Expr("losses + 1"),
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.TournamentParticipant{}).
			Where("tournament_id = ? AND player_id = ?", match.TournamentID, winnerID).
			Update("current_round", gorm.Expr("current_round + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TournamentParticipant{}).
			Where("tournament_id = ? AND player_id = ?", match.TournamentID, loserID).
			Update("is_eliminated", true).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to settle match %d: %w", matchID, err)
	}

	if winnerP.ID != 0 {
		ms.Notifier.Notify(winnerP.ID, fmt.Sprintf(
			"🎉 You won your match against %s! Your code was %s. You advance to the next round — please set a new %d-digit secret code.",
			loserP.DisplayName, winnerCode, ms.Config.CodeLength))
		ms.Notifier.Notify(loserP.ID, fmt.Sprintf(
			"😔 You lost your match against %s. Your code was %s. You are out of the tournament — thanks for playing!",
			winnerP.DisplayName, loserCode))
		log.Printf("✅ [MATCH] Match %d settled. Winner: %d, Loser: %d", matchID, winnerP.ID, loserP.ID)
	}
	return nil
}

// CancelMatch voids a match without a winner and returns both players to the
// waiting pool with fresh progress. Used by the admin surface.
func (ms *MatchService) CancelMatch(matchID uint) (*models.Match, error) {
	var match models.Match
	err := ms.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ?", matchID).Error; err != nil {
			return err
		}
		if match.Status != models.MatchActive {
			return fmt.Errorf("match %d is not active", matchID)
		}

		empty := models.EmptyProgress(ms.Config.CodeLength)
		now := time.Now()
		if err := tx.Model(&match).Updates(map[string]interface{}{
			"status":           models.MatchCancelled,
			"player1_progress": empty,
			"player2_progress": empty,
			"finished_at":      now,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Player{}).
			Where("id IN ?", []int64{match.Player1ID, match.Player2ID}).
			Updates(map[string]interface{}{
				"state":         models.StateWaitingForTournament,
				"last_activity": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	ms.Notifier.Notify(match.Player1ID, "Your match was cancelled by the administrator. You remain in the tournament.")
	ms.Notifier.Notify(match.Player2ID, "Your match was cancelled by the administrator. You remain in the tournament.")
	log.Printf("✅ [MATCH] Match %d cancelled", matchID)
	return &match, nil
}

// GetMatch handles GET /players/:id/match — the caller's active match, with
// only their own progress (never the opponent's code or progress).
func (ms *MatchService) GetMatch(c *fiber.Ctx) error {
	playerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid player id"})
	}

	var match models.Match
	if err := ms.DB.Where("(player1_id = ? OR player2_id = ?) AND status = ?",
		playerID, playerID, models.MatchActive).First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "no active match"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	slots, _ := models.ProgressSlots(match.ProgressOf(int64(playerID)))
	return c.JSON(fiber.Map{
		"match_id":    match.ID,
		"round":       match.Round,
		"opponent_id": match.Opponent(int64(playerID)),
		"your_turn":   match.CurrentTurnID == int64(playerID),
		"progress":    slots,
		"started_at":  match.StartedAt,
	})
}
