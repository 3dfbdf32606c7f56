package services

import (
	"errors"
	"log"
	"time"

	"crackcode-tournament/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PlayerService covers the player-facing surface: registration, code
// submission, tournament entry and the exit confirmation protocol.
type PlayerService struct {
	DB          *gorm.DB
	Notifier    Notifier
	Config      Config
	Matches     *MatchService
	Tournaments *TournamentService
}

func NewPlayerService(db *gorm.DB, notifier Notifier, cfg Config, matches *MatchService, tournaments *TournamentService) *PlayerService {
	return &PlayerService{DB: db, Notifier: notifier, Config: cfg, Matches: matches, Tournaments: tournaments}
}

type registerPlayerRequest struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// RegisterPlayer handles POST /players — upserts the player record and puts
// new players into the code-setting state.
func (s *PlayerService) RegisterPlayer(c *fiber.Ctx) error {
	var req registerPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.ID <= 0 || req.DisplayName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "id and display_name are required"})
	}

	var player models.Player
	err := s.DB.First(&player, "id = ?", req.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		player = models.Player{
			ID:           req.ID,
			DisplayName:  req.DisplayName,
			State:        models.StateSetCode,
			LastActivity: time.Now(),
		}
		if err := s.DB.Create(&player).Error; err != nil {
			log.Printf("DB Error creating player %d: %v", req.ID, err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to register player"})
		}
		log.Printf("✅ [PLAYER] Registered player %d (%s)", player.ID, player.DisplayName)
		return c.Status(201).JSON(player)
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	if player.DisplayName != req.DisplayName {
		s.DB.Model(&player).Update("display_name", req.DisplayName)
		player.DisplayName = req.DisplayName
	}
	return c.JSON(player)
}

// GetPlayer handles GET /players/:id — public stats view, never the code.
func (s *PlayerService) GetPlayer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid player id"})
	}
	var player models.Player
	if err := s.DB.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(fiber.Map{
		"id":            player.ID,
		"display_name":  player.DisplayName,
		"state":         player.State,
		"wins":          player.Wins,
		"losses":        player.Losses,
		"tournament_id": player.TournamentID,
		"has_code":      player.HasSecretCode(),
	})
}

type setCodeRequest struct {
	Code string `json:"code"`
}

// SetCode handles POST /players/:id/code. A code may be (re)set only while
// none is recorded or the player is in a code-setting state; a valid code
// moves the player to the waiting pool.
func (s *PlayerService) SetCode(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid player id"})
	}
	var req setCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	allowedState := player.State == models.StateSetCode ||
		player.State == models.StateStart ||
		player.State == models.StateSetNewRoundCode
	if player.HasSecretCode() && !allowedState {
		return c.Status(409).JSON(fiber.Map{"error": "you already have a code set for this round"})
	}

	if err := ValidateSecretCode(req.Code, s.Config.CodeLength); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.DB.Model(&player).Updates(map[string]interface{}{
		"secret_code":   req.Code,
		"state":         models.StateWaitingForTournament,
		"last_activity": time.Now(),
	}).Error; err != nil {
		log.Printf("DB Error setting code for player %d: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save code"})
	}

	log.Printf("✅ [PLAYER] Player %d set a new secret code", id)
	return c.JSON(fiber.Map{"message": "code accepted, waiting for the tournament", "state": models.StateWaitingForTournament})
}

// Ready handles POST /players/:id/ready — enters the player into the open
// registration tournament.
func (s *PlayerService) Ready(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid player id"})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if !player.HasSecretCode() {
		return c.Status(409).JSON(fiber.Map{"error": "set a secret code before registering"})
	}

	var t models.Tournament
	if err := s.DB.Where("status = ?", models.TournamentRegistration).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(409).JSON(fiber.Map{"error": "no tournament is open for registration"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	var existing int64
	s.DB.Model(&models.TournamentParticipant{}).
		Where("tournament_id = ? AND player_id = ?", t.ID, player.ID).Count(&existing)
	if existing > 0 {
		return c.Status(409).JSON(fiber.Map{"error": "you are already registered for this tournament"})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		participant := models.TournamentParticipant{
			TournamentID: t.ID,
			PlayerID:     player.ID,
			CurrentRound: 1,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		if err := tx.Model(&player).Updates(map[string]interface{}{
			"state":         models.StateWaitingForTournament,
			"tournament_id": t.ID,
			"last_activity": time.Now(),
		}).Error; err != nil {
			return err
		}
		return tx.Model(&t).Update("players_count", gorm.Expr("players_count + 1")).Error
	})
	if err != nil {
		log.Printf("DB Error registering player %d for tournament %d: %v", player.ID, t.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to register for tournament"})
	}

	log.Printf("✅ [PLAYER] Player %d registered for tournament %d (%d/%d players)",
		player.ID, t.ID, t.PlayersCount+1, t.MinPlayers)
	return c.JSON(fiber.Map{
		"message":       "registered, the tournament starts when enough players join",
		"tournament_id": t.ID,
		"players_count": t.PlayersCount + 1,
		"min_players":   t.MinPlayers,
	})
}

// ExitRequest handles POST /players/:id/exit — parks the player in the exit
// confirmation state, remembering where they were.
func (s *PlayerService) ExitRequest(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid player id"})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	switch player.State {
	case models.StateInMatch, models.StateWaitingForTournament, models.StateAwaitingExitConfirm, models.StateSetNewRoundCode:
	default:
		return c.Status(409).JSON(fiber.Map{"error": "you are not participating in a tournament"})
	}

	prev := string(player.State)
	if player.State == models.StateAwaitingExitConfirm && player.PrevState != nil {
		prev = *player.PrevState
	}
	if err := s.DB.Model(&player).Updates(map[string]interface{}{
		"state":      models.StateAwaitingExitConfirm,
		"prev_state": prev,
	}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to record exit request"})
	}

	return c.JSON(fiber.Map{
		"message": "confirm to leave the tournament; an active match counts as a loss",
	})
}

// ExitCancel handles POST /players/:id/exit/cancel — restores the parked
// state.
func (s *PlayerService) ExitCancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid player id"})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if player.State != models.StateAwaitingExitConfirm {
		return c.Status(409).JSON(fiber.Map{"error": "no exit confirmation pending"})
	}

	restored := models.StateStart
	if player.PrevState != nil {
		restored = models.PlayerState(*player.PrevState)
	}
	if err := s.DB.Model(&player).Updates(map[string]interface{}{
		"state":      restored,
		"prev_state": nil,
	}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to cancel exit"})
	}
	return c.JSON(fiber.Map{"message": "exit cancelled, you are back in the game", "state": restored})
}

// ExitConfirm handles POST /players/:id/exit/confirm. An active match is
// settled in the opponent's favor; otherwise the player is simply eliminated.
// Either way the bracket is re-evaluated afterwards.
func (s *PlayerService) ExitConfirm(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid player id"})
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if player.State != models.StateAwaitingExitConfirm {
		return c.Status(409).JSON(fiber.Map{"error": "no exit confirmation pending"})
	}

	if player.TournamentID == nil {
		s.DB.Model(&player).Updates(map[string]interface{}{
			"state":      models.StateStart,
			"prev_state": nil,
		})
		return c.JSON(fiber.Map{"message": "you were not in a tournament"})
	}
	tournamentID := *player.TournamentID

	var match models.Match
	matchErr := s.DB.Where("(player1_id = ? OR player2_id = ?) AND status = ?",
		player.ID, player.ID, models.MatchActive).First(&match).Error

	if matchErr == nil {
		opponentID := match.Opponent(player.ID)
		if err := s.Matches.EndMatch(match.ID, opponentID); err != nil {
			log.Printf("❌ [PLAYER] Exit: failed to settle match %d for leaver %d: %v", match.ID, player.ID, err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to settle your match"})
		}
		log.Printf("ℹ️ [PLAYER] Player %d left mid-match %d, opponent %d wins", player.ID, match.ID, opponentID)
	} else if !errors.Is(matchErr, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TournamentParticipant{}).
			Where("tournament_id = ? AND player_id = ?", tournamentID, player.ID).
			Update("is_eliminated", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Player{}).Where("id = ?", player.ID).
			Updates(map[string]interface{}{
				"state":         models.StateStart,
				"tournament_id": nil,
				"secret_code":   nil,
				"prev_state":    nil,
			}).Error
	})
	if err != nil {
		log.Printf("DB Error processing exit for player %d: %v", player.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to leave tournament"})
	}

	s.Tournaments.CheckTournamentStatus(tournamentID)
	log.Printf("✅ [PLAYER] Player %d left tournament %d", player.ID, tournamentID)
	return c.JSON(fiber.Map{"message": "you left the tournament"})
}
