package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"crackcode-tournament/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// SnapshotUploader stores a rendered bracket snapshot and returns its public
// URL. Implemented by the R2 store in utils; nil disables uploads.
type SnapshotUploader interface {
	UploadSnapshot(key string, data []byte) (string, error)
}

// TournamentService owns the tournament lifecycle: creation, registration,
// round advancement and completion.
type TournamentService struct {
	DB        *gorm.DB
	Notifier  Notifier
	Config    Config
	Matches   *MatchService
	Pairing   *PairingService
	Snapshots SnapshotUploader
}

func NewTournamentService(db *gorm.DB, notifier Notifier, cfg Config, matches *MatchService, pairing *PairingService, snapshots SnapshotUploader) *TournamentService {
	return &TournamentService{
		DB:        db,
		Notifier:  notifier,
		Config:    cfg,
		Matches:   matches,
		Pairing:   pairing,
		Snapshots: snapshots,
	}
}

// CurrentTournament returns the single tournament in registration or active,
// if any.
func (ts *TournamentService) CurrentTournament() (*models.Tournament, error) {
	var t models.Tournament
	err := ts.DB.Where("status IN ?", []models.TournamentStatus{
		models.TournamentRegistration, models.TournamentActive,
	}).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CheckTournamentStatus re-evaluates an active tournament: ends it when the
// bracket is decided, advances the round when every survivor is ready, and
// otherwise waits. Idempotent — safe to call from every trigger point.
func (ts *TournamentService) CheckTournamentStatus(tournamentID uint) {
	var t models.Tournament
	if err := ts.DB.First(&t, "id = ?", tournamentID).Error; err != nil {
		log.Printf("⚠️ [TOURNAMENT] Status check: tournament %d not found: %v", tournamentID, err)
		return
	}
	if t.Status != models.TournamentActive {
		return
	}

	var activeMatches int64
	if err := ts.DB.Model(&models.Match{}).
		Where("tournament_id = ? AND round = ? AND status = ?", tournamentID, t.CurrentRound, models.MatchActive).
		Count(&activeMatches).Error; err != nil {
		log.Printf("⚠️ [TOURNAMENT] Status check: failed to count matches for %d: %v", tournamentID, err)
		return
	}
	if activeMatches > 0 {
		return
	}

	// Everyone who advanced past the current round is a survivor.
	type survivorRow struct {
		PlayerID   int64
		SecretCode *string
		State      models.PlayerState
	}
	var survivors []survivorRow
	if err := ts.DB.Model(&models.TournamentParticipant{}).
		Select("tournament_participants.player_id, players.secret_code, players.state").
		Joins("JOIN players ON players.id = tournament_participants.player_id").
		Where("tournament_participants.tournament_id = ? AND tournament_participants.is_eliminated = ? AND tournament_participants.current_round = ?",
			tournamentID, false, t.CurrentRound+1).
		Scan(&survivors).Error; err != nil {
		log.Printf("⚠️ [TOURNAMENT] Status check: failed to fetch survivors for %d: %v", tournamentID, err)
		return
	}

	if len(survivors) == 0 {
		log.Printf("ℹ️ [TOURNAMENT] Tournament %d has no survivors past round %d, ending without a winner", tournamentID, t.CurrentRound)
		ts.EndTournament(tournamentID, nil)
		return
	}
	if len(survivors) == 1 {
		winnerID := survivors[0].PlayerID
		log.Printf("🏆 [TOURNAMENT] Tournament %d decided, champion: %d", tournamentID, winnerID)
		ts.EndTournament(tournamentID, &winnerID)
		return
	}

	for _, s := range survivors {
		if s.SecretCode == nil || *s.SecretCode == "" || s.State != models.StateWaitingForTournament {
			if s.State == models.StateSetNewRoundCode {
				ts.Notifier.Notify(s.PlayerID, fmt.Sprintf(
					"Reminder: you advanced to the next round. Please set a new %d-digit secret code.", ts.Config.CodeLength))
			}
			// Wait for the straggler, the sweeper re-evaluates.
			return
		}
	}

	nextRound := t.CurrentRound + 1
	if err := ts.DB.Model(&t).Update("current_round", nextRound).Error; err != nil {
		log.Printf("⚠️ [TOURNAMENT] Failed to advance tournament %d to round %d: %v", tournamentID, nextRound, err)
		return
	}
	log.Printf("✅ [TOURNAMENT] Tournament %d: round %d complete, starting round %d", tournamentID, t.CurrentRound, nextRound)
	ts.PrepareRound(tournamentID, nextRound)
}

// PrepareRound pairs the eligible players of a round and starts their
// matches. An odd player count gives the first post-shuffle player a bye
// into the following round.
func (ts *TournamentService) PrepareRound(tournamentID uint, round int) {
	eligible, err := ts.Pairing.EligibleParticipants(tournamentID, round)
	if err != nil {
		log.Printf("⚠️ [TOURNAMENT] Failed to fetch eligible players for tournament %d round %d: %v", tournamentID, round, err)
		return
	}

	if len(eligible) == 0 {
		log.Printf("ℹ️ [TOURNAMENT] Tournament %d round %d has no eligible players, re-checking status", tournamentID, round)
		ts.CheckTournamentStatus(tournamentID)
		return
	}
	if len(eligible) == 1 {
		winnerID := eligible[0].PlayerID
		log.Printf("🏆 [TOURNAMENT] Tournament %d round %d has a single eligible player %d, ending", tournamentID, round, winnerID)
		ts.EndTournament(tournamentID, &winnerID)
		return
	}

	pairs, byeIndex := BuildPairs(eligible, ts.Pairing.Rng)

	if byeIndex >= 0 {
		bye := eligible[byeIndex]
		now := time.Now()
		err := ts.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.TournamentParticipant{}).
				Where("tournament_id = ? AND player_id = ?", tournamentID, bye.PlayerID).
				Updates(map[string]interface{}{
					"is_bye":        true,
					"current_round": gorm.Expr("current_round + 1"),
				}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Player{}).Where("id = ?", bye.PlayerID).
				Updates(map[string]interface{}{
					"secret_code":   nil,
					"state":         models.StateSetNewRoundCode,
					"last_activity": now,
				}).Error
		})
		if err != nil {
			log.Printf("⚠️ [TOURNAMENT] Failed to record bye for player %d: %v", bye.PlayerID, err)
		} else {
			ts.Notifier.Notify(bye.PlayerID, fmt.Sprintf(
				"✨ You received a bye in round %d and advance automatically! Please set a new %d-digit secret code to continue.",
				round, ts.Config.CodeLength))
			log.Printf("✅ [TOURNAMENT] Player %d received a bye in tournament %d round %d", bye.PlayerID, tournamentID, round)
		}
	}

	matchesCreated := 0
	for _, pair := range pairs {
		if _, err := ts.Matches.StartMatch(tournamentID, round, pair.Player1ID, pair.Player2ID); err != nil {
			log.Printf("⚠️ [TOURNAMENT] Failed to start match %d vs %d: %v", pair.Player1ID, pair.Player2ID, err)
			continue
		}
		matchesCreated++
	}

	if matchesCreated == 0 && byeIndex < 0 {
		log.Printf("⚠️ [TOURNAMENT] Tournament %d round %d created no matches from %d eligible players, re-checking status",
			tournamentID, round, len(eligible))
		ts.CheckTournamentStatus(tournamentID)
	}
}

// EndTournament completes a tournament: records the podium, releases every
// participant back to the code-setting state, uploads the final bracket and
// notifies everyone who played a match.
func (ts *TournamentService) EndTournament(tournamentID uint, winnerID *int64) {
	var t models.Tournament
	if err := ts.DB.First(&t, "id = ?", tournamentID).Error; err != nil {
		log.Printf("⚠️ [TOURNAMENT] End: tournament %d not found: %v", tournamentID, err)
		return
	}
	if t.Status == models.TournamentCompleted || t.Status == models.TournamentCancelled {
		return
	}

	var secondID, thirdID *int64
	now := time.Now()

	err := ts.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       models.TournamentCompleted,
			"completed_at": now,
		}
		if winnerID != nil {
			updates["winner_id"] = *winnerID

			var eliminated []EliminatedEntry
			if err := tx.Model(&models.TournamentParticipant{}).
				Select("tournament_participants.player_id, tournament_participants.current_round AS elimination_round, players.losses").
				Joins("JOIN players ON players.id = tournament_participants.player_id").
				Where("tournament_participants.tournament_id = ? AND tournament_participants.is_eliminated = ? AND tournament_participants.player_id != ?",
					tournamentID, true, *winnerID).
				Scan(&eliminated).Error; err != nil {
				return err
			}
			podium := RankEliminated(eliminated)
			if len(podium) >= 1 {
				secondID = &podium[0]
				updates["second_place_id"] = *secondID
			}
			if len(podium) >= 2 {
				thirdID = &podium[1]
				updates["third_place_id"] = *thirdID
			}
		}
		if err := tx.Model(&t).Updates(updates).Error; err != nil {
			return err
		}

		// Release every participant for the next tournament.
		if err := tx.Model(&models.Player{}).
			Where("tournament_id = ?", tournamentID).
			Updates(map[string]interface{}{
				"state":         models.StateSetCode,
				"secret_code":   nil,
				"tournament_id": nil,
				"prev_state":    nil,
			}).Error; err != nil {
			return err
		}
		return tx.Where("tournament_id = ?", tournamentID).
			Delete(&models.TournamentParticipant{}).Error
	})
	if err != nil {
		log.Printf("❌ [TOURNAMENT] Failed to end tournament %d: %v", tournamentID, err)
		return
	}

	ts.uploadFinalBracket(&t)

	summary := ts.podiumSummary(t.Title, winnerID, secondID, thirdID)
	for _, playerID := range ts.matchParticipants(tournamentID) {
		ts.Notifier.Notify(playerID, summary)
	}
	log.Printf("🏁 [TOURNAMENT] Tournament %d (%s) completed", tournamentID, t.Title)
}

// EliminatedEntry is one knocked-out participant considered for the podium.
type EliminatedEntry struct {
	PlayerID         int64
	EliminationRound int
	Losses           int
}

// RankEliminated orders eliminated participants for the runner-up places:
// the deeper the run the better, with more recorded losses breaking ties
// (more matches fought). Returns player ids, best first.
func RankEliminated(entries []EliminatedEntry) []int64 {
	ranked := make([]EliminatedEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].EliminationRound != ranked[j].EliminationRound {
			return ranked[i].EliminationRound > ranked[j].EliminationRound
		}
		return ranked[i].Losses > ranked[j].Losses
	})
	ids := make([]int64, len(ranked))
	for i, e := range ranked {
		ids[i] = e.PlayerID
	}
	return ids
}

// matchParticipants returns the distinct set of players who appeared in any
// match of the tournament.
func (ts *TournamentService) matchParticipants(tournamentID uint) []int64 {
	var ids []int64
	err := ts.DB.Raw(`
		SELECT player1_id FROM matches WHERE tournament_id = ?
		UNION
		SELECT player2_id FROM matches WHERE tournament_id = ?`,
		tournamentID, tournamentID).Scan(&ids).Error
	if err != nil {
		log.Printf("⚠️ [TOURNAMENT] Failed to fetch match participants for %d: %v", tournamentID, err)
	}
	return ids
}

func (ts *TournamentService) podiumSummary(title string, winnerID, secondID, thirdID *int64) string {
	name := func(id *int64) string {
		if id == nil {
			return "not decided"
		}
		var p models.Player
		if err := ts.DB.First(&p, "id = ?", *id).Error; err != nil {
			return fmt.Sprintf("player %d", *id)
		}
		return p.DisplayName
	}
	return fmt.Sprintf("🏁 Tournament %q has finished!\n🥇 %s\n🥈 %s\n🥉 %s\nThanks for playing!",
		title, name(winnerID), name(secondID), name(thirdID))
}

// CheckRegistrationThreshold activates any registration tournament that has
// reached its minimum player count. Called from the sweeper.
func (ts *TournamentService) CheckRegistrationThreshold() {
	var pending []models.Tournament
	if err := ts.DB.Where("status = ?", models.TournamentRegistration).Find(&pending).Error; err != nil {
		log.Printf("⚠️ [TOURNAMENT] Registration scan failed: %v", err)
		return
	}

	for _, t := range pending {
		var registered int64
		if err := ts.DB.Model(&models.TournamentParticipant{}).
			Where("tournament_id = ?", t.ID).Count(&registered).Error; err != nil {
			log.Printf("⚠️ [TOURNAMENT] Failed to count participants of %d: %v", t.ID, err)
			continue
		}
		if registered < int64(t.MinPlayers) {
			continue
		}

		now := time.Now()
		if err := ts.DB.Model(&t).Updates(map[string]interface{}{
			"status":        models.TournamentActive,
			"current_round": 1,
			"started_at":    now,
		}).Error; err != nil {
			log.Printf("⚠️ [TOURNAMENT] Failed to activate tournament %d: %v", t.ID, err)
			continue
		}
		log.Printf("🚀 [TOURNAMENT] Tournament %d (%s) reached %d players, starting round 1", t.ID, t.Title, registered)

		var participants []models.TournamentParticipant
		ts.DB.Where("tournament_id = ?", t.ID).Find(&participants)
		for _, p := range participants {
			ts.Notifier.Notify(p.PlayerID, fmt.Sprintf("🚀 Tournament %q is starting! Round 1 pairings are being drawn.", t.Title))
		}

		ts.PrepareRound(t.ID, 1)
	}
}

// --- Bracket snapshot ---

type BracketMatch struct {
	MatchID  uint               `json:"match_id"`
	Player1  string             `json:"player1"`
	Player2  string             `json:"player2"`
	Status   models.MatchStatus `json:"status"`
	WinnerID *int64             `json:"winner_id,omitempty"`
}

type BracketRound struct {
	Round   int            `json:"round"`
	Matches []BracketMatch `json:"matches"`
	Byes    []string       `json:"byes,omitempty"`
}

type BracketSnapshot struct {
	TournamentID uint                    `json:"tournament_id"`
	Title        string                  `json:"title"`
	Status       models.TournamentStatus `json:"status"`
	CurrentRound int                     `json:"current_round"`
	Rounds       []BracketRound          `json:"rounds"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// BuildBracket assembles the bracket view of a tournament from its matches
// and bye records.
func (ts *TournamentService) BuildBracket(tournamentID uint) (*BracketSnapshot, error) {
	var t models.Tournament
	if err := ts.DB.First(&t, "id = ?", tournamentID).Error; err != nil {
		return nil, err
	}

	var matches []models.Match
	if err := ts.DB.Where("tournament_id = ?", tournamentID).
		Order("round ASC, id ASC").Find(&matches).Error; err != nil {
		return nil, err
	}

	names := map[int64]string{}
	displayName := func(id int64) string {
		if n, ok := names[id]; ok {
			return n
		}
		var p models.Player
		if err := ts.DB.First(&p, "id = ?", id).Error; err != nil {
			names[id] = fmt.Sprintf("player %d", id)
		} else {
			names[id] = p.DisplayName
		}
		return names[id]
	}

	byRound := map[int][]BracketMatch{}
	maxRound := t.CurrentRound
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], BracketMatch{
			MatchID:  m.ID,
			Player1:  displayName(m.Player1ID),
			Player2:  displayName(m.Player2ID),
			Status:   m.Status,
			WinnerID: m.WinnerID,
		})
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}

	var byeParticipants []models.TournamentParticipant
	ts.DB.Where("tournament_id = ? AND is_bye = ?", tournamentID, true).Find(&byeParticipants)

	snapshot := &BracketSnapshot{
		TournamentID: t.ID,
		Title:        t.Title,
		Status:       t.Status,
		CurrentRound: t.CurrentRound,
		GeneratedAt:  time.Now(),
	}
	for round := 1; round <= maxRound; round++ {
		br := BracketRound{Round: round, Matches: byRound[round]}
		// Bye advancement into round+1 means the bye was granted in this round.
		for _, bp := range byeParticipants {
			if bp.CurrentRound == round+1 || (bp.IsBye && round == maxRound && bp.CurrentRound > maxRound) {
				br.Byes = append(br.Byes, displayName(bp.PlayerID))
			}
		}
		snapshot.Rounds = append(snapshot.Rounds, br)
	}
	return snapshot, nil
}

func (ts *TournamentService) uploadFinalBracket(t *models.Tournament) {
	if ts.Snapshots == nil {
		return
	}
	snapshot, err := ts.BuildBracket(t.ID)
	if err != nil {
		log.Printf("⚠️ [BRACKET] Failed to build final bracket for tournament %d: %v", t.ID, err)
		return
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		log.Printf("⚠️ [BRACKET] Failed to encode bracket for tournament %d: %v", t.ID, err)
		return
	}

	key := fmt.Sprintf("brackets/%s-%s.json", t.Slug, uuid.NewString())
	url, err := ts.Snapshots.UploadSnapshot(key, data)
	if err != nil {
		log.Printf("⚠️ [BRACKET] Failed to upload bracket for tournament %d: %v", t.ID, err)
		return
	}
	if err := ts.DB.Model(t).Update("bracket_url", url).Error; err != nil {
		log.Printf("⚠️ [BRACKET] Failed to persist bracket URL for tournament %d: %v", t.ID, err)
		return
	}
	log.Printf("✅ [BRACKET] Tournament %d bracket uploaded: %s", t.ID, url)
}

// --- HTTP handlers ---

type createTournamentRequest struct {
	Title      string `json:"title"`
	MinPlayers int    `json:"min_players"`
}

// CreateTournament handles POST /admin/tournaments. Only one tournament may
// be open (registration or active) at a time.
func (ts *TournamentService) CreateTournament(c *fiber.Ctx) error {
	var req createTournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}
	if req.MinPlayers < 2 {
		return c.Status(400).JSON(fiber.Map{"error": "min_players must be at least 2"})
	}

	current, err := ts.CurrentTournament()
	if err != nil {
		log.Printf("DB Error checking open tournaments: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if current != nil {
		return c.Status(409).JSON(fiber.Map{
			"error":      "a tournament is already open",
			"tournament": current.ID,
			"status":     current.Status,
		})
	}

	t := models.Tournament{
		Title:      req.Title,
		Slug:       slug.Make(req.Title),
		Status:     models.TournamentRegistration,
		MinPlayers: req.MinPlayers,
	}
	if err := ts.DB.Create(&t).Error; err != nil {
		log.Printf("DB Error creating tournament: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create tournament"})
	}

	log.Printf("✅ [TOURNAMENT] Created tournament %d (%s), registration open (min %d players)", t.ID, t.Title, t.MinPlayers)
	return c.Status(201).JSON(t)
}

// ForceEndTournament handles POST /admin/tournaments/:id/end — cancels all
// active matches and completes the tournament without a winner.
func (ts *TournamentService) ForceEndTournament(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid tournament id"})
	}

	var t models.Tournament
	if err := ts.DB.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if t.Status != models.TournamentRegistration && t.Status != models.TournamentActive {
		return c.Status(409).JSON(fiber.Map{"error": "tournament is not open"})
	}

	var active []models.Match
	ts.DB.Where("tournament_id = ? AND status = ?", t.ID, models.MatchActive).Find(&active)
	for _, m := range active {
		if _, err := ts.Matches.CancelMatch(m.ID); err != nil {
			log.Printf("⚠️ [TOURNAMENT] Force end: failed to cancel match %d: %v", m.ID, err)
		}
	}

	ts.EndTournament(t.ID, nil)
	return c.JSON(fiber.Map{"message": "tournament ended", "cancelled_matches": len(active)})
}

// CancelMatch handles POST /admin/matches/:id/cancel.
func (ts *TournamentService) CancelMatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid match id"})
	}

	match, err := ts.Matches.CancelMatch(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	}

	ts.CheckTournamentStatus(match.TournamentID)
	return c.JSON(fiber.Map{"message": "match cancelled", "match_id": match.ID})
}

// GetBracket handles GET /tournaments/:id/bracket.
func (ts *TournamentService) GetBracket(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid tournament id"})
	}
	snapshot, err := ts.BuildBracket(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to build bracket"})
	}
	return c.JSON(snapshot)
}

// GetCurrentTournament handles GET /tournaments/current.
func (ts *TournamentService) GetCurrentTournament(c *fiber.Ctx) error {
	current, err := ts.CurrentTournament()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if current == nil {
		return c.Status(404).JSON(fiber.Map{"error": "no open tournament"})
	}
	return c.JSON(current)
}

// LiveStatus handles GET /admin/status — the live dashboard: current
// tournament summary and every active match with its revealed-slot counts.
func (ts *TournamentService) LiveStatus(c *fiber.Ctx) error {
	current, err := ts.CurrentTournament()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	resp := fiber.Map{"tournament": nil, "active_matches": []fiber.Map{}}
	if current == nil {
		return c.JSON(resp)
	}

	var participants int64
	ts.DB.Model(&models.TournamentParticipant{}).
		Where("tournament_id = ? AND is_eliminated = ?", current.ID, false).
		Count(&participants)

	resp["tournament"] = fiber.Map{
		"id":            current.ID,
		"title":         current.Title,
		"status":        current.Status,
		"current_round": current.CurrentRound,
		"players_count": current.PlayersCount,
		"min_players":   current.MinPlayers,
		"still_in":      participants,
	}

	var matches []models.Match
	ts.DB.Where("tournament_id = ? AND status = ?", current.ID, models.MatchActive).Find(&matches)

	rows := make([]fiber.Map, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, fiber.Map{
			"match_id":         m.ID,
			"round":            m.Round,
			"player1_id":       m.Player1ID,
			"player2_id":       m.Player2ID,
			"current_turn":     m.CurrentTurnID,
			"player1_revealed": models.RevealedCount(m.Player1Progress),
			"player2_revealed": models.RevealedCount(m.Player2Progress),
			"started_at":       m.StartedAt,
		})
	}
	resp["active_matches"] = rows
	return c.JSON(resp)
}

type broadcastRequest struct {
	Message string `json:"message"`
}

// Broadcast handles POST /admin/broadcast — enqueues a message to every
// known player.
func (ts *TournamentService) Broadcast(c *fiber.Ctx) error {
	var req broadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "message is required"})
	}

	var players []models.Player
	if err := ts.DB.Find(&players).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	for _, p := range players {
		ts.Notifier.Notify(p.ID, req.Message)
	}
	log.Printf("📣 [ADMIN] Broadcast enqueued for %d players", len(players))
	return c.JSON(fiber.Map{"message": "broadcast enqueued", "recipients": len(players)})
}

// ResetAll handles POST /admin/reset — clears all game state. Open
// tournaments are cancelled, matches voided, players reset.
func (ts *TournamentService) ResetAll(c *fiber.Ctx) error {
	err := ts.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Tournament{}).
			Where("status IN ?", []models.TournamentStatus{models.TournamentRegistration, models.TournamentActive}).
			Update("status", models.TournamentCancelled).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Match{}).Where("status = ?", models.MatchActive).
			Update("status", models.MatchCancelled).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.TournamentParticipant{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Player{}).Where("1 = 1").
			Updates(map[string]interface{}{
				"state":         models.StateStart,
				"secret_code":   nil,
				"tournament_id": nil,
				"prev_state":    nil,
				"wins":          0,
				"losses":        0,
			}).Error
	})
	if err != nil {
		log.Printf("❌ [ADMIN] Reset failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "reset failed"})
	}
	log.Printf("🧹 [ADMIN] Full game state reset")
	return c.JSON(fiber.Map{"message": "game state reset"})
}
