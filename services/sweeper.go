package services

import (
	"fmt"
	"log"
	"time"

	"crackcode-tournament/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Sweeper is the periodic housekeeping job: idle-player resets, turn
// timeouts, round advancement and registration starts. Each scan is
// isolated so one failing query never blocks the others.
type Sweeper struct {
	DB          *gorm.DB
	Notifier    Notifier
	Config      Config
	Tournaments *TournamentService

	sched gocron.Scheduler
}

func NewSweeper(db *gorm.DB, notifier Notifier, cfg Config, tournaments *TournamentService) *Sweeper {
	return &Sweeper{DB: db, Notifier: notifier, Config: cfg, Tournaments: tournaments}
}

// Start schedules the sweep. Returns after registering the job; gocron runs
// it on its own goroutine.
func (sw *Sweeper) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	sw.sched = sched
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(sw.Config.CheckInterval),
		gocron.NewTask(sw.Sweep),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}
	log.Printf("✅ [SWEEPER] Running every %v (ready timeout %v, turn timeout %v)",
		sw.Config.CheckInterval, sw.Config.ReadyTimeout, sw.Config.TurnTimeout)
	return nil
}

func (sw *Sweeper) Stop() {
	if sw.sched != nil {
		_ = sw.sched.Shutdown()
	}
}

// Sweep runs the four scans in order.
func (sw *Sweeper) Sweep() {
	now := time.Now()
	sw.sweepReadyTimeouts(now)
	sw.sweepTurnTimeouts(now)
	sw.sweepActiveTournaments()
	sw.Tournaments.CheckRegistrationThreshold()
}

// sweepReadyTimeouts resets players stuck waiting for a session that never
// came.
func (sw *Sweeper) sweepReadyTimeouts(now time.Time) {
	cutoff := now.Add(-sw.Config.ReadyTimeout)

	var stale []models.Player
	if err := sw.DB.Where("state = ? AND last_activity < ?", models.StateWaitReady, cutoff).
		Find(&stale).Error; err != nil {
		log.Printf("⚠️ [SWEEPER] Ready-timeout scan failed: %v", err)
		return
	}

	for _, p := range stale {
		if err := sw.DB.Model(&p).Update("state", models.StateSetCode).Error; err != nil {
			log.Printf("⚠️ [SWEEPER] Failed to reset player %d: %v", p.ID, err)
			continue
		}
		sw.Notifier.Notify(p.ID, "Your waiting session expired. Please register again when you are ready.")
		log.Printf("ℹ️ [SWEEPER] Player %d timed out waiting, reset to code setup", p.ID)
	}
}

// sweepTurnTimeouts passes the turn in every match whose current player has
// idled past the limit. A timeout forfeits the turn, never the match.
func (sw *Sweeper) sweepTurnTimeouts(now time.Time) {
	var matches []models.Match
	if err := sw.DB.Where("status = ?", models.MatchActive).Find(&matches).Error; err != nil {
		log.Printf("⚠️ [SWEEPER] Turn-timeout scan failed: %v", err)
		return
	}

	for _, m := range matches {
		var current models.Player
		if err := sw.DB.First(&current, "id = ?", m.CurrentTurnID).Error; err != nil {
			log.Printf("⚠️ [SWEEPER] Match %d: current player %d not found: %v", m.ID, m.CurrentTurnID, err)
			continue
		}
		if now.Sub(current.LastActivity) <= sw.Config.TurnTimeout {
			continue
		}

		opponentID := m.Opponent(m.CurrentTurnID)
		err := sw.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Match{}).Where("id = ? AND status = ?", m.ID, models.MatchActive).
				Update("current_turn_id", opponentID).Error; err != nil {
				return err
			}
			return tx.Model(&models.Player{}).Where("id = ?", opponentID).
				Update("last_activity", now).Error
		})
		if err != nil {
			log.Printf("⚠️ [SWEEPER] Failed to pass turn in match %d: %v", m.ID, err)
			continue
		}

		sw.Notifier.Notify(m.CurrentTurnID, "You ran out of time. Your turn was skipped and passed to your opponent.")
		sw.Notifier.Notify(opponentID, "Your opponent ran out of time. It is your turn now!")
		log.Printf("ℹ️ [SWEEPER] Match %d: turn passed to %d after timeout of %d", m.ID, opponentID, m.CurrentTurnID)
	}
}

func (sw *Sweeper) sweepActiveTournaments() {
	var ids []uint
	if err := sw.DB.Model(&models.Tournament{}).Where("status = ?", models.TournamentActive).
		Pluck("id", &ids).Error; err != nil {
		log.Printf("⚠️ [SWEEPER] Active-tournament scan failed: %v", err)
		return
	}
	for _, id := range ids {
		sw.Tournaments.CheckTournamentStatus(id)
	}
}
