package models

import (
	"time"
)

// PlayerState tracks where a player is in the tournament lifecycle.
type PlayerState string

const (
	StateStart                PlayerState = "start"
	StateSetCode              PlayerState = "set_code"
	StateWaitingForTournament PlayerState = "waiting_for_tournament"
	// StateWaitReady is reserved for lobby matchmaking outside a
	// tournament. No current flow assigns it; the sweeper still resets
	// stale rows carrying it.
	StateWaitReady           PlayerState = "wait_ready"
	StateInMatch             PlayerState = "in_match"
	StateSetNewRoundCode     PlayerState = "set_new_round_code"
	StateAwaitingExitConfirm PlayerState = "awaiting_exit_confirmation"
)

// Player is a registered participant. The ID is the external user id
// supplied by the gateway, not generated here.
type Player struct {
	ID          int64       `json:"id" gorm:"primaryKey"`
	DisplayName string      `json:"display_name" gorm:"not null"`
	State       PlayerState `json:"state" gorm:"type:varchar(32);default:'start';index"`

	// PrevState holds the state parked while an exit confirmation is pending.
	PrevState *string `json:"prev_state,omitempty" gorm:"type:varchar(32)"`

	// SecretCode is NULL until the player submits a valid code for the
	// current round.
	SecretCode *string `json:"-" gorm:"type:varchar(8)"`

	TournamentID *uint `json:"tournament_id,omitempty" gorm:"index"`

	Wins   int `json:"wins" gorm:"default:0"`
	Losses int `json:"losses" gorm:"default:0"`

	// LastActivity drives the sweeper timeouts. Reset on every accepted
	// player action and whenever the turn passes to this player.
	LastActivity time.Time `json:"last_activity"`

	Timestamps
}

func (p *Player) HasSecretCode() bool {
	return p.SecretCode != nil && *p.SecretCode != ""
}
