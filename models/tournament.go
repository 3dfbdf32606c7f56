package models

import (
	"time"

	"gorm.io/gorm"
)

type TournamentStatus string

const (
	TournamentRegistration TournamentStatus = "registration"
	TournamentActive       TournamentStatus = "active"
	TournamentCompleted    TournamentStatus = "completed"
	TournamentCancelled    TournamentStatus = "cancelled"
)

// Tournament is a single-elimination bracket. At most one tournament may be
// in registration or active at any time.
type Tournament struct {
	ID     uint             `json:"id" gorm:"primaryKey"`
	Title  string           `json:"title" gorm:"not null"`
	Slug   string           `json:"slug" gorm:"index"`
	Status TournamentStatus `json:"status" gorm:"type:varchar(16);default:'registration';index"`

	MinPlayers   int `json:"min_players" gorm:"not null"`
	PlayersCount int `json:"players_count" gorm:"default:0"`
	CurrentRound int `json:"current_round" gorm:"default:0"`

	WinnerID      *int64 `json:"winner_id,omitempty"`
	SecondPlaceID *int64 `json:"second_place_id,omitempty"`
	ThirdPlaceID  *int64 `json:"third_place_id,omitempty"`

	// BracketURL points at the final bracket snapshot uploaded to object
	// storage when the tournament completes.
	BracketURL *string `json:"bracket_url,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Timestamps
}

// TournamentParticipant tracks one player's progress through a bracket.
// Rows are deleted when the tournament ends.
type TournamentParticipant struct {
	ID           uint  `json:"id" gorm:"primaryKey"`
	TournamentID uint  `json:"tournament_id" gorm:"index;not null;uniqueIndex:idx_tournament_player"`
	PlayerID     int64 `json:"player_id" gorm:"not null;uniqueIndex:idx_tournament_player"`

	// CurrentRound is the round the participant is slated to play. A match
	// win or a bye advances it by one.
	CurrentRound int  `json:"current_round" gorm:"default:1"`
	IsEliminated bool `json:"is_eliminated" gorm:"default:false"`
	IsBye        bool `json:"is_bye" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Timestamps is embedded by models that want the standard audit columns.
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
