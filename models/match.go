package models

import (
	"encoding/json"
	"time"
)

type MatchStatus string

const (
	MatchActive    MatchStatus = "active"
	MatchFinished  MatchStatus = "finished"
	MatchCancelled MatchStatus = "cancelled"
)

// Match is a single 1v1 code-cracking duel inside a tournament round.
// Player1 always moves first. PlayerNProgress records how much of the
// opponent's code player N has revealed, stored as a JSON array of
// one-character slots ("-" = unrevealed).
//
// Both secret codes are copied onto the row at creation: every guess and the
// settlement reveal read the match's own snapshot, so a player row changing
// later never alters a duel already in progress.
type Match struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	TournamentID uint `json:"tournament_id" gorm:"index;not null"`
	Round        int  `json:"round" gorm:"not null"`

	Player1ID     int64 `json:"player1_id" gorm:"index;not null"`
	Player2ID     int64 `json:"player2_id" gorm:"index;not null"`
	CurrentTurnID int64 `json:"current_turn_id" gorm:"not null"`

	SecretCodePlayer1 string `json:"-" gorm:"type:varchar(8);not null"`
	SecretCodePlayer2 string `json:"-" gorm:"type:varchar(8);not null"`

	Player1Progress string `json:"player1_progress" gorm:"type:varchar(64);not null"`
	Player2Progress string `json:"player2_progress" gorm:"type:varchar(64);not null"`

	Status   MatchStatus `json:"status" gorm:"type:varchar(16);default:'active';index"`
	WinnerID *int64      `json:"winner_id,omitempty"`

	StartedAt  time.Time  `json:"started_at" gorm:"autoCreateTime"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// EmptyProgress returns the serialized all-unrevealed progress array.
func EmptyProgress(codeLength int) string {
	slots := make([]string, codeLength)
	for i := range slots {
		slots[i] = "-"
	}
	b, _ := json.Marshal(slots)
	return string(b)
}

// ProgressSlots decodes a stored progress column.
func ProgressSlots(raw string) ([]string, error) {
	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// EncodeProgress is the inverse of ProgressSlots.
func EncodeProgress(slots []string) string {
	b, _ := json.Marshal(slots)
	return string(b)
}

// RevealedCount reports how many slots of a progress column are cracked.
func RevealedCount(raw string) int {
	slots, err := ProgressSlots(raw)
	if err != nil {
		return 0
	}
	n := 0
	for _, s := range slots {
		if s != "-" {
			n++
		}
	}
	return n
}

// Opponent returns the other player of the match.
func (m *Match) Opponent(playerID int64) int64 {
	if playerID == m.Player1ID {
		return m.Player2ID
	}
	return m.Player1ID
}

// ProgressOf returns the progress column belonging to the given player.
func (m *Match) ProgressOf(playerID int64) string {
	if playerID == m.Player1ID {
		return m.Player1Progress
	}
	return m.Player2Progress
}

// SecretCodeOf returns the code snapshot taken from the given player when
// the match was created.
func (m *Match) SecretCodeOf(playerID int64) string {
	if playerID == m.Player1ID {
		return m.SecretCodePlayer1
	}
	return m.SecretCodePlayer2
}
