package services

import (
	"fmt"
	"math/rand"

	"crackcode-tournament/models"

	"gorm.io/gorm"
)

// PairingService builds the match pairs for a tournament round. The rand
// source is injected so brackets are reproducible in tests.
type PairingService struct {
	DB  *gorm.DB
	Rng *rand.Rand
}

func NewPairingService(db *gorm.DB, rng *rand.Rand) *PairingService {
	return &PairingService{DB: db, Rng: rng}
}

// Pair is one scheduled duel. Player1 takes the first turn.
type Pair struct {
	Player1ID int64 `json:"player1_id"`
	Player2ID int64 `json:"player2_id"`
}

// EligibleParticipants returns the participants who can be paired into the
// given round: still in the bracket, slated for this round, and their player
// has a code set and is waiting to play.
func (ps *PairingService) EligibleParticipants(tournamentID uint, round int) ([]models.TournamentParticipant, error) {
	var participants []models.TournamentParticipant
	err := ps.DB.
		Joins("JOIN players ON players.id = tournament_participants.player_id").
		Where("tournament_participants.tournament_id = ? AND tournament_participants.is_eliminated = ? AND tournament_participants.current_round = ?",
			tournamentID, false, round).
		Where("players.secret_code IS NOT NULL AND players.state = ?", models.StateWaitingForTournament).
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch eligible participants: %w", err)
	}
	return participants, nil
}

// BuildPairs shuffles the participants and pairs them sequentially. With an
// odd count the first player after the shuffle sits the round out; byeIndex
// is -1 when everyone is paired.
func BuildPairs(participants []models.TournamentParticipant, rng *rand.Rand) (pairs []Pair, byeIndex int) {
	shuffled := make([]models.TournamentParticipant, len(participants))
	copy(shuffled, participants)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	byeIndex = -1
	start := 0
	if len(shuffled)%2 != 0 {
		// The bye player advances without playing.
		for i, p := range participants {
			if p.ID == shuffled[0].ID {
				byeIndex = i
				break
			}
		}
		start = 1
	}

	for i := start; i+1 < len(shuffled); i += 2 {
		pairs = append(pairs, Pair{
			Player1ID: shuffled[i].PlayerID,
			Player2ID: shuffled[i+1].PlayerID,
		})
	}
	return pairs, byeIndex
}
