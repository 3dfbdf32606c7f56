package services

import (
	"testing"

	"crackcode-tournament/models"
)

// A duel plays against the codes copied onto the match row when it was
// created. A player row picking up a new code later must not change what
// the opponent is guessing at.
func TestGuessTargetsMatchCodeSnapshot(t *testing.T) {
	codeAtCreation := "51234"
	m := models.Match{
		Player1ID:         100,
		Player2ID:         200,
		CurrentTurnID:     100,
		SecretCodePlayer1: "67890",
		SecretCodePlayer2: codeAtCreation,
		Player1Progress:   models.EmptyProgress(5),
		Player2Progress:   models.EmptyProgress(5),
		Status:            models.MatchActive,
	}

	// Player 200 sets a fresh code on their player row mid-tournament.
	liveCode := "98765"

	target := m.SecretCodeOf(m.Opponent(100))
	if target != codeAtCreation {
		t.Fatalf("guess target = %q, want the creation snapshot %q", target, codeAtCreation)
	}
	if target == liveCode {
		t.Fatal("guess target followed the live player code")
	}

	slots, err := models.ProgressSlots(m.ProgressOf(100))
	if err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	outcome, updated := EvaluateGuess(target, slots, 0, "5")
	if outcome != GuessCorrect {
		t.Fatalf("outcome = %s, want correct against the snapshot", outcome)
	}
	if updated[0] != "5" {
		t.Fatalf("slot 0 = %q, want 5", updated[0])
	}

	// The live code would have scored this same guess differently.
	liveOutcome, _ := EvaluateGuess(liveCode, slots, 0, "5")
	if liveOutcome == GuessCorrect {
		t.Fatal("test codes must diverge at position 0")
	}
}

// Settlement reveals the snapshot codes, one per side.
func TestSecretCodeOfPerSide(t *testing.T) {
	m := models.Match{
		Player1ID:         1,
		Player2ID:         2,
		SecretCodePlayer1: "12345",
		SecretCodePlayer2: "54321",
	}
	if m.SecretCodeOf(1) != "12345" {
		t.Fatalf("player1 code = %q, want 12345", m.SecretCodeOf(1))
	}
	if m.SecretCodeOf(2) != "54321" {
		t.Fatalf("player2 code = %q, want 54321", m.SecretCodeOf(2))
	}
}
