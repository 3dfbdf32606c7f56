package services

import (
	"testing"
)

func TestValidateSecretCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{name: "valid code", code: "12345", wantErr: nil},
		{name: "valid with zero inside", code: "10234", wantErr: nil},
		{name: "too short", code: "1234", wantErr: ErrCodeLength},
		{name: "too long", code: "123456", wantErr: ErrCodeLength},
		{name: "empty", code: "", wantErr: ErrCodeLength},
		{name: "non digit", code: "12a45", wantErr: ErrCodeNotDigits},
		{name: "leading zero", code: "01234", wantErr: ErrCodeLeadingZero},
		{name: "repeated digit", code: "11234", wantErr: ErrCodeRepeatDigits},
		{name: "repeated digit apart", code: "12321", wantErr: ErrCodeRepeatDigits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecretCode(tt.code, 5)
			if err != tt.wantErr {
				t.Fatalf("ValidateSecretCode(%q) = %v, want %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestEvaluateGuess(t *testing.T) {
	code := "51234"
	fresh := []string{"-", "-", "-", "-", "-"}

	outcome, slots := EvaluateGuess(code, fresh, 0, "5")
	if outcome != GuessCorrect {
		t.Fatalf("outcome = %s, want correct", outcome)
	}
	if slots[0] != "5" {
		t.Fatalf("slot 0 = %q, want revealed 5", slots[0])
	}
	if fresh[0] != "-" {
		t.Fatalf("input slots mutated: %v", fresh)
	}

	// Re-guessing a revealed slot is still correct and changes nothing.
	outcome2, slots2 := EvaluateGuess(code, slots, 0, "5")
	if outcome2 != GuessCorrect {
		t.Fatalf("repeat outcome = %s, want correct", outcome2)
	}
	if slots2[0] != "5" {
		t.Fatalf("repeat slot 0 = %q, want 5", slots2[0])
	}

	// Digit present but elsewhere.
	outcome3, slots3 := EvaluateGuess(code, slots, 0, "1")
	if outcome3 != GuessWrongPosition {
		t.Fatalf("outcome = %s, want wrong_position", outcome3)
	}
	if slots3[0] != "5" {
		t.Fatalf("wrong-position guess must not change slots: %v", slots3)
	}

	// Digit absent entirely.
	outcome4, _ := EvaluateGuess(code, slots, 2, "9")
	if outcome4 != GuessNotInCode {
		t.Fatalf("outcome = %s, want not_in_code", outcome4)
	}
}

func TestEvaluateGuessProgressIsMonotone(t *testing.T) {
	code := "51234"
	slots := []string{"-", "-", "-", "-", "-"}

	guesses := []struct {
		pos   int
		digit string
	}{
		{0, "5"}, {1, "9"}, {1, "1"}, {0, "5"}, {2, "2"}, {3, "0"},
	}

	revealed := 0
	for _, g := range guesses {
		_, slots = EvaluateGuess(code, slots, g.pos, g.digit)
		now := 0
		for _, s := range slots {
			if s != "-" {
				now++
			}
		}
		if now < revealed {
			t.Fatalf("revealed count went backwards: %d -> %d after %v", revealed, now, g)
		}
		revealed = now
	}
}

func TestAllRevealed(t *testing.T) {
	if AllRevealed([]string{"1", "2", "-"}) {
		t.Fatal("partial progress reported as complete")
	}
	if !AllRevealed([]string{"1", "2", "3"}) {
		t.Fatal("complete progress not detected")
	}
}

func TestFullCrackSequence(t *testing.T) {
	code := "51234"
	slots := []string{"-", "-", "-", "-", "-"}

	for i := 0; i < len(code); i++ {
		var outcome GuessOutcome
		outcome, slots = EvaluateGuess(code, slots, i, string(code[i]))
		if outcome != GuessCorrect {
			t.Fatalf("guess %d: outcome = %s, want correct", i, outcome)
		}
	}
	if !AllRevealed(slots) {
		t.Fatalf("code fully guessed but not all revealed: %v", slots)
	}
}
