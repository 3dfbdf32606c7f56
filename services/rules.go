package services

import (
	"errors"
	"strings"
)

// GuessOutcome classifies a single digit-at-position guess.
type GuessOutcome string

const (
	GuessCorrect       GuessOutcome = "correct"
	GuessWrongPosition GuessOutcome = "wrong_position"
	GuessNotInCode     GuessOutcome = "not_in_code"
)

var (
	ErrCodeLength       = errors.New("secret code has wrong length")
	ErrCodeNotDigits    = errors.New("secret code must contain only digits")
	ErrCodeLeadingZero  = errors.New("secret code must not start with zero")
	ErrCodeRepeatDigits = errors.New("secret code digits must be unique")
)

// ValidateSecretCode enforces the code rules: exactly codeLength digits,
// all distinct, no leading zero.
func ValidateSecretCode(code string, codeLength int) error {
	if len(code) != codeLength {
		return ErrCodeLength
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrCodeNotDigits
		}
	}
	if code[0] == '0' {
		return ErrCodeLeadingZero
	}
	seen := [10]bool{}
	for i := 0; i < len(code); i++ {
		d := code[i] - '0'
		if seen[d] {
			return ErrCodeRepeatDigits
		}
		seen[d] = true
	}
	return nil
}

// EvaluateGuess applies one guess (digit at zero-based position) against the
// opponent's secret code, returning the outcome and the updated progress
// slots. Re-guessing an already-revealed slot is still correct and leaves
// the slots unchanged; slots only ever flip from "-" to a digit.
func EvaluateGuess(secretCode string, slots []string, position int, digit string) (GuessOutcome, []string) {
	if secretCode[position:position+1] == digit {
		if slots[position] == "-" {
			updated := make([]string, len(slots))
			copy(updated, slots)
			updated[position] = digit
			return GuessCorrect, updated
		}
		return GuessCorrect, slots
	}
	if strings.Contains(secretCode, digit) {
		return GuessWrongPosition, slots
	}
	return GuessNotInCode, slots
}

// AllRevealed reports whether every slot has been cracked.
func AllRevealed(slots []string) bool {
	for _, s := range slots {
		if s == "-" {
			return false
		}
	}
	return true
}
