package models

import "testing"

func TestEmptyProgress(t *testing.T) {
	raw := EmptyProgress(5)
	slots, err := ProgressSlots(raw)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("slots = %d, want 5", len(slots))
	}
	for i, s := range slots {
		if s != "-" {
			t.Fatalf("slot %d = %q, want -", i, s)
		}
	}
	if RevealedCount(raw) != 0 {
		t.Fatalf("revealed = %d, want 0", RevealedCount(raw))
	}
}

func TestRevealedCount(t *testing.T) {
	raw := EncodeProgress([]string{"1", "-", "3", "-", "-"})
	if got := RevealedCount(raw); got != 2 {
		t.Fatalf("revealed = %d, want 2", got)
	}
	if got := RevealedCount("not json"); got != 0 {
		t.Fatalf("revealed for garbage = %d, want 0", got)
	}
}

func TestMatchOpponentAndProgress(t *testing.T) {
	m := Match{
		Player1ID:       100,
		Player2ID:       200,
		Player1Progress: EncodeProgress([]string{"1", "-", "-", "-", "-"}),
		Player2Progress: EmptyProgress(5),
	}

	if m.Opponent(100) != 200 || m.Opponent(200) != 100 {
		t.Fatal("opponent lookup wrong")
	}
	if RevealedCount(m.ProgressOf(100)) != 1 {
		t.Fatal("player1 progress lookup wrong")
	}
	if RevealedCount(m.ProgressOf(200)) != 0 {
		t.Fatal("player2 progress lookup wrong")
	}
}
