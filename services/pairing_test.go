package services

import (
	"math/rand"
	"testing"

	"crackcode-tournament/models"
)

func participants(n int) []models.TournamentParticipant {
	out := make([]models.TournamentParticipant, n)
	for i := range out {
		out[i] = models.TournamentParticipant{
			ID:           uint(i + 1),
			TournamentID: 1,
			PlayerID:     int64(100 + i),
			CurrentRound: 1,
		}
	}
	return out
}

func TestBuildPairsEvenCount(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ps := participants(8)

	pairs, byeIndex := BuildPairs(ps, rng)
	if byeIndex != -1 {
		t.Fatalf("byeIndex = %d, want -1 for even count", byeIndex)
	}
	if len(pairs) != 4 {
		t.Fatalf("pairs = %d, want 4", len(pairs))
	}
}

func TestBuildPairsOddCountHasBye(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ps := participants(5)

	pairs, byeIndex := BuildPairs(ps, rng)
	if byeIndex < 0 || byeIndex >= len(ps) {
		t.Fatalf("byeIndex = %d, want a valid index for odd count", byeIndex)
	}
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}
}

// Every participant appears exactly once: either in a pair or as the bye.
func TestBuildPairsPartition(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 7, 8, 16, 17} {
		rng := rand.New(rand.NewSource(int64(n)))
		ps := participants(n)

		pairs, byeIndex := BuildPairs(ps, rng)

		wantPairs := n / 2
		wantByes := n % 2
		if len(pairs) != wantPairs {
			t.Fatalf("n=%d: pairs = %d, want %d", n, len(pairs), wantPairs)
		}
		gotByes := 0
		if byeIndex >= 0 {
			gotByes = 1
		}
		if gotByes != wantByes {
			t.Fatalf("n=%d: byes = %d, want %d", n, gotByes, wantByes)
		}

		seen := map[int64]int{}
		for _, p := range pairs {
			seen[p.Player1ID]++
			seen[p.Player2ID]++
			if p.Player1ID == p.Player2ID {
				t.Fatalf("n=%d: player %d paired with themselves", n, p.Player1ID)
			}
		}
		if byeIndex >= 0 {
			seen[ps[byeIndex].PlayerID]++
		}
		for _, p := range ps {
			if seen[p.PlayerID] != 1 {
				t.Fatalf("n=%d: player %d appears %d times", n, p.PlayerID, seen[p.PlayerID])
			}
		}
	}
}

func TestBuildPairsDeterministicWithSeed(t *testing.T) {
	ps := participants(9)

	a, byeA := BuildPairs(ps, rand.New(rand.NewSource(123)))
	b, byeB := BuildPairs(ps, rand.New(rand.NewSource(123)))

	if byeA != byeB {
		t.Fatalf("bye differs for identical seeds: %d vs %d", byeA, byeB)
	}
	if len(a) != len(b) {
		t.Fatalf("pair count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pair %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestBuildPairsDoesNotMutateInput(t *testing.T) {
	ps := participants(6)
	original := make([]models.TournamentParticipant, len(ps))
	copy(original, ps)

	BuildPairs(ps, rand.New(rand.NewSource(1)))

	for i := range ps {
		if ps[i].PlayerID != original[i].PlayerID {
			t.Fatalf("input order mutated at %d", i)
		}
	}
}
