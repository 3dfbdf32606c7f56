package services

import "testing"

func TestRankEliminatedDeeperRunWins(t *testing.T) {
	entries := []EliminatedEntry{
		{PlayerID: 1, EliminationRound: 1, Losses: 3},
		{PlayerID: 2, EliminationRound: 3, Losses: 1},
		{PlayerID: 3, EliminationRound: 2, Losses: 2},
	}

	ranked := RankEliminated(entries)
	want := []int64{2, 3, 1}
	for i, id := range want {
		if ranked[i] != id {
			t.Fatalf("ranked[%d] = %d, want %d (full: %v)", i, ranked[i], id, ranked)
		}
	}
}

func TestRankEliminatedLossesBreakTies(t *testing.T) {
	entries := []EliminatedEntry{
		{PlayerID: 10, EliminationRound: 2, Losses: 1},
		{PlayerID: 11, EliminationRound: 2, Losses: 4},
	}

	ranked := RankEliminated(entries)
	if ranked[0] != 11 || ranked[1] != 10 {
		t.Fatalf("ranked = %v, want [11 10]", ranked)
	}
}

func TestRankEliminatedEmpty(t *testing.T) {
	if got := RankEliminated(nil); len(got) != 0 {
		t.Fatalf("ranked = %v, want empty", got)
	}
}

func TestRankEliminatedDoesNotMutateInput(t *testing.T) {
	entries := []EliminatedEntry{
		{PlayerID: 1, EliminationRound: 1},
		{PlayerID: 2, EliminationRound: 5},
	}
	RankEliminated(entries)
	if entries[0].PlayerID != 1 || entries[1].PlayerID != 2 {
		t.Fatalf("input mutated: %v", entries)
	}
}
