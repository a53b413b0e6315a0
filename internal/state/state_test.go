package state

import (
	"bytes"
	"testing"

	"cangkulan/arbiter/internal/game"
)

func TestAppHash_StableAcrossMapOrder(t *testing.T) {
	s1 := NewState()
	s1.Height = 7
	s1.NonceMax["bob"] = 2
	s1.NonceMax["alice"] = 1
	s1.Sessions[2] = &game.Session{SessionID: 2, Player1: "bob", Player2: "carol"}
	s1.Sessions[1] = &game.Session{SessionID: 1, Player1: "alice", Player2: "bob"}

	s2 := NewState()
	s2.Height = 7
	s2.NonceMax["alice"] = 1
	s2.NonceMax["bob"] = 2
	s2.Sessions[1] = &game.Session{SessionID: 1, Player1: "alice", Player2: "bob"}
	s2.Sessions[2] = &game.Session{SessionID: 2, Player1: "bob", Player2: "carol"}

	h1 := s1.AppHash()
	h2 := s2.AppHash()
	if !bytes.Equal(h1, h2) {
		t.Fatalf("expected stable app hash; h1=%x h2=%x", h1, h2)
	}

	s2.NonceMax["alice"] = 9
	h3 := s2.AppHash()
	if bytes.Equal(h1, h3) {
		t.Fatalf("expected hash to change after state mutation")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewState()
	s.Height = 3
	s.Config.Admin = "admin1"
	s.Sessions[1] = &game.Session{SessionID: 1, Player1: "alice", Player2: "bob", Phase: game.PhaseSeedCommit}
	s.History["alice"] = append(s.History["alice"], game.HistoryEntry{SessionID: 1, Result: "Win"})

	if err := s.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Height != 3 || loaded.Config.Admin != "admin1" {
		t.Fatalf("unexpected loaded state: %+v", loaded)
	}
	if loaded.Sessions[1] == nil || loaded.Sessions[1].Player1 != "alice" {
		t.Fatalf("session not round-tripped: %+v", loaded.Sessions[1])
	}
	if len(loaded.History["alice"]) != 1 {
		t.Fatalf("history not round-tripped: %+v", loaded.History)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewState()
	s.Sessions[1] = &game.Session{SessionID: 1, Player1: "alice", Player2: "bob"}
	clone, err := s.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	clone.Sessions[1].Player1 = "mallory"
	if s.Sessions[1].Player1 != "alice" {
		t.Fatalf("expected clone mutation not to affect original, got %q", s.Sessions[1].Player1)
	}
}

func TestPruneSessionsEvictsExpired(t *testing.T) {
	s := NewState()
	s.Sessions[1] = &game.Session{SessionID: 1, TTLUntilLedger: 100}
	s.Sessions[2] = &game.Session{SessionID: 2, TTLUntilLedger: 200}
	s.PruneSessions(150)
	if _, ok := s.Sessions[1]; ok {
		t.Fatalf("expected expired session 1 to be pruned")
	}
	if _, ok := s.Sessions[2]; !ok {
		t.Fatalf("expected session 2 to survive")
	}
}

func TestAppendHistoryPrunesTTLAndCaps(t *testing.T) {
	s := NewState()
	s.AppendHistory("alice", game.HistoryEntry{SessionID: 1, EndedAtLedger: 0}, 0)
	laterLedger := game.HistoryTTLLedgers + 1000
	s.AppendHistory("alice", game.HistoryEntry{SessionID: 2, EndedAtLedger: laterLedger}, laterLedger)
	if len(s.History["alice"]) != 1 {
		t.Fatalf("expected the stale entry to be pruned on next append, got %d", len(s.History["alice"]))
	}
	if s.History["alice"][0].SessionID != 2 {
		t.Fatalf("expected the surviving entry to be the recent one, got %+v", s.History["alice"][0])
	}
}
