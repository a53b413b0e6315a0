// Package state is the JSON-file-backed store holding every session,
// player history ring buffer, and instance-scoped configuration the
// arbiter needs across transactions.
package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cangkulan/arbiter/internal/game"
)

// InstanceConfig is instance-scoped configuration mutated only via
// admin-authenticated operations.
type InstanceConfig struct {
	Admin     string `json:"admin"`
	Hub       string `json:"hub,omitempty"`
	Verifier  string `json:"verifier,omitempty"`
	UltraHonk string `json:"ultraHonk,omitempty"`
	Version   uint32 `json:"version"`
}

// State is the full node state, persisted as a single JSON document.
type State struct {
	Height int64 `json:"height"`

	Config InstanceConfig `json:"config"`

	AccountKeys map[string][]byte `json:"accountKeys,omitempty"` // addr -> ed25519 pubkey (32 bytes)
	NonceMax    map[string]uint64 `json:"nonceMax,omitempty"`    // signer -> last accepted tx nonce

	// Sessions is temporary storage with a TTL: a session not touched
	// within SessionTTLLedgers ledgers of its last write is eligible
	// for eviction by PruneSessions.
	Sessions map[uint32]*game.Session `json:"sessions"`

	// History is persistent storage with a longer TTL, keyed by player
	// address; each slice is capped at game.MaxHistoryPerPlayer entries.
	History map[string][]game.HistoryEntry `json:"history,omitempty"`
}

func NewState() *State {
	return &State{
		Height:      0,
		AccountKeys: map[string][]byte{},
		NonceMax:    map[string]uint64{},
		Sessions:    map[uint32]*game.Session{},
		History:     map[string][]game.HistoryEntry{},
	}
}

func Load(home string) (*State, error) {
	path := filepath.Join(home, "state.json")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	st.fillDefaults()
	return &st, nil
}

func (s *State) Save(home string) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("mkdir home: %w", err)
	}
	path := filepath.Join(home, "state.json")
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Clone returns a deep copy of state suitable for staged tx execution.
func (s *State) Clone() (*State, error) {
	if s == nil {
		return nil, fmt.Errorf("state is nil")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state clone: %w", err)
	}
	var out State
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode state clone: %w", err)
	}
	out.fillDefaults()
	return &out, nil
}

func (s *State) fillDefaults() {
	if s.AccountKeys == nil {
		s.AccountKeys = map[string][]byte{}
	}
	if s.NonceMax == nil {
		s.NonceMax = map[string]uint64{}
	}
	if s.Sessions == nil {
		s.Sessions = map[uint32]*game.Session{}
	}
	if s.History == nil {
		s.History = map[string][]game.HistoryEntry{}
	}
}

// AppHash deterministically hashes state, normalizing every map into a
// key-sorted slice first since encoding/json does not guarantee map
// key order.
func (s *State) AppHash() []byte {
	type accountKeyKV struct {
		Addr   string `json:"addr"`
		PubKey []byte `json:"pubKey"`
	}
	type nonceKV struct {
		Signer string `json:"signer"`
		Nonce  uint64 `json:"nonce"`
	}
	type sessionKV struct {
		ID      uint32        `json:"id"`
		Session *game.Session `json:"session"`
	}
	type historyKV struct {
		Player string              `json:"player"`
		Log    []game.HistoryEntry `json:"log"`
	}

	accountKeys := make([]accountKeyKV, 0, len(s.AccountKeys))
	for k, v := range s.AccountKeys {
		accountKeys = append(accountKeys, accountKeyKV{Addr: k, PubKey: v})
	}
	sort.Slice(accountKeys, func(i, j int) bool { return accountKeys[i].Addr < accountKeys[j].Addr })

	nonces := make([]nonceKV, 0, len(s.NonceMax))
	for k, v := range s.NonceMax {
		nonces = append(nonces, nonceKV{Signer: k, Nonce: v})
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i].Signer < nonces[j].Signer })

	sessions := make([]sessionKV, 0, len(s.Sessions))
	for id, sess := range s.Sessions {
		sessions = append(sessions, sessionKV{ID: id, Session: sess})
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })

	history := make([]historyKV, 0, len(s.History))
	for player, log := range s.History {
		history = append(history, historyKV{Player: player, Log: log})
	}
	sort.Slice(history, func(i, j int) bool { return history[i].Player < history[j].Player })

	normalized := struct {
		Height      int64          `json:"height"`
		Config      InstanceConfig `json:"config"`
		AccountKeys []accountKeyKV `json:"accountKeys,omitempty"`
		NonceMax    []nonceKV      `json:"nonceMax,omitempty"`
		Sessions    []sessionKV    `json:"sessions"`
		History     []historyKV    `json:"history,omitempty"`
	}{
		Height:      s.Height,
		Config:      s.Config,
		AccountKeys: accountKeys,
		NonceMax:    nonces,
		Sessions:    sessions,
		History:     history,
	}

	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return sum[:]
}

// AppendHistory records entry for player, evicting the oldest entry
// past game.MaxHistoryPerPlayer, and drops entries more than
// HistoryTTLLedgers old relative to nowLedger.
func (s *State) AppendHistory(player string, entry game.HistoryEntry, nowLedger int64) {
	log := s.History[player]
	log = game.AppendHistory(log, entry)
	log = pruneHistoryTTL(log, nowLedger)
	s.History[player] = log
}

func pruneHistoryTTL(log []game.HistoryEntry, nowLedger int64) []game.HistoryEntry {
	cutoff := nowLedger - game.HistoryTTLLedgers
	out := log[:0]
	for _, e := range log {
		if e.EndedAtLedger >= cutoff {
			out = append(out, e)
		}
	}
	return out
}

// PruneSessions evicts every session whose TTLUntilLedger has passed.
func (s *State) PruneSessions(nowLedger int64) {
	for id, sess := range s.Sessions {
		if sess.TTLUntilLedger < nowLedger {
			delete(s.Sessions, id)
		}
	}
}
