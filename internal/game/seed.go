package game

import (
	"context"

	"cangkulan/arbiter/internal/cards"
	"cangkulan/arbiter/internal/zkcrypto"
	"cangkulan/arbiter/internal/zkverifier"
)

// CommitSeed implements commit_seed.
func (e *Engine) CommitSeed(s *Session, caller string, commitHash [32]byte, nowLedger int64) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	if err := requirePhase(s, PhaseSeedCommit); err != nil {
		return nil, err
	}
	slot, err := requirePlayer(s, caller)
	if err != nil {
		return nil, err
	}
	seed := s.seed(slot)
	if seed.Commit != nil {
		return nil, ErrCommitAlreadySubmitted
	}
	isFirstCommitOfSession := s.Seed[0].Commit == nil && s.Seed[1].Commit == nil
	c := commitHash
	seed.Commit = &c

	s.touch(nowLedger)
	if isFirstCommitOfSession {
		s.armDeadline(nowLedger)
	}

	events := []Event{newEvent("SeedCommitted", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"player":    caller,
	})}

	if s.Seed[0].Commit != nil && s.Seed[1].Commit != nil {
		s.Phase = PhaseSeedReveal
		s.armDeadline(nowLedger)
	}
	return events, nil
}

// RevealSeed implements reveal_seed. The proof mode is auto-detected
// from proof length: empty consumes a verify_noir_seed flag, 64 bytes
// is the hash-based NIZK, 224 bytes is Pedersen commitment + Schnorr
// (C prefixed to a 128-byte sigma proof), and anything over 4000
// bytes routes to the UltraHonk verifier inline.
func (e *Engine) RevealSeed(ctx context.Context, s *Session, caller string, seedHash [32]byte, proof []byte, nowLedger int64) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	if err := requirePhase(s, PhaseSeedReveal); err != nil {
		return nil, err
	}
	slot, err := requirePlayer(s, caller)
	if err != nil {
		return nil, err
	}
	seed := s.seed(slot)
	if seed.Revealed {
		return nil, ErrRevealAlreadySubmitted
	}
	if seed.Commit == nil {
		return nil, ErrMissingCommit
	}

	if !zkcrypto.EntropyFloor(seedHash[:], 4) {
		return nil, ErrWeakSeedEntropy
	}

	switch {
	case len(proof) == 0:
		// Split-verification path: consume a cached verify_noir_seed
		// flag instead of re-verifying inline.
		if err := e.consumeNoirFlag(s, slot, seedHash); err != nil {
			return nil, err
		}
	case len(proof) == 224:
		// Pedersen mode: C(96) || sigma(128). The commit binds C, not
		// the seed hash.
		cHash := zkcrypto.Keccak256(proof[:96])
		if cHash != *seed.Commit {
			return nil, ErrInvalidZkProof
		}
		publicInputs := buildPedersenPublicInputs(proof[:96], seedHash, s.SessionID, caller)
		res := zkverifier.Verify(publicInputs, proof[96:])
		if !res.OK {
			return nil, ErrInvalidZkProof
		}
	case len(proof) == 64:
		publicInputs := buildNIZKPublicInputs(seedHash, *seed.Commit, s.SessionID, caller)
		res := zkverifier.Verify(publicInputs, proof)
		if !res.OK {
			return nil, ErrInvalidZkProof
		}
	case len(proof) > 4000:
		// Single-transaction UltraHonk route; commit binds the seed
		// hash directly.
		if zkcrypto.Keccak256(seedHash[:]) != *seed.Commit {
			return nil, ErrCommitHashMismatch
		}
		if err := e.verifyUltraHonk(ctx, noirPublicInputs(seedHash), proof); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidZkProof
	}

	h := seedHash
	seed.SeedHash = &h
	seed.Revealed = true
	s.touch(nowLedger)

	events := []Event{newEvent("SeedRevealed", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"player":    caller,
	})}

	if s.Seed[0].Revealed && s.Seed[1].Revealed {
		dealEvents, err := e.shuffleAndDeal(s, nowLedger)
		if err != nil {
			return nil, err
		}
		events = append(events, dealEvents...)
	} else {
		s.armDeadline(nowLedger)
	}
	return events, nil
}

// consumeNoirFlag implements the one-shot cache check verify_noir_seed
// populates: commit = keccak256(seed_hash) must match, and the cached
// hash must match the one the caller now reveals.
func (e *Engine) consumeNoirFlag(s *Session, slot Slot, seedHash [32]byte) error {
	flag := s.noir(slot)
	if flag.SeedHash == nil || flag.Commit == nil {
		return ErrMissingCommit
	}
	if *flag.SeedHash != seedHash {
		return ErrCommitHashMismatch
	}
	wantCommit := zkcrypto.Keccak256(seedHash[:])
	if wantCommit != *flag.Commit {
		return ErrCommitHashMismatch
	}
	flag.SeedHash = nil
	flag.Commit = nil
	return nil
}

// VerifyNoirSeed implements verify_noir_seed: verifies a large proof
// against the external UltraHonk verifier in its own transaction and
// caches a one-shot flag consumed by a subsequent reveal_seed call with
// an empty proof.
func (e *Engine) VerifyNoirSeed(ctx context.Context, s *Session, caller string, seedHash [32]byte, proof []byte) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	if err := requirePhase(s, PhaseSeedReveal); err != nil {
		return nil, err
	}
	slot, err := requirePlayer(s, caller)
	if err != nil {
		return nil, err
	}
	seed := s.seed(slot)
	if seed.Revealed {
		return nil, ErrRevealAlreadySubmitted
	}
	if seed.Commit == nil {
		return nil, ErrMissingCommit
	}
	if !zkcrypto.EntropyFloor(seedHash[:], 4) {
		return nil, ErrWeakSeedEntropy
	}
	commit := zkcrypto.Keccak256(seedHash[:])
	if commit != *seed.Commit {
		return nil, ErrCommitHashMismatch
	}
	if len(proof) <= 4000 {
		return nil, ErrInvalidZkProof
	}
	if err := e.verifyUltraHonk(ctx, noirPublicInputs(seedHash), proof); err != nil {
		return nil, err
	}

	flag := s.noir(slot)
	h := seedHash
	flag.SeedHash = &h
	flag.Commit = &commit

	return []Event{newEvent("NoirSeedVerified", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"player":    caller,
	})}, nil
}

func buildNIZKPublicInputs(seedHash, commit [32]byte, sessionID uint32, player string) []byte {
	sid := sidBE(sessionID)
	nullifier := zkcrypto.Keccak256(seedHash[:], []byte(zkcrypto.DomainNullifier), sid[:])
	out := make([]byte, 0, 32+32+32+4+len(player))
	out = append(out, seedHash[:]...)
	out = append(out, commit[:]...)
	out = append(out, nullifier[:]...)
	out = append(out, sid[:]...)
	out = append(out, []byte(player)...)
	return out
}

func buildPedersenPublicInputs(cRaw []byte, seedHash [32]byte, sessionID uint32, player string) []byte {
	sid := sidBE(sessionID)
	out := make([]byte, 0, 96+32+4+len(player))
	out = append(out, cRaw...)
	out = append(out, seedHash[:]...)
	out = append(out, sid[:]...)
	out = append(out, []byte(player)...)
	return out
}

// noirPublicInputs encodes the seed hash the way the UltraHonk circuit
// expects its public inputs: each byte widened to a 32-byte big-endian
// field element, 1024 bytes total.
func noirPublicInputs(seedHash [32]byte) []byte {
	out := make([]byte, 0, 32*32)
	for _, b := range seedHash {
		var fe [32]byte
		fe[31] = b
		out = append(out, fe[:]...)
	}
	return out
}

func sidBE(sessionID uint32) [4]byte {
	return be4(sessionID)
}

// shuffleAndDeal runs the shuffle-and-deal once both seed hashes
// are revealed, transitions to Playing, and flips the first card.
func (e *Engine) shuffleAndDeal(s *Session, nowLedger int64) ([]Event, error) {
	deal := cards.ShuffleAndDeal(*s.Seed[0].SeedHash, *s.Seed[1].SeedHash, s.SessionID)
	s.Hand1 = deal.Hand1
	s.Hand2 = deal.Hand2
	s.DrawPile = deal.DrawPile
	s.FlippedCard = deal.FlippedCard
	s.HasFlipped = true
	s.Phase = PhasePlaying
	s.TrickState = TrickCommitWaitBoth
	s.armDeadline(nowLedger)

	return []Event{
		newEvent("DeckShuffled", map[string]string{"sessionId": fmtU32(s.SessionID)}),
	}, nil
}
