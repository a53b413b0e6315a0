package game

import (
	"context"
	"fmt"

	"cangkulan/arbiter/internal/external"
)

// Engine executes entry points against a Session. It holds the narrow
// external collaborators; the session itself never references them
// directly, so a session's fields stay a tree rooted at its id.
type Engine struct {
	Hub       external.Hub
	UltraHonk external.UltraHonkVerifier
}

// touch bumps the action nonce by exactly one and extends the
// session's TTL. CommitSeed, RevealSeed, the commit-play entry points,
// RevealPlay and TickTimeout call it; Forfeit, ResolveTimeout and
// VerifyNoirSeed change session fields without calling it, so they
// leave the action nonce and TTL unchanged.
func (s *Session) touch(nowLedger int64) {
	s.ActionNonce++
	s.TTLUntilLedger = nowLedger + SessionTTLLedgers
}

// armDeadline re-arms the dual deadline pair relative to the current
// action_nonce and ledger height.
func (s *Session) armDeadline(nowLedger int64) {
	s.DeadlineNonce = s.ActionNonce + TimeoutActions
	s.DeadlineLedger = nowLedger + TimeoutLedgers
}

func requirePhase(s *Session, want Phase) error {
	if s.Phase != want {
		return fmt.Errorf("%w: have=%s want=%s", ErrWrongPhase, s.Phase, want)
	}
	return nil
}

func requirePlayer(s *Session, caller string) (Slot, error) {
	slot := s.PlayerSlot(caller)
	if slot == 0 {
		return 0, ErrNotAPlayer
	}
	return slot, nil
}

func requireNotFinished(s *Session) error {
	if s.Phase == PhaseFinished {
		return ErrGameAlreadyEnded
	}
	return nil
}

// verifyUltraHonk wraps the UltraHonk callout: any error aborts the
// whole operation before any state mutation.
func (e *Engine) verifyUltraHonk(ctx context.Context, publicInputs, proof []byte) error {
	if e.UltraHonk == nil {
		return ErrUltraHonkVerifierNotSet
	}
	if err := e.UltraHonk.VerifyProof(ctx, publicInputs, proof); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidZkProof, err)
	}
	return nil
}
