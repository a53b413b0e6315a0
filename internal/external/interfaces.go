// Package external defines narrow Go interfaces for the collaborators
// the arbiter treats as out of scope — the game hub and the opaque
// "ultrahonk" verifier — plus their HTTP client implementations and
// the admin identity resolver the query paths use. Each collaborator
// is consumed only through its interface, in the "expected keepers"
// idiom Cosmos modules use for Bank, Staking, and Auth keepers.
package external

import "context"

// Hub tracks the (session, player pair) relationship and the terminal
// win flag on behalf of some system outside this arbiter. It does not
// accept a draw outcome: finalization on a Draw must resolve to a
// boolean winner via the commit-hash coin flip before calling EndGame.
type Hub interface {
	StartGame(ctx context.Context, gameID string, sessionID uint32, p1, p2 string, pts1, pts2 uint64) error
	EndGame(ctx context.Context, sessionID uint32, player1Won bool) error
}

// UltraHonkVerifier accepts large opaque proofs (>4000 bytes) that
// this arbiter never inspects. A verification failure surfaces as an
// error, and the caller aborts the whole operation on it.
type UltraHonkVerifier interface {
	VerifyProof(ctx context.Context, publicInputs, proof []byte) error
}

