package game

import "errors"

// Error taxonomy (kinds, not codes), grounded on
// block52-pokerchain's and discordwell's sentinel error registries.
var (
	// Session lifecycle.
	ErrGameNotFound         = errors.New("game: session not found")
	ErrSessionAlreadyExists = errors.New("game: session already exists")
	ErrGameAlreadyEnded     = errors.New("game: session already ended")

	// Authorization.
	ErrNotAPlayer              = errors.New("game: caller is not a player in this session")
	ErrSelfPlayNotAllowed      = errors.New("game: player1 and player2 must be distinct")
	ErrAdminNotSet             = errors.New("game: admin not configured")
	ErrGameHubNotSet           = errors.New("game: hub not configured")
	ErrVerifierNotSet          = errors.New("game: verifier not configured")
	ErrUltraHonkVerifierNotSet = errors.New("game: ultrahonk verifier not configured")

	// Phase.
	ErrWrongPhase        = errors.New("game: wrong phase for this operation")
	ErrNotYourTurn       = errors.New("game: not this player's turn")
	ErrNoTrickInProgress = errors.New("game: no trick in progress")

	// Commit-reveal.
	ErrCommitAlreadySubmitted     = errors.New("game: commit already submitted")
	ErrRevealAlreadySubmitted     = errors.New("game: reveal already submitted")
	ErrMissingCommit              = errors.New("game: missing commit")
	ErrCommitHashMismatch         = errors.New("game: commit hash mismatch")
	ErrPlayCommitAlreadySubmitted = errors.New("game: play commit already submitted")
	ErrPlayCommitMissing          = errors.New("game: play commit missing")
	ErrPlayRevealMismatch         = errors.New("game: play reveal does not open the commit")
	ErrInvalidNonce               = errors.New("game: invalid expected_nonce")

	// Card semantics.
	ErrCardNotInHand   = errors.New("game: card not in hand")
	ErrWrongSuit       = errors.New("game: card does not match the trick suit")
	ErrHasMatchingSuit = errors.New("game: player has a card of the trick suit")
	ErrInvalidCardID   = errors.New("game: invalid card id")
	ErrDrawPileEmpty   = errors.New("game: draw pile is empty")

	// ZK-mode.
	ErrInvalidZkProof        = errors.New("game: zk proof failed verification")
	ErrZkPlayProofInvalid    = errors.New("game: zk ring play proof invalid")
	ErrZkPlaySetEmpty        = errors.New("game: zk ring play valid set is empty")
	ErrZkPlayOpeningMismatch = errors.New("game: zk play commit opening mismatch")
	ErrZkCangkulProofInvalid = errors.New("game: zk cangkul proof invalid")

	// Timeouts.
	ErrTimeoutNotReached    = errors.New("game: timeout not reached")
	ErrTimeoutNotConfigured = errors.New("game: timeout not configured")
	ErrTimeoutNotApplicable = errors.New("game: timeout not applicable in this phase")
	ErrTickTooSoon          = errors.New("game: tick_timeout called too soon")

	// Seed.
	ErrWeakSeedEntropy = errors.New("game: seed hash fails entropy floor")
)
