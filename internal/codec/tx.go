package codec

import (
	"encoding/json"
	"fmt"
)

// TxEnvelope is the v0 transaction container.
//
// CometBFT transactions are opaque bytes. For v0 localnet we use JSON-encoded
// txs to move fast; this is NOT the final protocol encoding.
type TxEnvelope struct {
	// Basic routing.
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// v0 tx auth (checked by internal/app for every delivered tx type):
	// - Nonce: included in the signed message for replay protection (must increase per signer).
	// - Signer: registered account name of the signing player or admin.
	// - Sig: Ed25519 signature over (domain, type, nonce, signer, sha256(value)).
	//
	// Note: This is still a scaffold; it is NOT the final protocol encoding.
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// ---- Auth (v0) ----

// v0: account pubkey registration for tx authentication.
type AuthRegisterAccountTx struct {
	Account string `json:"account"`
	PubKey  []byte `json:"pubKey"` // base64 (32 bytes)
}

// ---- Lifecycle ----

type StartTx struct {
	SessionID uint32 `json:"sessionId"`
	GameID    string `json:"gameId"`
	Player1   string `json:"player1"`
	Player2   string `json:"player2"`
	Pts1      uint64 `json:"pts1"`
	Pts2      uint64 `json:"pts2"`
}

type CommitSeedTx struct {
	SessionID  uint32 `json:"sessionId"`
	Player     string `json:"player"`
	CommitHash []byte `json:"commitHash"` // 32 bytes
}

type RevealSeedTx struct {
	SessionID uint32 `json:"sessionId"`
	Player    string `json:"player"`
	SeedHash  []byte `json:"seedHash"` // 32 bytes
	Proof     []byte `json:"proof"`    // empty to consume a cached verify_noir_seed flag
}

type VerifyNoirSeedTx struct {
	SessionID uint32 `json:"sessionId"`
	Player    string `json:"player"`
	SeedHash  []byte `json:"seedHash"`
	Proof     []byte `json:"proof"`
}

// ---- Trick play ----

type CommitPlayTx struct {
	SessionID     uint32 `json:"sessionId"`
	Player        string `json:"player"`
	CommitHash    []byte `json:"commitHash"`
	ExpectedNonce uint64 `json:"expectedNonce"`
}

type CommitPlayZKTx struct {
	SessionID     uint32 `json:"sessionId"`
	Player        string `json:"player"`
	CommitHash    []byte `json:"commitHash"`
	Proof         []byte `json:"proof"`
	ExpectedNonce uint64 `json:"expectedNonce"`
}

type CommitCangkulZKTx struct {
	SessionID     uint32 `json:"sessionId"`
	Player        string `json:"player"`
	CommitHash    []byte `json:"commitHash"`
	Proof         []byte `json:"proof"`
	ExpectedNonce uint64 `json:"expectedNonce"`
}

type RevealPlayTx struct {
	SessionID        uint32 `json:"sessionId"`
	Player           string `json:"player"`
	ActionOrSentinel uint32 `json:"actionOrSentinel"` // card id, or 0xFFFFFFFF
	SaltOrBlinding   []byte `json:"saltOrBlinding"`   // 32 bytes
}

// ---- Timeouts and forfeit ----

type TickTimeoutTx struct {
	SessionID uint32 `json:"sessionId"`
	Caller    string `json:"caller"`
}

type ResolveTimeoutTx struct {
	SessionID uint32 `json:"sessionId"`
	Caller    string `json:"caller"`
}

type ForfeitTx struct {
	SessionID uint32 `json:"sessionId"`
	Caller    string `json:"caller"`
}

// ---- Admin setters ----

type AdminSetHubTx struct {
	Caller string `json:"caller"`
	Hub    string `json:"hub"`
}

type AdminSetVerifierTx struct {
	Caller   string `json:"caller"`
	Verifier string `json:"verifier"`
}

type AdminSetUltraHonkTx struct {
	Caller    string `json:"caller"`
	UltraHonk string `json:"ultraHonk"`
}

type AdminSetAdminTx struct {
	Caller   string `json:"caller"`
	NewAdmin string `json:"newAdmin"`
}

type AdminUpgradeTx struct {
	Caller  string `json:"caller"`
	Version uint32 `json:"version"`
}

// ---- Read-only queries (share the JSON request shape the HTTP
// bridge uses; not themselves transactions). ----

type GetGameQuery struct {
	SessionID uint32 `json:"sessionId"`
}

type GetGameViewQuery struct {
	SessionID uint32 `json:"sessionId"`
	Viewer    string `json:"viewer"`
}

type GetGameDebugQuery struct {
	SessionID uint32 `json:"sessionId"`
	Caller    string `json:"caller"` // must be admin
}

type GetPlayerHistoryQuery struct {
	Player string `json:"player"`
}

type VerifyShuffleQuery struct {
	SessionID uint32 `json:"sessionId"`
}
