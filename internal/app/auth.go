package app

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"cangkulan/arbiter/internal/codec"
	"cangkulan/arbiter/internal/state"
)

const txAuthDomainV0 = "cangkulan/arbiter/tx/v0"

// txAuthSignBytesV0 builds the domain-separated message every signed
// transaction envelope is checked against: domain, type, nonce, and
// signer, each zero-terminated, followed by sha256 of the value.
func txAuthSignBytesV0(typ string, value []byte, nonce string, signer string) []byte {
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(txAuthDomainV0)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, []byte(txAuthDomainV0)...)
	out = append(out, 0)
	out = append(out, []byte(typ)...)
	out = append(out, 0)
	out = append(out, []byte(nonce)...)
	out = append(out, 0)
	out = append(out, []byte(signer)...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

func requireSignedEnvelope(env codec.TxEnvelope) error {
	if env.Nonce == "" {
		return fmt.Errorf("missing tx.nonce")
	}
	if env.Signer == "" {
		return fmt.Errorf("missing tx.signer")
	}
	if len(env.Sig) == 0 {
		return fmt.Errorf("missing tx.sig")
	}
	if len(env.Sig) != ed25519.SignatureSize {
		return fmt.Errorf("invalid tx.sig length: got %d want %d", len(env.Sig), ed25519.SignatureSize)
	}
	return nil
}

func requireRegisterAccountAuth(env codec.TxEnvelope, msg codec.AuthRegisterAccountTx) error {
	if msg.Account == "" {
		return fmt.Errorf("missing account")
	}
	if len(msg.PubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("pubKey must be %d bytes", ed25519.PublicKeySize)
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != msg.Account {
		return fmt.Errorf("tx signer mismatch: signer=%q want=%q", env.Signer, msg.Account)
	}
	pub := ed25519.PublicKey(msg.PubKey)
	msgBytes := txAuthSignBytesV0(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(pub, msgBytes, env.Sig) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

// requireAccountAuth checks that env is validly signed by account, per
// its previously registered pubkey, and replay-guards on a strictly
// increasing nonce.
func requireAccountAuth(st *state.State, env codec.TxEnvelope, account string) error {
	if st == nil {
		return fmt.Errorf("state is nil")
	}
	if account == "" {
		return fmt.Errorf("missing account")
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != account {
		return fmt.Errorf("tx signer mismatch: signer=%q want=%q", env.Signer, account)
	}
	pub := st.AccountKeys[account]
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("account %q missing pubKey (auth/register_account required)", account)
	}
	msg := txAuthSignBytesV0(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(ed25519.PublicKey(pub), msg, env.Sig) {
		return fmt.Errorf("invalid signature")
	}
	return checkAndBumpNonce(st, account, env.Nonce)
}

func checkAndBumpNonce(st *state.State, signer string, nonceStr string) error {
	var nonce uint64
	if _, err := fmt.Sscan(nonceStr, &nonce); err != nil {
		return fmt.Errorf("invalid tx.nonce: %q", nonceStr)
	}
	if nonce <= st.NonceMax[signer] {
		return fmt.Errorf("replayed or stale nonce: got %d, have %d", nonce, st.NonceMax[signer])
	}
	st.NonceMax[signer] = nonce
	return nil
}

// requireAdminAuth checks env is signed by the currently configured
// instance admin.
func requireAdminAuth(st *state.State, env codec.TxEnvelope) error {
	if st.Config.Admin == "" {
		return fmt.Errorf("admin not configured")
	}
	return requireAccountAuth(st, env, st.Config.Admin)
}
