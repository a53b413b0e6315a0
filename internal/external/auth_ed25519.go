package external

import "fmt"

// Ed25519Auth answers the admin question the read-only query paths
// ask. RequireAdmin compares the caller name with Admin only: it checks
// no signature, and no method reads PubKeys. Envelope signature
// verification lives with the transaction decoder (internal/app).
type Ed25519Auth struct {
	// PubKeys maps a player/admin identity to its registered ed25519
	// public key.
	PubKeys map[string][]byte
	Admin   string
}

// RequireAdmin checks that caller is the configured instance admin.
func (a *Ed25519Auth) RequireAdmin(caller string) error {
	if a.Admin == "" {
		return fmt.Errorf("admin not set")
	}
	if caller != a.Admin {
		return fmt.Errorf("caller %q is not the admin", caller)
	}
	return nil
}
