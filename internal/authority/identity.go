// Package authority defines the identities used by the vault ledger and the
// credentials that authorise moving funds on their behalf: direct ed25519
// signatures for user-held accounts and program-derived addresses for accounts
// whose custody belongs to the ledger itself.
package authority

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// IdentityLength is the size in bytes of a decoded identity.
const IdentityLength = 32

var ErrInvalidIdentity = errors.New("invalid identity")

// Identity is the base58 encoding of a 32 byte public key or derived address.
type Identity string

// NewIdentity encodes raw identity bytes.
func NewIdentity(b []byte) (Identity, error) {
	if len(b) != IdentityLength {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIdentity, IdentityLength, len(b))
	}
	return Identity(base58.Encode(b)), nil
}

// ParseIdentity validates a base58 encoded identity.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidIdentity)
	}
	decoded := base58.Decode(s)
	if len(decoded) != IdentityLength {
		return "", fmt.Errorf("%w: %q does not decode to %d bytes", ErrInvalidIdentity, s, IdentityLength)
	}
	// re-encode so that equal keys always compare equal as strings
	return Identity(base58.Encode(decoded)), nil
}

// IdentityFromPublicKey returns the identity of an ed25519 public key.
func IdentityFromPublicKey(pub ed25519.PublicKey) Identity {
	return Identity(base58.Encode(pub))
}

// GenerateKey creates a new ed25519 key pair and returns its identity.
// A nil reader uses crypto/rand.
func GenerateKey(rand io.Reader) (Identity, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return "", nil, err
	}
	return IdentityFromPublicKey(pub), priv, nil
}

// Bytes returns the decoded identity, or nil when it is not a valid identity.
func (id Identity) Bytes() []byte {
	decoded := base58.Decode(string(id))
	if len(decoded) != IdentityLength {
		return nil
	}
	return decoded
}

func (id Identity) String() string {
	return string(id)
}

func (id Identity) IsZero() bool {
	return id == ""
}

func (id Identity) Validate() error {
	_, err := ParseIdentity(string(id))
	return err
}
