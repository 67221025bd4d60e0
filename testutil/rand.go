package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"math/big"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
)

// RandomAlphaNum generates random alphanumeric string
// in case length <= 0 it returns empty string
func RandomAlphaNum(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	randomString := make([]byte, length)
	for i := range randomString {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		randomString[i] = charset[num.Int64()]
	}

	return string(randomString), nil
}

func RandomIdentity(t *testing.T) authority.Identity {
	t.Helper()

	id, _ := RandomKey(t)
	return id
}

func RandomKey(t *testing.T) (authority.Identity, ed25519.PrivateKey) {
	t.Helper()

	id, key, err := authority.GenerateKey(nil)
	require.NoError(t, err)
	return id, key
}

// RandomGlobalConfig returns a config with random identities. The vault
// fields are not derived, use it only where derivation does not matter.
func RandomGlobalConfig(t *testing.T) *model.GlobalConfigDocument {
	t.Helper()

	return model.NewGlobalConfigDocument(
		RandomIdentity(t),
		RandomIdentity(t),
		RandomIdentity(t),
		RandomIdentity(t),
		gofakeit.Uint8(),
		RandomIdentity(t),
		gofakeit.Date().Unix(),
	)
}
