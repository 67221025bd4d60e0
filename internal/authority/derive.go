package authority

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32

	programAddressMarker = "ProgramDerivedAddress"
)

var (
	ErrInvalidSeeds   = errors.New("invalid seeds")
	ErrOnCurve        = errors.New("derived address lies on the ed25519 curve")
	ErrNoViableBump   = errors.New("unable to find a viable bump seed")
	ErrInvalidProgram = errors.New("invalid program id")
)

// Seeds of the addresses owned by the vault program.
var (
	GlobalStateSeed = []byte("GLOBAL-STATE-SEED")
	VaultSeed       = []byte("VAULT-SEED")
)

// CreateProgramAddress derives an address from the program id and the seeds.
// The result is rejected when it is a valid curve point, since a private key
// could then exist for it.
func CreateProgramAddress(programID Identity, seeds ...[]byte) (Identity, error) {
	programBytes := programID.Bytes()
	if programBytes == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidProgram, programID)
	}
	if len(seeds) > MaxSeeds {
		return "", fmt.Errorf("%w: at most %d seeds allowed, got %d", ErrInvalidSeeds, MaxSeeds, len(seeds))
	}

	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return "", fmt.Errorf("%w: seed %d is %d bytes long", ErrInvalidSeeds, i, len(seed))
		}
		h.Write(seed)
	}
	h.Write(programBytes)
	h.Write([]byte(programAddressMarker))
	digest := h.Sum(nil)

	if isOnCurve(digest) {
		return "", ErrOnCurve
	}

	return NewIdentity(digest)
}

// FindProgramAddress searches bump seeds from 255 downwards and returns the
// first off-curve address together with the bump that produced it.
func FindProgramAddress(programID Identity, seeds ...[]byte) (Identity, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(programID, withBump...)
		if errors.Is(err, ErrOnCurve) {
			continue
		}
		if err != nil {
			return "", 0, err
		}
		return addr, uint8(bump), nil
	}

	return "", 0, ErrNoViableBump
}

// VaultAuthority is the signing identity that holds custody of the vault.
func VaultAuthority(programID Identity) (Identity, uint8, error) {
	return FindProgramAddress(programID, GlobalStateSeed)
}

// VaultAccount is the token account that pools every deposit of the asset.
func VaultAccount(programID, assetID Identity) (Identity, uint8, error) {
	assetBytes := assetID.Bytes()
	if assetBytes == nil {
		return "", 0, fmt.Errorf("%w: asset %q", ErrInvalidIdentity, assetID)
	}
	return FindProgramAddress(programID, VaultSeed, assetBytes)
}

// AssociatedAccount is the personal token account of owner for the asset.
func AssociatedAccount(tokenProgramID, owner, assetID Identity) (Identity, error) {
	ownerBytes := owner.Bytes()
	if ownerBytes == nil {
		return "", fmt.Errorf("%w: owner %q", ErrInvalidIdentity, owner)
	}
	assetBytes := assetID.Bytes()
	if assetBytes == nil {
		return "", fmt.Errorf("%w: asset %q", ErrInvalidIdentity, assetID)
	}
	addr, _, err := FindProgramAddress(tokenProgramID, ownerBytes, assetBytes)
	return addr, err
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
