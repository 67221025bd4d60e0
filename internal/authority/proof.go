package authority

import (
	"crypto/ed25519"
	"errors"
	"fmt"
)

type ProofKind string

const (
	ProofSignature ProofKind = "signature"
	ProofDerived   ProofKind = "derived"
)

var (
	ErrInvalidProof     = errors.New("invalid proof")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrProofMismatch    = errors.New("proof does not authorise the source account owner")
	ErrIntentMismatch   = errors.New("signed intent does not match the transfer")
)

// Proof is the authority attached to a transfer. A signature proof carries an
// ed25519 signature of the signer over message. A derived proof carries the
// seeds, bump and program id from which the authority address is re-derived.
type Proof struct {
	Kind ProofKind `json:"kind"`

	Signer    Identity `json:"signer,omitempty"`
	Message   []byte   `json:"message,omitempty"`
	Signature []byte   `json:"signature,omitempty"`

	ProgramID Identity `json:"program_id,omitempty"`
	Seeds     [][]byte `json:"seeds,omitempty"`
	Bump      uint8    `json:"bump,omitempty"`
}

func SignatureProof(signer Identity, message, signature []byte) Proof {
	return Proof{
		Kind:      ProofSignature,
		Signer:    signer,
		Message:   message,
		Signature: signature,
	}
}

func DerivedProof(programID Identity, bump uint8, seeds ...[]byte) Proof {
	return Proof{
		Kind:      ProofDerived,
		ProgramID: programID,
		Seeds:     seeds,
		Bump:      bump,
	}
}

// Verify returns nil when the proof authorises acting as owner.
func (p Proof) Verify(owner Identity) error {
	switch p.Kind {
	case ProofSignature:
		if p.Signer != owner {
			return fmt.Errorf("%w: signer %s, owner %s", ErrProofMismatch, p.Signer, owner)
		}
		return VerifySignature(p.Signer, p.Message, p.Signature)
	case ProofDerived:
		seeds := make([][]byte, 0, len(p.Seeds)+1)
		seeds = append(seeds, p.Seeds...)
		seeds = append(seeds, []byte{p.Bump})

		addr, err := CreateProgramAddress(p.ProgramID, seeds...)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProof, err)
		}
		if addr != owner {
			return fmt.Errorf("%w: derived %s, owner %s", ErrProofMismatch, addr, owner)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidProof, p.Kind)
	}
}

// VerifyTransfer returns nil when the proof authorises moving amount of asset
// out of an account of owner into to. A signature proof must be a signed
// deposit intent of owner naming exactly that asset, amount and vault. A
// derived proof is checked like Verify.
func (p Proof) VerifyTransfer(owner, asset, to Identity, amount uint64) error {
	if err := p.Verify(owner); err != nil {
		return err
	}
	if p.Kind != ProofSignature {
		return nil
	}

	intent, err := ParseIntent(p.Message)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}
	switch {
	case intent.Operation != OpDeposit:
		return fmt.Errorf("%w: signed for %q", ErrIntentMismatch, intent.Operation)
	case intent.Caller != owner:
		return fmt.Errorf("%w: signed by %s, source owner %s", ErrIntentMismatch, intent.Caller, owner)
	case intent.AssetID != asset:
		return fmt.Errorf("%w: signed for asset %s, transfer of %s", ErrIntentMismatch, intent.AssetID, asset)
	case intent.Amount != amount:
		return fmt.Errorf("%w: signed for %d, transfer of %d", ErrIntentMismatch, intent.Amount, amount)
	case intent.Vault != to:
		return fmt.Errorf("%w: signed for vault %s, transfer to %s", ErrIntentMismatch, intent.Vault, to)
	}

	return nil
}

func VerifySignature(signer Identity, message, signature []byte) error {
	pub := signer.Bytes()
	if pub == nil {
		return fmt.Errorf("%w: signer %q", ErrInvalidIdentity, signer)
	}
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, ed25519.SignatureSize, len(signature))
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), message, signature) {
		return ErrInvalidSignature
	}
	return nil
}
