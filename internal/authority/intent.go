package authority

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"
)

type Operation string

const (
	OpInitialize  Operation = "initialize"
	OpUpdateOwner Operation = "update_owner"
	OpDeposit     Operation = "deposit"
	OpWithdraw    Operation = "withdraw"
)

const intentDomain = "token-vault-ledger/v1"

var ErrMalformedIntent = errors.New("malformed intent")

// Intent is the request a caller signs. Fields not used by an operation are
// left empty and still take part in the encoding. Vault names the vault token
// account a deposit is paid into. Nonce tells apart otherwise equal intents,
// since a signature is accepted once.
type Intent struct {
	Operation Operation
	Caller    Identity
	AssetID   Identity
	Amount    uint64
	NewOwner  Identity
	Vault     Identity
	Nonce     uint64
	ExpiresAt int64
}

// SignBytes returns the canonical length-prefixed encoding of the intent.
func (i Intent) SignBytes() []byte {
	var buf bytes.Buffer

	writeField := func(b []byte) {
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(b)))
		buf.Write(size[:])
		buf.Write(b)
	}
	writeUint := func(v uint64) {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], v)
		buf.Write(b[:])
	}

	writeField([]byte(intentDomain))
	writeField([]byte(i.Operation))
	writeField([]byte(i.Caller))
	writeField([]byte(i.AssetID))
	writeUint(i.Amount)
	writeField([]byte(i.NewOwner))
	writeField([]byte(i.Vault))
	writeUint(i.Nonce)
	writeUint(uint64(i.ExpiresAt))

	return buf.Bytes()
}

// ParseIntent decodes the output of SignBytes.
func ParseIntent(b []byte) (Intent, error) {
	var err error

	readField := func() string {
		if err != nil {
			return ""
		}
		if len(b) < 4 {
			err = fmt.Errorf("%w: truncated field size", ErrMalformedIntent)
			return ""
		}
		size := binary.BigEndian.Uint32(b)
		b = b[4:]
		if uint64(len(b)) < uint64(size) {
			err = fmt.Errorf("%w: field of %d bytes exceeds the remaining %d", ErrMalformedIntent, size, len(b))
			return ""
		}
		field := string(b[:size])
		b = b[size:]
		return field
	}
	readUint := func() uint64 {
		if err != nil {
			return 0
		}
		if len(b) < 8 {
			err = fmt.Errorf("%w: truncated integer", ErrMalformedIntent)
			return 0
		}
		v := binary.BigEndian.Uint64(b)
		b = b[8:]
		return v
	}

	domain := readField()
	intent := Intent{
		Operation: Operation(readField()),
		Caller:    Identity(readField()),
		AssetID:   Identity(readField()),
		Amount:    readUint(),
		NewOwner:  Identity(readField()),
		Vault:     Identity(readField()),
		Nonce:     readUint(),
		ExpiresAt: int64(readUint()),
	}
	if err != nil {
		return Intent{}, err
	}
	if domain != intentDomain {
		return Intent{}, fmt.Errorf("%w: unknown domain %q", ErrMalformedIntent, domain)
	}
	if len(b) != 0 {
		return Intent{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformedIntent, len(b))
	}

	return intent, nil
}

func (i Intent) Sign(key ed25519.PrivateKey) []byte {
	return ed25519.Sign(key, i.SignBytes())
}

// Proof wraps a signature over the intent as a transfer proof of the caller.
func (i Intent) Proof(signature []byte) Proof {
	return SignatureProof(i.Caller, i.SignBytes(), signature)
}
