package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
)

// signedRequest is the body of every mutation. Signature is the base64
// ed25519 signature of the caller over the intent built from the other fields.
// A deposit names the vault account it pays into.
type signedRequest struct {
	Caller    string `json:"caller"`
	AssetID   string `json:"asset_id,omitempty"`
	Amount    uint64 `json:"amount,omitempty"`
	NewOwner  string `json:"new_owner,omitempty"`
	Vault     string `json:"vault,omitempty"`
	Nonce     uint64 `json:"nonce,omitempty"`
	ExpiresAt int64  `json:"expires_at"`
	Signature string `json:"signature"`
}

func (req *signedRequest) intent(op authority.Operation) authority.Intent {
	return authority.Intent{
		Operation: op,
		Caller:    authority.Identity(req.Caller),
		AssetID:   authority.Identity(req.AssetID),
		Amount:    req.Amount,
		NewOwner:  authority.Identity(req.NewOwner),
		Vault:     authority.Identity(req.Vault),
		Nonce:     req.Nonce,
		ExpiresAt: req.ExpiresAt,
	}
}

func decodeSignedRequest(w http.ResponseWriter, r *http.Request) (*signedRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req signedRequest
	if err := decoder.Decode(&req); err != nil {
		return nil, types.NewError(http.StatusBadRequest, types.BadRequest, fmt.Errorf("invalid request body: %w", err))
	}
	return &req, nil
}

// authenticate checks that the caller signed the intent of op and that the
// signature is neither expired nor valid for longer than the configured ttl.
// A signature is accepted once. It returns the verified intent and its
// signature.
func (s *Server) authenticate(req *signedRequest, op authority.Operation) (authority.Intent, []byte, error) {
	caller, err := authority.ParseIdentity(req.Caller)
	if err != nil {
		return authority.Intent{}, nil, types.NewError(http.StatusBadRequest, types.ValidationError, fmt.Errorf("invalid caller: %w", err))
	}

	now := s.now()
	expiresAt := time.Unix(req.ExpiresAt, 0)
	if !expiresAt.After(now) {
		return authority.Intent{}, nil, types.NewErrorWithMsg(http.StatusUnauthorized, types.Unauthorized, "request signature expired")
	}
	if expiresAt.Sub(now) > s.cfg.Server.MaxSignatureTTL {
		return authority.Intent{}, nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.ValidationError,
			fmt.Sprintf("expires_at must be within %s", s.cfg.Server.MaxSignatureTTL),
		)
	}

	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		return authority.Intent{}, nil, types.NewError(http.StatusBadRequest, types.ValidationError, fmt.Errorf("invalid signature encoding: %w", err))
	}

	intent := req.intent(op)
	intent.Caller = caller
	if err := authority.VerifySignature(caller, intent.SignBytes(), signature); err != nil {
		return authority.Intent{}, nil, types.NewError(http.StatusUnauthorized, types.Unauthorized, err)
	}
	if !s.signatures.claim(signature) {
		return authority.Intent{}, nil, types.NewErrorWithMsg(http.StatusUnauthorized, types.Unauthorized, "request signature already used")
	}

	return intent, signature, nil
}
