package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
)

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSignedRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	intent, _, err := s.authenticate(req, authority.OpInitialize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cfg, err := s.svc.Initialize(r.Context(), intent.Caller, intent.AssetID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGlobalConfigResponse(cfg))
}

func (s *Server) handleUpdateOwner(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSignedRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	intent, _, err := s.authenticate(req, authority.OpUpdateOwner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cfg, err := s.svc.UpdateOwner(r.Context(), intent.Caller, intent.NewOwner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGlobalConfigResponse(cfg))
}

// handleDeposit forwards the request signature to the token ledger as the
// caller's authority over the transfer.
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSignedRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	intent, signature, err := s.authenticate(req, authority.OpDeposit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ev, err := s.svc.Deposit(r.Context(), intent.Caller, intent.Amount, intent.AssetID, intent.Proof(signature))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.newVaultEventResponse(ev))
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSignedRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	intent, _, err := s.authenticate(req, authority.OpWithdraw)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ev, err := s.svc.Withdraw(r.Context(), intent.Caller, intent.Amount, intent.AssetID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.newVaultEventResponse(ev))
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.svc.GetGlobalConfig(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGlobalConfigResponse(cfg))
}

func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	user := authority.Identity(chi.URLParam(r, "user"))
	ledger, err := s.svc.GetUserLedger(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.newUserLedgerResponse(ledger))
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.GetVaultStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.newVaultStatsResponse(stats))
}
