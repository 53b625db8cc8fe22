package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mohitkumar/txwizard/action"
	"github.com/mohitkumar/txwizard/composer"
	"github.com/mohitkumar/txwizard/flow"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/wallet"
	"go.uber.org/zap"
)

type executeRequest struct {
	Execute bool `json:"execute"`
}

func (s *Server) HandleOpenWizard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, err := flow.ParseKind(vars["flow"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	if prev := s.current(); prev != nil {
		if err := prev.Close(r.Context()); err != nil {
			logger.Error("error closing previous flow", zap.String("flow", string(prev.Kind())), zap.Error(err))
		}
	} else if s.store != nil {
		if err := s.store.Clear(r.Context()); err != nil {
			logger.Error("error clearing stale flow state", zap.Error(err))
		}
	}
	session, err := s.catalog.Load(r.Context(), kind, s.env)
	if err != nil {
		logger.Error("error opening flow", zap.String("flow", string(kind)), zap.Error(err))
		if errors.Is(err, flow.ErrFlowNotAvailable) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "error opening flow")
		return
	}
	s.Show(session)
	s.respondWithSession(w, session)
}

func (s *Server) HandleGetWizard(w http.ResponseWriter, r *http.Request) {
	session := s.current()
	if session == nil {
		respondWithError(w, http.StatusNotFound, "no open wizard")
		return
	}
	s.respondWithSession(w, session)
}

func (s *Server) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	session := s.current()
	if session == nil {
		respondWithError(w, http.StatusNotFound, "no open wizard")
		return
	}
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "error reading body")
		return
	}
	if err := session.Advance(body); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondWithSession(w, session)
}

func (s *Server) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	session := s.current()
	if session == nil {
		respondWithError(w, http.StatusNotFound, "no open wizard")
		return
	}
	session.Retreat()
	s.respondWithSession(w, session)
}

func (s *Server) HandleSetExecute(w http.ResponseWriter, r *http.Request) {
	session := s.current()
	if session == nil {
		respondWithError(w, http.StatusNotFound, "no open wizard")
		return
	}
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid body")
		return
	}
	defer r.Body.Close()
	session.Context().SetShouldExecute(req.Execute)
	s.respondWithSession(w, session)
}

// HandleSubmit runs the requested action. A successful submission closes the wizard.
func (s *Server) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	session := s.current()
	if session == nil {
		respondWithError(w, http.StatusNotFound, "no open wizard")
		return
	}
	actionId := mux.Vars(r)["action"]
	txId := ""
	submitted := false
	err := session.Submit(r.Context(), actionId, func(id string) {
		txId = id
		submitted = true
	})
	switch {
	case err == nil:
	case errors.Is(err, composer.ErrActionNotAvailable), errors.Is(err, action.ErrDraftNotReady), errors.Is(err, action.ErrNotSubmittable):
		respondWithError(w, http.StatusConflict, err.Error())
		return
	case wallet.IsRejection(err):
		respondWithJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "rejected": true})
		return
	default:
		respondWithError(w, http.StatusBadGateway, "error submitting transaction")
		return
	}
	if submitted {
		s.mu.Lock()
		s.lastTxId = txId
		if s.session == session {
			s.session = nil
		}
		s.mu.Unlock()
		if err := session.Close(r.Context()); err != nil {
			logger.Error("error closing submitted flow", zap.Error(err))
		}
	}
	respondOK(w, map[string]any{"txId": txId, "submitted": submitted})
}

func (s *Server) HandleCloseWizard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()
	if session == nil {
		respondOKWithoutBody(w)
		return
	}
	if err := session.Close(r.Context()); err != nil {
		respondWithError(w, http.StatusInternalServerError, "error closing wizard")
		return
	}
	respondOKWithoutBody(w)
}

func (s *Server) respondWithSession(w http.ResponseWriter, session flow.Session) {
	data, err := session.Data()
	if err != nil {
		logger.Error("error encoding flow data", zap.String("flow", string(session.Kind())), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error encoding flow data")
		return
	}
	wc := session.Context()
	respondOK(w, map[string]any{
		"flow":            session.Kind(),
		"step":            wc.StepIndex(),
		"progress":        wc.Progress(),
		"data":            data,
		"executionMethod": wc.ExecutionMethod(),
		"submitState":     wc.SubmitState(),
		"view":            session.Render(),
	})
}
