package rest

import (
	"encoding/json"
	"net/http"

	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"go.uber.org/zap"
)

func (s *Server) HandleGetFlowState(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondWithError(w, http.StatusNotFound, "no flow state store")
		return
	}
	state, err := s.store.Load(r.Context())
	if err != nil {
		logger.Error("error loading flow state", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error loading flow state")
		return
	}
	if state == nil {
		respondWithError(w, http.StatusNotFound, "no saved flow state")
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

func (s *Server) HandleGetIdentity(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.identity.Identity())
}

// HandleSetIdentity switches the connected wallet or safe. A different safe or chain
// resets the open wizard's draft on its next evaluation.
func (s *Server) HandleSetIdentity(w http.ResponseWriter, r *http.Request) {
	var id model.Identity
	if err := json.NewDecoder(r.Body).Decode(&id); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid identity")
		return
	}
	defer r.Body.Close()
	s.identity.Set(id)
	respondWithJSON(w, http.StatusOK, id)
}
