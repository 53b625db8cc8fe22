package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/mohitkumar/txwizard/flow"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/persistence"
	"github.com/mohitkumar/txwizard/restore"
	"github.com/mohitkumar/txwizard/wizard"
	"go.uber.org/zap"
)

var _ restore.Host = new(Server)

// Server drives the single open wizard of this process over http.
type Server struct {
	http.Server
	Port     int
	catalog  flow.Catalog
	env      wizard.Env
	store    persistence.FlowStateStore
	identity *wizard.MutableIdentity
	session  flow.Session
	lastTxId string
	mu       sync.Mutex
}

func NewServer(httpPort int, catalog flow.Catalog, env wizard.Env, identity *wizard.MutableIdentity) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		catalog:  catalog,
		env:      env,
		store:    env.Store,
		identity: identity,
		Port:     httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/wizard", s.HandleGetWizard).Methods(http.MethodGet)
	router.HandleFunc("/wizard", s.HandleCloseWizard).Methods(http.MethodDelete)
	router.HandleFunc("/wizard/advance", s.HandleAdvance).Methods(http.MethodPost)
	router.HandleFunc("/wizard/retreat", s.HandleRetreat).Methods(http.MethodPost)
	router.HandleFunc("/wizard/execute", s.HandleSetExecute).Methods(http.MethodPost)
	router.HandleFunc("/wizard/submit/{action}", s.HandleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/wizard/{flow}", s.HandleOpenWizard).Methods(http.MethodPost)

	router.HandleFunc("/flow/state", s.HandleGetFlowState).Methods(http.MethodGet)
	router.HandleFunc("/identity", s.HandleGetIdentity).Methods(http.MethodGet)
	router.HandleFunc("/identity", s.HandleSetIdentity).Methods(http.MethodPut)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

// Show replaces the open wizard without clearing the state the new one was restored from.
func (s *Server) Show(session flow.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	logger.Info("showing flow", zap.String("flow", string(session.Kind())))
}

func (s *Server) current() flow.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server", zap.Error(err))
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI, zap.String("method", r.Method))
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message map[string]any) {
	respondWithJSON(w, http.StatusOK, message)
}

func respondOKWithoutBody(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
