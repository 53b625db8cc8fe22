package agent

import (
	"context"
	"sync"
	"time"

	"github.com/mohitkumar/txwizard/config"
	"github.com/mohitkumar/txwizard/container"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/rest"
	"github.com/mohitkumar/txwizard/restore"
	"github.com/mohitkumar/txwizard/sequencer"
	"github.com/mohitkumar/txwizard/util"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

type Agent struct {
	Config       config.Config
	container    *container.DIContiner
	httpServer   *rest.Server
	restorer     *restore.Restorer
	sweeper      *util.TickWorker
	wg           sync.WaitGroup
	shutdown     bool
	shutdowns    chan struct{}
	shutdownLock sync.Mutex
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config:    config,
		shutdowns: make(chan struct{}),
	}
	setup := []func() error{
		a.setupContainer,
		a.setupTelemetry,
		a.setupHttpServer,
		a.setupRestorer,
		a.setupSweeper,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupContainer() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	a.container = container.NewDiContainer()
	if err := a.container.Init(a.Config); err != nil {
		return err
	}
	a.container.GetTracker().Start()
	return nil
}

func (a *Agent) setupTelemetry() error {
	return sequencer.RegisterViews()
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.container.GetCatalog(), a.container.Env(), a.container.GetIdentity())
	return err
}

func (a *Agent) setupRestorer() error {
	a.restorer = restore.NewRestorer(a.container.GetFlowStateStore(), a.container.GetCatalog(), a.container.Env(), a.httpServer)
	return nil
}

// setupSweeper evicts stale flow state even when nobody reads it.
func (a *Agent) setupSweeper() error {
	store := a.container.GetFlowStateStore()
	a.sweeper = util.NewTickWorker("flow-state-sweeper", sweepInterval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := store.Load(ctx); err != nil {
			logger.Warn("error sweeping flow state", zap.Error(err))
		}
	}, &a.wg)
	return nil
}

// Start reopens any wizard left open by the previous run, then serves http.
func (a *Agent) Start() error {
	a.restorer.Restore(context.Background())
	a.sweeper.Start()
	go func() {
		if err := a.httpServer.Start(); err != nil {
			logger.Error("http server failed", zap.Error(err))
			_ = a.Shutdown()
		}
	}()
	return nil
}

func (a *Agent) Done() <-chan struct{} {
	return a.shutdowns
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	close(a.shutdowns)

	shutdown := []func() error{
		a.httpServer.Stop,
		func() error {
			a.sweeper.Stop()
			a.wg.Wait()
			return nil
		},
		func() error {
			a.container.GetTracker().Stop()
			return nil
		},
		a.container.Close,
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	_ = logger.Sync()
	return nil
}
