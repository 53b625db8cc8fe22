// Package restore reopens the wizard that was in flight when the process last stopped.
package restore

import (
	"context"
	"sync"

	"github.com/mohitkumar/txwizard/flow"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/persistence"
	"github.com/mohitkumar/txwizard/wizard"
	"go.uber.org/zap"
)

// Host shows a restored flow.
type Host interface {
	Show(session flow.Session)
}

type Restorer struct {
	store   persistence.FlowStateStore
	catalog flow.Catalog
	env     wizard.Env
	host    Host
	once    sync.Once
}

func NewRestorer(store persistence.FlowStateStore, catalog flow.Catalog, env wizard.Env, host Host) *Restorer {
	return &Restorer{
		store:   store,
		catalog: catalog,
		env:     env,
		host:    host,
	}
}

// Restore runs at most once per Restorer. Failures never reach the caller: they are
// logged and the saved state is dropped.
func (r *Restorer) Restore(ctx context.Context) {
	r.once.Do(func() {
		r.restore(ctx)
	})
}

func (r *Restorer) restore(ctx context.Context) {
	state, err := r.store.Load(ctx)
	if err != nil {
		logger.Warn("could not read saved flow state", zap.Error(err))
		r.clear(ctx)
		return
	}
	if state == nil {
		return
	}
	kind, err := flow.ParseKind(state.FlowType)
	if err != nil {
		logger.Warn("saved flow state has unknown flow type", zap.String("flowType", state.FlowType), zap.Error(err))
		r.clear(ctx)
		return
	}
	session, err := r.catalog.Load(ctx, kind, r.env)
	if err != nil {
		logger.Warn("could not load saved flow", zap.String("flowType", state.FlowType), zap.Error(err))
		r.clear(ctx)
		return
	}
	logger.Info("restoring flow", zap.String("flowType", state.FlowType), zap.Int("step", state.Step))
	r.host.Show(session)
}

func (r *Restorer) clear(ctx context.Context) {
	if err := r.store.Clear(ctx); err != nil {
		logger.Error("error clearing flow state", zap.Error(err))
	}
}
