// Package draft owns the pending transaction built from wizard step data.
//
// Every rebuild is tagged with a generation. A result is applied only while its
// generation is still the latest one, so a slow stale build can never overwrite a
// fresh one. Switching safe or chain resets the draft and invalidates every
// in-flight build.
package draft

import (
	"context"
	"sync"

	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"go.uber.org/zap"
)

type BuildFunc func(ctx context.Context) (*model.SafeTxDraft, error)

type Provider struct {
	draft      *model.SafeTxDraft
	err        error
	generation uint64
	identity   model.Identity
	cancel     context.CancelFunc
	mu         sync.Mutex
}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Draft() *model.SafeTxDraft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

func (p *Provider) Error() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Provider) SetDraft(d *model.SafeTxDraft) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.draft = d
	p.err = nil
}

// SetIdentity resets all draft state when the safe or chain differs from the last one seen.
// It reports whether a reset happened.
func (p *Provider) SetIdentity(id model.Identity) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.identity.SameSafe(id) {
		return false
	}
	first := p.identity.SameSafe(model.Identity{})
	p.identity = id
	if first {
		return false
	}
	p.resetLocked()
	logger.Info("safe or chain changed, draft reset", zap.String("chainId", id.ChainID), zap.String("safe", id.SafeAddress.Hex()))
	return true
}

func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Provider) resetLocked() {
	p.generation++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.draft = nil
	p.err = nil
}

// Rebuild runs build and applies its result if no newer rebuild or reset happened in the
// meantime. A draft that already carries signatures is frozen and never rebuilt.
func (p *Provider) Rebuild(ctx context.Context, build BuildFunc) bool {
	gen, bctx, cancel, ok := p.begin(ctx)
	if !ok {
		return false
	}
	d, err := build(bctx)
	return p.finish(gen, cancel, d, err)
}

// RebuildAsync claims its generation before returning and builds on its own goroutine,
// so of two calls made in sequence the second always wins. The channel yields whether
// the result was applied.
func (p *Provider) RebuildAsync(ctx context.Context, build BuildFunc) <-chan bool {
	done := make(chan bool, 1)
	gen, bctx, cancel, ok := p.begin(ctx)
	if !ok {
		done <- false
		return done
	}
	go func() {
		d, err := build(bctx)
		done <- p.finish(gen, cancel, d, err)
	}()
	return done
}

func (p *Provider) begin(ctx context.Context) (uint64, context.Context, context.CancelFunc, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draft.HasSignatures() {
		return 0, nil, nil, false
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.generation++
	bctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	return p.generation, bctx, cancel, true
}

func (p *Provider) finish(gen uint64, cancel context.CancelFunc, d *model.SafeTxDraft, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	cancel()
	if gen != p.generation {
		logger.Debug("dropping stale draft build", zap.Uint64("generation", gen), zap.Uint64("latest", p.generation))
		return false
	}
	p.cancel = nil
	if err != nil {
		logger.Warn("error building draft", zap.Error(err))
		p.draft = nil
		p.err = err
		return true
	}
	p.draft = d
	p.err = nil
	return true
}
