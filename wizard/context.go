// Package wizard binds step sequencing, execution facts and submission bookkeeping
// into the single object every step and participant reads from.
package wizard

import (
	"sync"

	"github.com/mohitkumar/txwizard/analytics"
	"github.com/mohitkumar/txwizard/draft"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/resolver"
	"github.com/mohitkumar/txwizard/slot"
	"github.com/mohitkumar/txwizard/util"
	"github.com/mohitkumar/txwizard/wallet"
	"go.uber.org/zap"
)

type SubmitFunc func(txId string)

// Stepper is the read side of a sequencer plus retreat, independent of the data type.
type Stepper interface {
	FlowID() string
	StepIndex() int
	TotalSteps() int
	Progress() int
	TxID() string
	TxNonce() *uint64
	Retreat()
}

type TrackOpts struct {
	Executed         bool
	RoleExecution    bool
	ProposerCreation bool
}

type Props struct {
	FlowID      string
	TotalSteps  int
	Layout      model.TxLayoutProps
	TxID        string
	TxNonce     *uint64
	OnlyExecute bool
	Origin      string
}

type Context struct {
	env            Env
	stepper        Stepper
	slots          *slot.Registry
	drafts         *draft.Provider
	layoutDefaults model.TxLayoutProps
	layoutOverride model.TxLayoutProps
	layoutData     func() any
	onlyExecute    bool
	origin         string
	isSubmittable  bool
	shouldExecute  bool
	isRejected     bool
	submitError    error
	onReset        func()
	mu             sync.Mutex
}

func NewContext(env Env, stepper Stepper, props Props) *Context {
	wc := &Context{
		env:            env,
		stepper:        stepper,
		slots:          slot.NewRegistry(),
		drafts:         draft.NewProvider(),
		layoutDefaults: props.Layout,
		onlyExecute:    props.OnlyExecute,
		origin:         props.Origin,
		isSubmittable:  true,
		shouldExecute:  env.DefaultExecute,
	}
	if env.Identity != nil {
		id := env.Identity.Identity()
		wc.drafts.SetIdentity(id)
	}
	return wc
}

func (wc *Context) Slots() *slot.Registry {
	return wc.slots
}

func (wc *Context) Drafts() *draft.Provider {
	return wc.drafts
}

func (wc *Context) Wallet() wallet.Actions {
	return wc.env.Wallet
}

func (wc *Context) FlowID() string {
	return wc.stepper.FlowID()
}

func (wc *Context) StepIndex() int {
	return wc.stepper.StepIndex()
}

func (wc *Context) TotalSteps() int {
	return wc.stepper.TotalSteps()
}

func (wc *Context) Progress() int {
	return wc.stepper.Progress()
}

func (wc *Context) TxID() string {
	return wc.stepper.TxID()
}

func (wc *Context) TxNonce() *uint64 {
	return wc.stepper.TxNonce()
}

func (wc *Context) IsCreation() bool {
	return wc.stepper.TxID() == ""
}

func (wc *Context) OnlyExecute() bool {
	return wc.onlyExecute
}

func (wc *Context) Origin() string {
	return wc.origin
}

// Identity reads the current identity and resets the draft when the safe or chain moved.
func (wc *Context) Identity() model.Identity {
	if wc.env.Identity == nil {
		return model.Identity{}
	}
	id := wc.env.Identity.Identity()
	if wc.drafts.SetIdentity(id) {
		wc.mu.Lock()
		onReset := wc.onReset
		wc.mu.Unlock()
		if onReset != nil {
			onReset()
		}
	}
	return id
}

// TxLayoutProps are the flow defaults with any runtime overrides applied and
// {$.path} templates resolved against the current step data.
func (wc *Context) TxLayoutProps() model.TxLayoutProps {
	wc.mu.Lock()
	props := wc.layoutDefaults.Merge(wc.layoutOverride)
	dataFn := wc.layoutData
	wc.mu.Unlock()
	if dataFn == nil {
		return props
	}
	data, err := util.ToDataMap(dataFn())
	if err != nil {
		logger.Debug("layout data is not an object", zap.Error(err))
		return props
	}
	props.Title = util.ResolveTemplate(props.Title, data)
	props.Subtitle = util.ResolveTemplate(props.Subtitle, data)
	props.TxSummary = util.ResolveTemplate(props.TxSummary, data)
	return props
}

func (wc *Context) UpdateTxLayoutProps(props model.TxLayoutProps) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.layoutOverride = wc.layoutOverride.Merge(props)
}

func (wc *Context) IsSubmittable() bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return wc.isSubmittable
}

func (wc *Context) SetSubmittable(submittable bool) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.isSubmittable = submittable
}

func (wc *Context) ShouldExecute() bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return wc.shouldExecute
}

func (wc *Context) SetShouldExecute(execute bool) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.shouldExecute = execute
}

func (wc *Context) IsRejectedByUser() bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return wc.isRejected
}

func (wc *Context) SubmitError() error {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return wc.submitError
}

func (wc *Context) SubmitState() model.SubmitState {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	switch {
	case wc.isRejected:
		return model.SUBMIT_REJECTED
	case wc.submitError != nil:
		return model.SUBMIT_FAILED
	case !wc.isSubmittable:
		return model.SUBMIT_PENDING
	}
	return model.SUBMIT_IDLE
}

// BeginSubmit clears previous submission errors and locks the form. It returns false
// when the wizard is not submittable, e.g. while another submission is in flight.
func (wc *Context) BeginSubmit() bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if !wc.isSubmittable {
		return false
	}
	wc.isSubmittable = false
	wc.isRejected = false
	wc.submitError = nil
	return true
}

// FailSubmit records a failed submission and re-arms the form so the user can retry.
func (wc *Context) FailSubmit(err error) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.isSubmittable = true
	if wallet.IsRejection(err) {
		wc.isRejected = true
		wc.submitError = nil
		logger.Info("submission rejected in wallet", zap.String("flow", wc.stepper.FlowID()))
		return
	}
	wc.isRejected = false
	wc.submitError = err
	logger.Error("error submitting transaction", zap.String("flow", wc.stepper.FlowID()), zap.Error(err))
}

func (wc *Context) ExecutionFacts() resolver.Facts {
	id := wc.Identity()
	d := wc.drafts.Draft()
	isCreation := wc.IsCreation()
	wc.mu.Lock()
	shouldExecute := wc.shouldExecute
	wc.mu.Unlock()
	return resolver.Facts{
		IsCounterfactualSafe:    id.IsCounterfactualSafe,
		IsSafeOwner:             id.IsSafeOwner,
		IsWalletProposer:        id.IsWalletProposer,
		IsCreation:              isCreation,
		IsCorrectNonce:          d != nil && d.Nonce == id.SafeNonce,
		IsExecutableAlready:     resolver.IsExecutableAlready(d.SignatureCount(), id.Threshold, isCreation),
		IsImmediatelyExecutable: resolver.IsImmediatelyExecutable(id.Threshold, isCreation),
		AllowingRole:            id.AllowingRole,
		MostLikelyRole:          id.MostLikelyRole,
		UserWantsExecute:        shouldExecute,
		OnlyExecute:             wc.onlyExecute,
		HasDraft:                d != nil,
	}
}

func (wc *Context) Decision() resolver.Decision {
	return resolver.Evaluate(wc.ExecutionFacts())
}

func (wc *Context) ExecutionMethod() model.ExecutionMethod {
	return wc.Decision().Method
}

// TrackTxEvent hands the submission to the background tracker and returns immediately.
func (wc *Context) TrackTxEvent(txId string, opts TrackOpts) {
	if wc.env.Tracker == nil {
		return
	}
	id := wc.Identity()
	wc.env.Tracker.Enqueue(analytics.TrackRequest{
		TxID:               txId,
		IsCreation:         wc.IsCreation(),
		Executed:           opts.Executed,
		RoleExecution:      opts.RoleExecution,
		ProposerCreation:   opts.ProposerCreation,
		ParentSigner:       id.IsParentSigner,
		NestedConfirmation: id.IsNestedConfirmation,
	})
}

func (wc *Context) TrackEvent(event analytics.Event) {
	if wc.env.Collector == nil {
		return
	}
	wc.env.Collector.TrackEvent(event)
}

func (wc *Context) Retreat() {
	wc.stepper.Retreat()
}
