package flow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mohitkumar/txwizard/composer"
	"github.com/mohitkumar/txwizard/util"
	"github.com/mohitkumar/txwizard/view"
	"github.com/mohitkumar/txwizard/wizard"
)

// Session is an open flow as seen by a host that does not know its data type.
type Session interface {
	Kind() Kind
	Context() *wizard.Context
	Render() view.Node
	Advance(raw json.RawMessage) error
	Retreat()
	Data() (json.RawMessage, error)
	Submit(ctx context.Context, actionId string, onSubmit wizard.SubmitFunc) error
	Close(ctx context.Context) error
}

var _ Session = new(StepFlow[any])

// StepFlow drives a typed wizard through a fixed list of composed steps.
type StepFlow[T any] struct {
	kind   Kind
	w      *wizard.Wizard[T]
	steps  []*composer.Step
	encDec util.EncoderDecoder[T]
}

func NewStepFlow[T any](kind Kind, w *wizard.Wizard[T], steps ...*composer.Step) *StepFlow[T] {
	return &StepFlow[T]{
		kind:   kind,
		w:      w,
		steps:  steps,
		encDec: util.NewJsonEncoderDecoder[T](),
	}
}

func (f *StepFlow[T]) Kind() Kind {
	return f.kind
}

func (f *StepFlow[T]) Context() *wizard.Context {
	return f.w.Context
}

func (f *StepFlow[T]) Wizard() *wizard.Wizard[T] {
	return f.w
}

// Render renders the current step inside the layout chrome. Steps that are not
// current withdraw their participants.
func (f *StepFlow[T]) Render() view.Node {
	current := f.w.StepIndex()
	for i, s := range f.steps {
		if i != current {
			s.Unmount()
		}
	}
	var body view.Node
	if current < len(f.steps) {
		body = f.steps[current].Render(f.w.Context)
	} else {
		body = view.Loading()
	}
	layout := f.w.TxLayoutProps()
	return view.New("txLayout", map[string]any{
		"flow":          string(f.kind),
		"title":         layout.Title,
		"subtitle":      layout.Subtitle,
		"icon":          layout.Icon,
		"txSummary":     layout.TxSummary,
		"hideNonce":     layout.HideNonce,
		"isReplacement": layout.IsReplacement,
		"isBatch":       layout.IsBatch,
		"step":          current,
		"totalSteps":    f.w.TotalSteps(),
		"progress":      f.w.Progress(),
	}, body)
}

// Advance moves to the next step. An empty body keeps the current data.
func (f *StepFlow[T]) Advance(raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		f.w.Advance()
		return nil
	}
	data, err := f.encDec.Decode(raw)
	if err != nil {
		return fmt.Errorf("invalid data for %s: %w", f.kind, err)
	}
	f.w.Advance(*data)
	return nil
}

func (f *StepFlow[T]) Retreat() {
	f.w.Retreat()
}

func (f *StepFlow[T]) Data() (json.RawMessage, error) {
	return f.encDec.Encode(f.w.Data())
}

// Submit re-renders first so the offered actions reflect the latest facts.
func (f *StepFlow[T]) Submit(ctx context.Context, actionId string, onSubmit wizard.SubmitFunc) error {
	current := f.w.StepIndex()
	if current >= len(f.steps) {
		return fmt.Errorf("%s: %w", actionId, composer.ErrActionNotAvailable)
	}
	f.Render()
	return f.steps[current].Submit(ctx, f.w.Context, actionId, onSubmit)
}

func (f *StepFlow[T]) Close(ctx context.Context) error {
	for _, s := range f.steps {
		s.Unmount()
	}
	return f.w.Close(ctx)
}
