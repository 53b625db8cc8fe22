package sequencer

import (
	"context"
	"strconv"

	"github.com/mohitkumar/txwizard/logger"
	"github.com/mohitkumar/txwizard/model"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
	"go.uber.org/zap"
)

var (
	MStepTransitions = stats.Int64("txwizard/step_transitions", "Number of wizard step transitions", stats.UnitDimensionless)

	KeyFlow      = tag.MustNewKey("flow")
	KeyDirection = tag.MustNewKey("direction")
	KeyStep      = tag.MustNewKey("step")

	StepTransitionsView = &view.View{
		Name:        "txwizard/step_transitions",
		Description: "Count of wizard step transitions by flow, direction and step left",
		Measure:     MStepTransitions,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{KeyFlow, KeyDirection, KeyStep},
	}
)

func RegisterViews() error {
	return view.Register(StepTransitionsView)
}

func recordTransition(tr model.StepTransition) {
	ctx, err := tag.New(context.Background(),
		tag.Upsert(KeyFlow, tr.FlowId),
		tag.Upsert(KeyDirection, string(tr.Direction)),
		tag.Upsert(KeyStep, strconv.Itoa(tr.Step)),
	)
	if err != nil {
		logger.Error("error tagging step transition", zap.Error(err))
		return
	}
	stats.Record(ctx, MStepTransitions.M(1))
	logger.Debug("wizard step transition", zap.String("flow", tr.FlowId), zap.String("direction", string(tr.Direction)), zap.Int("step", tr.Step))
}
