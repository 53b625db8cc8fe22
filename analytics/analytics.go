package analytics

import "github.com/mohitkumar/txwizard/logger"

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"
const LOGGER_DATA_COLLECTOR DataCollectorType = "LOGGER_DATA_COLLECTOR"
const NOOP_DATA_COLLECTOR DataCollectorType = "NOOP_DATA_COLLECTOR"

const TX_CATEGORY = "transactions"
const BATCH_CATEGORY = "batching"

type Event struct {
	Action   string `json:"action"`
	Category string `json:"category"`
	Label    string `json:"label,omitempty"`
}

// Collector is the analytics sink. Implementations must not block the caller for long.
type Collector interface {
	TrackEvent(event Event)
}

func NewDataCollector(config DataCollectorConfig) (Collector, error) {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		return NewLogFileDataCollector(config.FileName)
	case LOGGER_DATA_COLLECTOR:
		return &LoggerDataCollector{}, nil
	}
	return &NoopDataCollector{}, nil
}

type NoopDataCollector struct{}

func (n *NoopDataCollector) TrackEvent(event Event) {}

// LoggerDataCollector writes events to the process logger.
type LoggerDataCollector struct{}

func (l *LoggerDataCollector) TrackEvent(event Event) {
	logger.Info("analytics event", eventFields(event)...)
}
