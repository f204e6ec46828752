package core

// EventLogger is the slice of the observability event log that the pipeline
// writes to. Declared here so core stays free of the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}
