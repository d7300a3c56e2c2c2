package sinks

import "context"

// logSink writes every event to the structured log. Useful as a default sink
// and for local development.
type logSink struct {
	id  string
	log Logger
}

func newLogSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	return &logSink{id: cfg.ID, log: ensureLogger(log)}, nil
}

func (l *logSink) ID() string   { return l.id }
func (l *logSink) Type() string { return TypeLog }

func (l *logSink) Publish(_ context.Context, evt Event) error {
	l.log.InfoObj("call status received", "call_status_event", evt)
	return nil
}
