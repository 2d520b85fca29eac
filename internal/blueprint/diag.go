package blueprint

import "go.uber.org/zap"

// Sink receives diagnostic events emitted while the pipeline repairs a model
// response. A nil Sink is valid and drops everything, which keeps the
// pipeline a pure function over its input.
type Sink func(event string, fields map[string]any)

func (s Sink) emit(event string, fields map[string]any) {
	if s != nil {
		s(event, fields)
	}
}

// ZapSink adapts a sugared logger into a Sink. Events land at debug level;
// they describe recovery steps, not errors.
func ZapSink(log *zap.SugaredLogger) Sink {
	return func(event string, fields map[string]any) {
		kv := make([]any, 0, len(fields)*2)
		for k, v := range fields {
			kv = append(kv, k, v)
		}
		log.Debugw(event, kv...)
	}
}
