package mocks

import (
	"context"
	"cowork/infras/otel"
	"sync"
)

// Recorder is an in-memory otel.Otel for tests. It keeps span names and the
// errors traced on them instead of exporting anything.
type Recorder struct {
	mu     sync.Mutex
	spans  []string
	errors map[string][]error
}

func NewOtel() *Recorder {
	return &Recorder{errors: map[string][]error{}}
}

func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	r.spans = append(r.spans, spanName)
	r.mu.Unlock()

	return ctx, &scope{recorder: r, name: spanName}
}

func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

func (r *Recorder) Spans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.spans...)
}

// Errors returns what was traced on spans named spanName.
func (r *Recorder) Errors(spanName string) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors[spanName]...)
}

func (r *Recorder) traced(spanName string, err error) {
	r.mu.Lock()
	r.errors[spanName] = append(r.errors[spanName], err)
	r.mu.Unlock()
}

type scope struct {
	recorder *Recorder
	name     string
}

func (s *scope) End() {}

func (s *scope) TraceError(err error) {
	s.recorder.traced(s.name, err)
}

func (s *scope) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scope) AddEvent(string) {}

func (s *scope) SetAttribute(string, any) {}

func (s *scope) SetAttributes(map[string]any) {}
