package llm

import "context"

// Oracle is the reasoning boundary consumed by the orchestrator's reason
// phase. Implementations are treated as opaque: the core never inspects
// anything beyond the returned Completion text.
//
// Complete must honor ctx cancellation but is otherwise free to block;
// the orchestrator wraps calls in its own wall-clock timeout.
type Oracle interface {
	Complete(ctx context.Context, messages []Message) (*Completion, error)
}

// OracleFunc adapts an ordinary function to the Oracle interface.
type OracleFunc func(ctx context.Context, messages []Message) (*Completion, error)

// Complete implements Oracle.
func (f OracleFunc) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	return f(ctx, messages)
}
