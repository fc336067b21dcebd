package action

import (
	"context"

	"github.com/synapse-ops/synapse/internal/types"
)

// NewTyped adapts a handler whose input is a precise, per-action
// struct. The decode step runs at the registry boundary: a decode
// failure becomes an ACTION_INVALID_PARAM result and the handler body
// never runs, so handlers only ever see validated, typed input and the
// loose bag stays confined to this adapter.
func NewTyped[T any](name, description string, decode func(Params) (T, error), fn func(ctx context.Context, in T) (Result, error)) Handler {
	return &handlerFunc{
		name:        name,
		description: description,
		fn: func(ctx context.Context, params Params) (Result, error) {
			in, err := decode(params)
			if err != nil {
				return Error(name, types.ACTION_INVALID_PARAM, err.Error()), nil
			}
			return fn(ctx, in)
		},
	}
}
