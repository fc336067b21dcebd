package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapse-ops/synapse/internal/types"
)

type pingInput struct {
	Target string
	Count  int
}

func decodePing(p Params) (pingInput, error) {
	in := pingInput{Target: p.String("target")}
	if in.Target == "" {
		return in, errors.New("target required")
	}
	count, ok := p.Int("count")
	if !ok || count <= 0 {
		count = 1
	}
	in.Count = count
	return in, nil
}

func TestNewTyped_DecodesBeforeExecute(t *testing.T) {
	var got pingInput
	h := NewTyped("ping", "test", decodePing, func(ctx context.Context, in pingInput) (Result, error) {
		got = in
		return OK("ping", map[string]any{"count": in.Count}), nil
	})

	assert.Equal(t, "ping", h.Name())

	res, err := h.Execute(context.Background(), Params{"target": "host-1", "count": "3"})
	require.NoError(t, err)
	assert.False(t, res.IsError())
	assert.Equal(t, pingInput{Target: "host-1", Count: 3}, got)
}

func TestNewTyped_DecodeFailureSkipsHandler(t *testing.T) {
	ran := false
	h := NewTyped("ping", "test", decodePing, func(ctx context.Context, in pingInput) (Result, error) {
		ran = true
		return OK("ping", nil), nil
	})

	res, err := h.Execute(context.Background(), Params{})
	require.NoError(t, err)
	assert.False(t, ran)
	assert.True(t, res.IsError())
	assert.Equal(t, types.ACTION_INVALID_PARAM, res.ErrorCode)
	assert.Contains(t, res.Message, "target required")
}
