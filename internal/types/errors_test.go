package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynapseError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *SynapseError
		want string
	}{
		{
			name: "without_cause",
			err:  NewError(ACTION_NOT_FOUND, "no such action"),
			want: "[UNKNOWN_ACTION] no such action",
		},
		{
			name: "with_cause",
			err:  WrapError(ACTION_INTERNAL, "handler crashed", errors.New("boom")),
			want: "[INTERNAL] handler crashed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSynapseError_Is(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(APPROVAL_DENIED, "rejected by manager"))

	assert.True(t, errors.Is(err, NewError(APPROVAL_DENIED, "different message")))
	assert.False(t, errors.Is(err, NewError(APPROVAL_EXPIRED, "rejected by manager")))
}

func TestSynapseError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(ORACLE_CALL_FAILED, "completion failed", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ORACLE_TIMEOUT, CodeOf(NewError(ORACLE_TIMEOUT, "deadline")))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRetryableError(ORACLE_CALL_FAILED, "transient")))
	assert.False(t, IsRetryable(NewError(ORACLE_CALL_FAILED, "permanent")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestNewID(t *testing.T) {
	id := NewID("req")
	require.Len(t, id, len("req_")+8)
	assert.Contains(t, id, "req_")

	// Two calls must not collide.
	assert.NotEqual(t, NewID("req"), NewID("req"))
}
