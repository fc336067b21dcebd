package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapse-ops/synapse/internal/types"
)

func TestParseResponse_ThoughtAndAction(t *testing.T) {
	text := `Thought: I need to check traffic on the highway first.
Action: {"tool_name": "check_traffic", "parameters": {"route_id": "R1"}}`

	p, thought, err := ParseResponse(text)
	require.NoError(t, err)

	assert.Equal(t, "I need to check traffic on the highway first.", thought)
	assert.Equal(t, "check_traffic", p.Name)
	assert.Equal(t, "R1", p.Parameters["route_id"])
}

func TestParseResponse_Variants(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantName    string
		wantThought string
	}{
		{
			name:     "no_thought",
			text:     `Action: {"tool_name": "notify_customer", "parameters": {"customer_id": "C1", "message": "delayed"}}`,
			wantName: "notify_customer",
		},
		{
			name:        "lowercase_markers",
			text:        "thought: contact the recipient\naction: {\"tool_name\": \"contact_recipient\", \"parameters\": {}}",
			wantName:    "contact_recipient",
			wantThought: "contact the recipient",
		},
		{
			name:     "prose_before_marker",
			text:     `Sure, here is my decision. Action: {"tool_name": "finish", "parameters": {"final_plan": "done"}}`,
			wantName: "finish",
		},
		{
			name:     "nested_parameters",
			text:     `Action: {"tool_name": "re_route_driver", "parameters": {"driver_id": "D1", "new_route": {"description": "side streets"}}}`,
			wantName: "re_route_driver",
		},
		{
			name:     "braces_inside_strings",
			text:     `Action: {"tool_name": "notify_customer", "parameters": {"customer_id": "C1", "message": "use code {SAVE10}"}}`,
			wantName: "notify_customer",
		},
		{
			name:     "json_without_marker",
			text:     `{"tool_name": "get_driver_status", "parameters": {"driver_id": "D9"}}`,
			wantName: "get_driver_status",
		},
		{
			name:     "name_key_alias",
			text:     `Action: {"name": "check_traffic", "parameters": {"route": "R2"}}`,
			wantName: "check_traffic",
		},
		{
			name:     "trailing_prose_after_json",
			text:     "Action: {\"tool_name\": \"contact_sender\", \"parameters\": {\"sender_id\": \"S1\", \"message\": \"hi\"}}\nLet me know if you need anything else.",
			wantName: "contact_sender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, thought, err := ParseResponse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name)
			assert.NotNil(t, p.Parameters)
			if tt.wantThought != "" {
				assert.Equal(t, tt.wantThought, thought)
			}
		})
	}
}

func TestParseResponse_MissingParametersDefaultsEmpty(t *testing.T) {
	p, _, err := ParseResponse(`Action: {"tool_name": "locate_trip_path"}`)
	require.NoError(t, err)
	assert.NotNil(t, p.Parameters)
	assert.Empty(t, p.Parameters)
}

func TestParseResponse_Failures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"prose_only", "I am not sure what to do next."},
		{"unbalanced_braces", `Action: {"tool_name": "check_traffic", "parameters": {`},
		{"missing_name", `Action: {"parameters": {"route_id": "R1"}}`},
		{"array_not_object", `Action: ["check_traffic"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, err := ParseResponse(tt.text)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, types.NewError(types.ORACLE_PARSE_FAILED, "")))
		})
	}
}

func TestParseResponse_ThoughtPreservedOnFailure(t *testing.T) {
	_, thought, err := ParseResponse("Thought: the situation is unclear\nAction: not json")
	require.Error(t, err)
	assert.Equal(t, "the situation is unclear", thought)
}

func TestExtractBalancedObject(t *testing.T) {
	block, ok := extractBalancedObject(`noise {"a": {"b": 1}} tail`)
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, block)

	_, ok = extractBalancedObject("no braces here")
	assert.False(t, ok)

	_, ok = extractBalancedObject(`{"unclosed": 1`)
	assert.False(t, ok)
}
