package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/authz"
	"github.com/synapse-ops/synapse/internal/llm"
	"github.com/synapse-ops/synapse/internal/telemetry"
	"github.com/synapse-ops/synapse/internal/types"
)

// scriptedOracle replays canned responses and records every
// conversation it was shown. Past the end of the script it keeps
// returning the last response.
type scriptedOracle struct {
	mu        sync.Mutex
	responses []string
	calls     [][]llm.Message
}

func (s *scriptedOracle) Complete(ctx context.Context, messages []llm.Message) (*llm.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := len(s.calls)
	s.calls = append(s.calls, messages)
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return &llm.Completion{Text: s.responses[idx], Model: "scripted"}, nil
}

func (s *scriptedOracle) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedOracle) lastUserContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := s.calls[len(s.calls)-1]
	return last[len(last)-1].Content
}

func (s *scriptedOracle) userContentAt(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.calls[i]
	return msgs[len(msgs)-1].Content
}

func okHandler(name string, payload map[string]any) action.Handler {
	return action.NewHandler(name, "test handler", func(ctx context.Context, params action.Params) (action.Result, error) {
		return action.OK(name, payload), nil
	})
}

func testRegistry(t *testing.T, handlers ...action.Handler) *action.Registry {
	t.Helper()
	reg := action.NewRegistry()
	for _, h := range handlers {
		require.NoError(t, reg.Register(h))
	}
	return reg
}

func TestRun_FinishFlow(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Thought: check the route first
Action: {"tool_name": "check_traffic", "parameters": {"route_id": "R1"}}`,
		`Thought: traffic is clear, we are done
Action: {"tool_name": "finish", "parameters": {"final_plan": "Driver continues on the current route."}}`,
	}}

	reg := testRegistry(t, okHandler("check_traffic", map[string]any{"incident_level": "none", "blocked": false}))
	e, err := NewEngine(oracle, reg)
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "Customer reports driver stuck in traffic")
	require.NoError(t, err)

	assert.True(t, state.Done)
	assert.Equal(t, "Driver continues on the current route.", state.Plan)
	require.Len(t, state.History, 2)
	assert.Equal(t, "check_traffic", state.History[0].Action.Name)
	assert.Equal(t, SentinelFinish, state.History[1].Action.Name)
	assert.False(t, state.History[0].Observation.IsError())
	assert.NotEmpty(t, state.RunID)
	assert.False(t, state.FinishedAt.IsZero())
}

func TestRun_EmptyProblemRejected(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{"x"}}
	e, err := NewEngine(oracle, testRegistry(t))
	require.NoError(t, err)

	_, err = e.Run(context.Background(), "")
	require.Error(t, err)
}

func TestNewEngine_RequiredDeps(t *testing.T) {
	_, err := NewEngine(nil, action.NewRegistry())
	require.Error(t, err)

	_, err = NewEngine(&scriptedOracle{responses: []string{"x"}}, nil)
	require.Error(t, err)
}

func TestRun_AlwaysInvalidOracleTerminates(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{"I have no idea what to do."}}
	e, err := NewEngine(oracle, testRegistry(t))
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "incident")
	require.NoError(t, err)

	assert.True(t, state.Done)
	assert.NotEmpty(t, state.Plan)
	assert.Contains(t, state.Plan, "human operator")
	// One reasoning cycle: the original attempt plus one corrective retry.
	assert.Equal(t, 2, oracle.callCount())
}

func TestRun_CorrectiveRetryRecovers(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		"Sorry, thinking out loud with no action.",
		`Action: {"tool_name": "finish", "parameters": {"final_plan": "done"}}`,
	}}
	e, err := NewEngine(oracle, testRegistry(t))
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "incident")
	require.NoError(t, err)

	assert.Equal(t, "done", state.Plan)
	assert.Equal(t, 2, oracle.callCount())
	assert.Contains(t, oracle.lastUserContent(), "did not contain a valid Action JSON")
}

func TestRun_OracleErrorDegradesToPlan(t *testing.T) {
	oracle := llm.OracleFunc(func(ctx context.Context, messages []llm.Message) (*llm.Completion, error) {
		return nil, errors.New("connection refused")
	})
	e, err := NewEngine(oracle, testRegistry(t))
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "incident")
	require.NoError(t, err)

	assert.True(t, state.Done)
	assert.Contains(t, state.Plan, "reasoning unavailable")
}

func TestRun_OracleTimeout(t *testing.T) {
	oracle := llm.OracleFunc(func(ctx context.Context, messages []llm.Message) (*llm.Completion, error) {
		select {
		case <-time.After(5 * time.Second):
			return &llm.Completion{Text: "late"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	e, err := NewEngine(oracle, testRegistry(t), WithOracleTimeout(20*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	state, err := e.Run(context.Background(), "incident")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, state.Done)
	assert.Contains(t, state.Plan, string(types.ORACLE_TIMEOUT))
}

func TestRun_UnknownActionContinues(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Action: {"tool_name": "summon_helicopter", "parameters": {}}`,
		`Action: {"tool_name": "finish", "parameters": {"final_plan": "resolved without air support"}}`,
	}}
	e, err := NewEngine(oracle, testRegistry(t))
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "incident")
	require.NoError(t, err)

	assert.Equal(t, "resolved without air support", state.Plan)

	// The bad action is recorded as an error observation followed by a
	// reflection from the generic failure rule.
	require.GreaterOrEqual(t, len(state.History), 2)
	assert.Equal(t, "summon_helicopter", state.History[0].Action.Name)
	assert.Equal(t, types.ACTION_NOT_FOUND, state.History[0].Observation.ErrorCode)
	assert.True(t, state.History[1].IsReflection())
}

func TestRun_MaxStepsForcesConclusion(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Action: {"tool_name": "ping", "parameters": {}}`,
	}}
	reg := testRegistry(t, okHandler("ping", map[string]any{"pong": true}))
	e, err := NewEngine(oracle, reg, WithMaxSteps(5))
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "incident")
	require.NoError(t, err)

	assert.True(t, state.Done)
	assert.Len(t, state.History, 5)
	assert.Contains(t, state.Plan, "step limit")
	assert.Contains(t, state.Plan, "ping")
}

func TestRun_ReflectionLimitForcesConclusion(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Action: {"tool_name": "reflect", "parameters": {"reason": "still stuck", "suggested_alternative": ""}}`,
	}}
	e, err := NewEngine(oracle, testRegistry(t), WithMaxReflections(3))
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "incident")
	require.NoError(t, err)

	assert.True(t, state.Done)
	assert.Equal(t, 3, state.Reflections())
	assert.Contains(t, state.Plan, "reflection limit")
}

func TestRun_PolicyReflectionFeedsNextPrompt(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Action: {"tool_name": "contact_recipient", "parameters": {"recipient_id": "P1", "message": "hello"}}`,
		`Action: {"tool_name": "finish", "parameters": {"final_plan": "left at safe drop-off"}}`,
	}}
	reg := testRegistry(t, okHandler("contact_recipient", map[string]any{"contact_successful": false}))
	e, err := NewEngine(oracle, reg)
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "recipient unreachable")
	require.NoError(t, err)

	require.Len(t, state.History, 3)
	assert.True(t, state.History[1].IsReflection())
	assert.Equal(t, "left at safe drop-off", state.Plan)
	assert.False(t, state.NeedsAdaptation, "hints are cleared once surfaced")
	assert.Contains(t, oracle.lastUserContent(), "suggest_safe_drop_off")
}

func TestRun_RetryPromptKeepsAdaptationHints(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Action: {"tool_name": "contact_recipient", "parameters": {"recipient_id": "P1", "message": "hello"}}`,
		"Hmm, let me think about the options here.",
		`Action: {"tool_name": "finish", "parameters": {"final_plan": "left at safe drop-off"}}`,
	}}
	reg := testRegistry(t, okHandler("contact_recipient", map[string]any{"contact_successful": false}))
	e, err := NewEngine(oracle, reg)
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "recipient unreachable")
	require.NoError(t, err)
	require.Equal(t, 3, oracle.callCount())

	// The corrective retry sees the same adaptation hints the failed
	// attempt did.
	retry := oracle.userContentAt(2)
	assert.Contains(t, retry, "did not contain a valid Action JSON")
	assert.Contains(t, retry, "suggest_safe_drop_off")
	assert.Equal(t, "left at safe drop-off", state.Plan)
}

func TestRun_GateBlocksUnapprovedRefund(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Action: {"tool_name": "issue_instant_refund", "parameters": {"order_id": "O1", "amount": 200}}`,
		`Action: {"tool_name": "finish", "parameters": {"final_plan": "partial refund instead"}}`,
	}}

	refund := action.NewHandler("issue_instant_refund", "refund", func(ctx context.Context, params action.Params) (action.Result, error) {
		t.Fatal("handler must not run when approval is denied")
		return action.Result{}, nil
	})
	gate := authz.NewGate(authz.WithResolver(authz.RejectAll{Reason: "spending freeze"}))

	e, err := NewEngine(oracle, testRegistry(t, refund), WithGate(gate))
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "customer demands refund")
	require.NoError(t, err)

	obs := state.History[0].Observation
	require.NotNil(t, obs)
	assert.Equal(t, types.APPROVAL_DENIED, obs.ErrorCode)
	flagged, _ := obs.Bool("requires_approval")
	assert.True(t, flagged)
	assert.Equal(t, "partial refund instead", state.Plan)
}

func TestRun_GateApprovalAnnotatesParams(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Action: {"tool_name": "issue_instant_refund", "parameters": {"order_id": "O1", "amount": 200}}`,
		`Action: {"tool_name": "finish", "parameters": {"final_plan": "refund issued"}}`,
	}}

	var sawApproved bool
	refund := action.NewHandler("issue_instant_refund", "refund", func(ctx context.Context, params action.Params) (action.Result, error) {
		sawApproved = params.Bool("approved", false)
		return action.OK("issue_instant_refund", map[string]any{"issued": true}), nil
	})
	gate := authz.NewGate(authz.WithResolver(authz.ApproveAll{}))

	e, err := NewEngine(oracle, testRegistry(t, refund), WithGate(gate))
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "customer demands refund")
	require.NoError(t, err)

	assert.True(t, sawApproved)
	assert.False(t, state.History[0].Observation.IsError())

	// The recorded proposal stays exactly what the oracle proposed; the
	// gate's annotation lives only on the invocation copy.
	_, annotated := state.History[0].Action.Parameters["approved"]
	assert.False(t, annotated)
}

func TestRun_HistoryAppendOnly(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Action: {"tool_name": "ping", "parameters": {}}`,
	}}
	reg := testRegistry(t, okHandler("ping", map[string]any{"pong": true}))
	e, err := NewEngine(oracle, reg, WithMaxSteps(4))
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "incident")
	require.NoError(t, err)

	// Steps are strictly ordered in time and the first entry is the
	// first action taken.
	for i := 1; i < len(state.History); i++ {
		assert.False(t, state.History[i].At.Before(state.History[i-1].At))
	}
	assert.Equal(t, "ping", state.History[0].Action.Name)
	assert.True(t, state.Done)
}

func TestRun_CollectorSeesRun(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Action: {"tool_name": "ping", "parameters": {}}`,
		`Action: {"tool_name": "finish", "parameters": {"final_plan": "ok"}}`,
	}}
	reg := testRegistry(t, okHandler("ping", map[string]any{"pong": true}))
	collector := telemetry.NewInMemory()

	e, err := NewEngine(oracle, reg, WithCollector(collector))
	require.NoError(t, err)

	_, err = e.Run(context.Background(), "incident")
	require.NoError(t, err)

	stats := collector.Snapshot()
	assert.Equal(t, 1, stats.Runs)
	assert.Equal(t, 2, stats.OracleCalls)
	require.Len(t, stats.Actions, 1)
	assert.Equal(t, "ping", stats.Actions[0].Name)
}

func TestTranscript(t *testing.T) {
	oracle := &scriptedOracle{responses: []string{
		`Thought: checking
Action: {"tool_name": "ping", "parameters": {}}`,
		`Action: {"tool_name": "finish", "parameters": {"final_plan": "all good"}}`,
	}}
	reg := testRegistry(t, okHandler("ping", map[string]any{"pong": true}))
	e, err := NewEngine(oracle, reg)
	require.NoError(t, err)

	state, err := e.Run(context.Background(), "incident")
	require.NoError(t, err)

	out := Transcript(state)
	assert.Contains(t, out, state.RunID)
	assert.Contains(t, out, "ping")
	assert.Contains(t, out, "Plan: all good")
	assert.True(t, strings.Contains(out, "thought: checking"))
}
