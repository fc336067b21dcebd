package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_Counters(t *testing.T) {
	c := NewInMemory()

	c.RecordRun("run_1", true, 5, 2*time.Second)
	c.RecordRun("run_2", false, 15, 8*time.Second)
	c.RecordAction("check_traffic", true, 10*time.Millisecond)
	c.RecordAction("check_traffic", false, 20*time.Millisecond)
	c.RecordAction("notify_customer", true, 5*time.Millisecond)
	c.RecordReflection("severe traffic", "check_traffic", "re_route_driver")
	c.RecordOracleCall(120, 40, 300*time.Millisecond)

	s := c.Snapshot()
	assert.Equal(t, 2, s.Runs)
	assert.Equal(t, 1, s.ResolvedRuns)
	assert.Equal(t, 20, s.TotalSteps)
	assert.Equal(t, 1, s.Reflections)
	assert.Equal(t, 1, s.OracleCalls)
	assert.Equal(t, 120, s.PromptTokens)
	assert.Equal(t, 40, s.CompletionTokens)

	require.Len(t, s.Actions, 2)
	assert.Equal(t, "check_traffic", s.Actions[0].Name)
	assert.Equal(t, 2, s.Actions[0].Calls)
	assert.Equal(t, 0.5, s.Actions[0].SuccessRate())
	assert.Equal(t, "notify_customer", s.Actions[1].Name)
	assert.Equal(t, 1.0, s.Actions[1].SuccessRate())
}

func TestInMemory_SnapshotIsCopy(t *testing.T) {
	c := NewInMemory()
	c.RecordAction("check_traffic", true, time.Millisecond)

	s := c.Snapshot()
	s.Actions[0].Calls = 99

	assert.Equal(t, 1, c.Snapshot().Actions[0].Calls)
}

func TestInMemory_ConcurrentWrites(t *testing.T) {
	c := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordAction("check_traffic", true, time.Microsecond)
				c.RecordOracleCall(10, 5, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	assert.Equal(t, 1000, s.Actions[0].Calls)
	assert.Equal(t, 1000, s.OracleCalls)
}

func TestNop(t *testing.T) {
	var c Collector = Nop{}
	c.RecordRun("run_1", true, 1, time.Second)
	c.RecordAction("x", true, time.Second)
	c.RecordReflection("r", "a", "b")
	c.RecordOracleCall(1, 1, time.Second)
}
