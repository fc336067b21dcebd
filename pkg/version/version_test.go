package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origBuild := Version, GitCommit, BuildTime
	defer func() {
		Version, GitCommit, BuildTime = origVersion, origCommit, origBuild
	}()

	Version = "1.2.3"
	GitCommit = "abc1234"
	BuildTime = "2026-01-02T03:04:05Z"

	s := String()
	assert.Contains(t, s, "Synapse 1.2.3")
	assert.Contains(t, s, "abc1234")
	assert.Contains(t, s, runtime.Version())
}

func TestInfo(t *testing.T) {
	info := Info()

	assert.Equal(t, Version, info["version"])
	assert.Equal(t, runtime.Version(), info["goVersion"])
	assert.NotEmpty(t, info["platform"])
}
