package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID generates a short prefixed identifier, e.g. "req_a1b2c3d4".
// The prefix names the entity kind; the suffix is the first 8 hex
// characters of a random UUID, which is enough entropy for audit
// records that live only for the duration of a run.
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%s", prefix, raw[:8])
}

// NewRunID generates an identifier for a single orchestration run.
func NewRunID() string {
	return NewID("run")
}
