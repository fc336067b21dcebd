package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/synapse-ops/synapse/internal/types"
)

// Proposal is the structured action proposal extracted from raw oracle
// text. Name must resolve in the action registry or be one of the
// orchestrator's control sentinels ("finish", "reflect").
type Proposal struct {
	Name       string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
}

// thoughtPattern captures the free-text Thought preceding the Action marker.
var thoughtPattern = regexp.MustCompile(`(?is)thought\s*:\s*(.*?)\s*action\s*:`)

// actionMarker locates the literal "Action:" marker in oracle output.
var actionMarker = regexp.MustCompile(`(?i)action\s*:`)

// ParseResponse extracts a Thought substring and one Proposal from raw
// oracle output. The proposal is the first balanced JSON object following
// the "Action:" marker; if no marker is present the whole text is scanned.
//
// The returned thought may be empty even on success. On failure the
// proposal is nil and the error carries code ORACLE_PARSE_FAILED; parse
// heuristics stay behind this function and never leak into the state
// machine.
func ParseResponse(text string) (*Proposal, string, error) {
	thought := ""
	searchFrom := 0

	if m := thoughtPattern.FindStringSubmatchIndex(text); m != nil {
		thought = strings.TrimSpace(text[m[2]:m[3]])
		searchFrom = m[1]
	} else if m := actionMarker.FindStringIndex(text); m != nil {
		searchFrom = m[1]
	}

	after := text[searchFrom:]

	// First balanced {...} block after the marker.
	if block, ok := extractBalancedObject(after); ok {
		if p, err := decodeProposal(block); err == nil {
			return p, thought, nil
		}
	}

	// Fallback: greedy first-{ to last-} over the whole text, mirroring
	// the lenient recovery path for models that interleave prose.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if p, err := decodeProposal(text[start : end+1]); err == nil {
			return p, thought, nil
		}
	}

	return nil, thought, types.NewError(types.ORACLE_PARSE_FAILED, "no valid Action JSON found in response")
}

// decodeProposal unmarshals a candidate JSON block and validates it
// carries an action name.
func decodeProposal(block string) (*Proposal, error) {
	var wire struct {
		ToolName   string         `json:"tool_name"`
		Name       string         `json:"name"`
		Parameters map[string]any `json:"parameters"`
	}
	if err := json.Unmarshal([]byte(block), &wire); err != nil {
		return nil, types.WrapError(types.ORACLE_PARSE_FAILED, "invalid Action JSON", err)
	}

	name := wire.ToolName
	if name == "" {
		name = wire.Name
	}
	if strings.TrimSpace(name) == "" {
		return nil, types.NewError(types.ORACLE_PARSE_FAILED, "action JSON missing tool_name")
	}

	params := wire.Parameters
	if params == nil {
		params = map[string]any{}
	}

	return &Proposal{Name: name, Parameters: params}, nil
}

// extractBalancedObject returns the first complete {...} block in s,
// matching braces with string and escape awareness so brace characters
// inside JSON strings do not break the scan.
func extractBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false // Unmatched braces
}
