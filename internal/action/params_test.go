package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapse-ops/synapse/internal/types"
)

func TestParams_String(t *testing.T) {
	p := Params{"s": "abc", "n": 42.5, "i": 7, "b": true}

	assert.Equal(t, "abc", p.String("s"))
	assert.Equal(t, "42.5", p.String("n"))
	assert.Equal(t, "7", p.String("i"))
	assert.Equal(t, "true", p.String("b"))
	assert.Equal(t, "", p.String("missing"))
}

func TestParams_StringFirst(t *testing.T) {
	p := Params{"route": "R2"}
	assert.Equal(t, "R2", p.StringFirst("route_id", "route"))
	assert.Equal(t, "", p.StringFirst("driver_id", "driver"))
}

func TestParams_Float64(t *testing.T) {
	p := Params{"f": 12.5, "i": 3, "s": "99.9", "bad": "abc"}

	f, ok := p.Float64("f")
	require.True(t, ok)
	assert.Equal(t, 12.5, f)

	f, ok = p.Float64("i")
	require.True(t, ok)
	assert.Equal(t, 3.0, f)

	f, ok = p.Float64("s")
	require.True(t, ok)
	assert.Equal(t, 99.9, f)

	_, ok = p.Float64("bad")
	assert.False(t, ok)

	_, ok = p.Float64("missing")
	assert.False(t, ok)
}

func TestParams_Bool(t *testing.T) {
	p := Params{"yes": true, "s": "true"}

	assert.True(t, p.Bool("yes", false))
	assert.False(t, p.Bool("missing", false))
	assert.True(t, p.Bool("missing", true))
	assert.False(t, p.Bool("s", false)) // strings are not coerced
}

func TestParams_Map(t *testing.T) {
	p := Params{
		"obj":  map[string]any{"description": "side streets"},
		"desc": "take the bridge",
		"n":    5,
	}

	assert.Equal(t, "side streets", p.Map("obj")["description"])
	assert.Equal(t, "take the bridge", p.Map("desc")["description"])
	assert.Nil(t, p.Map("n"))
	assert.Nil(t, p.Map("missing"))
}

func TestParams_LatLng(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantLat float64
		wantLng float64
		wantOK  bool
	}{
		{"separate_keys", Params{"lat": 12.97, "lng": 77.59}, 12.97, 77.59, true},
		{"lon_alias", Params{"lat": 1.0, "lon": 2.0}, 1, 2, true},
		{"location_string", Params{"location": "12.97, 77.59"}, 12.97, 77.59, true},
		{"location_map", Params{"location": map[string]any{"lat": 3.0, "lng": 4.0}}, 3, 4, true},
		{"missing", Params{}, 0, 0, false},
		{"malformed_string", Params{"location": "not-coords"}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, ok := tt.params.LatLng()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantLat, lat)
				assert.Equal(t, tt.wantLng, lng)
			}
		})
	}
}

func TestResult_Accessors(t *testing.T) {
	res := OK("check_traffic", map[string]any{
		"congestion":     true,
		"delay_minutes":  35.0,
		"incident_level": "severe",
	})

	b, ok := res.Bool("congestion")
	require.True(t, ok)
	assert.True(t, b)

	f, ok := res.Float64("delay_minutes")
	require.True(t, ok)
	assert.Equal(t, 35.0, f)

	s, ok := res.String("incident_level")
	require.True(t, ok)
	assert.Equal(t, "severe", s)

	_, ok = res.Bool("missing")
	assert.False(t, ok)
}

func TestResult_Error(t *testing.T) {
	res := Error("check_traffic", types.ACTION_INVALID_PARAM, "missing route_id")

	assert.True(t, res.IsError())
	assert.Equal(t, types.ACTION_INVALID_PARAM, res.ErrorCode)
	assert.Equal(t, "check_traffic", res.Action)
}
