package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2025-01-02T03:04:05Z"`, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"zone-less", `"2025-01-02T03:04:05"`, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"fractional zone-less", `"2025-01-02T03:04:05.5"`, time.Date(2025, 1, 2, 3, 4, 5, 500000000, time.UTC)},
		{"date only", `"2025-01-02"`, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v want %v", ts.Time, tt.want)
		})
	}
}

func TestTimestamp_UnmarshalJSONRejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`42`), &ts))
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-01-02T03:04:05Z"`, string(b))

	b, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}
