package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		id   uint64
	}{
		{"", 0xef46db3751d8e999},
		{"test", 0x4fdcca5ddb678139},
		{"wind.speed", ID("wind.speed")},
	}
	for _, tt := range tests {
		require.Equal(t, tt.id, ID(tt.name), "field %q", tt.name)
	}

	require.NotEqual(t, ID("temperature"), ID("humidity"))
	require.Equal(t, ID("temperature"), ID("temperature"))
}
