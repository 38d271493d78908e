package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

const (
	red   color = "red"
	green color = "green"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(map[string]color{"red": red, "Rouge": red, "green": green}, green)

	tests := []struct {
		input string
		want  color
	}{
		{"red", red},
		{"  RED ", red},
		{"rouge", red},
		{"green", green},
		{"blue", green},
		{"", green},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	n := NewNormalizer(map[string]color{"red": red, "green": green}, green)

	v, err := n.Parse(" Red")
	require.NoError(t, err)
	assert.Equal(t, red, v)

	_, err = n.Parse("blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "green, red")
	assert.Equal(t, []string{"green", "red"}, n.Keys())
}
