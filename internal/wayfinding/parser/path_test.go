package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-wayfinding/internal/wayfinding/models"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []models.Point
	}{
		{
			name: "absolute",
			d:    "M 0 0 L 10 0 L 10 5",
			want: []models.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}},
		},
		{
			name: "relative with commas",
			d:    "m5,5 l10,0 l0,10",
			want: []models.Point{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 15}},
		},
		{
			name: "horizontal and vertical",
			d:    "M0 0 H20 V10 h-5 v-5",
			want: []models.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10}, {X: 15, Y: 10}, {X: 15, Y: 5}},
		},
		{
			name: "implicit lineto",
			d:    "M0 0 10 0 10 10",
			want: []models.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		},
		{
			name: "close returns to subpath start",
			d:    "M0 0 L4 0 Z M10 10 L12 10 z",
			want: []models.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 0}, {X: 10, Y: 10}, {X: 12, Y: 10}, {X: 10, Y: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	_, err := ParsePath("")
	assert.Error(t, err)

	_, err = ParsePath("12 34")
	assert.Error(t, err)
}
