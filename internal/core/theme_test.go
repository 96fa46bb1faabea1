package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTheme(t *testing.T) {
	cases := []struct {
		in     string
		want   Theme
		wantOK bool
	}{
		{"dark", Dark, true},
		{"DARK", Dark, true},
		{"light", Light, true},
		{"true", Dark, true},
		{"", Light, false},
		{"purple", Light, false},
	}
	for _, tc := range cases {
		got, ok := ParseTheme(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.wantOK, ok, tc.in)
	}
}

func TestPaletteFor(t *testing.T) {
	dark := PaletteFor(Dark)
	assert.Equal(t, "#00d2ff", dark.Accent)
	assert.Equal(t, "#f8fafc", dark.Text)
	assert.Equal(t, "rgba(0,210,255,0.1)", dark.Grid)
	assert.Equal(t, "dark-theme", dark.Class)

	light := PaletteFor(Light)
	assert.Equal(t, "#003366", light.Accent)
	assert.Equal(t, "#0f172a", light.Text)
	assert.Equal(t, "rgba(0,0,0,0.05)", light.Grid)
	assert.Equal(t, "light-theme", light.Class)

	assert.Equal(t, Dark, Light.Toggle())
	assert.Equal(t, "dark", Dark.String())
}
