package refmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
		ok   bool
	}{
		{name: "plain integer", raw: "30145", want: 30145, ok: true},
		{name: "whitespace", raw: " 30145 ", want: 30145, ok: true},
		{name: "float round-trip", raw: "30145.0", want: 30145, ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "hyphen placeholder", raw: "-", ok: false},
		{name: "fractional", raw: "30145.5", ok: false},
		{name: "text", raw: "Muster AG", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceKey(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
