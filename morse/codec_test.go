package morse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want Symbol
	}{
		{0, Short},
		{80 * time.Millisecond, Short},
		{Threshold - time.Nanosecond, Short},
		{Threshold, Long},
		{Threshold + time.Nanosecond, Long},
		{3 * time.Second, Long},
		{-time.Millisecond, Short},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.d), "Classify(%v)", tt.d)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		seq    []Symbol
		want   rune
		wantOK bool
	}{
		{"N", []Symbol{Long, Short}, 'N', true},
		{"E", []Symbol{Short}, 'E', true},
		{"T", []Symbol{Long}, 'T', true},
		{"SOS letter S", []Symbol{Short, Short, Short}, 'S', true},
		{"digit 2 distinct from J", []Symbol{Short, Short, Long, Long, Long}, '2', true},
		{"J", []Symbol{Short, Long, Long, Long}, 'J', true},
		{"six pulses", []Symbol{Short, Long, Short, Long, Short, Long}, '.', true},
		{"empty", nil, 0, false},
		{"unknown", []Symbol{Long, Long, Long, Long}, 0, false},
		{"too long", []Symbol{Short, Short, Short, Short, Short, Short, Short}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.seq)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableIsConsistent(t *testing.T) {
	seen := make(map[string]rune)
	for _, e := range table {
		require.LessOrEqual(t, len(e.code), MaxSequence, "code for %q", e.char)
		if prev, dup := seen[e.code]; dup {
			t.Fatalf("code %s used by both %q and %q", e.code, prev, e.char)
		}
		seen[e.code] = e.char

		seq, ok := Encode(e.char)
		require.True(t, ok)
		got, ok := Decode(seq)
		require.True(t, ok)
		assert.Equal(t, e.char, got)
		assert.Equal(t, e.code, Format(seq))
	}
}

func TestEncode(t *testing.T) {
	seq, ok := Encode('n')
	require.True(t, ok)
	assert.Equal(t, []Symbol{Long, Short}, seq)

	// callers may scribble on the result
	seq[0] = Short
	again, _ := Encode('N')
	assert.Equal(t, []Symbol{Long, Short}, again)

	_, ok = Encode(' ')
	assert.False(t, ok)
}
