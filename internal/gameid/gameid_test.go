package gameid

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bhabhi/internal/randutil"
)

func TestGenerate(t *testing.T) {
	id := Generate()
	require.Len(t, id, 26)
	require.NoError(t, Validate(id))
}

func TestGenerateUnique(t *testing.T) {
	ids := make(map[string]bool)
	for range 100 {
		id := Generate()
		assert.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestGeneratorIsDeterministicWithMockClock(t *testing.T) {
	clock := quartz.NewMock(t)
	a := NewGenerator(clock, randutil.New(3)).Generate()
	b := NewGenerator(clock, randutil.New(3)).Generate()
	assert.Equal(t, a, b)
	require.NoError(t, Validate(a))
}

func TestGeneratorSortsByTime(t *testing.T) {
	clock := quartz.NewMock(t)
	gen := NewGenerator(clock, randutil.New(1))

	var prev string
	for range 10 {
		id := gen.Generate()
		if prev != "" {
			assert.Less(t, prev, id)
		}
		prev = id
		clock.Advance(time.Millisecond)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "01h2xcejqtf2nbrexx3vqjhp41", false},
		{"too short", "01h2xcejqt", true},
		{"first char too large", "81h2xcejqtf2nbrexx3vqjhp41", true},
		{"invalid character", "01h2xcejqtf2nbrexx3vqjhpi1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
