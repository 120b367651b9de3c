package dictionary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jusunglee/thaiconv/internal/phonetic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoads(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.Greater(t, s.Len(), 100)

	got := s.Lookup("aroi")
	require.Len(t, got, 1)
	assert.Equal(t, "อร่อย", got[0].Thai)

	got = s.Lookup("baan")
	require.NotEmpty(t, got)
	assert.Equal(t, "บ้าน", got[0].Thai)
	assert.Equal(t, phonetic.ToneFalling, got[0].Tone)

	// keys are folded like user input
	require.NotEmpty(t, s.Lookup("acarn"))
	assert.Empty(t, s.Lookup("ajarn"))
}

func TestLookupOrdersByRankThenTableOrder(t *testing.T) {
	s, err := New([]Entry{
		{Key: "mai", Thai: "ไม้", Tone: phonetic.ToneHigh, Rank: 300},
		{Key: "mai", Thai: "ไม่", Tone: phonetic.ToneFalling, Rank: 900},
		{Key: "mai", Thai: "ไหม", Tone: phonetic.ToneRising, Rank: 300},
		{Key: "pai", Thai: "ไป", Tone: phonetic.ToneMid, Rank: 800},
	})
	require.NoError(t, err)

	got := s.Lookup("mai")
	require.Len(t, got, 3)
	assert.Equal(t, "ไม่", got[0].Thai)
	assert.Equal(t, "ไม้", got[1].Thai)
	assert.Equal(t, "ไหม", got[2].Thai)

	assert.Empty(t, s.Lookup("xyz"))
	assert.NotNil(t, s.Lookup("xyz"))
}

func TestLookupReturnsCopy(t *testing.T) {
	s, err := New([]Entry{{Key: "pai", Thai: "ไป", Tone: phonetic.ToneMid, Rank: 1}})
	require.NoError(t, err)

	got := s.Lookup("pai")
	got[0].Thai = "changed"
	assert.Equal(t, "ไป", s.Lookup("pai")[0].Thai)
}

func TestPrefix(t *testing.T) {
	s, err := New([]Entry{
		{Key: "sabay", Thai: "สบาย", Tone: phonetic.ToneMid, Rank: 400},
		{Key: "sanuk", Thai: "สนุก", Tone: phonetic.ToneLow, Rank: 400},
		{Key: "sabaaydii", Thai: "สบายดี", Tone: phonetic.ToneMid, Rank: 600},
	})
	require.NoError(t, err)

	got := s.Prefix("saba")
	require.Len(t, got, 2)
	assert.Equal(t, "sabay", got[0].Key)
	assert.Equal(t, "sabaaydii", got[1].Key)
	assert.Len(t, s.Prefix(""), 3)
	assert.Empty(t, s.Prefix("x"))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing column", "khon\tคน\t1\n", "line 1: expected 4"},
		{"bad tone", "# header\nkhon\tคน\tx\t1\n", "line 2: bad tone"},
		{"tone out of range", "khon\tคน\t6\t1\n", "out of range"},
		{"bad rank", "khon\tคน\t1\tmany\n", "bad rank"},
		{"negative rank", "khon\tคน\t1\t-1\n", "negative rank"},
		{"empty thai", "khon\t \t1\t1\n", "empty Thai word"},
		{"latin thai", "khon\tkon\t1\t1\n", "not Thai script"},
		{"bad key", "kh0n\tคน\t1\t1\n", "line 1: key"},
		{"duplicate", "khon\tคน\t1\t1\n\nKhon\tคน\t1\t2\n", "line 3: duplicate entry khon -> คน (first on line 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]Entry{
		{Key: "khon", Thai: "คน", Tone: phonetic.ToneMid, Rank: 1},
		{Key: "khon", Thai: "คน", Tone: phonetic.ToneMid, Rank: 2},
	})
	assert.ErrorContains(t, err, "duplicate entry")
}

func TestWriteThenLoad(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s.Entries()))

	again, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.Entries(), again.Entries())
}
