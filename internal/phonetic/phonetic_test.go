package phonetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultInv(t *testing.T) *Inventory {
	t.Helper()
	inv, err := Default()
	require.NoError(t, err)
	return inv
}

func syllable(t *testing.T, inv *Inventory, onset, vowel, coda string) Syllable {
	t.Helper()
	var o *Onset
	if onset != "" {
		found, ok := inv.Onset(onset)
		require.True(t, ok, "onset %q", onset)
		o = &found
	}
	vs := inv.Vowels(vowel)
	require.NotEmpty(t, vs, "vowel %q", vowel)
	var v Vowel
	for _, cand := range vs {
		if cand.Roman == vowel {
			v = cand
		}
	}
	require.Equal(t, vowel, v.Roman)
	var c *Coda
	if coda != "" {
		cs := inv.Codas(coda)
		require.NotEmpty(t, cs, "coda %q", coda)
		c = &cs[0]
	}
	return NewSyllable(o, v, c)
}

func TestToneFromDigit(t *testing.T) {
	tests := []struct {
		digit int
		want  Tone
		ok    bool
	}{
		{1, ToneMid, true},
		{2, ToneLow, true},
		{3, ToneFalling, true},
		{4, ToneHigh, true},
		{5, ToneRising, true},
		{0, 0, false},
		{6, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToneFromDigit(tt.digit)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToneFromDigit(%d) = %v, %v, want %v, %v", tt.digit, got, ok, tt.want, tt.ok)
		}
		if ok && got.Digit() != tt.digit {
			t.Errorf("%v.Digit() = %d, want %d", got, got.Digit(), tt.digit)
		}
	}
}

func TestSyllableTone(t *testing.T) {
	tests := []struct {
		name  string
		class Class
		live  bool
		long  bool
		mark  Mark
		want  Tone
	}{
		{"mid live", ClassMid, true, true, MarkNone, ToneMid},
		{"mid dead", ClassMid, false, false, MarkNone, ToneLow},
		{"high live", ClassHigh, true, true, MarkNone, ToneRising},
		{"high dead", ClassHigh, false, true, MarkNone, ToneLow},
		{"low live", ClassLow, true, false, MarkNone, ToneMid},
		{"low dead long", ClassLow, false, true, MarkNone, ToneFalling},
		{"low dead short", ClassLow, false, false, MarkNone, ToneHigh},
		{"mid ek", ClassMid, true, true, MarkEk, ToneLow},
		{"low ek", ClassLow, true, true, MarkEk, ToneFalling},
		{"high tho", ClassHigh, true, true, MarkTho, ToneFalling},
		{"low tho", ClassLow, true, true, MarkTho, ToneHigh},
		{"mid tri", ClassMid, true, true, MarkTri, ToneHigh},
		{"mid chattawa", ClassMid, true, true, MarkChattawa, ToneRising},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SyllableTone(tt.class, tt.live, tt.long, tt.mark))
		})
	}
}

func TestMarkFor(t *testing.T) {
	m, ok := MarkFor(ClassMid, true, true, ToneFalling)
	assert.True(t, ok)
	assert.Equal(t, MarkTho, m)

	m, ok = MarkFor(ClassLow, true, true, ToneHigh)
	assert.True(t, ok)
	assert.Equal(t, MarkTho, m)

	_, ok = MarkFor(ClassHigh, true, true, ToneMid)
	assert.False(t, ok, "high class cannot carry mid tone")

	_, ok = MarkFor(ClassLow, true, true, ToneRising)
	assert.False(t, ok, "mai chattawa is only written on mid class")

	for _, c := range []Class{ClassMid, ClassHigh, ClassLow} {
		for _, live := range []bool{true, false} {
			for d := 1; d <= 5; d++ {
				want, _ := ToneFromDigit(d)
				if m, ok := MarkFor(c, live, true, want); ok {
					assert.Equal(t, want, SyllableTone(c, live, true, m), "%v live=%v %v", c, live, want)
				}
			}
		}
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		letter rune
		want   Class
	}{
		{'ก', ClassMid},
		{'อ', ClassMid},
		{'ข', ClassHigh},
		{'ห', ClassHigh},
		{'ค', ClassLow},
		{'ฮ', ClassLow},
	}
	for _, tt := range tests {
		got, ok := ClassOf(tt.letter)
		if !ok || got != tt.want {
			t.Errorf("ClassOf(%q) = %v, %v, want %v", tt.letter, got, ok, tt.want)
		}
	}
	_, ok := ClassOf('า')
	assert.False(t, ok)
}

func TestNormalizeSpelling(t *testing.T) {
	tests := []struct {
		input string
		want  string
		tone  Tone
	}{
		{"Khon", "khon", 0},
		{"sa-wat-dii", "sawatdii", 0},
		{"ajarn", "acarn", 0},
		{"dtalaat", "talaat", 0},
		{"bpai", "pai", 0},
		{"mâi", "mai", ToneFalling},
		{"máa", "maa", ToneHigh},
		{"khǎo", "khao", ToneRising},
		{"kài", "kai", ToneLow},
		{"naam", "naam", 0},
		{"?aahaan", "?aahaan", 0},
	}
	for _, tt := range tests {
		got, tone := NormalizeSpelling(tt.input)
		if got != tt.want || tone != tt.tone {
			t.Errorf("NormalizeSpelling(%q) = %q, %v, want %q, %v", tt.input, got, tone, tt.want, tt.tone)
		}
	}
}

func TestValidSpelling(t *testing.T) {
	assert.NoError(t, ValidSpelling("khon"))
	assert.NoError(t, ValidSpelling("?aa"))
	assert.Error(t, ValidSpelling(""))
	assert.Error(t, ValidSpelling("kh0n"))
	assert.Error(t, ValidSpelling("khon!"))
}

func TestDefaultInventoryMatchesLongestFirst(t *testing.T) {
	inv := defaultInv(t)

	onsets := inv.Onsets("khrap")
	require.Len(t, onsets, 3)
	assert.Equal(t, "khr", onsets[0].Roman)
	assert.Equal(t, "kh", onsets[1].Roman)
	assert.Equal(t, "k", onsets[2].Roman)

	vowels := inv.Vowels("ueang")
	require.NotEmpty(t, vowels)
	assert.Equal(t, "uea", vowels[0].Roman)

	codas := inv.Codas("ng")
	require.Len(t, codas, 2)
	assert.Equal(t, "ng", codas[0].Roman)
	assert.Equal(t, "n", codas[1].Roman)

	assert.Empty(t, inv.Onsets("xq"))
}

func TestNewRejectsBadTables(t *testing.T) {
	vowels := []Vowel{{Roman: "a", Open: Pattern{Post: "ะ"}}}

	_, err := New([]Onset{{Roman: "k", Forms: []string{"ก"}}, {Roman: "k", Forms: []string{"ก"}}}, vowels, nil)
	assert.ErrorContains(t, err, "duplicate onset")

	_, err = New([]Onset{{Roman: "k", Forms: []string{"g"}}}, vowels, nil)
	assert.ErrorContains(t, err, "not Thai script")

	_, err = New([]Onset{{Roman: "k", Forms: []string{"า"}}}, vowels, nil)
	assert.ErrorContains(t, err, "does not start with a consonant")

	_, err = New([]Onset{{Roman: "K1", Forms: []string{"ก"}}}, vowels, nil)
	assert.Error(t, err)

	_, err = New(nil, vowels, nil)
	assert.Error(t, err)

	_, err = New([]Onset{{Roman: "k", Forms: []string{"ก"}}}, vowels, []Coda{{Roman: "n"}})
	assert.ErrorContains(t, err, "no Thai forms")
}

func TestSyllableRender(t *testing.T) {
	inv := defaultInv(t)
	tests := []struct {
		onset, vowel, coda string
		mark               Mark
		want               string
		tone               Tone
	}{
		{"kh", "o", "n", MarkNone, "ขน", ToneRising},
		{"b", "aa", "n", MarkTho, "บ้าน", ToneFalling},
		{"d", "ii", "", MarkNone, "ดี", ToneMid},
		{"d", "er", "n", MarkNone, "เดิน", ToneMid},
		{"l", "er", "y", MarkNone, "เลย", ToneMid},
		{"khr", "a", "p", MarkNone, "ครับ", ToneHigh},
		{"kh", "e", "n", MarkNone, "เข็น", ToneRising},
		{"kh", "e", "n", MarkTho, "เข้น", ToneFalling},
		{"ph", "uea", "n", MarkEk, "เผื่อน", ToneLow},
		{"", "aa", "", MarkNone, "อา", ToneMid},
		{"c", "ai", "", MarkNone, "ไจ", ToneMid},
		{"s", "ua", "n", MarkNone, "สวน", ToneRising},
		{"m", "aa", "k", MarkNone, "มาก", ToneFalling},
		{"r", "oi", "", MarkEk, "ร่อย", ToneFalling},
	}
	for _, tt := range tests {
		s := syllable(t, inv, tt.onset, tt.vowel, tt.coda)
		if got := s.Render(tt.mark); got != tt.want {
			t.Errorf("Render(%s+%s+%s, %q) = %q, want %q", tt.onset, tt.vowel, tt.coda, tt.mark, got, tt.want)
		}
		if got := s.Tone(tt.mark); got != tt.tone {
			t.Errorf("Tone(%s) = %v, want %v", s.Roman(), got, tt.tone)
		}
		assert.Equal(t, tt.onset+tt.vowel+tt.coda, s.Roman())
	}
}
