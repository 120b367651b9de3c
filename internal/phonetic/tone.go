package phonetic

import "fmt"

// Tone is one of the five phonological tones of standard Thai. The numeric
// value is the digit users append to a romanized word to select it.
type Tone int

const (
	ToneMid Tone = iota + 1
	ToneLow
	ToneFalling
	ToneHigh
	ToneRising
)

var toneNames = map[Tone]string{
	ToneMid:     "mid",
	ToneLow:     "low",
	ToneFalling: "falling",
	ToneHigh:    "high",
	ToneRising:  "rising",
}

// ToneFromDigit maps the user-facing tone digit 1-5 to a Tone.
func ToneFromDigit(d int) (Tone, bool) {
	t := Tone(d)
	if _, ok := toneNames[t]; !ok {
		return 0, false
	}
	return t, true
}

func (t Tone) Digit() int { return int(t) }

func (t Tone) Valid() bool {
	_, ok := toneNames[t]
	return ok
}

func (t Tone) String() string {
	if name, ok := toneNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tone(%d)", int(t))
}

func (t Tone) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tone %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts a tone name or its digit.
func (t *Tone) UnmarshalText(b []byte) error {
	s := string(b)
	for tone, name := range toneNames {
		if name == s {
			*t = tone
			return nil
		}
	}
	if len(s) == 1 {
		if tone, ok := ToneFromDigit(int(s[0] - '0')); ok {
			*t = tone
			return nil
		}
	}
	return fmt.Errorf("unknown tone %q", s)
}

// Class is the Thai consonant class that decides how a syllable's tone is
// read from its spelling.
type Class int

const (
	ClassMid Class = iota + 1
	ClassHigh
	ClassLow
)

func (c Class) String() string {
	switch c {
	case ClassMid:
		return "mid"
	case ClassHigh:
		return "high"
	case ClassLow:
		return "low"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

var consonantClasses = func() map[rune]Class {
	m := make(map[rune]Class, 44)
	for _, r := range "กจฎฏดตบปอ" {
		m[r] = ClassMid
	}
	for _, r := range "ขฃฉฐถผฝศษสห" {
		m[r] = ClassHigh
	}
	for _, r := range "คฅฆงชซฌญฑฒณทธนพฟภมยรลวฬฮ" {
		m[r] = ClassLow
	}
	return m
}()

// ClassOf reports the class of a Thai consonant letter.
func ClassOf(r rune) (Class, bool) {
	c, ok := consonantClasses[r]
	return c, ok
}

// Mark is a Thai tone mark, written after the onset consonant and any
// above/below vowel.
type Mark string

const (
	MarkNone     Mark = ""
	MarkEk       Mark = "่"
	MarkTho      Mark = "้"
	MarkTri      Mark = "๊"
	MarkChattawa Mark = "๋"
)

var markOrder = []Mark{MarkNone, MarkEk, MarkTho, MarkTri, MarkChattawa}

// SyllableTone applies the standard Thai tone rule: consonant class, live or
// dead syllable, vowel length for dead low-class syllables, and the mark.
func SyllableTone(c Class, live, long bool, m Mark) Tone {
	switch m {
	case MarkEk:
		if c == ClassLow {
			return ToneFalling
		}
		return ToneLow
	case MarkTho:
		if c == ClassLow {
			return ToneHigh
		}
		return ToneFalling
	case MarkTri:
		return ToneHigh
	case MarkChattawa:
		return ToneRising
	}

	switch c {
	case ClassMid:
		if live {
			return ToneMid
		}
		return ToneLow
	case ClassHigh:
		if live {
			return ToneRising
		}
		return ToneLow
	default:
		if live {
			return ToneMid
		}
		if long {
			return ToneFalling
		}
		return ToneHigh
	}
}

// MarkFor finds the mark that gives a syllable the wanted tone. Mai tri and
// mai chattawa are only written on mid-class consonants. It reports false
// when the class and syllable shape cannot carry the tone.
func MarkFor(c Class, live, long bool, want Tone) (Mark, bool) {
	for _, m := range markOrder {
		if (m == MarkTri || m == MarkChattawa) && c != ClassMid {
			continue
		}
		if SyllableTone(c, live, long, m) == want {
			return m, true
		}
	}
	return MarkNone, false
}
