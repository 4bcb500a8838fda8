// Package morse maps button press durations to pulse symbols and pulse
// sequences to characters.
package morse

import (
	"time"
	"unicode"
)

// Symbol is a single morse pulse.
type Symbol uint8

const (
	Short Symbol = iota
	Long
)

// Threshold separates short presses from long ones. A press of exactly
// Threshold is Long.
const Threshold = 200 * time.Millisecond

// MaxSequence is the longest pulse sequence in the table.
const MaxSequence = 6

func (s Symbol) String() string {
	if s == Long {
		return "-"
	}
	return "."
}

// Classify turns a measured press duration into a pulse symbol.
func Classify(d time.Duration) Symbol {
	if d >= Threshold {
		return Long
	}
	return Short
}

type entry struct {
	code string
	char rune
}

// table is written in dot/dash notation and parsed once at init.
var table = []entry{
	{".-", 'A'}, {"-...", 'B'}, {"-.-.", 'C'}, {"-..", 'D'}, {".", 'E'},
	{"..-.", 'F'}, {"--.", 'G'}, {"....", 'H'}, {"..", 'I'}, {".---", 'J'},
	{"-.-", 'K'}, {".-..", 'L'}, {"--", 'M'}, {"-.", 'N'}, {"---", 'O'},
	{".--.", 'P'}, {"--.-", 'Q'}, {".-.", 'R'}, {"...", 'S'}, {"-", 'T'},
	{"..-", 'U'}, {"...-", 'V'}, {".--", 'W'}, {"-..-", 'X'}, {"-.--", 'Y'},
	{"--..", 'Z'},

	{".----", '1'}, {"..---", '2'}, {"...--", '3'}, {"....-", '4'}, {".....", '5'},
	{"-....", '6'}, {"--...", '7'}, {"---..", '8'}, {"----.", '9'}, {"-----", '0'},

	{".-...", '&'}, {".--.-.", '@'}, {"---...", ':'}, {"--..--", ','},
	{".-.-.-", '.'}, {".----.", '\''}, {".-..-.", '"'}, {"..--..", '?'},
	{"-..-.", '/'}, {"-...-", '='}, {".-.-.", '+'}, {"-....-", '-'},
	{"-.--.", '('}, {"-.--.-", ')'}, {"-.-.--", '!'},
}

var (
	decodeTable = make(map[string]rune, len(table))
	encodeTable = make(map[rune][]Symbol, len(table))
)

func init() {
	for _, e := range table {
		seq := make([]Symbol, 0, len(e.code))
		for _, c := range e.code {
			if c == '-' {
				seq = append(seq, Long)
			} else {
				seq = append(seq, Short)
			}
		}
		decodeTable[e.code] = e.char
		encodeTable[e.char] = seq
	}
}

// Decode looks up an exact pulse sequence. Empty, overlong and unknown
// sequences report false.
func Decode(seq []Symbol) (rune, bool) {
	if len(seq) == 0 || len(seq) > MaxSequence {
		return 0, false
	}
	var key [MaxSequence]byte
	for i, s := range seq {
		key[i] = s.String()[0]
	}
	c, ok := decodeTable[string(key[:len(seq)])]
	return c, ok
}

// Encode returns the pulse sequence for c. Letters are matched
// case-insensitively. The returned slice is a copy.
func Encode(c rune) ([]Symbol, bool) {
	seq, ok := encodeTable[unicode.ToUpper(c)]
	if !ok {
		return nil, false
	}
	out := make([]Symbol, len(seq))
	copy(out, seq)
	return out, true
}

// Format renders a sequence in dot/dash notation.
func Format(seq []Symbol) string {
	b := make([]byte, len(seq))
	for i, s := range seq {
		b[i] = s.String()[0]
	}
	return string(b)
}
