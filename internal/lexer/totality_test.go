package lexer

import (
	"math/rand"
	"testing"

	"github.com/duck-lang/duck/internal/token"
)

// TestTotalityRandomBytes is spec §8's lexer-totality property: for
// every input byte sequence, the lexer produces a finite token stream
// ending in Eof, with no panic and no nontermination. collect itself
// would hang on a lexer that can get stuck not advancing the cursor, so
// a bound on emitted tokens (generous relative to input length) turns
// a hang into a reported failure instead of a stuck test run.
func TestTotalityRandomBytes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(64)
		buf := make([]byte, n)
		rng.Read(buf)
		assertTerminates(t, string(buf))
	}
}

// TestTotalityRandomRunes mixes in multi-byte runes (valid and
// malformed UTF-8 both slip through since Go strings are just bytes),
// since a purely random-byte sweep skews toward single-byte garbage.
func TestTotalityRandomRunes(t *testing.T) {
	alphabet := []rune("abc123 \t\n\"'@#$%^&*()[]{}<>=+-/\\_.,;:?!日本語🎮\x00")
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(48)
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		assertTerminates(t, string(runes))
	}
}

// TestTotalityKnownTrickyInputs targets the specific shapes most likely
// to trip a hand-written scanner: unterminated strings/comments/raw
// strings, a lone escape or dollar-hex marker at EOF, and malformed
// UTF-8 continuation bytes.
func TestTotalityKnownTrickyInputs(t *testing.T) {
	inputs := []string{
		"",
		"\x00",
		"\"unterminated",
		"\"unterminated\\",
		"@\"unterminated raw",
		"/* unterminated block comment",
		"//",
		"//#[",
		"//#[warn(",
		"//#[warn(foo",
		"$",
		"$zz",
		".",
		"1.",
		".5",
		"#",
		"#macro",
		"#region",
		"\xff\xfe\xfd",
		"\xc0",
		"'",
		string([]byte{0x80, 0x80, 0x80}),
	}
	for _, in := range inputs {
		assertTerminates(t, in)
	}
}

// assertTerminates runs the lexer to completion (or a generous token
// cap) and fails the test instead of hanging if Eof is never reached.
func assertTerminates(t *testing.T, src string) {
	t.Helper()
	l := New(token.FileId(1), src)
	limit := 4*len(src) + 16
	for i := 0; i < limit; i++ {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return
		}
	}
	t.Fatalf("lexer did not reach Eof within %d tokens for input %q", limit, src)
}
