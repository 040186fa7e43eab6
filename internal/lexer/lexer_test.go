package lexer

import (
	"testing"

	"github.com/duck-lang/duck/internal/token"
)

func collect(l *Lexer) []token.Token {
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == token.EOF {
			return toks
		}
	}
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, got []token.Type, want ...token.Type) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	l := New(0, "var x = foo and bar")
	toks := collect(l)
	assertTypes(t, types(toks),
		token.VAR, token.IDENT, token.ASSIGN, token.IDENT, token.AND, token.IDENT, token.EOF)
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		src  string
		want token.Type
	}{
		{"123", token.REAL},
		{".5", token.REAL},
		{"1.25", token.REAL},
		{"0x1F", token.HEX},
		{"$FF00", token.HEX},
	}
	for _, c := range cases {
		l := New(0, c.src)
		tok := l.NextToken()
		if tok.Type != c.want {
			t.Errorf("%q: got %s want %s", c.src, tok.Type, c.want)
		}
		if tok.Literal == "" {
			t.Errorf("%q: empty literal", c.src)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(0, `"hello\nworld"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("got %s", tok.Type)
	}
	if tok.Literal != "hello\nworld" {
		t.Fatalf("got %q", tok.Literal)
	}
}

func TestRawString(t *testing.T) {
	l := New(0, `@"line\nnot-an-escape"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("got %s", tok.Type)
	}
	if tok.Literal != `line\nnot-an-escape` {
		t.Fatalf("got %q", tok.Literal)
	}
}

func TestOperators(t *testing.T) {
	l := New(0, "+ += ++ ?? ?. <= <> == != && ||")
	toks := collect(l)
	assertTypes(t, types(toks),
		token.PLUS, token.PLUS_ASSIGN, token.INC, token.QUESTION_QUESTION,
		token.QUESTION_DOT, token.LESS_EQ, token.NOT_EQ, token.EQ_EQ,
		token.NOT_EQ, token.AMP_AMP, token.PIPE_PIPE, token.EOF)
}

func TestLineCommentDiscarded(t *testing.T) {
	l := New(0, "x // a comment\ny")
	toks := collect(l)
	assertTypes(t, types(toks), token.IDENT, token.IDENT, token.EOF)
}

func TestSuppressionComment(t *testing.T) {
	l := New(0, "//#[warn(non-pascal-case)]\nx")
	toks := collect(l)
	if toks[0].Type != token.SUPPRESSION {
		t.Fatalf("got %s", toks[0].Type)
	}
	if toks[0].Suppression == nil || toks[0].Suppression.Rule != "non-pascal-case" {
		t.Fatalf("bad suppression payload: %+v", toks[0].Suppression)
	}
	if toks[0].Suppression.Level != token.SuppressionWarn {
		t.Fatalf("got level %s", toks[0].Suppression.Level)
	}
}

func TestMacro(t *testing.T) {
	l := New(0, "#macro cfg:MY_CONST 42\nx")
	toks := collect(l)
	if toks[0].Type != token.MACRO {
		t.Fatalf("got %s", toks[0].Type)
	}
	if toks[0].Macro == nil || toks[0].Macro.Name != "MY_CONST" || toks[0].Macro.Config != "cfg" || toks[0].Macro.Body != "42" {
		t.Fatalf("bad macro payload: %+v", toks[0].Macro)
	}
}

func TestRegionDiscarded(t *testing.T) {
	l := New(0, "#region setup\nx\n#endregion")
	toks := collect(l)
	assertTypes(t, types(toks), token.IDENT, token.EOF)
}

func TestNeverFailsOnGarbage(t *testing.T) {
	l := New(0, "@#$%\x00\x01 normal_ident")
	toks := collect(l)
	if toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("lexer did not reach EOF cleanly: %v", types(toks))
	}
	found := false
	for _, tok := range toks {
		if tok.Type == token.IDENT && tok.Literal == "normal_ident" {
			found = true
		}
	}
	if !found {
		t.Fatalf("lexer lost valid token after garbage: %v", toks)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New(0, "a b c")
	first := l.Peek(0)
	second := l.Peek(1)
	if first.Literal != "a" || second.Literal != "b" {
		t.Fatalf("peek mismatch: %q %q", first.Literal, second.Literal)
	}
	next := l.NextToken()
	if next.Literal != "a" {
		t.Fatalf("NextToken after Peek got %q", next.Literal)
	}
}

func TestSaveRestoreState(t *testing.T) {
	l := New(0, "a b c")
	_ = l.NextToken()
	state := l.SaveState()
	second := l.NextToken()
	if second.Literal != "b" {
		t.Fatalf("got %q", second.Literal)
	}
	l.RestoreState(state)
	replay := l.NextToken()
	if replay.Literal != "b" {
		t.Fatalf("after restore got %q", replay.Literal)
	}
}

func TestDsAccessorMarkers(t *testing.T) {
	l := New(0, "a[@ 0] b[# 0, 0] c[$ k] d[? k]")
	toks := collect(l)
	assertTypes(t, types(toks),
		token.IDENT, token.LBRACK, token.AT, token.REAL, token.RBRACK,
		token.IDENT, token.LBRACK, token.HASH, token.REAL, token.COMMA, token.REAL, token.RBRACK,
		token.IDENT, token.LBRACK, token.DOLLAR, token.IDENT, token.RBRACK,
		token.IDENT, token.LBRACK, token.QUESTION, token.IDENT, token.RBRACK,
		token.EOF)
}

func TestMiscConstants(t *testing.T) {
	l := New(0, "pi", WithMiscConstants([]string{"pi"}))
	tok := l.NextToken()
	if tok.Type != token.MISC_CONSTANT {
		t.Fatalf("got %s", tok.Type)
	}
}
