package dsl

import "testing"

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lex := NewLexer(src)
	var toks []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("lex %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks
		}
	}
}

func TestLexer_Punctuation(t *testing.T) {
	toks := lexAll(t, "[:=,;|.]")
	want := []TokenKind{TokLBrack, TokColon, TokEquals, TokComma, TokSemi, TokPipe, TokDot, TokRBrack, TokEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexer_NumbersIncludingNegativeAndFloat(t *testing.T) {
	toks := lexAll(t, "42 -3.5 0.25")
	var nums []string
	for _, tok := range toks {
		if tok.Kind == TokNumber {
			nums = append(nums, tok.Text)
		}
	}
	want := []string{"42", "-3.5", "0.25"}
	if len(nums) != len(want) {
		t.Fatalf("got %v, want %v", nums, want)
	}
	for i := range want {
		if nums[i] != want[i] {
			t.Errorf("number %d: got %q, want %q", i, nums[i], want[i])
		}
	}
}

func TestLexer_StringWithEscape(t *testing.T) {
	toks := lexAll(t, `"hello \"world\""`)
	if toks[0].Kind != TokString {
		t.Fatalf("expected TokString, got %s", toks[0].Kind)
	}
	if toks[0].Text != `hello "world"` {
		t.Errorf("got %q, want %q", toks[0].Text, `hello "world"`)
	}
}

func TestLexer_UnterminatedStringErrors(t *testing.T) {
	lex := NewLexer(`"unterminated`)
	if _, err := lex.Next(); err == nil {
		t.Error("expected error for unterminated string")
	}
}

func TestLexer_ColorLiteral(t *testing.T) {
	toks := lexAll(t, "#ff0000 #aabbccdd")
	if toks[0].Kind != TokColor || toks[0].Text != "ff0000" {
		t.Errorf("got kind=%s text=%q, want color ff0000", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != TokColor || toks[1].Text != "aabbccdd" {
		t.Errorf("got kind=%s text=%q, want color aabbccdd", toks[1].Kind, toks[1].Text)
	}
}

func TestLexer_InvalidColorLengthErrors(t *testing.T) {
	lex := NewLexer("#fff")
	if _, err := lex.Next(); err == nil {
		t.Error("expected error for a color literal with the wrong digit count")
	}
}

func TestLexer_IdentAndKeywords(t *testing.T) {
	toks := lexAll(t, "gaussian_blur true false source_a")
	for i, want := range []string{"gaussian_blur", "true", "false", "source_a"} {
		if toks[i].Kind != TokIdent || toks[i].Text != want {
			t.Errorf("token %d: got kind=%s text=%q, want ident %q", i, toks[i].Kind, toks[i].Text, want)
		}
	}
}

func TestLexer_UnexpectedCharacterErrors(t *testing.T) {
	lex := NewLexer("@")
	if _, err := lex.Next(); err == nil {
		t.Error("expected error for an unrecognized character")
	}
}
