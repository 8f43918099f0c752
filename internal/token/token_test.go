package token

import "testing"

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		EOF:       "EOF",
		BangCaret: "!^",
		DotDot:    "..",
		Kind(200): "Kind(200)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestIsBinaryOp(t *testing.T) {
	for _, k := range []Kind{Amp, Pipe, Caret, BangAmp, BangPipe, BangCaret, Question} {
		if !k.IsBinaryOp() {
			t.Errorf("%s should be a binary operator", k)
		}
	}
	for _, k := range []Kind{Bang, Dot, Assign, Ident} {
		if k.IsBinaryOp() {
			t.Errorf("%s should not be a binary operator", k)
		}
	}
}

func TestTokenIsWord(t *testing.T) {
	tok := Token{Kind: Ident, Text: "wire"}
	if !tok.Is("wire") || tok.Is("in") {
		t.Fatalf("Is mismatch for %+v", tok)
	}
	if _, ok := LookupKeyword("True"); ok {
		t.Fatalf("keywords must be case-sensitive")
	}
}
