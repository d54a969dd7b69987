package jack_test

import (
	"strings"
	"testing"

	"github.com/n2t-toolchain/vmhack/pkg/jack"
)

func tokenize(t *testing.T, source string) []jack.Token {
	parser := jack.NewParser(strings.NewReader(source))
	tokens, err := parser.Parse()
	if err != nil {
		t.Fatalf("unexpected error tokenizing %q: %s", source, err)
	}
	return tokens
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	tokens := tokenize(t, "class Foo { field int bar; }")

	expected := []jack.Token{
		jack.Keyword{Value: "class"},
		jack.Identifier{Value: "Foo"},
		jack.Symbol{Value: "{"},
		jack.Keyword{Value: "field"},
		jack.Keyword{Value: "int"},
		jack.Identifier{Value: "bar"},
		jack.Symbol{Value: ";"},
		jack.Symbol{Value: "}"},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(expected), len(tokens), tokens)
	}
	for i := range expected {
		if tokens[i] != expected[i] {
			t.Fatalf("token %d: expected %+v, got %+v", i, expected[i], tokens[i])
		}
	}
}

func TestStringAndIntegerConstants(t *testing.T) {
	tokens := tokenize(t, `let msg = "hello, world"; let n = 42;`)

	wantString := jack.StringConstant{Value: "hello, world"}
	wantInt := jack.IntegerConstant{Value: 42}

	var gotString, gotInt bool
	for _, tok := range tokens {
		if tok == jack.Token(wantString) {
			gotString = true
		}
		if tok == jack.Token(wantInt) {
			gotInt = true
		}
	}

	if !gotString {
		t.Errorf("expected to find string constant %+v among %+v", wantString, tokens)
	}
	if !gotInt {
		t.Errorf("expected to find integer constant %+v among %+v", wantInt, tokens)
	}
}

func TestIntegerConstantOutOfRangeFails(t *testing.T) {
	parser := jack.NewParser(strings.NewReader("let n = 99999;"))
	if _, err := parser.Parse(); err == nil {
		t.Fatal("expected an error for an out-of-range integer constant, got none")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	source := `
// this is a line comment
let x = 1; /* this is a
block comment */ let y = 2;
`
	tokens := tokenize(t, source)

	for _, tok := range tokens {
		if str, ok := tok.(jack.StringConstant); ok && strings.Contains(str.Value, "comment") {
			t.Fatalf("comment leaked into token stream: %+v", tok)
		}
	}

	// Both 'let' statements should have survived, the comments shouldn't have.
	var letCount int
	for _, tok := range tokens {
		if kw, ok := tok.(jack.Keyword); ok && kw.Value == "let" {
			letCount++
		}
	}
	if letCount != 2 {
		t.Fatalf("expected 2 'let' keywords, got %d: %+v", letCount, tokens)
	}
}

func TestAllSymbolsRecognized(t *testing.T) {
	for symbol := range jack.Symbols {
		tokens := tokenize(t, symbol)
		if len(tokens) != 1 {
			t.Fatalf("symbol %q: expected exactly 1 token, got %+v", symbol, tokens)
		}
		if tokens[0] != jack.Token(jack.Symbol{Value: symbol}) {
			t.Fatalf("symbol %q: expected Symbol token, got %+v", symbol, tokens[0])
		}
	}
}
