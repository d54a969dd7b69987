package jack

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// Parser Combinator(s)

// This section defines the Parser Combinator for every lexical unit of the Jack
// language. Unlike the full Jack grammar (classes, subroutines, statements,
// expressions) this tokenizer is flat: it produces one leaf per token, in
// source order, with no nesting.

var ast = pc.NewAST("jack_tokens", 0)

var (
	// Top level object: every token or comment in the source, until EOF.
	// Comments are recognized here (so they don't get mis-lexed as symbols)
	// but dropped during the AST --> Token pass, same as the Vm/Asm tokenizers.
	pTokens = ast.ManyUntil("tokens", nil,
		ast.OrdChoice("token", nil, pComment, pStringConst, pIntConst, pSymbol, pWord), pc.End())

	pComment = ast.OrdChoice("comment", nil,
		// Single line comments (e.g. "// This is a comment")
		ast.And("sl_comment", nil, pc.Atom("//", "//"), pc.Token(`(?m).*$`, "COMMENT")),
		// Multi line comments (e.g. "/* This is a comment */")
		ast.And("ml_comment", nil, pc.Token(`/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`, "COMMENT")),
	)

	// String constant, quotes are kept in the raw match and stripped in HandleStringConst.
	pStringConst = ast.And("string_const", nil, pc.Token(`"(?:\\.|[^"\\])*"`, "STRING"))

	// Integer constant; range checking (Jack constants are unsigned 16 bit) happens
	// in HandleIntConst, not here.
	pIntConst = ast.And("int_const", nil, pc.Int())

	// Single-character punctuator, see jack.Symbols for the closed set.
	pSymbol = ast.And("symbol", nil, pc.Token(`[{}()\[\].,;+\-*/&|<>=~]`, "SYMBOL"))

	// Either a keyword or an identifier; disambiguated against jack.Keywords
	// in HandleWord since both share the same lexical shape.
	pWord = ast.And("word", nil, pc.Token(`[A-Za-z_][A-Za-z0-9_]*`, "WORD"))
)

// ----------------------------------------------------------------------------
// Jack Tokenizer

// This section defines the Tokenizer for the nand2tetris Jack language.
//
// It uses parser combinators to obtain the AST from the source code (the latter can be provided)
// in multiple ways using a generic io.Reader, the library reads up the feature flags (as env vars):
// - PARSEC_DEBUG: Verbose logging to inspect which of the PCs gets triggered and match
// - EXPORT_AST:   Exports in the DEBUG_FOLDER a Graphviz representation of the AST
// - PRINT_AST:    Print on the stdout a textual representation of the AST
type Parser struct{ reader io.Reader }

// Initializes and returns to the caller a brand new 'Parser' struct.
// Requires the argument io.Reader 'r' to be valid and usable.
func NewParser(r io.Reader) Parser {
	return Parser{reader: r}
}

// Parser entrypoint divides the 2 phases of the parsing pipeline
// Text --> AST: This step is done using PCs and returns a generic traversable AST
// AST --> IR: This step is done by traversing the AST and extracting the '[]jack.Token'
func (p *Parser) Parse() ([]Token, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read from 'io.Reader': %s", err)
	}

	root, success := p.FromSource(content)
	if !success {
		return nil, fmt.Errorf("failed to parse AST from input content")
	}

	return p.FromAST(root)
}

// Scans the textual input stream coming from the 'reader' method and returns a traversable AST
// (Abstract Syntax Tree) that can be eventually visited to extract/transform the info available.
func (p *Parser) FromSource(source []byte) (pc.Queryable, bool) {

	// Feature flag: Enable 'goparsec' library's debug logs
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	// We generate the traversable Abstract Syntax Tree from the source content
	root, _ := ast.Parsewith(pTokens, pc.NewScanner(source))

	// Feature flag: Enables export of the AST as Dot file (debug.ast.dot)
	if os.Getenv("EXPORT_AST") != "" {
		file, _ := os.Create(fmt.Sprintf("%s/debug.ast.dot", os.Getenv("DEBUG_FOLDER")))
		defer file.Close()

		file.Write([]byte(ast.Dotstring("\"Jack AST\"")))
	}

	// Feature flag: Enables pretty printing of the AST on the console
	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}
	// TODO (hmny): This hardcoding to true should be changed
	return root, true // Success is based on the reaching of 'EOF'
}

// This function takes the root node of the raw parsed AST and does a flat pass on it,
// converting one by one each leaf into its 'jack.Token' counterpart. Comment leaves
// carry no semantic value for downstream consumers and are dropped here.
func (p *Parser) FromAST(root pc.Queryable) ([]Token, error) {
	tokens := []Token{}

	if root.GetName() != "tokens" {
		return nil, fmt.Errorf("expected node 'tokens', found %s", root.GetName())
	}

	for _, child := range root.GetChildren() {
		switch child.GetName() {
		case "sl_comment", "ml_comment", "comment":
			continue

		case "string_const":
			tok, err := p.HandleStringConst(child)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case "int_const":
			tok, err := p.HandleIntConst(child)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case "symbol":
			tokens = append(tokens, Symbol{Value: child.GetValue()})

		case "word":
			tokens = append(tokens, p.HandleWord(child))

		default:
			return nil, fmt.Errorf("unrecognized node '%s'", child.GetName())
		}
	}

	return tokens, nil
}

// Specialized function to convert a "string_const" node to a 'jack.StringConstant'.
func (Parser) HandleStringConst(node pc.Queryable) (Token, error) {
	raw := node.GetValue()
	return StringConstant{Value: strings.Trim(raw, `"`)}, nil
}

// Specialized function to convert a "int_const" node to a 'jack.IntegerConstant'.
func (Parser) HandleIntConst(node pc.Queryable) (Token, error) {
	value, err := strconv.ParseUint(node.GetValue(), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("integer constant '%s' out of range for a 16 bit value", node.GetValue())
	}
	return IntegerConstant{Value: uint16(value)}, nil
}

// Specialized function to convert a "word" node to either a 'jack.Keyword' or 'jack.Identifier'.
func (Parser) HandleWord(node pc.Queryable) Token {
	word := node.GetValue()
	if Keywords[word] {
		return Keyword{Value: word}
	}
	return Identifier{Value: word}
}
