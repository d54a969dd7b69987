package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"

	"github.com/n2t-toolchain/vmhack/pkg/jack"
	"github.com/n2t-toolchain/vmhack/pkg/utils"
)

var Description = strings.ReplaceAll(`
The Jack Tokenizer scans Jack source files (composed of multiple classes/files) and
emits, for each one, the classic Nand2Tetris '<file>T.xml' token stream: one line per
lexical token, in source order. It performs no parsing beyond lexing.
`, "\n", " ")

var JackTokenizer = cli.New(Description).
	// 'AsOptional()' allows more than one input .jack file (or directory to recurse into).
	WithArg(cli.NewArg("inputs", "The source (.jack) file(s) or director(y/ies) to tokenize").
		AsOptional().WithType(cli.TypeString)).
	WithAction(Handler)

// closeBrackets maps each of the three closing bracket Symbols to its opening
// counterpart, for checkBracketBalance to run over the finished token stream;
// mismatches are reported against the offending closing bracket.
var closeBrackets = map[string]string{")": "(", "]": "[", "}": "{"}

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	TUs := []string{}
	for _, input := range args {
		filepath.Walk(input, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ".jack" {
				return nil // Recurse into directories, skip non '.jack' files
			}
			TUs = append(TUs, path)
			return nil
		})
	}

	for _, tu := range TUs {
		content, err := os.ReadFile(tu)
		if err != nil {
			fmt.Printf("ERROR: Unable to open input file: %s\n", err)
			return -1
		}

		parser := jack.NewParser(bytes.NewReader(content))
		tokens, err := parser.Parse()
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'tokenizing' pass: %s\n", err)
			return -1
		}

		if err := checkBracketBalance(tokens); err != nil {
			fmt.Printf("ERROR: Unbalanced brackets in '%s': %s\n", tu, err)
			return -1
		}

		extension := filepath.Ext(tu)
		outPath := fmt.Sprintf("%sT.xml", strings.TrimSuffix(tu, extension))
		output, err := os.Create(outPath)
		if err != nil {
			fmt.Printf("ERROR: Unable to open output file: %s\n", err)
			return -1
		}
		defer output.Close()

		writeTokenXML(output, tokens)
	}

	return 0
}

// checkBracketBalance walks the token stream with a Stack of open brackets,
// verifying every closing bracket matches the most recently opened one and
// that nothing is left open at end of file.
func checkBracketBalance(tokens []jack.Token) error {
	open := utils.NewStack[string]()

	for _, tok := range tokens {
		symbol, ok := tok.(jack.Symbol)
		if !ok {
			continue
		}

		switch symbol.Value {
		case "(", "[", "{":
			open.Push(symbol.Value)
		case ")", "]", "}":
			top, err := open.Pop()
			if err != nil {
				return fmt.Errorf("unexpected closing '%s' with nothing open", symbol.Value)
			}
			if top != closeBrackets[symbol.Value] {
				return fmt.Errorf("expected closing for '%s', got '%s'", top, symbol.Value)
			}
		}
	}

	if open.Count() > 0 {
		unclosed, _ := open.Top()
		return fmt.Errorf("unclosed '%s' at end of file", unclosed)
	}
	return nil
}

// writeTokenXML emits the classic Nand2Tetris token-file format: a root
// '<tokens>' element wrapping one tagged line per lexical token.
func writeTokenXML(output *os.File, tokens []jack.Token) {
	fmt.Fprintln(output, "<tokens>")
	for _, tok := range tokens {
		tag, text := tagAndText(tok)
		fmt.Fprintf(output, "<%s> %s </%s>\n", tag, xmlEscape(text), tag)
	}
	fmt.Fprintln(output, "</tokens>")
}

func tagAndText(tok jack.Token) (tag string, text string) {
	switch t := tok.(type) {
	case jack.Keyword:
		return "keyword", t.Value
	case jack.Symbol:
		return "symbol", t.Value
	case jack.Identifier:
		return "identifier", t.Value
	case jack.StringConstant:
		return "stringConstant", t.Value
	case jack.IntegerConstant:
		return "integerConstant", t.String()
	default:
		return "unknown", ""
	}
}

func xmlEscape(text string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return replacer.Replace(text)
}

func main() { os.Exit(JackTokenizer.Run(os.Args, os.Stdout)) }
