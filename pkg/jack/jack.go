// Package jack implements the tokenizer for the front end of the toolchain:
// the Jack→VM compiler proper is out of scope (see spec Non-goals), but the
// Token stream it would consume is a required external interface, matching
// the classic Nand2Tetris tokenizer (emits a '<file>T.xml'-equivalent
// stream) without the downstream parser/codegen stages.
package jack

import "fmt"

// Token is the sum type over every lexical unit of the Jack language.
// Exactly one of the five concrete variants below implements it.
type Token interface{ isToken() }

// Keyword is one of the Jack language's reserved words (see Keywords).
type Keyword struct{ Value string }

func (Keyword) isToken() {}

// Symbol is one of the Jack language's single-character punctuators (see Symbols).
type Symbol struct{ Value string }

func (Symbol) isToken() {}

// Identifier is a user-defined name: a class, variable, subroutine, and so on.
type Identifier struct{ Value string }

func (Identifier) isToken() {}

// StringConstant is a double-quoted string literal, with quotes stripped.
type StringConstant struct{ Value string }

func (StringConstant) isToken() {}

// IntegerConstant is an unsigned integer literal in [0, 65535] (any unsigned 16 bit value).
type IntegerConstant struct{ Value uint16 }

func (IntegerConstant) isToken() {}

func (t IntegerConstant) String() string { return fmt.Sprint(t.Value) }

// Keywords is the closed set of Jack reserved words; an Identifier candidate
// matching one of these is reclassified as a Keyword by the tokenizer.
var Keywords = map[string]bool{
	"class": true, "constructor": true, "function": true, "method": true,
	"field": true, "static": true, "var": true,
	"int": true, "char": true, "boolean": true, "void": true,
	"true": true, "false": true, "null": true, "this": true,
	"let": true, "do": true, "if": true, "else": true, "while": true, "return": true,
}

// Symbols is the closed set of single-character Jack punctuators.
var Symbols = map[string]bool{
	"{": true, "}": true, "(": true, ")": true, "[": true, "]": true,
	".": true, ",": true, ";": true,
	"+": true, "-": true, "*": true, "/": true,
	"&": true, "|": true, "<": true, ">": true, "=": true, "~": true,
}
