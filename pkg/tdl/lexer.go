package tdl

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// TDLLexer defines the lexical structure of target description files.
// Keywords are plain identifiers matched by value in the grammar.
var TDLLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Numbers; hex and binary must come before plain integers
	{Name: "Hex", Pattern: `0[xX][0-9a-fA-F][0-9a-fA-F_]*`},
	{Name: "Binary", Pattern: `0[bB][01][01_]*`},
	{Name: "Int", Pattern: `[0-9][0-9_]*`},

	{Name: "Range", Pattern: `\.\.`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},

	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})
