package vexsql

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// schemaLexer defines the lexer for .vex schema files.
var schemaLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Whitespace and comments (elided from output)
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
		{Name: "LineComment", Pattern: `//[^\r\n]*`, Action: nil},
		{Name: "HashComment", Pattern: `#[^\r\n]*`, Action: nil},

		// Multi-character operators (must come before single-char)
		{Name: "Arrow", Pattern: `->`},

		// Single-character tokens
		{Name: "Dot", Pattern: `\.`},
		{Name: "Colon", Pattern: `:`},
		{Name: "Comma", Pattern: `,`},
		{Name: "LBrace", Pattern: `\{`},
		{Name: "RBrace", Pattern: `\}`},

		// Identifiers (keywords matched by literal in the grammar)
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	},
})
