package parse

import "github.com/alecthomas/participle/v2/lexer"

// sourceLexer tokenizes the surface syntax: package/import/func/var/const/
// type/struct declarations, if/while/for/return/assignment statements, and
// the ten expression forms the checker accepts.
var sourceLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Int", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Operator", `(==|!=|<=|>=|&&|\|\||[-+*/%<>=!])`, nil},
		{"Punctuation", `[{}()\[\].,:;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
