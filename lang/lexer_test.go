package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []TokenKind
	}{
		{name: "parens_and_brackets", src: "([{}])", want: []TokenKind{
			TokenLParen, TokenLBracket, TokenLBrace, TokenRBrace, TokenRBracket, TokenRParen,
		}},
		{name: "quote_and_deref", src: "'x @y", want: []TokenKind{
			TokenQuote, TokenSymbol, TokenDeref, TokenSymbol,
		}},
		{name: "keyword", src: ":apple", want: []TokenKind{TokenKeyword}},
		{name: "string", src: `"hi"`, want: []TokenKind{TokenString}},
		{name: "integer", src: "42", want: []TokenKind{TokenInteger}},
		{name: "negative_integer", src: "-42", want: []TokenKind{TokenInteger}},
		{name: "float", src: "3.14", want: []TokenKind{TokenFloat}},
		{name: "ratio", src: "7/3", want: []TokenKind{TokenRatio}},
		{name: "bare_slash_symbol", src: "/", want: []TokenKind{TokenSymbol}},
		{name: "namespaced_symbol", src: "foo/bar", want: []TokenKind{TokenNamespacedSymbol}},
		{name: "underscored_digits", src: "1_000_000", want: []TokenKind{TokenInteger}},
		{name: "comment_then_symbol", src: "; a comment\nx", want: []TokenKind{TokenSymbol}},
		{name: "commas_are_whitespace", src: "1, 2", want: []TokenKind{TokenInteger, TokenInteger}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.src)
			require.NoError(t, err)
			require.Len(t, toks, len(tt.want))
			for i, k := range tt.want {
				assert.Equal(t, k, toks[i].Kind, "token %d", i)
			}
		})
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize(`"a\nb\tc\\d\"e\qf"`)
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "a\nb\tc\\d\"e\\qf", toks[0].Text)
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	_, err := Tokenize(`"unterminated`)
	assert.Error(t, err)
}

func TestTokenizeNamespacedSymbolParts(t *testing.T) {
	toks, err := Tokenize("a/b/c")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, []string{"a", "b", "c"}, toks[0].Parts)
}

func TestTokenizeRatioNegativeDenominatorSymbol(t *testing.T) {
	toks, err := Tokenize("-7/-3")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, TokenRatio, toks[0].Kind)
	assert.Equal(t, "-7/-3", toks[0].Text)
}
