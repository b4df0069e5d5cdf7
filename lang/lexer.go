package lang

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const reservedChars = "(){}[]\":"

func isReserved(r rune) bool {
	return strings.ContainsRune(reservedChars, r)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == ','
}

// Tokenize scans source into a flat token list. Errors are built
// with github.com/pkg/errors; cmd/yeti wraps them with the name of the
// failing step.
func Tokenize(source string) ([]Token, error) {
	runes := []rune(source)
	var tokens []Token
	i := 0
	n := len(runes)

	for i < n {
		r := runes[i]
		switch {
		case isSpace(r):
			i++
		case r == ';':
			for i < n && runes[i] != '\n' {
				i++
			}
		case r == '(':
			tokens = append(tokens, Token{Kind: TokenLParen})
			i++
		case r == ')':
			tokens = append(tokens, Token{Kind: TokenRParen})
			i++
		case r == '[':
			tokens = append(tokens, Token{Kind: TokenLBracket})
			i++
		case r == ']':
			tokens = append(tokens, Token{Kind: TokenRBracket})
			i++
		case r == '{':
			tokens = append(tokens, Token{Kind: TokenLBrace})
			i++
		case r == '}':
			tokens = append(tokens, Token{Kind: TokenRBrace})
			i++
		case r == '\'':
			tokens = append(tokens, Token{Kind: TokenQuote})
			i++
		case r == '@':
			tokens = append(tokens, Token{Kind: TokenDeref})
			i++
		case r == '"':
			tok, next, err := scanString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		case r == ':':
			tok, next := scanKeyword(runes, i)
			tokens = append(tokens, tok)
			i = next
		case r == '-' && i+1 < n && unicode.IsDigit(runes[i+1]):
			tok, next := scanNumber(runes, i)
			tokens = append(tokens, tok)
			i = next
		case unicode.IsDigit(r):
			tok, next := scanNumber(runes, i)
			tokens = append(tokens, tok)
			i = next
		default:
			tok, next := scanSymbol(runes, i)
			tokens = append(tokens, tok)
			i = next
		}
	}
	return tokens, nil
}

func scanString(runes []rune, start int) (Token, int, error) {
	i := start + 1
	n := len(runes)
	var b strings.Builder
	for i < n && runes[i] != '"' {
		if runes[i] == '\\' && i+1 < n {
			switch runes[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				b.WriteRune('\\')
				b.WriteRune(runes[i+1])
			}
			i += 2
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	if i >= n {
		return Token{}, 0, errors.New("unterminated string literal")
	}
	return Token{Kind: TokenString, Text: b.String()}, i + 1, nil
}

func scanKeyword(runes []rune, start int) (Token, int) {
	i := start + 1
	n := len(runes)
	for i < n && !isSpace(runes[i]) && !isReserved(runes[i]) {
		i++
	}
	return Token{Kind: TokenKeyword, Text: string(runes[start:i])}, i
}

func scanNumber(runes []rune, start int) (Token, int) {
	i := start
	n := len(runes)
	if runes[i] == '-' {
		i++
	}
	var digits strings.Builder
	if runes[start] == '-' {
		digits.WriteByte('-')
	}
	i = scanDigits(runes, i, &digits)

	isFloat := false
	if i < n && runes[i] == '.' && i+1 < n && unicode.IsDigit(runes[i+1]) {
		isFloat = true
		digits.WriteByte('.')
		i++
		i = scanDigits(runes, i, &digits)
	}

	if !isFloat && i < n && runes[i] == '/' && i+1 < n && (unicode.IsDigit(runes[i+1]) || (runes[i+1] == '-' && i+2 < n && unicode.IsDigit(runes[i+2]))) {
		var denom strings.Builder
		j := i + 1
		if runes[j] == '-' {
			denom.WriteByte('-')
			j++
		}
		j = scanDigits(runes, j, &denom)
		return Token{Kind: TokenRatio, Text: digits.String() + "/" + denom.String()}, j
	}

	if isFloat {
		return Token{Kind: TokenFloat, Text: digits.String()}, i
	}
	return Token{Kind: TokenInteger, Text: digits.String()}, i
}

func scanDigits(runes []rune, i int, out *strings.Builder) int {
	n := len(runes)
	for i < n && (unicode.IsDigit(runes[i]) || runes[i] == '_') {
		if runes[i] != '_' {
			out.WriteRune(runes[i])
		}
		i++
	}
	return i
}

func scanSymbol(runes []rune, start int) (Token, int) {
	i := start
	n := len(runes)
	if runes[i] == '/' {
		return Token{Kind: TokenSymbol, Text: "/"}, i + 1
	}
	for i < n && !isSpace(runes[i]) && !isReserved(runes[i]) {
		i++
	}
	text := string(runes[start:i])
	if strings.Contains(text, "/") {
		parts := strings.Split(text, "/")
		nonEmpty := true
		for _, p := range parts {
			if p == "" {
				nonEmpty = false
				break
			}
		}
		if nonEmpty && len(parts) > 1 {
			return Token{Kind: TokenNamespacedSymbol, Text: text, Parts: parts}, i
		}
	}
	return Token{Kind: TokenSymbol, Text: text}, i
}
