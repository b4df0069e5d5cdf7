package lang

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/gitrdm/yeti/value"
)

// Parse reads exactly one expression starting at tokens[0], returning the
// expression and the index of the first unconsumed token.
func Parse(tokens []Token) (value.Expression, int, error) {
	if len(tokens) == 0 {
		return nil, 0, errors.New("unexpected end of input")
	}
	tok := tokens[0]
	switch tok.Kind {
	case TokenLParen:
		return parseCall(tokens)
	case TokenRParen:
		return nil, 0, errors.New("unexpected )")
	case TokenLBracket:
		return parseArray(tokens)
	case TokenRBracket:
		return nil, 0, errors.New("unexpected ]")
	case TokenLBrace:
		return parseMap(tokens)
	case TokenRBrace:
		return nil, 0, errors.New("unexpected }")
	case TokenQuote:
		inner, next, err := Parse(tokens[1:])
		if err != nil {
			return nil, 0, err
		}
		return value.Quote{Expr: inner}, next + 1, nil
	case TokenDeref:
		inner, next, err := Parse(tokens[1:])
		if err != nil {
			return nil, 0, err
		}
		return value.Deref{Expr: inner}, next + 1, nil
	case TokenSymbol:
		switch tok.Text {
		case "true":
			return value.Bool(true), 1, nil
		case "false":
			return value.Bool(false), 1, nil
		case "nil":
			return value.Nil{}, 1, nil
		default:
			return value.Symbol(tok.Text), 1, nil
		}
	case TokenNamespacedSymbol:
		parts := make([]string, len(tok.Parts))
		copy(parts, tok.Parts)
		return value.NamespacedSymbol(parts), 1, nil
	case TokenKeyword:
		return value.Keyword(tok.Text), 1, nil
	case TokenString:
		return value.String(tok.Text), 1, nil
	case TokenInteger:
		i, ok := value.IntegerFromString(tok.Text)
		if !ok {
			return nil, 0, errors.Errorf("malformed integer literal %q", tok.Text)
		}
		return i, 1, nil
	case TokenFloat:
		f, ok := value.FloatFromString(tok.Text)
		if !ok {
			return nil, 0, errors.Errorf("malformed float literal %q", tok.Text)
		}
		return f, 1, nil
	case TokenRatio:
		return parseRatio(tok.Text)
	default:
		return nil, 0, errors.Errorf("unrecognised token kind %d", tok.Kind)
	}
}

func parseRatio(text string) (value.Expression, int, error) {
	parts := strings.SplitN(text, "/", 2)
	num, ok := new(big.Int).SetString(parts[0], 10)
	if !ok {
		return nil, 0, errors.Errorf("malformed ratio literal %q", text)
	}
	den, ok := new(big.Int).SetString(parts[1], 10)
	if !ok {
		return nil, 0, errors.Errorf("malformed ratio literal %q", text)
	}
	r, ok := value.NewRatio(num, den)
	if !ok {
		return nil, 0, errors.Errorf("division by zero in ratio literal %q", text)
	}
	return r, 1, nil
}

func parseCall(tokens []Token) (value.Expression, int, error) {
	i := 1
	if i < len(tokens) && tokens[i].Kind == TokenRParen {
		return nil, 0, errors.New("empty call expression")
	}
	fn, consumed, err := Parse(tokens[i:])
	if err != nil {
		return nil, 0, err
	}
	i += consumed

	var args []value.Expression
	for {
		if i >= len(tokens) {
			return nil, 0, errors.New("unterminated call expression")
		}
		if tokens[i].Kind == TokenRParen {
			i++
			break
		}
		arg, next, err := Parse(tokens[i:])
		if err != nil {
			return nil, 0, err
		}
		args = append(args, arg)
		i += next
	}
	return value.Call{Function: fn, Arguments: args}, i, nil
}

func parseArray(tokens []Token) (value.Expression, int, error) {
	i := 1
	var elements []value.Expression
	for {
		if i >= len(tokens) {
			return nil, 0, errors.New("unterminated array literal")
		}
		if tokens[i].Kind == TokenRBracket {
			i++
			break
		}
		elem, next, err := Parse(tokens[i:])
		if err != nil {
			return nil, 0, err
		}
		elements = append(elements, elem)
		i += next
	}
	return value.NewArray(elements...), i, nil
}

func parseMap(tokens []Token) (value.Expression, int, error) {
	i := 1
	var items []value.Expression
	for {
		if i >= len(tokens) {
			return nil, 0, errors.New("unterminated map literal")
		}
		if tokens[i].Kind == TokenRBrace {
			i++
			break
		}
		item, next, err := Parse(tokens[i:])
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
		i += next
	}
	if len(items)%2 != 0 {
		return nil, 0, errors.New("map literal has an odd number of items")
	}
	m := value.NewMap()
	for k := 0; k < len(items); k += 2 {
		m = m.Assoc(items[k], items[k+1])
	}
	return m, i, nil
}

// ParseAll drains tokens into a flat sequence of top-level expressions.
func ParseAll(tokens []Token) ([]value.Expression, error) {
	var exprs []value.Expression
	i := 0
	for i < len(tokens) {
		e, consumed, err := Parse(tokens[i:])
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		i += consumed
	}
	return exprs, nil
}
