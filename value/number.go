package value

import (
	"math"
	"math/big"
	"strings"
)

// DecimalDigitsToBits converts a count of decimal digits to the number of
// bits of precision needed to represent them, per the parse-time precision
// rule: ceil(digits * 3.322).
func DecimalDigitsToBits(digits int) uint {
	return uint(math.Ceil(float64(digits) * 3.322))
}

// BitsToDecimalDigits is the inverse used when formatting: floor(bits / 3.322).
func BitsToDecimalDigits(bits uint) int {
	return int(math.Floor(float64(bits) / 3.322))
}

// Integer is an arbitrary-precision signed integer.
type Integer struct {
	V *big.Int
}

// NewInteger wraps an int64 as an Integer expression.
func NewInteger(i int64) Integer {
	return Integer{V: big.NewInt(i)}
}

// NewIntegerFromBigInt wraps an existing *big.Int without copying.
func NewIntegerFromBigInt(i *big.Int) Integer {
	return Integer{V: i}
}

// IntegerFromString parses a decimal integer literal. Underscores must
// already be stripped by the caller (the tokenizer strips them while
// scanning).
func IntegerFromString(s string) (Integer, bool) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Integer{}, false
	}
	return Integer{V: i}, true
}

func (i Integer) String() string { return i.V.String() }

func (i Integer) Equal(other Expression) bool {
	o, ok := other.(Integer)
	return ok && i.V.Cmp(o.V) == 0
}

func (i Integer) Compare(other Expression) int {
	switch o := other.(type) {
	case Integer:
		return i.V.Cmp(o.V)
	case Ratio:
		return new(big.Rat).SetInt(i.V).Cmp(o.V)
	case Float:
		f, _ := new(big.Float).SetInt(i.V).Float64()
		g, _ := o.V.Float64()
		return compareFloat64(f, g)
	default:
		return compareRank(i, other)
	}
}

func (i Integer) CanonKey() string { return "i:" + i.V.String() }

func (i Integer) exprTag() tag { return tagInteger }

// Ratio is an arbitrary-precision rational number that is never reducible
// to a whole number: normalizeRatio guarantees construction only ever yields
// a Ratio when the reduced fraction has a denominator other than 1.
type Ratio struct {
	V *big.Rat
}

// NewRatio builds an Integer or Ratio expression from a numerator and
// denominator, reducing to lowest terms and normalising to Integer
// whenever the denominator divides the numerator evenly. den == 0 returns
// ok == false; callers (the parser's ratio literals) turn that into a
// division-by-zero error themselves.
func NewRatio(num, den *big.Int) (Expression, bool) {
	if den.Sign() == 0 {
		return nil, false
	}
	r := new(big.Rat).SetFrac(num, den)
	return normalizeRatio(r), true
}

// NewRatioFromBigRat normalises an already-constructed *big.Rat.
func NewRatioFromBigRat(r *big.Rat) Expression {
	return normalizeRatio(r)
}

func normalizeRatio(r *big.Rat) Expression {
	if r.IsInt() {
		return Integer{V: new(big.Int).Set(r.Num())}
	}
	return Ratio{V: r}
}

func (r Ratio) String() string { return r.V.Num().String() + "/" + r.V.Denom().String() }

func (r Ratio) Equal(other Expression) bool {
	o, ok := other.(Ratio)
	return ok && r.V.Cmp(o.V) == 0
}

func (r Ratio) Compare(other Expression) int {
	switch o := other.(type) {
	case Ratio:
		return r.V.Cmp(o.V)
	case Integer:
		return r.V.Cmp(new(big.Rat).SetInt(o.V))
	case Float:
		f, _ := r.V.Float64()
		g, _ := o.V.Float64()
		return compareFloat64(f, g)
	default:
		return compareRank(r, other)
	}
}

func (r Ratio) CanonKey() string { return "r:" + r.V.RatString() }

func (r Ratio) exprTag() tag { return tagRatio }

// Float is an arbitrary-precision binary float carrying its own precision
// in bits, set at parse time from the source literal's decimal digit
// count.
type Float struct {
	V    *big.Float
	Prec uint
}

// FloatFromString parses a float literal and derives its precision from
// the literal's digit count: ceil((len(s) - sign - 1) * 3.322) bits.
func FloatFromString(s string) (Float, bool) {
	offset := 1
	if strings.HasPrefix(s, "-") {
		offset = 2
	}
	digits := len(s) - offset
	if digits < 1 {
		digits = 1
	}
	bits := DecimalDigitsToBits(digits)
	f, _, ok := big.ParseFloat(s, 10, bits, big.ToNearestEven)
	if ok != nil && f == nil {
		return Float{}, false
	}
	return Float{V: f.SetPrec(bits), Prec: bits}, true
}

// NewFloat wraps a *big.Float with an explicit precision, used by
// intrinsics that compute new float values from existing ones.
func NewFloat(v *big.Float, prec uint) Float {
	return Float{V: new(big.Float).SetPrec(prec).Set(v), Prec: prec}
}

func (f Float) String() string {
	digits := BitsToDecimalDigits(f.Prec)
	if digits < 0 {
		digits = 0
	}
	return f.V.Text('f', digits)
}

func (f Float) Equal(other Expression) bool {
	o, ok := other.(Float)
	if !ok {
		return false
	}
	return f.Prec == o.Prec && f.V.Cmp(o.V) == 0
}

func (f Float) Compare(other Expression) int {
	switch o := other.(type) {
	case Float:
		return f.V.Cmp(o.V)
	case Integer:
		g, _ := new(big.Float).SetInt(o.V).Float64()
		h, _ := f.V.Float64()
		return compareFloat64(h, g)
	case Ratio:
		g, _ := o.V.Float64()
		h, _ := f.V.Float64()
		return compareFloat64(h, g)
	default:
		return compareRank(f, other)
	}
}

func (f Float) CanonKey() string { return "f:" + f.V.Text('g', -1) }

func (f Float) exprTag() tag { return tagFloat }

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
