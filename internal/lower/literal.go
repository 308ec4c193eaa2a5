package lower

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"astbridge/internal/diag"
	"astbridge/internal/foreign"
	"astbridge/internal/ir"
)

// Escape renders raw string literal bytes in the IR textual form: backslash,
// newline, carriage return and double quote are escaped and a NUL terminator
// is appended. len(Escape(s)) == len(s) + escapes + 1.
func Escape(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 1)
	for i := 0; i < len(raw); i++ {
		switch ch := raw[i]; ch {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteByte(0)
	return b.String()
}

// ErrBadEscape is returned by Unescape for input Escape cannot produce.
var ErrBadEscape = errors.New("malformed escaped literal")

// Unescape inverts Escape.
func Unescape(escaped string) (string, error) {
	if !strings.HasSuffix(escaped, "\x00") {
		return "", fmt.Errorf("%w: missing terminator", ErrBadEscape)
	}
	escaped = escaped[:len(escaped)-1]
	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		ch := escaped[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		i++
		if i == len(escaped) {
			return "", fmt.Errorf("%w: trailing backslash", ErrBadEscape)
		}
		switch escaped[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		default:
			return "", fmt.Errorf("%w: \\%c at offset %d", ErrBadEscape, escaped[i], i-1)
		}
	}
	return b.String(), nil
}

// Mantissa widths of the foreign floating-point semantics.
const (
	mantissaHalf      = 11
	mantissaSingle    = 24
	mantissaDouble    = 53
	mantissaX87       = 64
	mantissaQuadruple = 113
)

func (c *Context) lowerFloatLiteral(s *foreign.Stmt) (ir.Node, bool) {
	ok := true
	text := floatDigits(s.Value)
	data := ir.FloatValData{Text: text}
	var err error
	switch s.Precision {
	case mantissaSingle, mantissaHalf:
		data.Precision = ir.PrecisionSingle
		data.Value, err = strconv.ParseFloat(text, 32)
	case mantissaDouble:
		data.Precision = ir.PrecisionDouble
		data.Value, err = strconv.ParseFloat(text, 64)
	case mantissaX87, mantissaQuadruple:
		data.Precision = ir.PrecisionExtended
		var f *big.Float
		f, _, err = big.ParseFloat(text, 0, uint(s.Precision), big.ToNearestEven)
		if err == nil {
			data.Value, _ = f.Float64()
			data.Text = f.Text('g', -1)
		}
	default:
		c.warnOnce(fmt.Sprintf("float:%d", s.Precision), diag.LowFloatSemantics, s.Range,
			fmt.Sprintf("floating-point semantics with a %d-bit mantissa are not modeled; using double", s.Precision))
		data.Precision = ir.PrecisionDouble
		data.Value, err = strconv.ParseFloat(text, 64)
	}
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		c.mismatch(s.Range, fmt.Sprintf("floating literal %q", s.Value), &ok)
	}
	return ir.NewExpr(ir.ExprFloatVal, c.exprType(s), s.Range, data), ok
}

// floatDigits strips the type suffix from literal text. In hexadecimal
// literals only the part after the binary exponent can carry one.
func floatDigits(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		if i := strings.IndexAny(text, "pP"); i >= 0 {
			return text[:i] + strings.TrimRight(text[i:], "fFlL")
		}
		return text
	}
	return strings.TrimRight(text, "fFlL")
}
