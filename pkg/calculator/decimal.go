package calculator

import (
	"math/big"
	"strings"

	"gopkg.in/inf.v0"
)

const DefaultPrecision = 40

var incompleteEntries = map[string]struct{}{
	"": {}, "-": {}, ".": {}, "-.": {}, "0.": {}, "-0.": {},
}

// ParseDecimal converts entry text to an exact decimal. Incomplete and
// malformed text yields zero.
func ParseDecimal(text string) *inf.Dec {
	if _, ok := incompleteEntries[text]; ok {
		return new(inf.Dec)
	}

	body, neg := strings.CutPrefix(text, "-")
	intPart, fracPart, _ := strings.Cut(body, ".")
	if intPart == "" && fracPart == "" || !isDigits(intPart) || !isDigits(fracPart) {
		return new(inf.Dec)
	}

	unscaled, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return new(inf.Dec)
	}
	if neg {
		unscaled.Neg(unscaled)
	}
	return inf.NewDecBig(unscaled, inf.Scale(len(fracPart)))
}

// FormatDecimal renders value in plain fixed-point notation with no
// trailing fractional zeros. A nil value formats as "Error".
func FormatDecimal(value *inf.Dec) string {
	if value == nil {
		return errorDisplay
	}
	if value.Sign() == 0 {
		return "0"
	}

	digits := new(big.Int).Abs(value.UnscaledBig()).String()
	scale := int(value.Scale())

	var text string
	if scale <= 0 {
		text = digits + strings.Repeat("0", -scale)
	} else {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		point := len(digits) - scale
		text = digits[:point]
		if frac := strings.TrimRight(digits[point:], "0"); frac != "" {
			text += "." + frac
		}
	}

	if value.Sign() < 0 {
		return "-" + text
	}
	return text
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// numDigits counts the decimal digits of |x|; zero has one digit.
func numDigits(x *big.Int) int {
	if x.Sign() == 0 {
		return 1
	}
	return len(new(big.Int).Abs(x).String())
}

// roundSignificant rounds x half-to-even so that it carries at most prec
// significant digits.
func roundSignificant(x *inf.Dec, prec int) *inf.Dec {
	n := numDigits(x.UnscaledBig())
	if n <= prec {
		return x
	}
	return new(inf.Dec).Round(x, x.Scale()-inf.Scale(n-prec), inf.RoundHalfEven)
}

// quotient divides x by a non-zero y to prec significant digits.
func quotient(x, y *inf.Dec, prec int) *inf.Dec {
	// Estimated count of integer digits in x/y, accurate to within one.
	magnitude := (numDigits(x.UnscaledBig()) - int(x.Scale())) -
		(numDigits(y.UnscaledBig()) - int(y.Scale())) + 1
	scale := inf.Scale(prec - magnitude + 1)
	q := new(inf.Dec).QuoRound(x, y, scale, inf.RoundHalfEven)
	return roundSignificant(q, prec)
}
