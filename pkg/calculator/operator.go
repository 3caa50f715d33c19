package calculator

import "gopkg.in/inf.v0"

type Operator uint8

const (
	Add Operator = iota + 1
	Subtract
	Multiply
	Divide
)

var Operators = [...]Operator{Add, Subtract, Multiply, Divide}

func (op Operator) String() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "−"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return "?"
	}
}

func (op Operator) Valid() bool {
	return op >= Add && op <= Divide
}

// ParseOperator accepts the keyboard characters + - * / and the display
// glyphs returned by String.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "+":
		return Add, nil
	case "-", "−":
		return Subtract, nil
	case "*", "×":
		return Multiply, nil
	case "/", "÷":
		return Divide, nil
	default:
		return 0, ErrUnknownOperator
	}
}

// apply computes x op y rounded to prec significant digits. The second
// result is false only when op is Divide and y is zero.
func (op Operator) apply(x, y *inf.Dec, prec int) (*inf.Dec, bool) {
	switch op {
	case Add:
		return roundSignificant(new(inf.Dec).Add(x, y), prec), true
	case Subtract:
		return roundSignificant(new(inf.Dec).Sub(x, y), prec), true
	case Multiply:
		return roundSignificant(new(inf.Dec).Mul(x, y), prec), true
	case Divide:
		if y.Sign() == 0 {
			return nil, false
		}
		return quotient(x, y, prec), true
	default:
		return x, true
	}
}
