// Package calculator implements a four-function calculator engine: a
// synchronous state machine that consumes key events and exposes the
// display text plus the hints a keypad needs to render itself.
//
// An Engine is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access to it.
package calculator

import (
	"errors"
	"strings"

	"gopkg.in/inf.v0"
)

var (
	ErrUnsupported     = errors.New("unsupported input")
	ErrUnknownOperator = errors.New("unknown operator")
)

const (
	errorDisplay = "Error"

	LabelAllClear = "AC"
	LabelClear    = "C"
)

type Option func(*Engine)

// WithPrecision sets the working precision in significant digits.
// Values below DefaultPrecision are ignored.
func WithPrecision(digits int) Option {
	return func(e *Engine) {
		if digits >= DefaultPrecision {
			e.precision = digits
		}
	}
}

type Engine struct {
	precision int

	accumulator   *inf.Dec
	entry         string
	pending       Operator
	lastOp        Operator
	lastOperand   *inf.Dec
	awaitingEntry bool
	isError       bool
}

func New(opts ...Option) *Engine {
	e := &Engine{precision: DefaultPrecision}
	for _, opt := range opts {
		opt(e)
	}
	return e.reset()
}

func (e *Engine) reset() *Engine {
	e.accumulator = new(inf.Dec)
	e.entry = "0"
	e.pending = 0
	e.lastOp = 0
	e.lastOperand = new(inf.Dec)
	e.awaitingEntry = false
	e.isError = false
	return e
}

func (e *Engine) Apply(ev Event) error {
	switch ev.Kind {
	case KindDigit:
		return e.Digit(ev.Digit)
	case KindDecimalPoint:
		e.DecimalPoint()
	case KindOperator:
		return e.Operator(ev.Operator)
	case KindEquals:
		e.Equals()
	case KindPercent:
		e.Percent()
	case KindSignToggle:
		e.SignToggle()
	case KindBackspace:
		e.Backspace()
	case KindClear:
		e.Clear()
	case KindAllClear:
		e.AllClear()
	default:
		return ErrUnsupported
	}
	return nil
}

func (e *Engine) Digit(d rune) error {
	if d < '0' || d > '9' {
		return ErrUnsupported
	}
	if e.isError {
		e.AllClear()
	}
	e.beginEntry()

	switch e.entry {
	case "0":
		e.entry = string(d)
	case "-0":
		e.entry = "-" + string(d)
	default:
		e.entry += string(d)
	}
	return nil
}

// DecimalPoint appends "." unless the entry already has one. Pressed
// while in error it only clears the error; the point is not entered.
func (e *Engine) DecimalPoint() {
	if e.isError {
		e.AllClear()
		return
	}
	e.beginEntry()

	if !strings.Contains(e.entry, ".") {
		e.entry += "."
	}
}

func (e *Engine) beginEntry() {
	if e.awaitingEntry {
		e.entry = "0"
		e.awaitingEntry = false
	}
}

func (e *Engine) Backspace() {
	if e.isError {
		e.AllClear()
		return
	}
	if e.awaitingEntry {
		return
	}

	if len(e.entry) <= 1 || len(e.entry) == 2 && e.entry[0] == '-' {
		e.entry = "0"
		return
	}
	e.entry = e.entry[:len(e.entry)-1]
}

func (e *Engine) SignToggle() {
	if e.isError {
		return
	}

	switch {
	case strings.HasPrefix(e.entry, "-"):
		e.entry = e.entry[1:]
	case e.entry == "0":
		e.entry = "-0"
	default:
		e.entry = "-" + e.entry
	}
}

func (e *Engine) Percent() {
	if e.isError {
		return
	}
	value := quotient(ParseDecimal(e.entry), inf.NewDec(100, 0), e.precision)
	e.entry = FormatDecimal(value)
}

func (e *Engine) Operator(op Operator) error {
	if !op.Valid() {
		return ErrUnknownOperator
	}
	if e.isError {
		return nil
	}

	rhs := ParseDecimal(e.entry)
	switch {
	case e.pending != 0 && e.awaitingEntry:
		e.pending = op
		return nil
	case e.pending == 0:
		e.accumulator = rhs
	default:
		if !e.commit(e.pending, rhs) {
			return nil
		}
	}

	e.pending = op
	e.lastOp = 0
	e.lastOperand = new(inf.Dec)
	e.entry = FormatDecimal(e.accumulator)
	e.awaitingEntry = true
	return nil
}

// Equals completes the pending operation. With nothing pending it repeats
// the last completed operation against the accumulator.
func (e *Engine) Equals() {
	if e.isError {
		return
	}

	switch {
	case e.pending != 0:
		rhs := ParseDecimal(e.entry)
		op := e.pending
		if !e.commit(op, rhs) {
			return
		}
		e.lastOp = op
		e.lastOperand = rhs
		e.pending = 0
	case e.lastOp != 0:
		if !e.commit(e.lastOp, e.lastOperand) {
			return
		}
	}

	e.entry = FormatDecimal(e.accumulator)
	e.awaitingEntry = true
}

// Clear acts as AllClear when there is nothing to clear but the entry;
// otherwise it resets the entry and keeps the pending calculation.
func (e *Engine) Clear() {
	if e.isError || e.isAllClear() {
		e.AllClear()
		return
	}
	e.entry = "0"
	e.awaitingEntry = false
}

func (e *Engine) AllClear() {
	e.reset()
}

func (e *Engine) commit(op Operator, rhs *inf.Dec) bool {
	result, ok := op.apply(e.accumulator, rhs, e.precision)
	if !ok {
		e.fail()
		return false
	}
	e.accumulator = result
	return true
}

func (e *Engine) fail() {
	e.isError = true
	e.pending = 0
	e.lastOp = 0
	e.lastOperand = new(inf.Dec)
	e.awaitingEntry = true
}

func (e *Engine) isAllClear() bool {
	return e.entry == "0" &&
		e.accumulator.Sign() == 0 &&
		e.pending == 0 &&
		!e.awaitingEntry
}
