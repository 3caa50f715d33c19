package main

import (
	"errors"

	"github.com/turbekoff/calckeys/pkg/calculator"
)

var ErrUnknownKey = errors.New("unknown key")

// Callback data carried by the keypad buttons that have no keyboard
// character of their own.
const (
	keyClear      = "C"
	keyAllClear   = "AC"
	keySignToggle = "T"
	keyBackspace  = "B"
)

var namedKeys = map[string]calculator.Event{
	".":         calculator.DecimalPointEvent,
	"=":         calculator.EqualsEvent,
	"%":         calculator.PercentEvent,
	"±":         calculator.SignToggleEvent,
	"⌫":         calculator.BackspaceEvent,
	"Return":    calculator.EqualsEvent,
	"Enter":     calculator.EqualsEvent,
	"KP_Enter":  calculator.EqualsEvent,
	"Escape":    calculator.AllClearEvent,
	"BackSpace": calculator.BackspaceEvent,

	keyClear:      calculator.ClearEvent,
	keyAllClear:   calculator.AllClearEvent,
	keySignToggle: calculator.SignToggleEvent,
	keyBackspace:  calculator.BackspaceEvent,
}

// eventForKey translates a key, either a keyboard character, a key name
// or a keypad callback identifier, to an engine event.
func eventForKey(key string) (calculator.Event, error) {
	if len(key) == 1 && '0' <= key[0] && key[0] <= '9' {
		return calculator.DigitEvent(rune(key[0])), nil
	}
	if ev, ok := namedKeys[key]; ok {
		return ev, nil
	}
	if op, err := calculator.ParseOperator(key); err == nil {
		return calculator.OperatorEvent(op), nil
	}
	return calculator.Event{}, ErrUnknownKey
}
