package calculator

type EventKind uint8

const (
	KindDigit EventKind = iota + 1
	KindDecimalPoint
	KindOperator
	KindEquals
	KindPercent
	KindSignToggle
	KindBackspace
	KindClear
	KindAllClear
)

// Event is one discrete input. Digit is set only for KindDigit and
// Operator only for KindOperator.
type Event struct {
	Kind     EventKind
	Digit    rune
	Operator Operator
}

func DigitEvent(d rune) Event {
	return Event{Kind: KindDigit, Digit: d}
}

func OperatorEvent(op Operator) Event {
	return Event{Kind: KindOperator, Operator: op}
}

var (
	DecimalPointEvent = Event{Kind: KindDecimalPoint}
	EqualsEvent       = Event{Kind: KindEquals}
	PercentEvent      = Event{Kind: KindPercent}
	SignToggleEvent   = Event{Kind: KindSignToggle}
	BackspaceEvent    = Event{Kind: KindBackspace}
	ClearEvent        = Event{Kind: KindClear}
	AllClearEvent     = Event{Kind: KindAllClear}
)
