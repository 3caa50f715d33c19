package calculator

// Snapshot is the observable output after an event. Operator is zero
// when nothing is highlighted.
type Snapshot struct {
	Display    string
	ClearLabel string
	Operator   Operator
}

func (e *Engine) Snapshot() Snapshot {
	op, _ := e.HighlightedOperator()
	return Snapshot{
		Display:    e.Display(),
		ClearLabel: e.ClearLabel(),
		Operator:   op,
	}
}

func (e *Engine) Display() string {
	if e.isError {
		return errorDisplay
	}
	return e.entry
}

// ClearLabel is "AC" when the clear key would reset everything and "C"
// when it would only clear the current entry.
func (e *Engine) ClearLabel() string {
	if e.isError || e.isAllClear() {
		return LabelAllClear
	}
	return LabelClear
}

func (e *Engine) HighlightedOperator() (Operator, bool) {
	return e.pending, e.pending != 0
}

func (e *Engine) IsError() bool {
	return e.isError
}
