package calculator

import (
	"errors"
	"testing"
)

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in   string
		want Operator
		err  error
	}{
		{"+", Add, nil},
		{"-", Subtract, nil},
		{"−", Subtract, nil},
		{"*", Multiply, nil},
		{"×", Multiply, nil},
		{"/", Divide, nil},
		{"÷", Divide, nil},
		{"=", 0, ErrUnknownOperator},
		{"%", 0, ErrUnknownOperator},
		{"", 0, ErrUnknownOperator},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOperator(tt.in)
			if !errors.Is(err, tt.err) {
				t.Fatalf("ParseOperator(%q) error = %v, want %v", tt.in, err, tt.err)
			}
			if got != tt.want {
				t.Errorf("ParseOperator(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOperatorStringRoundTrip(t *testing.T) {
	for _, op := range Operators {
		got, err := ParseOperator(op.String())
		if err != nil {
			t.Fatalf("ParseOperator(%q): %v", op.String(), err)
		}
		if got != op {
			t.Errorf("ParseOperator(%q) = %v, want %v", op.String(), got, op)
		}
	}
	if Operator(0).Valid() {
		t.Error("zero Operator reported valid")
	}
}
