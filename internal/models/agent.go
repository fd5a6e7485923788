package models

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

// Well-known attribute names consumed by the reports.
const (
	FieldAgreeableness = "agreeableness"
	FieldAge           = "age"
	FieldIncome        = "income"
)

var wellKnown = map[string]struct{}{FieldAgreeableness: {}, FieldAge: {}, FieldIncome: {}}

var (
	// ErrMissingField is returned when an agent lacks an attribute a caller asked for.
	ErrMissingField = errors.New("agent attribute is missing")
	// ErrInvalidField is returned when a well-known attribute cannot be read as a number.
	ErrInvalidField = errors.New("agent attribute has invalid type")
)

// Record is one raw input row: attribute name to decoded value.
type Record map[string]any

// Agent is one inhabitant: a position, the attributes the reports rely on,
// and every other field of the input record kept verbatim in Extra.
type Agent struct {
	Position Position

	agreeableness    float64
	age              int
	income           float64
	hasAgreeableness bool
	hasAge           bool
	hasIncome        bool

	Extra map[string]any // Extra holds every attribute that is not well-known.
}

// NewAgent builds an Agent from its position and attribute bag.
// Missing well-known attributes are accepted; they only fail when read.
func NewAgent(pos Position, attrs map[string]any) (*Agent, error) {
	agent := &Agent{Position: pos, Extra: make(map[string]any, len(attrs))}

	for name, value := range attrs {
		var err error
		if value == nil {
			// JSON null on a well-known field means the field is absent.
			if _, known := wellKnown[name]; known {
				continue
			}
		}
		switch name {
		case FieldAgreeableness:
			agent.agreeableness, err = cast.ToFloat64E(value)
			agent.hasAgreeableness = err == nil
		case FieldAge:
			agent.age, err = toAge(value)
			agent.hasAge = err == nil
		case FieldIncome:
			agent.income, err = cast.ToFloat64E(value)
			agent.hasIncome = err == nil
		default:
			agent.Extra[name] = value
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidField, name, err)
		}
	}

	return agent, nil
}

// toAge accepts whole numbers in any numeric representation, including JSON floats like 42.0.
func toAge(value any) (int, error) {
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("age %v is not a whole number", f)
	}
	return int(f), nil
}

// Attr returns the attribute stored under name, well-known or not.
func (a *Agent) Attr(name string) (any, bool) {
	switch name {
	case FieldAgreeableness:
		return a.agreeableness, a.hasAgreeableness
	case FieldAge:
		return a.age, a.hasAge
	case FieldIncome:
		return a.income, a.hasIncome
	}
	value, ok := a.Extra[name]
	return value, ok
}

func (a *Agent) AgreeablenessValue() (float64, error) {
	if !a.hasAgreeableness {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, FieldAgreeableness)
	}
	return a.agreeableness, nil
}

func (a *Agent) AgeValue() (int, error) {
	if !a.hasAge {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, FieldAge)
	}
	return a.age, nil
}

func (a *Agent) IncomeValue() (float64, error) {
	if !a.hasIncome {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, FieldIncome)
	}
	return a.income, nil
}
