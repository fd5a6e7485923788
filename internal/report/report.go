// Package report derives chart series from the zone grid and renders them.
package report

import (
	"fmt"

	"github.com/UnknownOlympus/zones/internal/zone"
)

// Kind identifies one of the supported charts.
type Kind int

const (
	// DensityVsAgreeableness plots one point per zone: population density against average agreeableness.
	DensityVsAgreeableness Kind = iota
	// AgeVsIncome plots the average income for every age from 0 to 99 across all zones.
	AgeVsIncome
)

// MaxAge is the exclusive upper bound of the age axis.
const MaxAge = 100

// Kinds lists every chart in rendering order.
func Kinds() []Kind { return []Kind{DensityVsAgreeableness, AgeVsIncome} }

// Labels holds the text drawn around a chart.
type Labels struct {
	Title string
	X     string
	Y     string
}

func (k Kind) String() string {
	switch k {
	case DensityVsAgreeableness:
		return "agreeableness"
	case AgeVsIncome:
		return "income"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) Labels() Labels {
	switch k {
	case DensityVsAgreeableness:
		return Labels{Title: "Nice people live in the countryside", X: "population density", Y: "agreeableness"}
	case AgeVsIncome:
		return Labels{Title: "Older people have more money", X: "age", Y: "income"}
	default:
		return Labels{}
	}
}

// Series returns the x and y values of the chart of the given kind.
func Series(kind Kind, zones []*zone.Zone) ([]float64, []float64, error) {
	switch kind {
	case DensityVsAgreeableness:
		return DensityAgreeableness(zones)
	case AgeVsIncome:
		income, err := IncomeByAge(zones)
		if err != nil {
			return nil, nil, err
		}
		return income.Ages, income.AverageIncome, nil
	default:
		return nil, nil, fmt.Errorf("unknown chart kind: %v", kind)
	}
}

// DensityAgreeableness returns one (density, agreeableness) pair per zone, empty zones included.
func DensityAgreeableness(zones []*zone.Zone) ([]float64, []float64, error) {
	xValues := make([]float64, 0, len(zones))
	yValues := make([]float64, 0, len(zones))

	for _, z := range zones {
		agreeableness, err := z.AverageAgreeableness()
		if err != nil {
			return nil, nil, err
		}
		xValues = append(xValues, z.PopulationDensity())
		yValues = append(yValues, agreeableness)
	}

	return xValues, yValues, nil
}

// AgeIncome is the income-by-age aggregate over every inhabitant of every zone.
type AgeIncome struct {
	Ages            []float64       // Ages is 0..MaxAge-1.
	AverageIncome   []float64       // AverageIncome[i] is the mean income at age i, 0 when nobody has that age.
	IncomeByAge     map[int]float64 // IncomeByAge sums income per age, including ages outside the axis.
	PopulationByAge map[int]int     // PopulationByAge counts inhabitants per age, including ages outside the axis.
}

// IncomeByAge totals income and headcount per age and averages them over 0..99.
func IncomeByAge(zones []*zone.Zone) (*AgeIncome, error) {
	result := &AgeIncome{
		Ages:            make([]float64, MaxAge),
		AverageIncome:   make([]float64, MaxAge),
		IncomeByAge:     make(map[int]float64),
		PopulationByAge: make(map[int]int),
	}

	for _, z := range zones {
		for _, agent := range z.Inhabitants() {
			age, err := agent.AgeValue()
			if err != nil {
				return nil, err
			}
			income, err := agent.IncomeValue()
			if err != nil {
				return nil, err
			}
			result.IncomeByAge[age] += income
			result.PopulationByAge[age]++
		}
	}

	for age := range MaxAge {
		result.Ages[age] = float64(age)
		result.AverageIncome[age] = result.IncomeByAge[age] / float64(max(result.PopulationByAge[age], 1))
	}

	return result, nil
}
