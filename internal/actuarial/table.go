package actuarial

import (
	"fmt"
	"sort"
)

// Point is one (age, value) pair of a sparse age-indexed table.
type Point struct {
	Age   float64
	Value float64
}

// AgeTable is an age-indexed step table kept sorted by age.
type AgeTable struct {
	points []Point
}

// NewAgeTable builds a sorted table from sparse integer-keyed values.
func NewAgeTable(values map[int]float64) (AgeTable, error) {
	if len(values) == 0 {
		return AgeTable{}, fmt.Errorf("age table cannot be empty")
	}
	points := make([]Point, 0, len(values))
	for age, value := range values {
		points = append(points, Point{Age: float64(age), Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Age < points[j].Age })
	return AgeTable{points: points}, nil
}

// Points returns a copy of the table's points in age order.
func (t AgeTable) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// Lookup is the outcome of an interpolated table query.
type Lookup struct {
	Value        float64
	Key          float64
	Interpolated bool
}

// Interpolate returns the table value for age.
//
// Ages outside the table return the value at the nearest end without
// extrapolating. Inside the table the two nearest keys at or below age
// (age1 > age2) define the line
//
//	v1 - (v1-v2) * (age-age1) / (age2-age1)
//
// and the result is bounded by the values at age1 and the next higher key.
// When age1 is the smallest key the value at age1 is returned as is.
func (t AgeTable) Interpolate(age float64) Lookup {
	n := len(t.points)
	if n == 0 {
		return Lookup{}
	}
	first, last := t.points[0], t.points[n-1]
	if age <= first.Age {
		return Lookup{Value: first.Value, Key: first.Age}
	}
	if age >= last.Age {
		return Lookup{Value: last.Value, Key: last.Age}
	}

	// Index of the greatest key <= age; age > first.Age so i >= 0.
	i := sort.Search(n, func(k int) bool { return t.points[k].Age > age }) - 1
	p1 := t.points[i]
	if p1.Age == age || i == 0 {
		return Lookup{Value: p1.Value, Key: p1.Age}
	}

	p2 := t.points[i-1]
	value := p1.Value - (p1.Value-p2.Value)*(age-p1.Age)/(p2.Age-p1.Age)

	upper := t.points[i+1]
	lo, hi := p1.Value, upper.Value
	if lo > hi {
		lo, hi = hi, lo
	}
	if value < lo {
		value = lo
	} else if value > hi {
		value = hi
	}
	return Lookup{Value: value, Key: p1.Age, Interpolated: true}
}
