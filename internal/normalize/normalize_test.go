package normalize

import (
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// sliceableMatrix carries both capabilities; NestedSlicer must win.
type sliceableMatrix struct {
	*mat.Dense
}

func (s sliceableMatrix) NestedSlice() any { return "direct" }

func TestNormalizeOrderMatters(t *testing.T) {
	v := sliceableMatrix{Dense: mat.NewDense(1, 1, []float64{42})}
	if got := Normalize(v); got != "direct" {
		t.Fatalf("got %v, want the NestedSlicer conversion", got)
	}
}

func TestNormalizeMatrix(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	got := Normalize(m)
	want := [][]float64{{1, 2}, {3, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizePassthrough(t *testing.T) {
	for _, v := range []any{
		"text",
		[]float64{1, 2},
		map[string]any{"label": "positive"},
		nil,
		3.14,
	} {
		if got := Normalize(v); !reflect.DeepEqual(got, v) {
			t.Errorf("Normalize(%v) = %v", v, got)
		}
	}
}
