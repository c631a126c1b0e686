// Package normalize converts adapter- or user-function outputs into a uniform
// JSON-serializable shape.
package normalize

import "gonum.org/v1/gonum/mat"

// NestedSlicer is the direct "to nested list" capability. Values implementing
// it convert themselves in one step.
type NestedSlicer interface {
	NestedSlice() any
}

// Normalize converts raw model output into a JSON-compatible value. The rules
// apply in order, and the order matters: a value carrying both capabilities
// takes the simpler one.
//
//  1. NestedSlicer -> its own nested-slice conversion.
//  2. mat.Matrix   -> rows of float64 (array first, then nested list).
//  3. anything else passes through unchanged and is assumed JSON-compatible.
func Normalize(raw any) any {
	if ns, ok := raw.(NestedSlicer); ok {
		return ns.NestedSlice()
	}
	if m, ok := raw.(mat.Matrix); ok {
		return matrixRows(m)
	}
	return raw
}

func matrixRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = m.At(i, j)
		}
		rows[i] = row
	}
	return rows
}
