package adapters

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// coerceNumeric converts a decoded JSON value into the numeric container the
// tensor/tabular runtimes expect. A value that already is a numeric container
// passes through unchanged. Lists of lists become a dense matrix; flat lists
// become a float64 vector.
func coerceNumeric(in any) (any, error) {
	switch v := in.(type) {
	case *mat.Dense, mat.Matrix, []float64, [][]float64, []float32:
		return v, nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty input")
		}
		if _, nested := v[0].([]any); nested {
			return toDense(v)
		}
		return toVector(v)
	default:
		if f, ok := asFloat(in); ok {
			return []float64{f}, nil
		}
		return nil, fmt.Errorf("cannot coerce %T to a numeric array", in)
	}
}

func toDense(rows []any) (*mat.Dense, error) {
	r := len(rows)
	first, ok := rows[0].([]any)
	if !ok || len(first) == 0 {
		return nil, fmt.Errorf("row 0 is not a non-empty list")
	}
	c := len(first)
	data := make([]float64, 0, r*c)
	for i, raw := range rows {
		row, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("row %d is not a list", i)
		}
		if len(row) != c {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), c)
		}
		for j, cell := range row {
			f, ok := asFloat(cell)
			if !ok {
				return nil, fmt.Errorf("row %d column %d: %T is not numeric", i, j, cell)
			}
			data = append(data, f)
		}
	}
	return mat.NewDense(r, c, data), nil
}

func toVector(items []any) ([]float64, error) {
	out := make([]float64, len(items))
	for i, it := range items {
		f, ok := asFloat(it)
		if !ok {
			return nil, fmt.Errorf("element %d: %T is not numeric", i, it)
		}
		out[i] = f
	}
	return out, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// coerceSklearnInput applies the text-aware input shaping required by
// scikit-learn style pipelines. Text must never be forced into a numeric
// array: a vectorizer as the first pipeline stage expects raw strings.
//
//   - single string         -> one-element string slice
//   - [text, text]          -> unchanged
//   - [[text], [text]]      -> flattened to [text, text]
//   - [[1,2,3]] and friends -> numeric container via coerceNumeric
func coerceSklearnInput(in any) (any, error) {
	switch v := in.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty input")
		}
		if _, ok := v[0].(string); ok {
			return v, nil
		}
		if row, ok := v[0].([]any); ok && len(row) > 0 {
			if _, ok := row[0].(string); ok {
				return flattenText(v)
			}
		}
		return coerceNumeric(v)
	default:
		return coerceNumeric(in)
	}
}

// flattenText turns [[text1], [text2]] into [text1, text2]. Elements that are
// not one-element lists are kept as-is, matching the permissive upstream shape.
func flattenText(rows []any) ([]any, error) {
	out := make([]any, len(rows))
	for i, raw := range rows {
		if row, ok := raw.([]any); ok && len(row) > 0 {
			out[i] = row[0]
			continue
		}
		out[i] = raw
	}
	return out, nil
}
