package adapters

import (
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCoerceNumericNested(t *testing.T) {
	got, err := coerceNumeric([]any{
		[]any{1.0, 2.0, 3.0},
		[]any{4.0, 5.0, 6.0},
	})
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	d, ok := got.(*mat.Dense)
	if !ok {
		t.Fatalf("got %T", got)
	}
	r, c := d.Dims()
	if r != 2 || c != 3 {
		t.Fatalf("dims = %dx%d", r, c)
	}
	if d.At(1, 2) != 6.0 {
		t.Fatalf("At(1,2) = %v", d.At(1, 2))
	}
}

func TestCoerceNumericFlat(t *testing.T) {
	got, err := coerceNumeric([]any{1.0, 2, int64(3)})
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	if !reflect.DeepEqual(got, []float64{1, 2, 3}) {
		t.Fatalf("got %v", got)
	}
}

func TestCoerceNumericErrors(t *testing.T) {
	if _, err := coerceNumeric([]any{}); err == nil {
		t.Error("empty input accepted")
	}
	// ragged rows
	if _, err := coerceNumeric([]any{
		[]any{1.0, 2.0},
		[]any{3.0},
	}); err == nil {
		t.Error("ragged matrix accepted")
	}
	if _, err := coerceNumeric([]any{[]any{"a"}}); err == nil {
		t.Error("text accepted as numeric")
	}
	if _, err := coerceNumeric(map[string]any{}); err == nil {
		t.Error("object accepted as numeric")
	}
}

func TestCoerceNumericPassthrough(t *testing.T) {
	d := mat.NewDense(1, 1, []float64{7})
	got, err := coerceNumeric(d)
	if err != nil || got != any(d) {
		t.Fatalf("got %v err=%v", got, err)
	}
	vec := []float64{1, 2}
	got, err = coerceNumeric(vec)
	if err != nil || !reflect.DeepEqual(got, vec) {
		t.Fatalf("got %v err=%v", got, err)
	}
}

func TestCoerceSklearnInputText(t *testing.T) {
	// single string -> one-element slice
	got, err := coerceSklearnInput("This movie was great")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"This movie was great"}) {
		t.Fatalf("got %#v", got)
	}

	// flat list of strings passes through
	in := []any{"good", "bad"}
	got, err = coerceSklearnInput(in)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("got %#v", got)
	}

	// nested one-element text rows are flattened
	got, err = coerceSklearnInput([]any{
		[]any{"good"},
		[]any{"bad"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []any{"good", "bad"}) {
		t.Fatalf("got %#v", got)
	}
}

func TestCoerceSklearnInputNumeric(t *testing.T) {
	got, err := coerceSklearnInput([]any{
		[]any{5.1, 3.5, 1.4, 0.2},
	})
	if err != nil {
		t.Fatal(err)
	}
	d, ok := got.(*mat.Dense)
	if !ok {
		t.Fatalf("got %T", got)
	}
	r, c := d.Dims()
	if r != 1 || c != 4 {
		t.Fatalf("dims = %dx%d", r, c)
	}
}

func TestSklearnPredictCoercesInput(t *testing.T) {
	rt := &stubRuntime{}
	a := NewSklearnAdapter(rt)
	if _, err := a.Predict("h", "some text"); err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if !reflect.DeepEqual(rt.got, []string{"some text"}) {
		t.Fatalf("runtime received %#v", rt.got)
	}
}
