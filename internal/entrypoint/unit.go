// Package entrypoint binds user-supplied code bundles as opaque executable
// units. A unit is a namespace of callables that can be probed, introspected
// for arity, and invoked positionally; nothing about a unit is assumed beyond
// that. Failures are isolated at the bind and invoke boundaries so a broken
// bundle cannot corrupt the hosting session.
package entrypoint

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// ScriptSuffix is the recognized entry-point suffix: a compiled Go plugin.
const ScriptSuffix = ".so"

// Unit is an opaque namespace of callables.
type Unit interface {
	// Path returns the script path this unit was bound from.
	Path() string
	// HasCallable reports whether the named callable exists in the unit.
	HasCallable(name string) bool
	// Arity returns the number of positional parameters the named callable
	// accepts. For variadic callables this is the number of fixed parameters.
	Arity(name string) (int, error)
	// Invoke calls the named callable with the given positional arguments.
	Invoke(name string, args ...any) (any, error)
}

// Binder resolves a script path into a bound Unit.
type Binder interface {
	// Bind loads the script as a module-style unit (top-level callables).
	Bind(scriptPath string) (Unit, error)
	// BindClass loads the script and binds the named type's methods.
	BindClass(scriptPath, className string) (Unit, error)
}

// exportName maps a manifest-style callable name to its exported Go form:
// "load_model" -> "LoadModel", "predict" -> "Predict".
func exportName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// symbolUnit is a module-style unit backed by an explicit symbol table. It is
// the unit shape used by in-process embedders and by the plugin binder after
// symbol resolution.
type symbolUnit struct {
	path string
	syms map[string]reflect.Value
}

// NewSymbolUnit builds a module-style unit from a name -> callable table.
// Lookup tries the exact name first, then its exported form.
func NewSymbolUnit(path string, symbols map[string]any) Unit {
	syms := make(map[string]reflect.Value, len(symbols))
	for name, v := range symbols {
		syms[name] = reflect.ValueOf(v)
	}
	return &symbolUnit{path: path, syms: syms}
}

func (u *symbolUnit) Path() string { return u.path }

func (u *symbolUnit) lookup(name string) (reflect.Value, bool) {
	if v, ok := u.syms[name]; ok {
		return v, true
	}
	v, ok := u.syms[exportName(name)]
	return v, ok
}

func (u *symbolUnit) HasCallable(name string) bool {
	v, ok := u.lookup(name)
	return ok && v.Kind() == reflect.Func
}

func (u *symbolUnit) Arity(name string) (int, error) {
	v, ok := u.lookup(name)
	if !ok {
		return 0, notCallableError{path: u.path, name: name}
	}
	return arityOf(u.path, name, v)
}

func (u *symbolUnit) Invoke(name string, args ...any) (any, error) {
	v, ok := u.lookup(name)
	if !ok {
		return nil, notCallableError{path: u.path, name: name}
	}
	return callValue(u.path, name, v, args)
}

// classUnit binds the methods of a single instance. Method lookup maps
// manifest-style names to exported method names.
type classUnit struct {
	path     string
	instance reflect.Value
}

// NewClassUnit wraps an instantiated object as a class-style unit.
func NewClassUnit(path string, instance any) Unit {
	return &classUnit{path: path, instance: reflect.ValueOf(instance)}
}

func (u *classUnit) Path() string { return u.path }

func (u *classUnit) method(name string) (reflect.Value, bool) {
	if m := u.instance.MethodByName(name); m.IsValid() {
		return m, true
	}
	m := u.instance.MethodByName(exportName(name))
	return m, m.IsValid()
}

func (u *classUnit) HasCallable(name string) bool {
	_, ok := u.method(name)
	return ok
}

func (u *classUnit) Arity(name string) (int, error) {
	m, ok := u.method(name)
	if !ok {
		return 0, notCallableError{path: u.path, name: name}
	}
	return arityOf(u.path, name, m)
}

func (u *classUnit) Invoke(name string, args ...any) (any, error) {
	m, ok := u.method(name)
	if !ok {
		return nil, notCallableError{path: u.path, name: name}
	}
	return callValue(u.path, name, m, args)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

func arityOf(path, name string, v reflect.Value) (int, error) {
	if v.Kind() != reflect.Func {
		return 0, notCallableError{path: path, name: name}
	}
	t := v.Type()
	n := t.NumIn()
	if t.IsVariadic() {
		n--
	}
	return n, nil
}

// callValue invokes fn with positional args, converting argument types where
// Go allows it and recovering panics raised by user code into errors. A
// trailing error return is split out; a lone error return yields (nil, err).
func callValue(path, name string, fn reflect.Value, args []any) (result any, err error) {
	if fn.Kind() != reflect.Func {
		return nil, notCallableError{path: path, name: name}
	}
	t := fn.Type()
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, invokeError{path: path, name: name,
				cause: fmt.Errorf("takes at least %d argument(s), got %d", fixed, len(args))}
		}
	} else if len(args) != fixed {
		return nil, invokeError{path: path, name: name,
			cause: fmt.Errorf("takes %d argument(s), got %d", fixed, len(args))}
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		pt := paramType(t, i, fixed)
		v, convErr := coerceArg(a, pt)
		if convErr != nil {
			return nil, invokeError{path: path, name: name,
				cause: fmt.Errorf("argument %d: %w", i, convErr)}
		}
		in[i] = v
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = invokeError{path: path, name: name, cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	out := fn.Call(in)
	return splitResults(path, name, out)
}

func paramType(t reflect.Type, i, fixed int) reflect.Type {
	if t.IsVariadic() && i >= fixed {
		return t.In(t.NumIn() - 1).Elem()
	}
	return t.In(i)
}

func coerceArg(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(pt), nil
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	if v.Type().ConvertibleTo(pt) {
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), pt)
}

func splitResults(path, name string, out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type().Implements(errType) {
			if e, _ := out[0].Interface().(error); e != nil {
				return nil, invokeError{path: path, name: name, cause: e}
			}
			return nil, nil
		}
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1]
		if last.Type().Implements(errType) {
			if e, _ := last.Interface().(error); e != nil {
				return nil, invokeError{path: path, name: name, cause: e}
			}
			return out[0].Interface(), nil
		}
		return out[0].Interface(), nil
	}
}
