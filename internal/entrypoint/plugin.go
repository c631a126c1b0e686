package entrypoint

import (
	"fmt"
	"plugin"
	"reflect"
	"sync"
)

// PluginBinder binds entry points compiled as Go plugin objects
// (go build -buildmode=plugin). Plugin symbols cannot be enumerated, so bound
// units resolve callables lazily by name: the exact name first, then its
// exported form.
type PluginBinder struct{}

// Bind opens the plugin at scriptPath as a module-style unit.
func (PluginBinder) Bind(scriptPath string) (Unit, error) {
	p, err := plugin.Open(scriptPath)
	if err != nil {
		return nil, bindError{path: scriptPath, cause: err}
	}
	return &pluginUnit{path: scriptPath, plug: p, syms: make(map[string]reflect.Value)}, nil
}

// BindClass opens the plugin and instantiates the named class. The class
// symbol may be a constructor function (called with no arguments) or an
// exported variable holding an instance.
func (PluginBinder) BindClass(scriptPath, className string) (Unit, error) {
	p, err := plugin.Open(scriptPath)
	if err != nil {
		return nil, bindError{path: scriptPath, cause: err}
	}
	sym, err := lookupSymbol(p, className)
	if err != nil {
		return nil, bindError{path: scriptPath,
			cause: fmt.Errorf("class %q not found: %w", className, err)}
	}
	v := reflect.ValueOf(sym)
	if v.Kind() == reflect.Func {
		inst, err := callValue(scriptPath, className, v, nil)
		if err != nil {
			return nil, bindError{path: scriptPath,
				cause: fmt.Errorf("constructing %q: %w", className, err)}
		}
		if inst == nil {
			return nil, bindError{path: scriptPath,
				cause: fmt.Errorf("constructor %q returned nil", className)}
		}
		return NewClassUnit(scriptPath, inst), nil
	}
	// Plugin variables surface as pointers to the declared value.
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		return NewClassUnit(scriptPath, v.Elem().Interface()), nil
	}
	return NewClassUnit(scriptPath, sym), nil
}

func lookupSymbol(p *plugin.Plugin, name string) (plugin.Symbol, error) {
	if sym, err := p.Lookup(name); err == nil {
		return sym, nil
	}
	return p.Lookup(exportName(name))
}

// pluginUnit resolves callables against an opened plugin, caching hits.
type pluginUnit struct {
	path string
	plug *plugin.Plugin

	mu   sync.Mutex
	syms map[string]reflect.Value
}

func (u *pluginUnit) Path() string { return u.path }

func (u *pluginUnit) resolve(name string) (reflect.Value, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if v, ok := u.syms[name]; ok {
		return v, v.IsValid()
	}
	sym, err := lookupSymbol(u.plug, name)
	if err != nil {
		// Cache the miss; plugin contents never change after open.
		u.syms[name] = reflect.Value{}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(sym)
	u.syms[name] = v
	return v, true
}

func (u *pluginUnit) HasCallable(name string) bool {
	v, ok := u.resolve(name)
	return ok && v.Kind() == reflect.Func
}

func (u *pluginUnit) Arity(name string) (int, error) {
	v, ok := u.resolve(name)
	if !ok {
		return 0, notCallableError{path: u.path, name: name}
	}
	return arityOf(u.path, name, v)
}

func (u *pluginUnit) Invoke(name string, args ...any) (any, error) {
	v, ok := u.resolve(name)
	if !ok {
		return nil, notCallableError{path: u.path, name: name}
	}
	return callValue(u.path, name, v, args)
}
