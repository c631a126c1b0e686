// Package manifest parses and validates model_config.json, the declarative
// document that pins exactly how a packaged model is loaded and invoked.
package manifest

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/aliyansajid/aiforge/internal/entrypoint"
	"github.com/aliyansajid/aiforge/pkg/types"
)

// FileName is the fixed manifest filename expected at the model directory root.
const FileName = "model_config.json"

// EntryPointType distinguishes module-style entry points (top-level functions)
// from class-style ones (methods on a named type).
type EntryPointType string

const (
	EntryPointModule EntryPointType = "module"
	EntryPointClass  EntryPointType = "class"
)

// Argument tokens the platform can bind. Every token in load.args/predict.args
// must come from this closed vocabulary.
const (
	ArgModelPath = "model_path"
	ArgModelDir  = "model_dir"
	ArgInputData = "input_data"
	ArgModel     = "model"
)

// AllowedArgs returns the closed argument vocabulary.
func AllowedArgs() []string {
	return []string{ArgModelPath, ArgModelDir, ArgInputData, ArgModel}
}

// FunctionSpec names one callable and the ordered argument tokens to bind.
// "function" is accepted as a legacy alias for "name"; "name" wins if both
// are present.
type FunctionSpec struct {
	Name     string   `json:"name"`
	Function string   `json:"function,omitempty"`
	Args     []string `json:"args"`
}

// FuncName resolves the declared callable name, honoring the legacy alias.
func (f FunctionSpec) FuncName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Function
}

// Manifest is the parsed, validated model_config.json document.
type Manifest struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`

	Framework      string         `json:"framework,omitempty"`
	EntryPoint     string         `json:"entry_point"`
	EntryPointType EntryPointType `json:"entry_point_type,omitempty"`
	ClassName      string         `json:"class_name,omitempty"`

	Load    FunctionSpec `json:"load"`
	Predict FunctionSpec `json:"predict"`

	ModelFile      string   `json:"model_file"`
	AuxiliaryFiles []string `json:"auxiliary_files,omitempty"`

	// Descriptive metadata, passed through to /info untouched.
	Description string   `json:"description,omitempty"`
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// FrameworkTag returns the declared framework, defaulting to custom.
func (m *Manifest) FrameworkTag() types.Framework {
	if m.Framework == "" {
		return types.FrameworkCustom
	}
	return types.Framework(m.Framework)
}

// Parse decodes and validates a raw manifest document. Validation is total:
// the first violated rule yields a typed error naming the offending field or
// token, and re-parsing an already-valid document yields an equal Manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, newSyntaxError(err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads and parses the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func (m *Manifest) validate() error {
	if m.EntryPoint == "" {
		return missingFieldError{field: "entry_point"}
	}
	if !strings.HasSuffix(m.EntryPoint, entrypoint.ScriptSuffix) {
		return invalidFieldError{
			field:  "entry_point",
			reason: "must end in " + entrypoint.ScriptSuffix,
		}
	}
	if m.Load.FuncName() == "" {
		return missingFieldError{field: "load.name"}
	}
	if m.Predict.FuncName() == "" {
		return missingFieldError{field: "predict.name"}
	}
	if m.ModelFile == "" {
		return missingFieldError{field: "model_file"}
	}
	switch m.EntryPointType {
	case "", EntryPointModule:
		m.EntryPointType = EntryPointModule
	case EntryPointClass:
		if m.ClassName == "" {
			return missingFieldError{field: "class_name"}
		}
	default:
		return invalidFieldError{
			field:  "entry_point_type",
			reason: `must be "module" or "class"`,
		}
	}
	if m.Framework != "" && !types.Framework(m.Framework).Valid() {
		return invalidFieldError{field: "framework", reason: "unknown framework tag"}
	}
	if err := validateArgs(m.Load.Args); err != nil {
		return err
	}
	return validateArgs(m.Predict.Args)
}

func validateArgs(args []string) error {
	for _, a := range args {
		if !isAllowedArg(a) {
			return invalidArgError{token: a}
		}
	}
	return nil
}

func isAllowedArg(a string) bool {
	switch a {
	case ArgModelPath, ArgModelDir, ArgInputData, ArgModel:
		return true
	}
	return false
}
