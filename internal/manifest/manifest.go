// Package manifest loads the host environment description from a
// sift.toml file: the variables a query can reference and the defined
// types with their fields and methods. The decoded manifest becomes a
// Scope layered over the built-in registry.
package manifest

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"sift/internal/types"
)

// DefaultFile is the manifest name looked up next to the query files.
const DefaultFile = "sift.toml"

// VarSpec declares one host variable. The short form `name = "type"`
// and the table form with metadata both decode into it.
type VarSpec struct {
	Type        string `toml:"type"`
	Description string `toml:"description"`
	Deprecated  bool   `toml:"deprecated"`
}

// UnmarshalTOML accepts either a bare type string or a full table.
func (v *VarSpec) UnmarshalTOML(raw any) error {
	switch val := raw.(type) {
	case string:
		v.Type = val
		return nil
	case map[string]any:
		if ty, ok := val["type"].(string); ok {
			v.Type = ty
		}
		if desc, ok := val["description"].(string); ok {
			v.Description = desc
		}
		if dep, ok := val["deprecated"].(bool); ok {
			v.Deprecated = dep
		}
		return nil
	default:
		return fmt.Errorf("variable: expected string or table, got %T", raw)
	}
}

// FieldSpec declares one field of a defined type. Field order in the
// manifest is the declaration order used for embedding precedence.
type FieldSpec struct {
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	Embedded    bool   `toml:"embedded"`
	Description string `toml:"description"`
	Deprecated  bool   `toml:"deprecated"`
}

// MethodSpec declares one method of a defined type; Signature is a
// func type reference.
type MethodSpec struct {
	Signature   string `toml:"signature"`
	Description string `toml:"description"`
	Deprecated  bool   `toml:"deprecated"`
}

// TypeSpec declares one defined type.
type TypeSpec struct {
	Underlying  string                `toml:"underlying"` // non-struct defined types
	Fields      []FieldSpec           `toml:"fields"`
	Methods     map[string]MethodSpec `toml:"methods"`
	Description string                `toml:"description"`
	Deprecated  bool                  `toml:"deprecated"`
}

// File is the raw decoded manifest.
type File struct {
	Package   string              `toml:"package"`
	Variables map[string]VarSpec  `toml:"variables"`
	Types     map[string]TypeSpec `toml:"types"`
}

// Load reads and resolves a manifest file into a Scope.
func Load(path string) (types.Scope, error) {
	var file File
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return types.Scope{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return types.Scope{}, fmt.Errorf("manifest %s: unknown key %s", path, undecoded[0])
	}
	return file.Scope()
}

// Decode resolves manifest text into a Scope.
func Decode(data string) (types.Scope, error) {
	var file File
	meta, err := toml.Decode(data, &file)
	if err != nil {
		return types.Scope{}, fmt.Errorf("manifest: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return types.Scope{}, fmt.Errorf("manifest: unknown key %s", undecoded[0])
	}
	return file.Scope()
}

// Scope resolves every type reference in the file. Names are resolved
// in sorted order so errors are deterministic.
func (f *File) Scope() (types.Scope, error) {
	out := types.NewScope()

	typeNames := sortedKeys(f.Types)
	for _, name := range typeNames {
		spec := f.Types[name]
		td, err := spec.resolve(name, f.Package)
		if err != nil {
			return types.Scope{}, err
		}
		out.Types[name] = td
	}

	for _, name := range sortedKeys(f.Variables) {
		spec := f.Variables[name]
		def, err := ParseRef(spec.Type)
		if err != nil {
			return types.Scope{}, fmt.Errorf("variable %s: %w", name, err)
		}
		out.Variables[name] = types.Variable{
			Name:        name,
			Type:        def,
			Description: spec.Description,
			Deprecated:  spec.Deprecated,
		}
	}
	return out, nil
}

func (s TypeSpec) resolve(name, pkg string) (types.TypeDef, error) {
	td := types.TypeDef{
		Name:        name,
		Package:     pkg,
		Methods:     make(map[string]types.Method, len(s.Methods)),
		Description: s.Description,
		Deprecated:  s.Deprecated,
	}

	switch {
	case len(s.Fields) > 0:
		fields := make([]types.Field, 0, len(s.Fields))
		for _, fs := range s.Fields {
			def, err := ParseRef(fs.Type)
			if err != nil {
				return types.TypeDef{}, fmt.Errorf("type %s, field %s: %w", name, fs.Name, err)
			}
			fieldName := fs.Name
			if fieldName == "" && fs.Embedded && def.Kind == types.KindDefined {
				fieldName = def.Name
			}
			fields = append(fields, types.Field{
				Variable: types.Variable{
					Name:        fieldName,
					Type:        def,
					Description: fs.Description,
					Deprecated:  fs.Deprecated,
				},
				Embedded: fs.Embedded,
			})
		}
		td.Type = types.NewStruct(fields)
	case s.Underlying != "":
		def, err := ParseRef(s.Underlying)
		if err != nil {
			return types.TypeDef{}, fmt.Errorf("type %s: %w", name, err)
		}
		td.Type = def
	default:
		td.Type = types.NewStruct(nil)
	}

	for methodName, ms := range s.Methods {
		def, err := ParseRef(ms.Signature)
		if err != nil {
			return types.TypeDef{}, fmt.Errorf("type %s, method %s: %w", name, methodName, err)
		}
		if def.Kind != types.KindFunc {
			return types.TypeDef{}, fmt.Errorf("type %s, method %s: signature %q is not a func", name, methodName, ms.Signature)
		}
		td.Methods[methodName] = types.Method{
			Name:        methodName,
			Fn:          def,
			Receiver:    types.NewDefined(name),
			Description: ms.Description,
			Deprecated:  ms.Deprecated,
		}
	}
	return td, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
