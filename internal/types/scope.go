package types

// Variable is a named Definition with editor-facing metadata.
type Variable struct {
	Name        string
	Type        *Definition
	Description string
	Deprecated  bool
}

// Argument is one declared parameter of a func Definition. A parameter
// is required unless Optional is set; a variadic parameter absorbs all
// trailing call-site arguments.
type Argument struct {
	Variable
	Optional bool
	Variadic bool
}

// Field is one struct field; an embedded field promotes its own
// members into the containing struct.
type Field struct {
	Variable
	Embedded bool
}

// Method is a named func attached to a defined type.
type Method struct {
	Name        string
	Fn          *Definition
	Receiver    *Definition // defined type or pointer to one
	Description string
	Deprecated  bool
}

// TypeDef is the registry entry for a named type.
type TypeDef struct {
	Name        string
	Package     string
	Type        *Definition // non-generic
	Methods     map[string]Method
	Description string
	Deprecated  bool
}

// Scope is the environment a query runs against: host variables and
// named types layered over the built-in base registry.
type Scope struct {
	Variables map[string]Variable
	Types     map[string]TypeDef
}

// NewScope allocates an empty scope.
func NewScope() Scope {
	return Scope{
		Variables: make(map[string]Variable),
		Types:     make(map[string]TypeDef),
	}
}

// Merge layers overlay on top of s: overlay entries win on duplicate
// names. Neither input is modified.
func (s Scope) Merge(overlay Scope) Scope {
	out := Scope{
		Variables: make(map[string]Variable, len(s.Variables)+len(overlay.Variables)),
		Types:     make(map[string]TypeDef, len(s.Types)+len(overlay.Types)),
	}
	for name, v := range s.Variables {
		out.Variables[name] = v
	}
	for name, v := range overlay.Variables {
		out.Variables[name] = v
	}
	for name, t := range s.Types {
		out.Types[name] = t
	}
	for name, t := range overlay.Types {
		out.Types[name] = t
	}
	return out
}

// TypeDef resolves a defined-type name through the registry.
func (s Scope) TypeDef(name string) (TypeDef, bool) {
	td, ok := s.Types[name]
	return td, ok
}

// Variable resolves a variable name.
func (s Scope) Variable(name string) (Variable, bool) {
	v, ok := s.Variables[name]
	return v, ok
}
