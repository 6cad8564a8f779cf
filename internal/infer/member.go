package infer

import (
	"sift/internal/types"
)

// Member is one visible member of a type: a struct field (possibly
// promoted from an embedded field) or a method of a defined type.
type Member struct {
	types.Variable
	Method bool
}

// LookupMember resolves name against def: direct fields first, then
// the methods of a defined type, then members promoted from embedded
// fields in declaration order (first match wins). Defined types are
// resolved through scope.Types; pointers and optionals look through to
// their element. Unresolvable names yield nil.
func LookupMember(scope types.Scope, def *types.Definition, name string) *Member {
	return lookupMember(scope, def, name, make(map[string]bool))
}

// visited guards promotion and nominal indirection against
// self-referential and mutually-referential defined types.
func lookupMember(scope types.Scope, def *types.Definition, name string, visited map[string]bool) *Member {
	if def == nil || name == "" {
		return nil
	}
	switch def.Kind {
	case types.KindStruct:
		if field, ok := def.Field(name); ok {
			return &Member{Variable: field.Variable}
		}
		for _, field := range def.Fields {
			if !field.Embedded {
				continue
			}
			if m := lookupMember(scope, field.Type, name, visited); m != nil {
				return m
			}
		}
		return nil
	case types.KindDefined:
		if visited[def.Name] {
			return nil
		}
		visited[def.Name] = true
		td, ok := scope.TypeDef(def.Name)
		if !ok {
			return nil
		}
		if method, ok := td.Methods[name]; ok {
			return &Member{
				Variable: types.Variable{
					Name:        method.Name,
					Type:        method.Fn,
					Description: method.Description,
					Deprecated:  method.Deprecated,
				},
				Method: true,
			}
		}
		return lookupMember(scope, td.Type, name, visited)
	case types.KindPointer, types.KindOptional:
		return lookupMember(scope, def.Elem, name, visited)
	default:
		return nil
	}
}

// VisibleMembers accumulates the full member set of def: methods,
// fields, and members promoted from embedded fields. Direct entries
// overwrite promoted ones of the same name, and later embedded fields
// overwrite earlier ones.
func VisibleMembers(scope types.Scope, def *types.Definition) map[string]Member {
	out := make(map[string]Member)
	collectMembers(scope, def, out, make(map[string]bool))
	return out
}

func collectMembers(scope types.Scope, def *types.Definition, out map[string]Member, visited map[string]bool) {
	if def == nil {
		return
	}
	switch def.Kind {
	case types.KindStruct:
		for _, field := range def.Fields {
			if field.Embedded {
				collectMembers(scope, field.Type, out, visited)
			}
		}
		// Every declared field, embedded ones under their own name
		// included, shadows whatever promotion brought in.
		for _, field := range def.Fields {
			out[field.Name] = Member{Variable: field.Variable}
		}
	case types.KindDefined:
		if visited[def.Name] {
			return
		}
		visited[def.Name] = true
		td, ok := scope.TypeDef(def.Name)
		if !ok {
			return
		}
		collectMembers(scope, td.Type, out, visited)
		for name, method := range td.Methods {
			out[name] = Member{
				Variable: types.Variable{
					Name:        method.Name,
					Type:        method.Fn,
					Description: method.Description,
					Deprecated:  method.Deprecated,
				},
				Method: true,
			}
		}
	case types.KindPointer, types.KindOptional:
		collectMembers(scope, def.Elem, out, visited)
	}
}
