package types

import "fmt"

// Kind enumerates every supported kind of Definition.
type Kind uint8

const (
	// KindAny is the unknown type; it is compatible with everything so
	// code the engine cannot interpret degrades instead of erroring.
	KindAny Kind = iota
	KindNil
	KindBool
	KindString
	KindByte
	KindRune
	KindInt
	KindUint
	KindFloat
	// KindNumber tags a numeric literal that has not been widened yet.
	KindNumber
	KindSlice
	KindArray
	KindMap
	KindFunc
	KindStruct
	KindPointer
	KindChan
	KindOptional
	// KindGeneric is a type variable; valid only inside the signature
	// of the func that declares it.
	KindGeneric
	// KindDefined is a nominal reference resolved through Scope.Types.
	KindDefined
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindByte:
		return "byte"
	case KindRune:
		return "rune"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindNumber:
		return "number"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindFunc:
		return "func"
	case KindStruct:
		return "struct"
	case KindPointer:
		return "pointer"
	case KindChan:
		return "chan"
	case KindOptional:
		return "optional"
	case KindGeneric:
		return "generic"
	case KindDefined:
		return "defined"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers and floats; WidthAny marks
// the generic int/uint and the inference-only float tag.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// GenericParam declares one type variable of a func signature together
// with its constraint list (empty means unconstrained).
type GenericParam struct {
	Name        string
	Constraints []*Definition
}

// Definition is the structural type value used everywhere. Definitions
// are immutable once published: resolvers share them freely and never
// write through them.
type Definition struct {
	Kind  Kind
	Width Width // int/uint/float precision

	Elem  *Definition // slice/array/chan/pointer/optional element
	Count uint32      // array length
	Key   *Definition // map key
	Value *Definition // map value

	Args     []Argument     // func parameters, in order
	Returns  []*Definition  // func results, in order
	Generics []GenericParam // func type variables, declaration order

	Fields []Field // struct fields, declaration order (significant)

	Name string // defined or generic name
}

// Shared primitive definitions. Treated as immutable.
var (
	Any    = &Definition{Kind: KindAny}
	Nil    = &Definition{Kind: KindNil}
	Bool   = &Definition{Kind: KindBool}
	String = &Definition{Kind: KindString}
	Byte   = &Definition{Kind: KindByte}
	Rune   = &Definition{Kind: KindRune}

	Int   = &Definition{Kind: KindInt}
	Int8  = &Definition{Kind: KindInt, Width: Width8}
	Int16 = &Definition{Kind: KindInt, Width: Width16}
	Int32 = &Definition{Kind: KindInt, Width: Width32}
	Int64 = &Definition{Kind: KindInt, Width: Width64}

	Uint   = &Definition{Kind: KindUint}
	Uint8  = &Definition{Kind: KindUint, Width: Width8}
	Uint16 = &Definition{Kind: KindUint, Width: Width16}
	Uint32 = &Definition{Kind: KindUint, Width: Width32}
	Uint64 = &Definition{Kind: KindUint, Width: Width64}

	// Float is the inference-only widened-numeric tag; Float32/Float64
	// are the concrete machine types.
	Float   = &Definition{Kind: KindFloat}
	Float32 = &Definition{Kind: KindFloat, Width: Width32}
	Float64 = &Definition{Kind: KindFloat, Width: Width64}

	Number = &Definition{Kind: KindNumber}
)

// NewSlice describes []elem.
func NewSlice(elem *Definition) *Definition {
	return &Definition{Kind: KindSlice, Elem: elem}
}

// NewArray describes [count]elem.
func NewArray(elem *Definition, count uint32) *Definition {
	return &Definition{Kind: KindArray, Elem: elem, Count: count}
}

// NewMap describes map[key]value.
func NewMap(key, value *Definition) *Definition {
	return &Definition{Kind: KindMap, Key: key, Value: value}
}

// NewPointer describes *elem.
func NewPointer(elem *Definition) *Definition {
	return &Definition{Kind: KindPointer, Elem: elem}
}

// NewChan describes chan elem.
func NewChan(elem *Definition) *Definition {
	return &Definition{Kind: KindChan, Elem: elem}
}

// NewOptional describes a nilable elem (safe-navigation result).
func NewOptional(elem *Definition) *Definition {
	return &Definition{Kind: KindOptional, Elem: elem}
}

// NewFunc describes a function signature.
func NewFunc(args []Argument, returns []*Definition, generics ...GenericParam) *Definition {
	return &Definition{Kind: KindFunc, Args: args, Returns: returns, Generics: generics}
}

// NewStruct describes an anonymous struct with ordered fields.
func NewStruct(fields []Field) *Definition {
	return &Definition{Kind: KindStruct, Fields: fields}
}

// NewGeneric describes the type variable name.
func NewGeneric(name string) *Definition {
	return &Definition{Kind: KindGeneric, Name: name}
}

// NewDefined describes a nominal reference to a registry entry.
func NewDefined(name string) *Definition {
	return &Definition{Kind: KindDefined, Name: name}
}

// Field returns the struct field with the given name, if any.
func (d *Definition) Field(name string) (Field, bool) {
	if d == nil || d.Kind != KindStruct {
		return Field{}, false
	}
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// LastArg returns the final declared parameter, if any.
func (d *Definition) LastArg() (Argument, bool) {
	if d == nil || d.Kind != KindFunc || len(d.Args) == 0 {
		return Argument{}, false
	}
	return d.Args[len(d.Args)-1], true
}
