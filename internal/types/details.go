package types

import (
	"fmt"
	"strings"
)

const maxDetailsDepth = 8

// Details renders the canonical textual form of a Definition. The
// output is stable: diagnostics and completion detail strings embed it
// verbatim.
func Details(d *Definition) string {
	return detailsDepth(d, 0)
}

func detailsDepth(d *Definition, depth int) string {
	if d == nil {
		return "any"
	}
	if depth > maxDetailsDepth {
		return "..."
	}
	switch d.Kind {
	case KindPointer:
		return "*" + detailsDepth(d.Elem, depth+1)
	case KindChan:
		return "chan " + detailsDepth(d.Elem, depth+1)
	case KindSlice:
		return "[]" + detailsDepth(d.Elem, depth+1)
	case KindArray:
		return fmt.Sprintf("[%d]%s", d.Count, detailsDepth(d.Elem, depth+1))
	case KindMap:
		return "map[" + detailsDepth(d.Key, depth+1) + "]" + detailsDepth(d.Value, depth+1)
	case KindOptional:
		return detailsDepth(d.Elem, depth+1) + "?"
	case KindFunc:
		return funcDetails(d, depth)
	case KindDefined:
		if d.Name != "" {
			return d.Name
		}
		return "any"
	case KindGeneric:
		// Unresolved type variables render as unknown.
		return "any"
	case KindInt:
		return widthName("int", d.Width)
	case KindUint:
		return widthName("uint", d.Width)
	case KindFloat:
		return widthName("float", d.Width)
	default:
		return d.Kind.String()
	}
}

func funcDetails(d *Definition, depth int) string {
	args := make([]string, 0, len(d.Args))
	for _, arg := range d.Args {
		// Variadic parameters carry their per-argument type.
		label := detailsDepth(arg.Type, depth+1)
		if arg.Variadic {
			label = "..." + label
		}
		args = append(args, label)
	}
	out := "func(" + strings.Join(args, ", ") + ")"
	switch len(d.Returns) {
	case 0:
		return out
	case 1:
		return out + " " + detailsDepth(d.Returns[0], depth+1)
	default:
		rets := make([]string, 0, len(d.Returns))
		for _, ret := range d.Returns {
			rets = append(rets, detailsDepth(ret, depth+1))
		}
		return out + " (" + strings.Join(rets, ", ") + ")"
	}
}

func widthName(prefix string, width Width) string {
	if width == WidthAny {
		return prefix
	}
	return fmt.Sprintf("%s%d", prefix, width)
}
