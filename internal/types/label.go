package types

import (
	"fmt"

	"declsym/internal/source"
)

// Label returns a user-friendly label for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	if typesIn == nil || id == NoTypeID {
		return "?"
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return formatIntType(tt.Width, true)
	case KindUint:
		return formatIntType(tt.Width, false)
	case KindFloat:
		if tt.Width == WidthAny {
			return "float"
		}
		return fmt.Sprintf("float%d", tt.Width)
	case KindUnion:
		info, ok := typesIn.UnionInfo(id)
		if !ok {
			return "?"
		}
		return lookupNameFallback(typesIn.Strings, info.Name)
	case KindTagsClass:
		owner, ok := typesIn.TagsClassOwner(id)
		if !ok {
			return "?"
		}
		return Label(typesIn, owner) + ".Tags"
	default:
		return tt.Kind.String()
	}
}

func formatIntType(width Width, signed bool) string {
	prefix := "int"
	if !signed {
		prefix = "uint"
	}
	if width == WidthAny {
		return prefix
	}
	return fmt.Sprintf("%s%d", prefix, width)
}

func lookupNameFallback(strs *source.Interner, id source.StringID) string {
	if strs == nil {
		return "?"
	}
	if name, ok := strs.Lookup(id); ok && name != "" {
		return name
	}
	return "?"
}
