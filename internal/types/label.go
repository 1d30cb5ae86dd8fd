package types

import (
	"fmt"
	"strings"
)

// Label returns a user-friendly label for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUnknown:
		return "_"
	case KindUnit:
		return "()"
	case KindNever:
		return "!"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindStr:
		return "str"
	case KindSelf:
		return "Self"
	case KindInt:
		return formatIntType(tt.Width, true)
	case KindUint:
		return formatIntType(tt.Width, false)
	case KindFloat:
		return fmt.Sprintf("f%d", tt.Width)
	case KindRef:
		if tt.Mutable {
			return "&mut " + labelDepth(typesIn, tt.Elem, depth+1)
		}
		return "&" + labelDepth(typesIn, tt.Elem, depth+1)
	case KindPtr:
		if tt.Mutable {
			return "*mut " + labelDepth(typesIn, tt.Elem, depth+1)
		}
		return "*const " + labelDepth(typesIn, tt.Elem, depth+1)
	case KindSlice:
		return "[" + labelDepth(typesIn, tt.Elem, depth+1) + "]"
	case KindArray:
		return fmt.Sprintf("[%s; %d]", labelDepth(typesIn, tt.Elem, depth+1), tt.Count)
	case KindTuple:
		info, ok := typesIn.TupleInfo(id)
		if !ok {
			return "(?)"
		}
		parts := make([]string, len(info.Elems))
		for i, elem := range info.Elems {
			parts[i] = labelDepth(typesIn, elem, depth+1)
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindParam:
		info, ok := typesIn.ParamInfo(id)
		if !ok {
			return "?"
		}
		return info.Name
	case KindAdt:
		info, ok := typesIn.AdtInfo(id)
		if !ok {
			return "?"
		}
		if len(info.Args) == 0 {
			return info.Name
		}
		parts := make([]string, len(info.Args))
		for i, a := range info.Args {
			parts[i] = labelDepth(typesIn, a, depth+1)
		}
		return info.Name + "<" + strings.Join(parts, ", ") + ">"
	}
	return "?"
}

func formatIntType(width Width, signed bool) string {
	prefix := "u"
	if signed {
		prefix = "i"
	}
	if width == WidthPtr {
		return prefix + "size"
	}
	return fmt.Sprintf("%s%d", prefix, width)
}
