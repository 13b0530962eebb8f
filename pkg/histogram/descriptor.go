package histogram

import "strings"

var primitives = map[byte]string{
	'Z': "boolean",
	'B': "byte",
	'C': "char",
	'S': "short",
	'I': "int",
	'J': "long",
	'F': "float",
	'D': "double",
}

// DecodeDescriptor converts a JVM field descriptor to its source form. Each
// leading '[' becomes a "[]" suffix, a single primitive letter becomes the
// primitive name, and "Lpkg/Name;" becomes "pkg.Name". Anything else is
// returned with only the array suffix applied, so plain class names pass
// through unchanged.
func DecodeDescriptor(desc string) string {
	dims := 0
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}
	elem := desc[dims:]

	var name string
	switch {
	case len(elem) == 1 && primitives[elem[0]] != "":
		name = primitives[elem[0]]
	case len(elem) > 2 && elem[0] == 'L' && strings.HasSuffix(elem, ";"):
		name = strings.ReplaceAll(elem[1:len(elem)-1], "/", ".")
	case dims == 0:
		return desc
	default:
		name = elem
	}
	return name + strings.Repeat("[]", dims)
}
