// Package placeholder rewrites {name} interpolation slots into the native
// syntax of each target platform.
//
//	Web      {name} -> {{name}}
//	Android  {name} -> %1$s   (1-based, by order of first appearance)
//	Windows  {name} -> {0}    (0-based, by order of first appearance)
//
// Android and Windows output keeps only the position of a placeholder, not
// its name. Repeated names share the index assigned at their first
// appearance, so "{a} plus {a}" becomes "%1$s plus %1$s".
package placeholder

import (
	"regexp"
	"strconv"
)

// rePlaceholder matches a single {identifier} slot. Identifiers are Unicode
// letters, digits and underscores; Go's \w would only accept ASCII.
var rePlaceholder = regexp.MustCompile(`\{([\p{L}\p{N}_]+)\}`)

// Names returns the distinct placeholder names in s in order of first
// appearance.
func Names(s string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range rePlaceholder.FindAllStringSubmatch(s, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Web converts {name} to {{name}}.
func Web(s string) string {
	return rePlaceholder.ReplaceAllString(s, "{{$1}}")
}

// Android converts {name} to positional %N$s format specifiers.
func Android(s string) string {
	return positional(s, 1, func(i int) string {
		return "%" + strconv.Itoa(i) + "$s"
	})
}

// Windows converts {name} to .NET composite-format items {N}.
func Windows(s string) string {
	return positional(s, 0, func(i int) string {
		return "{" + strconv.Itoa(i) + "}"
	})
}

// positional rewrites every placeholder in one left-to-right pass. Replacement
// text is never re-scanned, so a rewritten slot such as {0} cannot be matched
// again by a later name.
func positional(s string, base int, format func(int) string) string {
	if !rePlaceholder.MatchString(s) {
		return s
	}
	index := make(map[string]int)
	return rePlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		i, ok := index[name]
		if !ok {
			i = base + len(index)
			index[name] = i
		}
		return format(i)
	})
}
