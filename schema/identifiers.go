package schema

// reservedIdentifiers lists the CTF/TSDL keywords spec.md §3 forbids as
// field, event-class, or clock names, since the metadata renderer would
// otherwise emit ambiguous TSDL.
var reservedIdentifiers = map[string]struct{}{
	"clock": {}, "event": {}, "int": {}, "float": {}, "string": {},
	"stream": {}, "variant": {}, "enum": {}, "struct": {}, "trace": {},
	"env": {}, "typedef": {}, "typealias": {}, "callsite": {},
}

// ValidIdentifier reports whether name is non-empty and not a reserved
// CTF keyword, the rule spec.md §3 applies to field, event-class, and
// clock names.
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	_, reserved := reservedIdentifiers[name]

	return !reserved
}
