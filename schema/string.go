package schema

// NewString creates a string type, encoded UTF-8 by default, serialised
// as a NUL-terminated byte sequence. String types are always
// byte-aligned; their Alignment() is fixed at 8.
func NewString() *Type {
	return &Type{
		kind:      KindString,
		strEnc:    EncodingUTF8,
		alignment: 8,
	}
}
