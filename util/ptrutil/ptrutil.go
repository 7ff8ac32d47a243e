package ptrutil

// ToPtr returns a pointer to a copy of v.
func ToPtr[T any](v T) *T {
	return &v
}

// Clone returns a pointer to a shallow copy of v, or nil if v is nil.
func Clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

// ValueOrDefault dereferences v, returning the zero value of T if v is nil.
func ValueOrDefault[T any](v *T) T {
	if v != nil {
		return *v
	}
	var def T
	return def
}
