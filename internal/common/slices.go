package common

// UnknownStr is the String value of enum members outside their known range.
const UnknownStr = "unknown"

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// FirstFunc returns the first element matching pred and true, or the zero value and false.
func FirstFunc[S ~[]E, E any](s S, pred func(E) bool) (E, bool) {
	for _, e := range s {
		if pred(e) {
			return e, true
		}
	}

	var zero E

	return zero, false
}

// Clone returns a copy of m, or nil when m is empty.
func Clone[M ~map[K]V, K comparable, V any](m M) M {
	if len(m) == 0 {
		return nil
	}

	out := make(M, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
