package pure_utils

// Map returns a new slice with the result of passing each element of the input slice to f.
func Map[T, U any](src []T, f func(T) U) []U {
	us := make([]U, len(src))
	for i := range src {
		us[i] = f(src[i])
	}
	return us
}

// MapErr is Map for transformations that can fail: the first error aborts the mapping.
func MapErr[T, U any](src []T, f func(T) (U, error)) ([]U, error) {
	us := make([]U, len(src))
	for i := range src {
		var err error
		us[i], err = f(src[i])
		if err != nil {
			return nil, err
		}
	}
	return us, nil
}

// ToAnySlice converts a typed slice to a []any, for APIs that require it.
func ToAnySlice[T any](src []T) []any {
	out := make([]any, len(src))
	for i := range src {
		out[i] = src[i]
	}
	return out
}

// Keys returns the keys of the map, in non-deterministic order.
func Keys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
