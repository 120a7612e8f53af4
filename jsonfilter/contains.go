package jsonfilter

import "encoding/json"

// Contains implements the `@>` containment operator: target contains
// pattern iff
//   - both null: true;
//   - pattern is an object: every key in pattern exists in target with a
//     contained value (target may be a superset of pattern's keys);
//   - pattern is an array: every element of pattern is contained by some
//     element of target (many pattern elements may match the same
//     target element);
//   - pattern is a primitive and target is an array: true iff any
//     element of target contains pattern;
//   - otherwise (primitive vs primitive, or a type mismatch): strict
//     equality, which is false across differing JSON type tags.
func Contains(target, pattern any) bool {
	if pattern == nil {
		return target == nil
	}
	switch p := pattern.(type) {
	case map[string]any:
		t, ok := target.(map[string]any)
		if !ok {
			return false
		}
		for k, pv := range p {
			tv, ok := t[k]
			if !ok || !Contains(tv, pv) {
				return false
			}
		}
		return true
	case []any:
		t, ok := target.([]any)
		if !ok {
			return false
		}
		for _, pe := range p {
			found := false
			for _, te := range t {
				if Contains(te, pe) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		if arr, ok := target.([]any); ok {
			for _, te := range arr {
				if Contains(te, pattern) {
					return true
				}
			}
			return false
		}
		return primitiveEqual(target, pattern)
	}
}

func primitiveEqual(a, b any) bool {
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case json.Number:
		bv, ok := b.(json.Number)
		return ok && numbersEqual(av, bv)
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	default:
		return false
	}
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	af, aerr := a.Float64()
	bf, berr := b.Float64()
	return aerr == nil && berr == nil && af == bf
}

// typeTag orders JSON values for comparison purposes:
// Null < Bool < Number < String < Array < Object.
func typeTag(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case json.Number:
		return 2
	case string:
		return 3
	case []any:
		return 4
	case map[string]any:
		return 5
	default:
		return 6
	}
}

// Compare orders two parsed JSON trees hierarchically by type tag, then
// structurally within a tag (numeric/string/lexical order for scalars;
// elementwise then length for arrays; key count, then sorted keys and
// their values, for objects) — arbitrary but total and stable, since cross-structural JSON
// ordering only needs to be consistent, not semantically meaningful.
func Compare(a, b any) int {
	ta, tb := typeTag(a), typeTag(b)
	if ta != tb {
		if ta < tb {
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case nil:
		return 0
	case bool:
		bv := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	case json.Number:
		bv := b.(json.Number)
		af, _ := av.Float64()
		bf, _ := bv.Float64()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case []any:
		bv := b.([]any)
		for i := 0; i < len(av) && i < len(bv); i++ {
			if c := Compare(av[i], bv[i]); c != 0 {
				return c
			}
		}
		switch {
		case len(av) < len(bv):
			return -1
		case len(av) > len(bv):
			return 1
		default:
			return 0
		}
	case map[string]any:
		bv := b.(map[string]any)
		switch {
		case len(av) < len(bv):
			return -1
		case len(av) > len(bv):
			return 1
		default:
			ak := sortedKeys(av)
			bk := sortedKeys(bv)
			for i := range ak {
				if ak[i] != bk[i] {
					if ak[i] < bk[i] {
						return -1
					}
					return 1
				}
				if c := Compare(av[ak[i]], bv[bk[i]]); c != 0 {
					return c
				}
			}
			return 0
		}
	default:
		return 0
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
