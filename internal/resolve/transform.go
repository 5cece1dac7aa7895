package resolve

import (
	"regexp"
	"sync"

	"record-triplifier/internal/descriptor"
	"record-triplifier/internal/value"
)

// regexCache holds compiled patterns shared across records and workers.
// Patterns come from the validated specification, so compilation cannot fail
// at this point; a failed compile is treated as a never-matching pattern.
var regexCache sync.Map // pattern string -> *regexp.Regexp

func compiled(pattern string) *regexp.Regexp {
	if cached, ok := regexCache.Load(pattern); ok {
		return cached.(*regexp.Regexp)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}

	regexCache.Store(pattern, re)

	return re
}

// Filter keeps only values whose pattern search succeeds. An empty pattern
// is the identity; zero surviving values is Absent.
func Filter(v value.Value, pattern string) value.Value {
	if pattern == "" || !v.Found() {
		return v
	}

	re := compiled(pattern)
	if re == nil {
		return value.None()
	}

	var kept []string
	for _, s := range v.Strings() {
		if re.MatchString(s) {
			kept = append(kept, s)
		}
	}

	if len(kept) == 0 {
		return value.None()
	}

	return value.List(kept)
}

// MapValues looks every value up in the table. Misses follow the table's
// policy: drop the value, keep it unchanged, or substitute the default
// literal. When everything was dropped and the policy is default, a single
// default-valued entry is still emitted.
func MapValues(v value.Value, t *descriptor.Table) value.Value {
	if t == nil || !v.Found() {
		return v
	}

	var out []string

	for _, s := range v.Strings() {
		if mapped, ok := t.Values[s]; ok {
			out = append(out, mapped)
			continue
		}

		switch t.OnMiss {
		case descriptor.MissKeep:
			out = append(out, s)
		case descriptor.MissDefault:
			out = append(out, t.Default)
		}
	}

	if len(out) == 0 {
		if t.OnMiss == descriptor.MissDefault {
			return value.List([]string{t.Default})
		}

		return value.None()
	}

	return value.List(out)
}

// Decorate applies cut/replace substitution and prepend/append decoration to
// every value, then feeds the survivors into the SaveAs side channel when the
// node declares a saveAs key.
func Decorate(v value.Value, n *descriptor.Node, store *SaveAs) value.Value {
	if !v.Found() {
		return v
	}

	var re *regexp.Regexp
	if n.Cut != "" {
		re = compiled(n.Cut)
	}

	out := make([]string, 0, v.Len())

	for _, s := range v.Strings() {
		if re != nil {
			s = re.ReplaceAllString(s, n.Replace)
		}

		out = append(out, n.Prepend+s+n.Append)
	}

	if n.SaveAs != "" {
		store.Add(n.SaveAs, out...)
	}

	return value.List(out)
}

// Transform runs the full per-node value pipeline in its fixed order:
// filter, map, cut/replace, prepend/append.
func Transform(v value.Value, n *descriptor.Node, store *SaveAs) value.Value {
	v = Filter(v, n.Match)
	v = MapValues(v, n.Mapping)

	return Decorate(v, n, store)
}
