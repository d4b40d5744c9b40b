package anatomy

import "strings"

// Script is a discovered feature script. Name is the identifier the
// classifier operates on (normally the file name); Path is where the
// dispatcher finds it on disk and may be empty for bare identifiers.
type Script struct {
	Name string
	Path string
	// Kind is the inferred feature kind; KindKnown is false when the
	// name matched no kind fragment. Such scripts still classify into a
	// category, they just never occupy a feature menu slot.
	Kind      FeatureKind
	KindKnown bool
}

// Mapping assigns each category the scripts discovered for it, in
// discovery order. It is built once at startup and treated as read-only
// by the menu layer. Every category is present, possibly with an empty
// slice.
type Mapping map[Category][]Script

// categoryRules are the classification rules, evaluated top to bottom
// against the lowercased identifier. The first rule with any matching
// keyword wins; later rules are never consulted for that identifier.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{Cardiovascular, []string{"heart", "aorta"}},
	{Nervous, []string{"brain"}},
	{Musculoskeletal, []string{"bone", "skeleton", "muscle"}},
	{Dental, []string{"tooth", "dental", "mouth"}},
}

// CategoryFor classifies a single identifier. The second return is false
// when no keyword matches; such identifiers are excluded from the
// mapping, which is a design choice and not an error.
func CategoryFor(name string) (Category, bool) {
	low := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(low, kw) {
				return rule.category, true
			}
		}
	}
	return 0, false
}

// Classify buckets identifiers into categories. It performs no I/O and
// is deterministic: the same input always produces the same mapping,
// with per-category order equal to input order.
func Classify(names []string) Mapping {
	scripts := make([]Script, 0, len(names))
	for _, name := range names {
		kind, known := InferKind(name)
		scripts = append(scripts, Script{Name: name, Kind: kind, KindKnown: known})
	}
	return ClassifyScripts(scripts)
}

// ClassifyScripts is Classify for scripts that already carry paths and
// kinds, e.g. from a directory scan or an explicit catalog entry.
func ClassifyScripts(scripts []Script) Mapping {
	m := make(Mapping, len(Categories))
	for _, c := range Categories {
		m[c] = []Script{}
	}
	for _, s := range scripts {
		if c, ok := CategoryFor(s.Name); ok {
			m[c] = append(m[c], s)
		}
	}
	return m
}

// Scripts returns the scripts mapped to the category, in discovery order.
func (m Mapping) Scripts(c Category) []Script {
	return m[c]
}

// Find returns the first script of the given kind within the category,
// matching the menu's slot resolution: earliest discovered wins.
func (m Mapping) Find(c Category, kind FeatureKind) (Script, bool) {
	for _, s := range m[c] {
		if s.KindKnown && s.Kind == kind {
			return s, true
		}
	}
	return Script{}, false
}

// Total returns the number of scripts across all categories.
func (m Mapping) Total() int {
	n := 0
	for _, scripts := range m {
		n += len(scripts)
	}
	return n
}
