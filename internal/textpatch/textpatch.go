// Package textpatch applies literal anchor-based insertions to source files
// whose structure is not worth parsing, such as Vue single-file components.
//
// Patches are best effort and not atomic: every rule whose anchor is found is
// applied, and the rules whose anchors are missing are reported back so the
// caller can warn about them.
package textpatch

import "strings"

// Rule replaces the first occurrence of Anchor with Replacement.
type Rule struct {
	Name        string
	Anchor      string
	Replacement string
}

// Patch is a named set of rules guarded by sentinels. If any sentinel is
// already present in the source, the patch is considered applied and skipped.
type Patch struct {
	Sentinels []string
	Rules     []Rule
}

// Result describes what Apply did.
type Result struct {
	Output  string
	Skipped bool
	Applied []string
	Missing []string
}

// Changed reports whether the output differs from the input.
func (r Result) Changed() bool {
	return len(r.Applied) > 0
}

// Apply runs the patch against src.
func (p Patch) Apply(src string) Result {
	for _, sentinel := range p.Sentinels {
		if sentinel != "" && strings.Contains(src, sentinel) {
			return Result{Output: src, Skipped: true}
		}
	}

	res := Result{Output: src}
	for _, rule := range p.Rules {
		if rule.Anchor == "" || !strings.Contains(res.Output, rule.Anchor) {
			res.Missing = append(res.Missing, rule.label())
			continue
		}
		res.Output = strings.Replace(res.Output, rule.Anchor, rule.Replacement, 1)
		res.Applied = append(res.Applied, rule.label())
	}
	return res
}

func (r Rule) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Anchor
}
