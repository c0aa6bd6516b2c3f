package eval

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/lazylang/lazylang/ast"
	"github.com/lazylang/lazylang/errs"
	"github.com/lazylang/lazylang/value"
)

func (e *Evaluator) evalIdent(n *ast.Ident, env *value.Env) value.Value {
	if v, ok := env.Lookup(n.Name); ok {
		return v
	}
	err := errs.New(errs.UnknownIdentifier, posOf(n.Pos), "unknown identifier %q", n.Name)
	if best := bestMatch(n.Name, env.Names()); best != "" {
		err = err.WithSuggestion("did you mean " + best + "?")
	}
	panic(err)
}

// bestMatch finds the candidate closest to name by fuzzy-ranked Levenshtein
// distance, provided that distance falls within len(name)/2 + 1 — the
// threshold the specification fixes for the UnknownIdentifier hint.
func bestMatch(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	threshold := len(name)/2 + 1
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	best, bestDist := "", threshold+1
	for _, r := range ranks {
		if r.Distance <= threshold && r.Distance < bestDist {
			bestDist = r.Distance
			best = r.Target
		}
	}
	return best
}
