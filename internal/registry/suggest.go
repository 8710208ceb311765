package registry

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the saved name closest to input, or "" when nothing is
// close enough to be worth offering.
func (r *Registry) Suggest(input string) string {
	input = strings.TrimSpace(input)
	if input == "" || len(r.targets) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindNormalizedFold(input, r.Names())
	if len(ranks) == 0 {
		// Typos that drop a character still match in the other direction.
		for _, name := range r.Names() {
			if fuzzy.MatchNormalizedFold(name, input) {
				return name
			}
		}
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
