package pattern

import (
	"regexp"
	"strings"
)

// Intent categories. Classification is advisory context for rules, never a
// hard filter: an intent that matches nothing yields CategoryGeneral and
// scoring proceeds on shape alone.
const (
	CategoryComparison   = "comparison"
	CategoryTime         = "time"
	CategoryDistribution = "distribution"
	CategoryComposition  = "composition"
	CategoryRelationship = "relationship"
	CategoryFlow         = "flow"
	CategoryRanking      = "ranking"
	CategoryGeneral      = "general"
)

// intentMatchers are evaluated in order; the first match wins. Ranking
// comes before comparison because "top 5 by sales" contains comparison
// vocabulary too.
var intentMatchers = []struct {
	category string
	re       *regexp.Regexp
}{
	{CategoryRanking, regexp.MustCompile(`\b(top|bottom|rank|ranking|best|worst|largest|smallest|highest|lowest|leading)\b`)},
	{CategoryFlow, regexp.MustCompile(`\b(flow|sankey|funnel|journey|conversion|stage|pipeline|transfer|migration)\b`)},
	{CategoryDistribution, regexp.MustCompile(`\b(distribution|histogram|spread|frequency|outlier|density|quartile|percentile)\b`)},
	{CategoryComposition, regexp.MustCompile(`\b(share|proportion|percentage|percent|breakdown|composition|makeup|part of|portion)\b`)},
	{CategoryRelationship, regexp.MustCompile(`\b(correlat\w*|relationship|versus|vs\.?|against|scatter|depend\w*)\b`)},
	{CategoryTime, regexp.MustCompile(`\b(trend|over time|timeline|time series|growth|history|evolution|daily|weekly|monthly|quarterly|yearly|by (day|week|month|quarter|year))\b`)},
	{CategoryComparison, regexp.MustCompile(`\b(compare|comparison|difference|differ\w*|across|between|by \w+)\b`)},
}

// ClassifyIntent maps a free-text intent string to a coarse category via
// keyword matching. Input is lowercased first; the same lowercased string
// is what rules see in Context.Intent.
func ClassifyIntent(intent string) string {
	s := strings.ToLower(strings.TrimSpace(intent))
	if s == "" {
		return CategoryGeneral
	}
	for _, m := range intentMatchers {
		if m.re.MatchString(s) {
			return m.category
		}
	}
	return CategoryGeneral
}

// intentHas reports whether the lowercased intent contains any of the
// given keywords. Rules use it for fine-grained hints beyond the coarse
// category.
func intentHas(intent string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(intent, w) {
			return true
		}
	}
	return false
}
