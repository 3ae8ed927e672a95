package workspace

import "strings"

// DefaultDomain is the Enterprise data-directory domain when nothing
// more specific can be inferred.
const DefaultDomain = "core"

// domainRules map keywords in a project name to an inferred domain.
// Order matters: the first rule with a matching keyword wins.
var domainRules = []struct {
	domain   string
	keywords []string
}{
	{"ml", []string{"ml", "machine-learning", "ai", "model", "training"}},
	{"data", []string{"data", "etl", "pipeline", "warehouse"}},
	{"api", []string{"api", "service", "gateway", "rest", "graphql"}},
	{"analytics", []string{"analytics", "reporting", "dashboard", "bi"}},
}

// InferDomain guesses the Enterprise domain from the project name.
// Keywords match whole dash/underscore-separated segments, so "ml"
// matches "ml-platform" but not "html-tools".
func InferDomain(name string) string {
	segments := splitName(name)
	joined := strings.Join(segments, "-")
	for _, rule := range domainRules {
		for _, keyword := range rule.keywords {
			if matchKeyword(segments, joined, keyword) {
				return rule.domain
			}
		}
	}
	return DefaultDomain
}

func splitName(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
}

// matchKeyword matches single-word keywords against individual
// segments and hyphenated keywords against the re-joined name.
func matchKeyword(segments []string, joined, keyword string) bool {
	if strings.Contains(keyword, "-") {
		return strings.Contains(joined, keyword)
	}
	for _, segment := range segments {
		if segment == keyword {
			return true
		}
	}
	return false
}
