package scoring

import "strings"

// Category is a coarse role grouping that selects which keyword rules apply.
type Category int

const (
	CategoryOther Category = iota
	CategoryDeveloper
	CategoryDesigner
	CategoryManager
)

// String returns the token matched against role names
func (c Category) String() string {
	switch c {
	case CategoryDeveloper:
		return "developer"
	case CategoryDesigner:
		return "designer"
	case CategoryManager:
		return "manager"
	default:
		return "other"
	}
}

// KeywordRule is a single required-term check tied to a role category.
// The rule is met when the resume contains Keyword or any of its Aliases.
type KeywordRule struct {
	Category   Category
	Keyword    string
	Aliases    []string
	Suggestion string
	Penalty    int
}

// Satisfied reports whether lowerText (already lower-cased) meets the rule
func (r KeywordRule) Satisfied(lowerText string) bool {
	if strings.Contains(lowerText, r.Keyword) {
		return true
	}
	for _, alias := range r.Aliases {
		if strings.Contains(lowerText, alias) {
			return true
		}
	}
	return false
}

// recognized lists categories in evaluation order
var recognized = []Category{CategoryDeveloper, CategoryDesigner, CategoryManager}

var defaultRules = map[Category][]KeywordRule{
	CategoryDeveloper: {
		{Category: CategoryDeveloper, Keyword: "react", Suggestion: "Add React.js experience.", Penalty: 10},
		{Category: CategoryDeveloper, Keyword: "javascript", Suggestion: "Include JavaScript/TypeScript.", Penalty: 10},
		{Category: CategoryDeveloper, Keyword: "project", Suggestion: "Showcase key projects.", Penalty: 5},
	},
	CategoryDesigner: {
		{Category: CategoryDesigner, Keyword: "figma", Suggestion: "Mention design tools such as Figma or Adobe XD.", Penalty: 10},
		{Category: CategoryDesigner, Keyword: "portfolio", Suggestion: "Add a portfolio link.", Penalty: 10},
	},
	CategoryManager: {
		{Category: CategoryManager, Keyword: "lead", Aliases: []string{"led"}, Suggestion: "Highlight leadership experience.", Penalty: 10},
		{Category: CategoryManager, Keyword: "communication", Suggestion: "Include communication/coordination skills.", Penalty: 5},
	},
}

// Categories returns every recognized category whose token appears in role.
// A role matching none of them yields a single CategoryOther.
func Categories(role string) []Category {
	lower := strings.ToLower(role)

	var matched []Category
	for _, c := range recognized {
		if strings.Contains(lower, c.String()) {
			matched = append(matched, c)
		}
	}

	if len(matched) == 0 {
		return []Category{CategoryOther}
	}
	return matched
}

// Rules returns a copy of the rules registered for a category
func Rules(c Category) []KeywordRule {
	rules := defaultRules[c]
	out := make([]KeywordRule, len(rules))
	for i, r := range rules {
		r.Aliases = append([]string(nil), r.Aliases...)
		out[i] = r
	}
	return out
}
