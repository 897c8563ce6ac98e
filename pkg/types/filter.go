package types

// Filter is the parsed shape of list query parameters. Filter keys are
// whitelisted per repository before they reach SQL.
type Filter struct {
	Filter map[string]interface{}
	Search string
	Limit  int
	Offset int
	Page   int
}
