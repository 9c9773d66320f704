package bastion

// Evaluator decides whether a set of granted roles satisfies a permission
// query.
type Evaluator interface {
	// Evaluate reports whether any of the roles grants the queried
	// permission.
	Evaluate(roles []string, query string) bool
}

// grantsEvaluator evaluates queries against a role→permission-pattern
// table.
type grantsEvaluator struct {
	grants map[string][]string
}

// NewGrantsEvaluator creates an evaluator over the given grants table.
// A nil table uses DefaultGrants.
func NewGrantsEvaluator(grants map[string][]string) Evaluator {
	if grants == nil {
		grants = DefaultGrants()
	}
	return &grantsEvaluator{grants: grants}
}

func (e *grantsEvaluator) Evaluate(roles []string, query string) bool {
	for _, r := range roles {
		for _, pattern := range e.grants[r] {
			if matchPermission(pattern, query) {
				return true
			}
		}
	}
	return false
}
