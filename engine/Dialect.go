package engine

import "strconv"

// Dialect describes the SQL flavour spoken by a driver.
type Dialect struct {
	// Name identifies the dialect in logs.
	Name string

	// Placeholder returns the positional placeholder for the n-th parameter, starting at 1.
	Placeholder func(n int) string

	// LastInsertID tells whether the driver reports the id of the last inserted row.
	LastInsertID bool
}

// QuestionPlaceholder renders every parameter as `?`.
func QuestionPlaceholder(int) string {
	return "?"
}

// DollarPlaceholder renders parameters as `$1`, `$2`, ...
func DollarPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}
