package txservices

import "strconv"

// Status describes the lifecycle position of a transaction.
//
// The numeric values follow the JTA status codes so that engines bridging to
// an existing transaction manager can pass them through unchanged.
type Status int

// Transaction status codes.
const (
	StatusActive Status = iota
	StatusMarkedRollback
	StatusPrepared
	StatusCommitted
	StatusRolledBack
	StatusUnknown
	StatusNoTransaction
	StatusPreparing
	StatusCommitting
	StatusRollingBack
)

var statusNames = map[Status]string{
	StatusActive:         "ACTIVE",
	StatusMarkedRollback: "MARKED_ROLLBACK",
	StatusPrepared:       "PREPARED",
	StatusCommitted:      "COMMITTED",
	StatusRolledBack:     "ROLLEDBACK",
	StatusUnknown:        "UNKNOWN",
	StatusNoTransaction:  "NO_TRANSACTION",
	StatusPreparing:      "PREPARING",
	StatusCommitting:     "COMMITTING",
	StatusRollingBack:    "ROLLING_BACK",
}

// String returns the conventional upper case name of the status.
func (s Status) String() string {

	name, ok := statusNames[s]
	if !ok {
		return "STATUS(" + strconv.Itoa(int(s)) + ")"
	}

	return name
}

// IsActive reports whether the status belongs to a transaction that has begun
// and has not yet completed.
func (s Status) IsActive() bool {

	switch s {
	case StatusActive,
		StatusCommitting,
		StatusMarkedRollback,
		StatusPrepared,
		StatusPreparing,
		StatusRollingBack:
		return true
	}

	return false
}

// IsCompleted reports whether the status is a terminal one.
func (s Status) IsCompleted() bool {
	return s == StatusCommitted || s == StatusRolledBack
}
