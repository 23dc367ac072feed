package session

// State represents a claim editing session state.
type State string

const (
	// StateUninitialized is the state of a session before the merged
	// budgets have been loaded into it.
	StateUninitialized State = "UNINITIALIZED"

	// StateInitialized means the session holds an entry for every merged
	// budget line item.
	StateInitialized State = "INITIALIZED"

	// StateAutoMatched means a matcher pass has populated the session.
	StateAutoMatched State = "AUTO_MATCHED"

	// StateUserEdited means the user has explicitly changed associations
	// or payable amounts. Automatic matching is no longer permitted for
	// the remainder of the session.
	StateUserEdited State = "USER_EDITED"
)

var validStates = map[State]bool{
	StateUninitialized: true,
	StateInitialized:   true,
	StateAutoMatched:   true,
	StateUserEdited:    true,
}

// IsValid returns true if the state is a valid session state.
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}
