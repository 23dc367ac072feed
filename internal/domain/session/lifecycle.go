package session

// NewLifecycle builds the state machine for one claim editing session.
//
// Re-initialization is permitted from every state because re-entering the
// edit flow must never clear in-progress work. Once the user has edited by
// hand, automatic matching stays disabled for the rest of the session; a
// fresh session starts over at StateUninitialized.
func NewLifecycle() StateMachine {
	b := NewBuilder()

	b.Configure(StateUninitialized).
		Permit(TriggerInitialize, StateInitialized)

	b.Configure(StateInitialized).
		Permit(TriggerInitialize, StateInitialized).
		Permit(TriggerAutoMatch, StateAutoMatched).
		Permit(TriggerUserEdit, StateUserEdited)

	b.Configure(StateAutoMatched).
		Permit(TriggerInitialize, StateAutoMatched).
		Permit(TriggerAutoMatch, StateAutoMatched).
		Permit(TriggerUserEdit, StateUserEdited)

	b.Configure(StateUserEdited).
		Permit(TriggerInitialize, StateUserEdited).
		Permit(TriggerUserEdit, StateUserEdited)

	return b.Build(StateUninitialized)
}
