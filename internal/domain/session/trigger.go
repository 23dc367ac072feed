package session

// Trigger represents an event that can advance the session lifecycle.
type Trigger string

const (
	TriggerInitialize Trigger = "INITIALIZE"
	TriggerAutoMatch  Trigger = "AUTO_MATCH"
	TriggerUserEdit   Trigger = "USER_EDIT"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
