package types

// Intent classifies how an assistant reply was produced
type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentGrounded Intent = "grounded"
	IntentFallback Intent = "fallback"
	IntentRefusal  Intent = "refusal"
)

// IsValid checks if the intent is valid
func (i Intent) IsValid() bool {
	switch i {
	case IntentGreeting, IntentGrounded, IntentFallback, IntentRefusal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the intent
func (i Intent) String() string {
	return string(i)
}
