package interfaces

// Verdict is the result of a guard check
type Verdict struct {
	Allowed bool
	Reason  string
}

// Guard screens user input and generated output against safety rules.
// Checks are deterministic and never fail.
type Guard interface {
	Check(text string) Verdict
}
