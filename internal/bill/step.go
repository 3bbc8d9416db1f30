package bill

import "fmt"

// Step is a position in the six-step bill wizard.
type Step int

const (
	StepEntry Step = iota + 1
	StepReview
	StepPeople
	StepAssign
	StepTaxTip
	StepResult
)

var stepNames = map[Step]string{
	StepEntry:  "entry",
	StepReview: "review",
	StepPeople: "people",
	StepAssign: "assign",
	StepTaxTip: "tax_tip",
	StepResult: "result",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is within 1..6.
func (s Step) Valid() bool {
	return s >= StepEntry && s <= StepResult
}

// Next returns the following step, staying on the last one.
func (s Step) Next() Step {
	if s < StepResult {
		return s + 1
	}
	return StepResult
}

// Prev returns the previous step, staying on the first one.
func (s Step) Prev() Step {
	if s > StepEntry {
		return s - 1
	}
	return StepEntry
}
