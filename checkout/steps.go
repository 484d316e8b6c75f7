package checkout

type Step string

const (
	StepCustomer Step = "customer"
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
)

// AllSteps is the checkout flow in order.
var AllSteps = []Step{StepCustomer, StepShipping, StepPayment, StepReview}

const stepBasePath = "/checkout/step/"

// Number is the 1-based position of s. Unknown steps count as the first.
func (s Step) Number() int {
	for i, step := range AllSteps {
		if step == s {
			return i + 1
		}
	}
	return 1
}

func (s Step) Path() string {
	return stepBasePath + string(s)
}

func (s Step) Valid() bool {
	for _, step := range AllSteps {
		if step == s {
			return true
		}
	}
	return false
}

// StepPath maps a step number to its page, falling back to the customer step.
func StepPath(n int) string {
	if n < 1 || n > len(AllSteps) {
		return StepCustomer.Path()
	}
	return AllSteps[n-1].Path()
}

// ParseStep returns the step named name.
func ParseStep(name string) (Step, bool) {
	s := Step(name)
	return s, s.Valid()
}
