package checkout

import (
	"encoding/json"
)

// StepAccess is the gate decision for one requested step.
type StepAccess struct {
	CanAccess    bool   `json:"canAccess"`
	RedirectTo   string `json:"redirectTo,omitempty"`
	MissingSteps []Step `json:"missingSteps"`
	CurrentStep  int    `json:"currentStep"`
}

type Progress struct {
	CompletedSteps []Step `json:"completedSteps"`
	CurrentStep    int    `json:"currentStep"`
	NextStep       *Step  `json:"nextStep"`
	IsComplete     bool   `json:"isComplete"`
}

// decodeRaw splits serialized draft JSON into per-step payloads. It reports
// false when raw is empty or not a JSON object.
func decodeRaw(raw string) (map[string]json.RawMessage, bool) {
	if raw == "" {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// stepValid decodes payload as step's form and validates it.
func stepValid(step Step, payload json.RawMessage) bool {
	if len(payload) == 0 || string(payload) == "null" {
		return false
	}
	form := NewStepData(step)
	if form == nil {
		return false
	}
	if err := json.Unmarshal(payload, form); err != nil {
		return false
	}
	return len(form.Validate()) == 0
}

// ValidateStepAccess decides from the serialized draft whether requested may
// be shown. Each step is validated on its own, so invalidating an earlier
// step moves the current step back.
func ValidateStepAccess(requested Step, raw string) StepAccess {
	requestedNumber := requested.Number()

	fields, ok := decodeRaw(raw)
	if !ok {
		access := StepAccess{
			CanAccess:    requested == StepCustomer,
			MissingSteps: append([]Step{}, AllSteps...),
			CurrentStep:  1,
		}
		if !access.CanAccess {
			access.RedirectTo = StepCustomer.Path()
		}
		return access
	}

	completed := 0
	missing := []Step{}
	for _, step := range AllSteps {
		if stepValid(step, fields[string(step)]) {
			completed++
		} else {
			missing = append(missing, step)
		}
	}

	current := completed + 1
	access := StepAccess{
		CanAccess:    requestedNumber <= current,
		MissingSteps: missing,
		CurrentStep:  current,
	}
	if !access.CanAccess {
		access.RedirectTo = StepPath(current)
	}
	return access
}

func GetCheckoutProgress(raw string) Progress {
	access := ValidateStepAccess(StepReview, raw)

	missing := make(map[Step]bool, len(access.MissingSteps))
	for _, s := range access.MissingSteps {
		missing[s] = true
	}
	completed := []Step{}
	for _, s := range AllSteps {
		if !missing[s] {
			completed = append(completed, s)
		}
	}

	p := Progress{
		CompletedSteps: completed,
		CurrentStep:    access.CurrentStep,
		IsComplete:     len(completed) == len(AllSteps),
	}
	if access.CurrentStep <= len(AllSteps) {
		next := AllSteps[access.CurrentStep-1]
		p.NextStep = &next
	}
	return p
}

// ResumePath is where a visitor landing on the checkout index should go.
// A complete checkout resumes on the review step.
func ResumePath(raw string) string {
	current := GetCheckoutProgress(raw).CurrentStep
	if current > len(AllSteps) {
		return StepReview.Path()
	}
	return StepPath(current)
}
