package checkout

import (
	"fmt"
	"time"
)

// Draft is the in-progress checkout: per-step form data plus the list of
// steps that were accepted at least once.
type Draft struct {
	Customer     *CustomerForm `json:"customer,omitempty"`
	Shipping     *ShippingForm `json:"shipping,omitempty"`
	Payment      *PaymentForm  `json:"payment,omitempty"`
	Review       *ReviewForm   `json:"review,omitempty"`
	StepProgress []Step        `json:"stepProgress"`
	LastUpdated  int64         `json:"lastUpdated"`
	SessionID    string        `json:"sessionId,omitempty"`
}

func NewDraft(now time.Time) Draft {
	return Draft{StepProgress: []Step{}, LastUpdated: now.UnixMilli()}
}

// StepData returns the saved form for step, or nil.
func (d Draft) StepData(step Step) StepData {
	switch step {
	case StepCustomer:
		if d.Customer != nil {
			return d.Customer
		}
	case StepShipping:
		if d.Shipping != nil {
			return d.Shipping
		}
	case StepPayment:
		if d.Payment != nil {
			return d.Payment
		}
	case StepReview:
		if d.Review != nil {
			return d.Review
		}
	}
	return nil
}

func (d Draft) HasStep(step Step) bool {
	for _, s := range d.StepProgress {
		if s == step {
			return true
		}
	}
	return false
}

// Validate checks every present step against its schema and the progress
// list for unknown or repeated names.
func (d Draft) Validate() error {
	for _, step := range AllSteps {
		data := d.StepData(step)
		if data == nil {
			continue
		}
		if errs := data.Validate(); len(errs) > 0 {
			return fmt.Errorf("%s: %w", step, errs)
		}
	}
	seen := make(map[Step]bool, len(d.StepProgress))
	for _, s := range d.StepProgress {
		if !s.Valid() {
			return fmt.Errorf("stepProgress: unknown step %q", s)
		}
		if seen[s] {
			return fmt.Errorf("stepProgress: duplicate step %q", s)
		}
		seen[s] = true
	}
	return nil
}

// Patch carries the fields to overwrite in a draft. Nil fields are kept.
type Patch struct {
	Customer  *CustomerForm
	Shipping  *ShippingForm
	Payment   *PaymentForm
	Review    *ReviewForm
	SessionID *string
}

// PatchFor wraps a single step's data in a Patch.
func PatchFor(data StepData) Patch {
	var p Patch
	switch f := data.(type) {
	case *CustomerForm:
		p.Customer = f
	case *ShippingForm:
		p.Shipping = f
	case *PaymentForm:
		p.Payment = f
	case *ReviewForm:
		p.Review = f
	}
	return p
}

func (p Patch) steps() []Step {
	var steps []Step
	if p.Customer != nil {
		steps = append(steps, StepCustomer)
	}
	if p.Shipping != nil {
		steps = append(steps, StepShipping)
	}
	if p.Payment != nil {
		steps = append(steps, StepPayment)
	}
	if p.Review != nil {
		steps = append(steps, StepReview)
	}
	return steps
}

// merge applies p on top of d, stamps lastUpdated and records newly supplied
// steps in stepProgress.
func (d Draft) merge(p Patch, now time.Time) Draft {
	out := d
	out.StepProgress = append([]Step{}, d.StepProgress...)
	if p.Customer != nil {
		c := *p.Customer
		out.Customer = &c
	}
	if p.Shipping != nil {
		s := *p.Shipping
		out.Shipping = &s
	}
	if p.Payment != nil {
		pm := *p.Payment
		out.Payment = &pm
	}
	if p.Review != nil {
		r := *p.Review
		out.Review = &r
	}
	if p.SessionID != nil {
		out.SessionID = *p.SessionID
	}
	for _, step := range p.steps() {
		if !out.HasStep(step) {
			out.StepProgress = append(out.StepProgress, step)
		}
	}
	out.LastUpdated = now.UnixMilli()
	return out
}
