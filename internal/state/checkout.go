package state

import "errors"

// CheckoutStep is the transient tri-state view model of the checkout flow.
type CheckoutStep string

const (
	StepCart    CheckoutStep = "cart"
	StepForm    CheckoutStep = "form"
	StepSuccess CheckoutStep = "success"
)

var ErrStepOrder = errors.New("checkout step only advances forward")

// CheckoutFlow moves cart -> form -> success, forward only. Leaving the
// checkout screen resets it.
type CheckoutFlow struct {
	step CheckoutStep
}

func NewCheckoutFlow() CheckoutFlow {
	return CheckoutFlow{step: StepCart}
}

func (f CheckoutFlow) Step() CheckoutStep {
	return f.step
}

// ToForm advances from the cart summary to the address form.
func (f CheckoutFlow) ToForm() (CheckoutFlow, error) {
	if f.step != StepCart {
		return f, ErrStepOrder
	}
	return CheckoutFlow{step: StepForm}, nil
}

// Complete advances from the form to the success screen.
func (f CheckoutFlow) Complete() (CheckoutFlow, error) {
	if f.step != StepForm {
		return f, ErrStepOrder
	}
	return CheckoutFlow{step: StepSuccess}, nil
}

// Reset returns the flow to the cart step.
func (f CheckoutFlow) Reset() CheckoutFlow {
	return CheckoutFlow{step: StepCart}
}
