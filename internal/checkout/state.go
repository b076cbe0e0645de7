package checkout

import (
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/remote"
)

// Phase identifies a State without a type switch.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGating
	PhaseValidating
	PhaseInitiating
	PhaseRedirecting
	PhaseSubmitting
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGating:
		return "gating"
	case PhaseValidating:
		return "validating"
	case PhaseInitiating:
		return "initiating"
	case PhaseRedirecting:
		return "redirecting"
	case PhaseSubmitting:
		return "submitting"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Flow names the kind of attempt a state belongs to.
type Flow string

const (
	FlowSingle        Flow = Flow(models.PurchaseSingle)
	FlowAllAccess     Flow = Flow(models.PurchaseAllAccess)
	FlowCustomRequest Flow = "custom-request"
)

// State is one step of an attempt. The set is closed: every state past Idle
// can only be produced by the step before it, so an Initiating value always
// carries the identity established while Gating.
type State interface {
	Phase() Phase
	sealed()
}

// Idle means no attempt is running.
type Idle struct{}

// Gating is waiting on the authentication gate.
type Gating struct {
	flow Flow
}

// Validating holds the identity admitted by the gate while the selection
// and email are checked. Custom requests enter it without a gate.
type Validating struct {
	flow  Flow
	user  models.UserProfile
	token string
}

// Initiating carries the fixed intent while the payment call is out.
type Initiating struct {
	intent models.PurchaseIntent
	token  string
}

// Redirecting holds the provider authorization the user was sent to.
type Redirecting struct {
	intent models.PurchaseIntent
	auth   remote.PaymentAuthorization
}

// Submitting is a validated custom request on its way to the backend.
type Submitting struct {
	request models.CustomRequest
}

// Done ends a custom request that the backend accepted.
type Done struct {
	receipt remote.CustomRequestReceipt
}

// Failed ends an attempt. Err is what went wrong; its user message has
// already been shown unless the failure was silent.
type Failed struct {
	flow Flow
	err  error
}

func (Idle) Phase() Phase        { return PhaseIdle }
func (Gating) Phase() Phase      { return PhaseGating }
func (Validating) Phase() Phase  { return PhaseValidating }
func (Initiating) Phase() Phase  { return PhaseInitiating }
func (Redirecting) Phase() Phase { return PhaseRedirecting }
func (Submitting) Phase() Phase  { return PhaseSubmitting }
func (Done) Phase() Phase        { return PhaseDone }
func (Failed) Phase() Phase      { return PhaseFailed }

func (Idle) sealed()        {}
func (Gating) sealed()      {}
func (Validating) sealed()  {}
func (Initiating) sealed()  {}
func (Redirecting) sealed() {}
func (Submitting) sealed()  {}
func (Done) sealed()        {}
func (Failed) sealed()      {}

func (Idle) gate(flow Flow) Gating {
	return Gating{flow: flow}
}

// Custom requests skip the gate; anyone may submit one.
func (Idle) validateRequest() Validating {
	return Validating{flow: FlowCustomRequest}
}

func (g Gating) admit(user models.UserProfile, token string) Validating {
	return Validating{flow: g.flow, user: user, token: token}
}

func (v Validating) initiate(intent models.PurchaseIntent) Initiating {
	return Initiating{intent: intent, token: v.token}
}

func (v Validating) submit(request models.CustomRequest) Submitting {
	return Submitting{request: request}
}

func (i Initiating) redirect(auth remote.PaymentAuthorization) Redirecting {
	return Redirecting{intent: i.intent, auth: auth}
}

func (Submitting) done(receipt remote.CustomRequestReceipt) Done {
	return Done{receipt: receipt}
}

func (g Gating) Flow() Flow     { return g.flow }
func (v Validating) Flow() Flow { return v.flow }

func (v Validating) User() models.UserProfile { return v.user }

func (i Initiating) Intent() models.PurchaseIntent { return i.intent }

func (r Redirecting) Intent() models.PurchaseIntent { return r.intent }

// URL is the provider-hosted payment page.
func (r Redirecting) URL() string { return r.auth.AuthorizationURL }

func (r Redirecting) Reference() string { return r.auth.Reference }

func (s Submitting) Request() models.CustomRequest { return s.request }

func (d Done) Receipt() remote.CustomRequestReceipt { return d.receipt }

func (f Failed) Flow() Flow { return f.flow }

// Err is the reason the attempt failed. Use errs.UserMessage for the text
// shown to the user.
func (f Failed) Err() error { return f.err }
