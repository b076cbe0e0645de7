// Package checkout drives purchase attempts from the buy trigger to the
// payment provider hand-off, and submits custom workflow requests.
package checkout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/config"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/errs"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/remote"
)

const (
	MsgLoginForWorkflows = "Please login or register to purchase workflows"
	MsgLoginForAllAccess = "Please login or register to purchase All Access Pass"
	MsgSelectWorkflow    = "Please select a workflow"
	MsgInvalidEmail      = "Your account needs a valid email address to checkout"
	MsgPaymentFailed     = "Payment initialization failed. Please try again."
	MsgRequestIncomplete = "Please fill in your name, a valid email, the workflow description and your use case"
	MsgRequestSubmitted  = "Custom request submitted successfully! We will contact you soon."
	MsgRequestFailed     = "Failed to submit request. Please try again."
)

var (
	// ErrAttemptInFlight is returned when a trigger arrives while the previous
	// attempt of the same kind has not finished.
	ErrAttemptInFlight = errors.New("checkout attempt already in flight")
	// ErrDismissed means the dialog was closed before the remote call returned;
	// the result was dropped without touching the UI.
	ErrDismissed = errors.New("dialog dismissed before the attempt resolved")
)

// Orchestrator runs purchase and custom-request attempts. At most one
// attempt of each kind is in flight at a time.
type Orchestrator struct {
	gate       Gate
	selection  Selector
	api        PaymentAPI
	pricing    config.Pricing
	notifier   Notifier
	redirector Redirector
	validate   *validator.Validate
	log        zerolog.Logger

	purchasing atomic.Bool
	requesting atomic.Bool

	mu       sync.Mutex
	state    State
	observer func(State)
}

// NewOrchestrator wires the gate, selection and payment API to the UI
// callbacks. Prices come from pricing when an item carries none.
func NewOrchestrator(
	gate Gate,
	selection Selector,
	api PaymentAPI,
	pricing config.Pricing,
	notifier Notifier,
	redirector Redirector,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		gate:       gate,
		selection:  selection,
		api:        api,
		pricing:    pricing,
		notifier:   notifier,
		redirector: redirector,
		validate:   validator.New(),
		log:        log.With().Str("component", "checkout").Logger(),
		state:      Idle{},
	}
}

// Observe registers fn to receive every state transition.
func (o *Orchestrator) Observe(fn func(State)) {
	o.mu.Lock()
	o.observer = fn
	o.mu.Unlock()
}

// State is the most recent state of the current or last attempt.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) enter(s State) {
	o.mu.Lock()
	o.state = s
	observer := o.observer
	o.mu.Unlock()

	o.log.Debug().Stringer("phase", s.Phase()).Msg("checkout transition")
	if observer != nil {
		observer(s)
	}
}

// BuySelected purchases the currently selected workflow. dialog is the
// purchase modal the trigger lives in.
func (o *Orchestrator) BuySelected(ctx context.Context, control Control, dialog Dialog) State {
	return o.purchase(ctx, FlowSingle, control, dialog)
}

// BuyAllAccess purchases the bundle. dialog may be nil when the trigger is
// not inside a modal.
func (o *Orchestrator) BuyAllAccess(ctx context.Context, control Control, dialog Dialog) State {
	return o.purchase(ctx, FlowAllAccess, control, dialog)
}

// DismissPurchase closes the purchase modal and drops the selection.
func (o *Orchestrator) DismissPurchase(dialog Dialog) {
	if dialog != nil && dialog.IsOpen() {
		dialog.Close()
	}
	o.selection.Clear()
}

func (o *Orchestrator) purchase(ctx context.Context, flow Flow, control Control, dialog Dialog) State {
	if !o.purchasing.CompareAndSwap(false, true) {
		o.log.Debug().Str("flow", string(flow)).Msg("ignoring trigger while an attempt is in flight")
		return Failed{flow: flow, err: ErrAttemptInFlight}
	}
	defer o.purchasing.Store(false)

	gating := Idle{}.gate(flow)
	o.enter(gating)

	reason := MsgLoginForWorkflows
	if flow == FlowAllAccess {
		reason = MsgLoginForAllAccess
	}
	if !o.gate.RequireAuthentication(reason) {
		// The gate has already told the user why.
		return o.fail(flow, errs.Gate(reason), false)
	}
	user, okUser := o.gate.CurrentUser()
	token, okToken := o.gate.Token()
	if !okUser || !okToken {
		return o.fail(flow, errs.Gate(reason), true)
	}

	validating := gating.admit(user, token)
	o.enter(validating)

	intent, err := o.buildIntent(validating)
	if err != nil {
		return o.fail(flow, err, true)
	}

	initiating := validating.initiate(intent)
	o.enter(initiating)

	if control != nil {
		control.Disable()
		defer control.Enable()
	}

	res := o.api.InitializePayment(ctx, remote.NewPaymentRequest(intent), initiating.token)

	if dialog != nil && !dialog.IsOpen() {
		o.log.Info().Str("flow", string(flow)).Bool("success", res.Success).Msg("purchase dialog closed before payment initialization returned")
		return o.fail(flow, ErrDismissed, false)
	}

	if !res.Success {
		o.log.Warn().Err(res.Error).Str("flow", string(flow)).Msg("payment initialization failed")
		return o.fail(flow, errs.Remote(MsgPaymentFailed, res.Error), true)
	}

	redirecting := initiating.redirect(res.Data)
	o.enter(redirecting)

	o.log.Info().
		Str("flow", string(flow)).
		Str("reference", redirecting.Reference()).
		Str("amount", intent.Amount.String()).
		Msg("handing off to payment provider")
	o.redirector.Redirect(redirecting.URL())
	if flow == FlowSingle {
		o.selection.Clear()
	}

	o.enter(Idle{})
	return redirecting
}

// buildIntent checks what the attempt needs and fixes the amount. Amounts
// come from the catalog or configuration, never from the caller.
func (o *Orchestrator) buildIntent(v Validating) (models.PurchaseIntent, error) {
	intent := models.PurchaseIntent{Email: v.user.Email}

	switch v.flow {
	case FlowSingle:
		item, ok := o.selection.Current()
		if !ok {
			return models.PurchaseIntent{}, errs.Validation(MsgSelectWorkflow)
		}
		id := item.ID
		intent.Kind = models.PurchaseSingle
		intent.ItemID = &id
		intent.ItemName = item.Name
		intent.Amount = item.Price
		if !intent.Amount.IsPositive() {
			intent.Amount = o.pricing.SingleWorkflow
		}
	case FlowAllAccess:
		intent.Kind = models.PurchaseAllAccess
		intent.ItemName = models.AllAccessName
		intent.Amount = o.pricing.AllAccess
	default:
		return models.PurchaseIntent{}, errs.Validation(MsgSelectWorkflow)
	}

	if err := o.validate.Var(intent.Email, "required,email"); err != nil {
		return models.PurchaseIntent{}, errs.Validation(MsgInvalidEmail)
	}
	return intent, nil
}

// fail records the failure, shows its message when notify is set and returns
// to Idle. The Failed value is what the caller gets back.
func (o *Orchestrator) fail(flow Flow, err error, notify bool) State {
	failed := Failed{flow: flow, err: err}
	o.enter(failed)
	if notify {
		o.notifier.Error(errs.UserMessage(err))
	}
	o.enter(Idle{})
	return failed
}
