package checkout

import (
	"context"
	"strings"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/errs"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

// SubmitCustomRequest validates and sends the custom-request form. On
// success the form is reset and dialog closed; on failure the form keeps
// what the user typed.
func (o *Orchestrator) SubmitCustomRequest(ctx context.Context, form Form, control Control, dialog Dialog) State {
	if !o.requesting.CompareAndSwap(false, true) {
		return Failed{flow: FlowCustomRequest, err: ErrAttemptInFlight}
	}
	defer o.requesting.Store(false)

	validating := Idle{}.validateRequest()
	o.enter(validating)

	request := normalizeRequest(form.Values())
	if err := o.validate.Struct(request); err != nil {
		o.log.Debug().Err(err).Msg("custom request rejected")
		return o.fail(FlowCustomRequest, errs.Validation(MsgRequestIncomplete), true)
	}

	submitting := validating.submit(request)
	o.enter(submitting)

	if control != nil {
		control.Disable()
		defer control.Enable()
	}

	res := o.api.SubmitCustomRequest(ctx, request)

	open := dialog == nil || dialog.IsOpen()
	if !res.Success {
		o.log.Warn().Err(res.Error).Msg("custom request submission failed")
		return o.fail(FlowCustomRequest, errs.Remote(MsgRequestFailed, res.Error), open)
	}

	done := submitting.done(res.Data)
	o.enter(done)
	o.log.Info().Str("request_id", res.Data.RequestID).Msg("custom request submitted")

	if open {
		o.notifier.Success(MsgRequestSubmitted)
		form.Reset()
		if dialog != nil {
			dialog.Close()
		}
	}

	o.enter(Idle{})
	return done
}

func normalizeRequest(r models.CustomRequest) models.CustomRequest {
	return models.CustomRequest{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Phone:       strings.TrimSpace(r.Phone),
		Description: strings.TrimSpace(r.Description),
		UseCase:     strings.TrimSpace(r.UseCase),
		Budget:      strings.TrimSpace(r.Budget),
		Timeline:    strings.TrimSpace(r.Timeline),
	}
}
