package checkout

import (
	"context"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/remote"
)

// Notifier shows a single message to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Redirector hands the user off to an external page.
type Redirector interface {
	Redirect(url string)
}

// Control is the button that started an attempt.
type Control interface {
	Disable()
	Enable()
}

// Dialog is the modal an attempt was started from. Once it is closed,
// nothing may be written to it.
type Dialog interface {
	IsOpen() bool
	Close()
}

// Form is the custom-request form.
type Form interface {
	Values() models.CustomRequest
	Reset()
}

// Gate is the part of session.Manager checkout depends on.
type Gate interface {
	RequireAuthentication(reason string) bool
	CurrentUser() (models.UserProfile, bool)
	Token() (string, bool)
}

// Selector is the part of catalog.Selection checkout depends on.
type Selector interface {
	Current() (models.CatalogItem, bool)
	Clear()
}

// PaymentAPI is the part of remote.Client checkout depends on.
type PaymentAPI interface {
	InitializePayment(ctx context.Context, req remote.PaymentRequest, token string) remote.Result[remote.PaymentAuthorization]
	SubmitCustomRequest(ctx context.Context, req models.CustomRequest) remote.Result[remote.CustomRequestReceipt]
}
