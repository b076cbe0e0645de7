package remote

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

// PaymentRequest is the wire form of a PurchaseIntent. WorkflowID is null for
// bundle purchases.
type PaymentRequest struct {
	Email        string      `json:"email"`
	Amount       json.Number `json:"amount"`
	PurchaseType string      `json:"purchase_type"`
	WorkflowID   *int64      `json:"workflow_id"`
	WorkflowName string      `json:"workflow_name"`
}

func NewPaymentRequest(intent models.PurchaseIntent) PaymentRequest {
	return PaymentRequest{
		Email:        intent.Email,
		Amount:       json.Number(intent.Amount.String()),
		PurchaseType: string(intent.Kind),
		WorkflowID:   intent.ItemID,
		WorkflowName: intent.ItemName,
	}
}

type PaymentAuthorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type CustomRequestReceipt struct {
	RequestID string
	Message   string
}

func (c *Client) InitializePayment(ctx context.Context, req PaymentRequest, token string) Result[PaymentAuthorization] {
	raw, info := c.do(ctx, http.MethodPost, "/api/payment/initialize", req, token)
	if info != nil {
		return fail[PaymentAuthorization](info)
	}

	var auth PaymentAuthorization
	if info := decode(raw, &auth); info != nil {
		return fail[PaymentAuthorization](info)
	}
	if auth.AuthorizationURL == "" {
		return fail[PaymentAuthorization](&ErrorInfo{Kind: ErrDecode, Message: "response is missing authorization_url"})
	}
	return succeed(auth)
}

func (c *Client) SubmitCustomRequest(ctx context.Context, req models.CustomRequest) Result[CustomRequestReceipt] {
	raw, info := c.do(ctx, http.MethodPost, "/api/payment/custom-request", req, "")
	if info != nil {
		return fail[CustomRequestReceipt](info)
	}
	if !gjson.ValidBytes(raw) {
		return fail[CustomRequestReceipt](&ErrorInfo{Kind: ErrDecode, Message: "response is not JSON"})
	}

	return succeed(CustomRequestReceipt{
		RequestID: gjson.GetBytes(raw, "request_id").String(),
		Message:   gjson.GetBytes(raw, "message").String(),
	})
}
