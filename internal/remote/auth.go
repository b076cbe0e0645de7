package remote

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

// AuthPayload is what register and login hand back. Token and User are
// either both set or both empty.
type AuthPayload struct {
	Token   string              `json:"token"`
	User    *models.UserProfile `json:"user"`
	Message string              `json:"message"`
}

func (p AuthPayload) HasSession() bool {
	return p.Token != "" && p.User != nil
}

// Register creates an account. Backends that do not sign the user in on
// registration return a payload without a session.
func (c *Client) Register(ctx context.Context, reg models.Registration) Result[AuthPayload] {
	raw, info := c.do(ctx, http.MethodPost, "/api/auth/register", reg, "")
	if info != nil {
		return fail[AuthPayload](info)
	}

	var payload AuthPayload
	if info := decode(raw, &payload); info != nil {
		return fail[AuthPayload](info)
	}
	if !payload.HasSession() {
		payload.Token, payload.User = "", nil
	}
	return succeed(payload)
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) Result[AuthPayload] {
	raw, info := c.do(ctx, http.MethodPost, "/api/auth/login", creds, "")
	if info != nil {
		return fail[AuthPayload](info)
	}

	var payload AuthPayload
	if info := decode(raw, &payload); info != nil {
		return fail[AuthPayload](info)
	}
	if !payload.HasSession() {
		return fail[AuthPayload](&ErrorInfo{Kind: ErrDecode, Message: "login response is missing token or user"})
	}
	return succeed(payload)
}

// FetchProfile accepts both {"user": {...}} and a bare profile object.
func (c *Client) FetchProfile(ctx context.Context, token string) Result[models.UserProfile] {
	raw, info := c.do(ctx, http.MethodGet, "/api/auth/me", nil, token)
	if info != nil {
		return fail[models.UserProfile](info)
	}

	if user := gjson.GetBytes(raw, "user"); user.Exists() && user.IsObject() {
		raw = []byte(user.Raw)
	}

	var profile models.UserProfile
	if info := decode(raw, &profile); info != nil {
		return fail[models.UserProfile](info)
	}
	if profile.ID == "" {
		return fail[models.UserProfile](&ErrorInfo{Kind: ErrDecode, Message: "profile is missing id"})
	}
	return succeed(profile)
}
