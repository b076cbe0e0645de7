package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/config"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/database"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/handlers"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/remote"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/repository"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSandbox(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLite(ctx, ":memory:", repository.Schema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.NewWorkflowRepository(db).SeedDemo(ctx))

	cfg := &config.AppConfig{
		Environment: "test",
		Pricing: config.Pricing{
			SingleWorkflow: decimal.NewFromInt(149),
			AllAccess:      decimal.NewFromInt(799),
			Currency:       "GHS",
		},
		Stub: config.StubConfig{
			JWTSecret:       "test-secret",
			TokenTTL:        time.Hour,
			CheckoutBaseURL: "https://checkout.example/",
			AdminEmails:     []string{"boss@vexa.ai"},
		},
	}

	log := zerolog.Nop()
	return server.NewHTTPServer(cfg, log, handlers.NewHandlerSet(log, db, cfg)).Handler()
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func signUp(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      email,
		"password":   "correct-horse",
		"first_name": "Ama",
		"last_name":  "Mensah",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := gjson.Get(rec.Body.String(), "token").String()
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	rec := call(t, newSandbox(t), http.MethodGet, "/api/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "database").String())
}

func TestListWorkflowsHidesInactive(t *testing.T) {
	rec := call(t, newSandbox(t), http.MethodGet, "/api/workflows", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	names := gjson.Get(body, "workflows.#.name").Array()
	assert.Len(t, names, 5)
	assert.NotContains(t, body, "Payroll Reminder")
	assert.Equal(t, "Invoice Bot", gjson.Get(body, "workflows.0.name").String())
}

func TestGetWorkflow(t *testing.T) {
	h := newSandbox(t)

	rec := call(t, h, http.MethodGet, "/api/workflows/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Invoice Bot", gjson.Get(rec.Body.String(), "workflow.name").String())

	rec = call(t, h, http.MethodGet, "/api/workflows/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Workflow not found", gjson.Get(rec.Body.String(), "detail").String())

	rec = call(t, h, http.MethodGet, "/api/workflows/abc", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	h := newSandbox(t)
	signUp(t, h, "a@b.com")

	rec := call(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      "A@B.com",
		"password":   "another-pass",
		"first_name": "Kofi",
		"last_name":  "Boateng",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", gjson.Get(rec.Body.String(), "detail").String())
}

func TestRegisterDoesNotIssueToken(t *testing.T) {
	rec := call(t, newSandbox(t), http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      "a@b.com",
		"password":   "correct-horse",
		"first_name": "Ama",
		"last_name":  "Mensah",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, gjson.Get(rec.Body.String(), "token").Exists())
	assert.Equal(t, "a@b.com", gjson.Get(rec.Body.String(), "user.email").String())
}

func TestLoginWithWrongPassword(t *testing.T) {
	h := newSandbox(t)
	signUp(t, h, "a@b.com")

	rec := call(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "a@b.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", gjson.Get(rec.Body.String(), "detail").String())
}

func TestMeAndLogout(t *testing.T) {
	h := newSandbox(t)
	token := signUp(t, h, "a@b.com")

	rec := call(t, h, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ama", gjson.Get(rec.Body.String(), "user.first_name").String())

	rec = call(t, h, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Could not validate credentials", gjson.Get(rec.Body.String(), "detail").String())
}

func TestInitializePaymentRequiresAuth(t *testing.T) {
	rec := call(t, newSandbox(t), http.MethodPost, "/api/payment/initialize", "", map[string]any{
		"email":         "a@b.com",
		"amount":        149,
		"purchase_type": "single",
		"workflow_id":   1,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", gjson.Get(rec.Body.String(), "detail").String())
}

func TestInitializePayment(t *testing.T) {
	h := newSandbox(t)
	token := signUp(t, h, "a@b.com")

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"single", map[string]any{"email": "a@b.com", "amount": 149, "purchase_type": "single", "workflow_id": 1, "workflow_name": "Invoice Bot"}, http.StatusOK},
		{"all access", map[string]any{"email": "a@b.com", "amount": 799, "purchase_type": "all-access", "workflow_id": nil, "workflow_name": "All Access Pass"}, http.StatusOK},
		{"price mismatch", map[string]any{"email": "a@b.com", "amount": 1, "purchase_type": "single", "workflow_id": 1}, http.StatusBadRequest},
		{"inactive workflow", map[string]any{"email": "a@b.com", "amount": 79, "purchase_type": "single", "workflow_id": 6}, http.StatusNotFound},
		{"unknown type", map[string]any{"email": "a@b.com", "amount": 149, "purchase_type": "bundle"}, http.StatusUnprocessableEntity},
		{"bad email", map[string]any{"email": "nope", "amount": 149, "purchase_type": "single", "workflow_id": 1}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, h, http.MethodPost, "/api/payment/initialize", token, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusOK {
				assert.True(t, gjson.Get(rec.Body.String(), "detail").Exists())
				return
			}
			body := rec.Body.String()
			assert.True(t, strings.HasPrefix(gjson.Get(body, "reference").String(), "VEXA-"))
			code := gjson.Get(body, "access_code").String()
			assert.Len(t, code, 12)
			assert.Equal(t, "https://checkout.example/"+code, gjson.Get(body, "authorization_url").String())
		})
	}
}

func TestCustomRequestAndAdminListing(t *testing.T) {
	h := newSandbox(t)

	rec := call(t, h, http.MethodPost, "/api/payment/custom-request", "", map[string]string{
		"name":                 "Ama",
		"email":                "a@b.com",
		"workflow_description": "Automate invoices",
		"use_case":             "Finance team",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "request_id").Int())

	rec = call(t, h, http.MethodPost, "/api/payment/custom-request", "", map[string]string{
		"name":  "Ama",
		"email": "a@b.com",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	customer := signUp(t, h, "a@b.com")
	rec = call(t, h, http.MethodGet, "/api/admin/custom-requests", customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := signUp(t, h, "boss@vexa.ai")
	rec = call(t, h, http.MethodGet, "/api/admin/custom-requests?page=1&perPage=10", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := gjson.Get(rec.Body.String(), "items").Array()
	require.Len(t, items, 1)
	assert.Equal(t, "Automate invoices", items[0].Get("workflow_description").String())
	assert.Equal(t, "new", items[0].Get("status").String())
}

func TestAdminListingClampsHugePage(t *testing.T) {
	h := newSandbox(t)
	admin := signUp(t, h, "boss@vexa.ai")

	for _, page := range []string{"9223372036854775807", "4294967296", "99999999999"} {
		rec := call(t, h, http.MethodGet, "/api/admin/custom-requests?perPage=7&page="+page, admin, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Empty(t, gjson.Get(rec.Body.String(), "items").Array())
	}
}

func TestRemoteClientAgainstSandbox(t *testing.T) {
	srv := httptest.NewServer(newSandbox(t))
	t.Cleanup(srv.Close)
	ctx := context.Background()
	client := remote.New(srv.URL)

	catalog := client.FetchCatalog(ctx)
	require.True(t, catalog.Success)
	require.Len(t, catalog.Data, 5)
	assert.True(t, catalog.Data[0].Price.Equal(decimal.NewFromInt(149)))

	reg := client.Register(ctx, models.Registration{
		Email:     "a@b.com",
		Password:  "correct-horse",
		FirstName: "Ama",
		LastName:  "Mensah",
	})
	require.True(t, reg.Success)
	assert.False(t, reg.Data.HasSession())

	bad := client.Login(ctx, models.Credentials{Email: "a@b.com", Password: "nope-nope"})
	require.False(t, bad.Success)
	assert.Equal(t, remote.ErrStatus, bad.Error.Kind)
	assert.Equal(t, "Invalid email or password", bad.Error.Message)

	login := client.Login(ctx, models.Credentials{Email: "a@b.com", Password: "correct-horse"})
	require.True(t, login.Success)

	id := catalog.Data[0].ID
	payment := client.InitializePayment(ctx, remote.NewPaymentRequest(models.PurchaseIntent{
		Kind:     models.PurchaseSingle,
		Email:    "a@b.com",
		Amount:   catalog.Data[0].Price,
		ItemID:   &id,
		ItemName: catalog.Data[0].Name,
	}), login.Data.Token)
	require.True(t, payment.Success, "%v", payment.Error)
	assert.True(t, strings.HasPrefix(payment.Data.AuthorizationURL, "https://checkout.example/"))
}
