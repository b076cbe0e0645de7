package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestFetchCatalog(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/workflows", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		io.WriteString(w, `{"success":true,"workflows":[
			{"id":1,"name":"Invoice Bot","category":"Finance","icon":"🧾","price":149},
			{"id":2,"name":"Lead Router","category":"Sales","icon":"📈","price":"199.00"}
		]}`)
	})

	res := c.FetchCatalog(context.Background())
	require.True(t, res.Success)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Invoice Bot", res.Data[0].Name)
	assert.True(t, res.Data[0].Price.Equal(decimal.NewFromInt(149)))
	assert.True(t, res.Data[1].Price.Equal(decimal.NewFromInt(199)))
}

func TestFetchCatalogRejected(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"message":"catalog offline"}`)
	})

	res := c.FetchCatalog(context.Background())
	require.False(t, res.Success)
	assert.Equal(t, ErrRejected, res.Error.Kind)
	assert.Equal(t, "catalog offline", res.Error.Message)
}

func TestFetchWorkflowNotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/workflows/42", r.URL.Path)
		io.WriteString(w, `{"success":true,"workflow":null}`)
	})

	res := c.FetchWorkflow(context.Background(), 42)
	require.False(t, res.Success)
	assert.Equal(t, ErrRejected, res.Error.Kind)
}

func TestStatusErrorsCarryDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Invalid email or password"}`, "Invalid email or password"},
		{"validation list", `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`, "value is not a valid email address"},
		{"error field", `{"error":"invalid_token"}`, "invalid_token"},
		{"not json", `<html>bad gateway</html>`, "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, tt.body)
			})

			res := c.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "x"})
			require.False(t, res.Success)
			assert.Equal(t, ErrStatus, res.Error.Kind)
			assert.Equal(t, http.StatusUnauthorized, res.Error.Status)
			assert.Equal(t, tt.want, res.Error.Message)
		})
	}
}

func TestNetworkFailureIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := New(url).FetchCatalog(context.Background())
	require.False(t, res.Success)
	assert.Equal(t, ErrNetwork, res.Error.Kind)
	assert.Error(t, res.Error)
}

func TestTimeoutIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	res := New(srv.URL, WithTimeout(20*time.Millisecond)).FetchCatalog(context.Background())
	require.False(t, res.Success)
	assert.Equal(t, ErrNetwork, res.Error.Kind)
}

func TestTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: 7 * time.Second}

	c := New("http://localhost", WithHTTPClient(shared), WithTimeout(20*time.Millisecond))
	assert.Equal(t, 7*time.Second, shared.Timeout)
	assert.Equal(t, 20*time.Millisecond, c.httpClient.Timeout)

	before := http.DefaultClient.Timeout
	New("http://localhost", WithHTTPClient(http.DefaultClient), WithTimeout(time.Millisecond))
	assert.Equal(t, before, http.DefaultClient.Timeout)

	c = New("http://localhost", WithHTTPClient(shared))
	assert.Same(t, shared, c.httpClient)
}

func TestDecodeFailureIsNormalized(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"workflows":"nope"}`)
	})

	res := c.FetchCatalog(context.Background())
	require.False(t, res.Success)
	assert.Equal(t, ErrDecode, res.Error.Kind)
}

func TestLogin(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds models.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@b.com", creds.Email)

		io.WriteString(w, `{"success":true,"token":"jwt","user":{"id":"u1","email":"a@b.com","first_name":"Ama","is_admin":false}}`)
	})

	res := c.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "secret"})
	require.True(t, res.Success)
	assert.Equal(t, "jwt", res.Data.Token)
	assert.Equal(t, "Ama", res.Data.User.FirstName)
}

func TestLoginWithoutTokenFails(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"user":{"id":"u1","email":"a@b.com"}}`)
	})

	res := c.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "secret"})
	require.False(t, res.Success)
	assert.Equal(t, ErrDecode, res.Error.Kind)
}

func TestRegisterWithoutSession(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"message":"User registered successfully"}`)
	})

	res := c.Register(context.Background(), models.Registration{Email: "a@b.com", Password: "longenough", FirstName: "Ama", LastName: "K"})
	require.True(t, res.Success)
	assert.False(t, res.Data.HasSession())
	assert.Equal(t, "User registered successfully", res.Data.Message)
}

func TestFetchProfileSendsBearer(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		io.WriteString(w, `{"success":true,"user":{"id":"u1","email":"a@b.com","first_name":"Ama","is_admin":true}}`)
	})

	res := c.FetchProfile(context.Background(), "tok")
	require.True(t, res.Success)
	assert.True(t, res.Data.IsAdmin)
}

func TestInitializePaymentWirePayload(t *testing.T) {
	var got map[string]any
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payment/initialize", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"success":true,"authorization_url":"https://pay/xyz","access_code":"ac","reference":"VEXA-1"}`)
	})

	id := int64(1)
	req := NewPaymentRequest(models.PurchaseIntent{
		Kind:     models.PurchaseSingle,
		Email:    "a@b.com",
		Amount:   decimal.NewFromInt(149),
		ItemID:   &id,
		ItemName: "Invoice Bot",
	})
	res := c.InitializePayment(context.Background(), req, "")
	require.True(t, res.Success)
	assert.Equal(t, "https://pay/xyz", res.Data.AuthorizationURL)

	assert.Equal(t, map[string]any{
		"email":         "a@b.com",
		"amount":        float64(149),
		"purchase_type": "single",
		"workflow_id":   float64(1),
		"workflow_name": "Invoice Bot",
	}, got)
}

func TestAllAccessPayloadHasNullWorkflowID(t *testing.T) {
	raw, err := json.Marshal(NewPaymentRequest(models.PurchaseIntent{
		Kind:     models.PurchaseAllAccess,
		Email:    "a@b.com",
		Amount:   decimal.NewFromInt(799),
		ItemName: models.AllAccessName,
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.com","amount":799,"purchase_type":"all-access","workflow_id":null,"workflow_name":"All Access Pass"}`, string(raw))
}

func TestInitializePaymentWithoutURLFails(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true}`)
	})

	res := c.InitializePayment(context.Background(), PaymentRequest{}, "")
	require.False(t, res.Success)
	assert.Equal(t, ErrDecode, res.Error.Kind)
}

func TestSubmitCustomRequest(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Automate invoices", body["workflow_description"])
		assert.Equal(t, "Finance team", body["use_case"])
		io.WriteString(w, `{"success":true,"message":"Custom request submitted successfully","request_id":7}`)
	})

	res := c.SubmitCustomRequest(context.Background(), models.CustomRequest{
		Name:        "Ama",
		Email:       "a@b.com",
		Description: "Automate invoices",
		UseCase:     "Finance team",
	})
	require.True(t, res.Success)
	assert.Equal(t, "7", res.Data.RequestID)
}
