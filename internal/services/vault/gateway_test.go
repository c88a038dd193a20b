package vault

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardfields/internal/card"
	apperrors "cardfields/internal/errors"
	"cardfields/internal/metrics"
	"cardfields/internal/restapi"
	"cardfields/internal/services/action"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSaveFlow struct {
	mock.Mock
}

func (m *MockSaveFlow) CreateVaultSetupToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSaveFlow) OnApprove(ctx context.Context, data action.VaultApproval) action.ApprovalResult {
	args := m.Called(ctx, data)
	return args.Get(0).(action.ApprovalResult)
}

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]interface{}
}

func newVaultServer(t *testing.T, status int, response string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if r.Body != nil && r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		calls = append(calls, rec)
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newGateway(url string, cfg Config) Gateway {
	return NewGateway(restapi.NewClient(restapi.ClientConfig{BaseURL: url}), &metrics.NoopMetricsCollector{}, cfg)
}

func TestGateway_Create(t *testing.T) {
	server, calls := newVaultServer(t, http.StatusOK, `{"id":"vst-1","status":"APPROVED","customer":{"id":"cus-1"}}`)
	gw := newGateway(server.URL, Config{})

	flow := new(MockSaveFlow)
	flow.On("CreateVaultSetupToken", mock.Anything).Return("vst-1", nil)
	flow.On("OnApprove", mock.Anything, action.VaultApproval{VaultSetupToken: "vst-1"}).
		Return(action.ApprovalResult{Channel: action.ChannelApproved})

	c := card.Card{Number: "4111111111111111", CVV: "123", Expiry: "02/2030", Name: "Ada", PostalCode: "94107"}
	vc := card.NewVaultCard(c)

	res, err := gw.Create(context.Background(), CreateParams{
		Action:                 flow,
		FacilitatorAccessToken: "fat",
		PaymentSource:          PaymentSource{Card: &vc},
	})

	require.NoError(t, err)
	assert.Equal(t, "vst-1", res.VaultSetupToken)
	assert.Equal(t, "cus-1", res.SetupToken.Customer.ID)
	assert.True(t, res.Approval.Approved())

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/v3/vault/setup-tokens/vst-1/update", call.path)
	assert.Equal(t, "Bearer fat", call.auth)

	source := call.body["payment_source"].(map[string]interface{})
	sent := source["card"].(map[string]interface{})
	assert.Equal(t, "123", sent["security_code"])
	assert.Equal(t, "02/2030", sent["expiry"])
	assert.Equal(t, "94107", sent["billing_address"].(map[string]interface{})["postal_code"])

	flow.AssertExpectations(t)
}

func TestGateway_Create_TokenFailureStopsChain(t *testing.T) {
	server, calls := newVaultServer(t, http.StatusOK, `{}`)
	gw := newGateway(server.URL, Config{})

	failure := errors.New("merchant server down")
	flow := new(MockSaveFlow)
	flow.On("CreateVaultSetupToken", mock.Anything).Return("", failure)

	_, err := gw.Create(context.Background(), CreateParams{Action: flow})

	assert.Equal(t, failure, err)
	assert.Empty(t, *calls)
	flow.AssertNotCalled(t, "OnApprove", mock.Anything, mock.Anything)
}

func TestGateway_Create_UpdateFailureSkipsApprove(t *testing.T) {
	server, _ := newVaultServer(t, http.StatusUnprocessableEntity, `{"name":"UNPROCESSABLE_ENTITY","message":"invalid card"}`)
	gw := newGateway(server.URL, Config{})

	flow := new(MockSaveFlow)
	flow.On("CreateVaultSetupToken", mock.Anything).Return("vst-1", nil)

	_, err := gw.Create(context.Background(), CreateParams{Action: flow, FacilitatorAccessToken: "fat"})

	assert.ErrorIs(t, err, apperrors.ErrUpstreamRejection)
	var apiErr *restapi.APIError
	assert.True(t, errors.As(err, &apiErr))
	flow.AssertNotCalled(t, "OnApprove", mock.Anything, mock.Anything)
}

func TestGateway_UpdateSetupTokenLegacy(t *testing.T) {
	tests := []struct {
		name     string
		strict   bool
		response string
		wantErr  bool
	}{
		{name: "approved", response: `{"id":"vst-1","status":"APPROVED"}`},
		{name: "created passes observed check", response: `{"id":"vst-1","status":"CREATED"}`},
		{name: "created fails strict check", strict: true, response: `{"id":"vst-1","status":"CREATED"}`, wantErr: true},
		{name: "approved passes strict check", strict: true, response: `{"id":"vst-1","status":"APPROVED"}`},
		{name: "empty body", response: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := newVaultServer(t, http.StatusOK, tt.response)
			gw := newGateway(server.URL, Config{StrictApproval: tt.strict})

			resp, err := gw.UpdateSetupTokenLegacy(context.Background(), LegacyUpdateParams{
				VaultSetupToken:   "vst-1",
				ClientAccessToken: "scoped",
				PaymentSourceDetails: PaymentSourceDetails{
					Number: "4111111111111111", Expiry: "2030-02", SecurityCode: "123",
				},
			})

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotApproved)
				assert.EqualError(t, err, "request was not approved")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "vst-1", resp.ID)
			assert.Equal(t, "Bearer scoped", (*calls)[0].auth)
			sent := (*calls)[0].body["payment_source"].(map[string]interface{})["card"].(map[string]interface{})
			assert.NotContains(t, sent, "billing_address")
		})
	}
}

func TestGateway_GetSetupToken(t *testing.T) {
	server, calls := newVaultServer(t, http.StatusOK, `{"id":"vst/1","status":"VAULTED","links":[{"href":"https://x","rel":"self"}]}`)
	gw := newGateway(server.URL, Config{})

	resp, err := gw.GetSetupToken(context.Background(), "vst/1", "tok")

	require.NoError(t, err)
	assert.Equal(t, StatusVaulted, resp.Status)
	require.Len(t, resp.Links, 1)
	assert.Equal(t, http.MethodGet, (*calls)[0].method)
}

func TestGateway_Auth(t *testing.T) {
	creds := Config{ClientID: "client", ClientSecret: "secret"}
	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte("client:secret"))

	tests := []struct {
		name     string
		cfg      Config
		token    string
		wantAuth string
	}{
		{name: "access token wins", cfg: creds, token: "tok", wantAuth: "Bearer tok"},
		{name: "client credentials without token", cfg: creds, wantAuth: basic},
		{name: "no credentials configured", cfg: Config{}, token: "tok", wantAuth: "Bearer tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := newVaultServer(t, http.StatusOK, `{"id":"vst-1","status":"APPROVED"}`)
			gw := newGateway(server.URL, tt.cfg)

			_, err := gw.GetSetupToken(context.Background(), "vst-1", tt.token)
			require.NoError(t, err)
			_, err = gw.UpdateSetupTokenLegacy(context.Background(), LegacyUpdateParams{
				VaultSetupToken:   "vst-1",
				ClientAccessToken: tt.token,
			})
			require.NoError(t, err)

			require.Len(t, *calls, 2)
			for _, call := range *calls {
				assert.Equal(t, tt.wantAuth, call.auth)
			}
		})
	}
}

func TestTokenizer_TokenizeCard(t *testing.T) {
	server, calls := newVaultServer(t, http.StatusCreated, `{"id":"ptok-1","status":"CREATED"}`)
	tok := NewTokenizer(restapi.NewClient(restapi.ClientConfig{BaseURL: server.URL}), nil)

	id, err := tok.TokenizeCard(context.Background(), "fat", card.Card{Number: "4111111111111111", CVV: "123", Expiry: "02/2030"})

	require.NoError(t, err)
	assert.Equal(t, "ptok-1", id)
	sent := (*calls)[0].body["payment_source"].(map[string]interface{})["card"].(map[string]interface{})
	assert.Equal(t, "2030-02", sent["expiry"])
	assert.Equal(t, "/v3/vault/payment-tokens", (*calls)[0].path)
}
