package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "cardfields/internal/errors"
	"cardfields/internal/frames"
	"cardfields/internal/handlers"
	"cardfields/internal/middleware"
	"cardfields/internal/models"
	"cardfields/internal/routes"
	"cardfields/internal/services/session"
	"cardfields/internal/services/submit"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, merchantID string, cfg models.SessionConfig) (*models.Session, error) {
	args := m.Called(ctx, merchantID, cfg)
	if s := args.Get(0); s != nil {
		return s.(*models.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, merchantID, id string) (*models.Session, error) {
	args := m.Called(ctx, merchantID, id)
	if s := args.Get(0); s != nil {
		return s.(*models.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) Delete(ctx context.Context, merchantID, id string) error {
	return m.Called(ctx, merchantID, id).Error(0)
}

func (m *MockSessionService) UpdateFrame(ctx context.Context, id, frame string, snap frames.Snapshot) error {
	return m.Called(ctx, id, frame, snap).Error(0)
}

func (m *MockSessionService) RemoveFrame(ctx context.Context, id, frame string) error {
	return m.Called(ctx, id, frame).Error(0)
}

func (m *MockSessionService) State(ctx context.Context, id string) (*session.State, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*session.State), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) Submit(ctx context.Context, id string) (*submit.Result, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*submit.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*models.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubmissionRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]models.Submission, int64, error) {
	args := m.Called(ctx, sessionID, limit, offset)
	return args.Get(0).([]models.Submission), args.Get(1).(int64), args.Error(2)
}

type testApp struct {
	app         *fiber.App
	sessions    *MockSessionService
	submissions *MockSubmissionRepository
	hook        *test.Hook
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	sessions := new(MockSessionService)
	submissions := new(MockSubmissionRepository)

	app := fiber.New()
	routes.SetupRoutes(app, routes.Dependencies{
		Sessions: handlers.NewSessionHandler(sessions, submissions, logger),
		Health:   handlers.NewHealthHandler(nil, nil),
		Auth:     middleware.NewAuthMiddleware(testSecret, logger),
	})
	return &testApp{app: app, sessions: sessions, submissions: submissions, hook: hook}
}

func merchantToken(t *testing.T, merchantID string, permissions ...string) string {
	t.Helper()
	claims := models.MerchantClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		MerchantID:       merchantID,
		Permissions:      permissions,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (a *testApp) do(t *testing.T, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestSessionHandler_Create(t *testing.T) {
	body := `{"intent":"capture","callbacks":{"create_order":"https://merchant.test/orders","on_approve":"https://merchant.test/approve"}}`

	t.Run("requires a token", func(t *testing.T) {
		a := newTestApp(t)
		status, out := a.do(t, http.MethodPost, "/api/sessions", "", body)

		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "missing authorization header", out["error"])
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		a := newTestApp(t)
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, models.MerchantClaims{MerchantID: "m-1"}).SignedString([]byte("other"))
		require.NoError(t, err)

		status, _ := a.do(t, http.MethodPost, "/api/sessions", forged, body)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("requires write permission", func(t *testing.T) {
		a := newTestApp(t)
		status, out := a.do(t, http.MethodPost, "/api/sessions", merchantToken(t, "m-1", models.PermissionSessionRead), body)

		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "insufficient permissions", out["error"])
		a.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("creates for the token's merchant", func(t *testing.T) {
		a := newTestApp(t)
		a.sessions.On("Create", mock.Anything, "m-1", mock.MatchedBy(func(cfg models.SessionConfig) bool {
			return cfg.Intent == "capture" && cfg.Callbacks.CreateOrder == "https://merchant.test/orders"
		})).Return(&models.Session{ID: "sess-1", MerchantID: "m-1"}, nil)

		status, out := a.do(t, http.MethodPost, "/api/sessions", merchantToken(t, "m-1"), body)

		assert.Equal(t, http.StatusCreated, status)
		data := out["data"].(map[string]interface{})
		assert.Equal(t, "sess-1", data["id"])
		a.sessions.AssertExpectations(t)
	})

	t.Run("invalid payload", func(t *testing.T) {
		a := newTestApp(t)
		status, out := a.do(t, http.MethodPost, "/api/sessions", merchantToken(t, "m-1"),
			`{"intent":"refund","callbacks":{"create_order":"/orders"}}`)

		assert.Equal(t, http.StatusBadRequest, status)
		fields := out["fields"].(map[string]interface{})
		assert.Contains(t, fields, "intent")
		assert.Contains(t, fields, "callbacks.create_order")
	})

	t.Run("conflicting callbacks", func(t *testing.T) {
		a := newTestApp(t)
		a.sessions.On("Create", mock.Anything, "m-1", mock.Anything).
			Return(nil, apperrors.ConflictingCallbacks("Do not pass both createBillingAgreement and createOrder"))

		status, out := a.do(t, http.MethodPost, "/api/sessions", merchantToken(t, "m-1"), body)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apperrors.CodeConflictingCallbacks, out["code"])
	})
}

func TestSessionHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "found", wantStatus: http.StatusOK},
		{name: "missing", err: session.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "other merchant", err: session.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "store failure", err: errors.New("redis down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			var sess *models.Session
			if tt.err == nil {
				sess = &models.Session{ID: "sess-1", MerchantID: "m-1"}
			}
			a.sessions.On("Get", mock.Anything, "m-1", "sess-1").Return(sess, tt.err)

			status, _ := a.do(t, http.MethodGet, "/api/sessions/sess-1", merchantToken(t, "m-1"), "")

			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	a := newTestApp(t)
	a.sessions.On("Delete", mock.Anything, "m-1", "sess-1").Return(nil)

	status, _ := a.do(t, http.MethodDelete, "/api/sessions/sess-1", merchantToken(t, "m-1"), "")

	assert.Equal(t, http.StatusNoContent, status)
	a.sessions.AssertExpectations(t)
}

func TestSessionHandler_ListSubmissions(t *testing.T) {
	a := newTestApp(t)
	a.sessions.On("Get", mock.Anything, "m-1", "sess-1").Return(&models.Session{ID: "sess-1", MerchantID: "m-1"}, nil)
	a.submissions.On("ListBySession", mock.Anything, "sess-1", 2, 2).
		Return([]models.Submission{{ID: 3, SessionID: "sess-1", Path: "save"}}, int64(3), nil)

	status, out := a.do(t, http.MethodGet, "/api/sessions/sess-1/submissions?page=2&limit=2", merchantToken(t, "m-1"), "")

	assert.Equal(t, http.StatusOK, status)
	meta := out["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["total_pages"])
	assert.Len(t, out["data"], 1)
}

func TestSessionHandler_UpdateFrame(t *testing.T) {
	t.Run("stores the snapshot", func(t *testing.T) {
		a := newTestApp(t)
		a.sessions.On("UpdateFrame", mock.Anything, "sess-1", "number", mock.MatchedBy(func(s frames.Snapshot) bool {
			return s.Value == "4111111111111111" && s.Valid
		})).Return(nil)

		status, _ := a.do(t, http.MethodPut, "/api/frames/sess-1/number", "", `{"value":"4111111111111111","is_valid":true}`)

		assert.Equal(t, http.StatusNoContent, status)
		a.sessions.AssertExpectations(t)
	})

	t.Run("unknown frame", func(t *testing.T) {
		a := newTestApp(t)
		a.sessions.On("UpdateFrame", mock.Anything, "sess-1", "pin", mock.Anything).Return(session.ErrUnknownFrame)

		status, _ := a.do(t, http.MethodPut, "/api/frames/sess-1/pin", "", `{"value":"1234"}`)

		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("bad body", func(t *testing.T) {
		a := newTestApp(t)
		status, _ := a.do(t, http.MethodPut, "/api/frames/sess-1/number", "", `{"value":`)

		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestSessionHandler_RemoveFrame(t *testing.T) {
	a := newTestApp(t)
	a.sessions.On("RemoveFrame", mock.Anything, "sess-1", "cvv").Return(nil)

	status, _ := a.do(t, http.MethodDelete, "/api/frames/sess-1/cvv", "", "")

	assert.Equal(t, http.StatusNoContent, status)
}

func TestSessionHandler_State(t *testing.T) {
	a := newTestApp(t)
	a.sessions.On("State", mock.Anything, "sess-1").Return(&session.State{HasFields: true}, nil)

	status, out := a.do(t, http.MethodGet, "/api/frames/sess-1/state", "", "")

	assert.Equal(t, http.StatusOK, status)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, true, data["has_card_fields"])
}

func TestSessionHandler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		result     *submit.Result
		err        error
		wantStatus int
		wantCode   string
		wantLevel  logrus.Level
	}{
		{
			name:       "success",
			result:     &submit.Result{Path: submit.PathCapture, OrderID: "ORDER-1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "fields unavailable",
			err:        apperrors.FieldsUnavailable("Card fields not available to submit"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperrors.CodeFieldsUnavailable,
			wantLevel:  logrus.InfoLevel,
		},
		{
			name:       "invalid vault token",
			err:        apperrors.InvalidVaultToken("Expected a vault setup token"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperrors.CodeInvalidVaultToken,
			wantLevel:  logrus.InfoLevel,
		},
		{
			name:       "unsupported intent",
			err:        apperrors.UnsupportedAction("Intent subscription is not supported by Card Fields"),
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeUnsupportedAction,
			wantLevel:  logrus.InfoLevel,
		},
		{
			name:       "upstream rejection",
			err:        apperrors.Upstream(errors.New("request failed with status 422")),
			wantStatus: http.StatusBadGateway,
			wantCode:   apperrors.CodeUpstreamRejection,
			wantLevel:  logrus.ErrorLevel,
		},
		{
			name:       "missing session",
			err:        session.ErrSessionNotFound,
			wantStatus: http.StatusNotFound,
			wantLevel:  logrus.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			a.sessions.On("Submit", mock.Anything, "sess-1").Return(tt.result, tt.err)

			status, out := a.do(t, http.MethodPost, "/api/frames/sess-1/submit", "", "")

			assert.Equal(t, tt.wantStatus, status)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, out["code"])
			}
			if tt.err == nil {
				data := out["data"].(map[string]interface{})
				assert.Equal(t, "ORDER-1", data["order_id"])
				return
			}
			entry := a.hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, "sess-1", entry.Data["session_id"])
		})
	}
}

func TestHealthHandler_NoDependencies(t *testing.T) {
	a := newTestApp(t)

	status, out := a.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", out["status"])
	services := out["services"].(map[string]interface{})
	assert.Equal(t, "disabled", services["database"])
	assert.Equal(t, "disabled", services["redis"])
}
