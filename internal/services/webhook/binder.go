// Package webhook turns the callback URLs of a session into the caller
// callbacks consumed by the submission pipeline. Every callback is one signed
// POST to the merchant.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apperrors "cardfields/internal/errors"
	"cardfields/internal/models"
	"cardfields/internal/restapi"
	"cardfields/internal/services/action"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Events sent to merchant callbacks
const (
	EventCreateOrder            = "createOrder"
	EventCreateBillingAgreement = "createBillingAgreement"
	EventCreateSubscription     = "createSubscription"
	EventOnApprove              = "onApprove"
	EventOnCancel               = "onCancel"
	EventOnComplete             = "onComplete"
	EventOnError                = "onError"
	EventCreateVaultSetupToken  = "createVaultSetupToken"
	EventActionOnApprove        = "action.onApprove"
)

const signatureTTL = 5 * time.Minute

// Envelope is the body of every callback request.
type Envelope struct {
	Event     string      `json:"event"`
	SessionID string      `json:"session_id"`
	Data      interface{} `json:"data,omitempty"`
}

// ErrorPayload is the data of an onError callback.
type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Binder builds the caller configuration for a session.
type Binder interface {
	Bind(sessionID string, cfg models.SessionConfig) action.Config
}

type binder struct {
	client *restapi.Client
	secret []byte
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewBinder creates a binder that signs callbacks with secret.
func NewBinder(client *restapi.Client, secret string, logger logrus.FieldLogger) Binder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &binder{client: client, secret: []byte(secret), logger: logger, now: time.Now}
}

// Bind maps every configured URL to its callback. Unset URLs stay nil so the
// resolver sees exactly what the merchant registered.
func (b *binder) Bind(sessionID string, sc models.SessionConfig) action.Config {
	cfg := action.Config{
		Intent:                 action.ParseIntent(sc.Intent),
		Vault:                  sc.Vault,
		FacilitatorAccessToken: sc.FacilitatorAccessToken,
		ExtraFields:            sc.ExtraFields,
	}
	cb := sc.Callbacks
	c := &caller{binder: b, sessionID: sessionID}

	if cb.CreateOrder != "" {
		cfg.CreateOrder = func(ctx context.Context) (string, error) {
			return c.createID(ctx, cb.CreateOrder, EventCreateOrder, "orderID")
		}
	}
	if cb.CreateBillingAgreement != "" {
		cfg.CreateBillingAgreement = func(ctx context.Context) (string, error) {
			return c.createID(ctx, cb.CreateBillingAgreement, EventCreateBillingAgreement, "billingToken")
		}
	}
	if cb.CreateSubscription != "" {
		cfg.CreateSubscription = func(ctx context.Context) (string, error) {
			return c.createID(ctx, cb.CreateSubscription, EventCreateSubscription, "subscriptionID")
		}
	}
	if cb.OnApprove != "" {
		cfg.OnApprove = func(ctx context.Context, data action.ApproveData, _ action.ApproveActions) error {
			return c.notify(ctx, cb.OnApprove, EventOnApprove, data)
		}
	}
	if cb.OnCancel != "" {
		cfg.OnCancel = func(ctx context.Context) error {
			return c.notify(ctx, cb.OnCancel, EventOnCancel, nil)
		}
	}
	if cb.OnComplete != "" {
		cfg.OnComplete = func(ctx context.Context) error {
			return c.notify(ctx, cb.OnComplete, EventOnComplete, nil)
		}
	}
	if cb.OnError != "" {
		cfg.OnError = func(ctx context.Context, err error) {
			payload := ErrorPayload{Code: apperrors.CodeOf(err), Message: err.Error()}
			if nerr := c.notify(ctx, cb.OnError, EventOnError, payload); nerr != nil {
				b.logger.WithFields(logrus.Fields{
					"session_id": sessionID,
					"error":      nerr.Error(),
				}).Warn("onError callback failed")
			}
		}
	}

	if sc.Action != nil {
		ac := &action.ActionConfig{Type: sc.Action.Type}
		if u := sc.Action.CreateVaultSetupToken; u != "" {
			ac.CreateVaultSetupToken = func(ctx context.Context, params action.CreateVaultSetupTokenParams) (interface{}, error) {
				var resp map[string]interface{}
				if err := c.post(ctx, u, EventCreateVaultSetupToken, params, &resp); err != nil {
					return nil, err
				}
				return resp["vault_setup_token"], nil
			}
		}
		if u := sc.Action.OnApprove; u != "" {
			ac.OnApprove = func(ctx context.Context, data action.VaultApproval) error {
				return c.notify(ctx, u, EventActionOnApprove, data)
			}
		}
		cfg.Action = ac
	}

	return cfg
}

type caller struct {
	*binder
	sessionID string
}

// createID posts the event and reads the created resource id from "id" or the
// given alternate key.
func (c *caller) createID(ctx context.Context, url, event, altKey string) (string, error) {
	var resp map[string]interface{}
	if err := c.post(ctx, url, event, nil, &resp); err != nil {
		return "", err
	}
	for _, key := range []string{"id", altKey} {
		if id, ok := resp[key].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%s callback returned no id", event)
}

func (c *caller) notify(ctx context.Context, url, event string, data interface{}) error {
	return c.post(ctx, url, event, data, nil)
}

func (c *caller) post(ctx context.Context, url, event string, data interface{}, target interface{}) error {
	token, err := c.sign(event)
	if err != nil {
		return fmt.Errorf("sign %s callback: %w", event, err)
	}

	_, err = c.client.Do(ctx, restapi.Request{
		Method: http.MethodPost,
		Path:   url,
		Body:   Envelope{Event: event, SessionID: c.sessionID, Data: data},
		Auth:   restapi.Bearer(token),
	}, target)
	if err != nil {
		return fmt.Errorf("%s callback: %w", event, err)
	}
	return nil
}

func (c *caller) sign(event string) (string, error) {
	now := c.now()
	claims := models.WebhookClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(signatureTTL)),
			Issuer:    "cardfields",
		},
		SessionID: c.sessionID,
		Event:     event,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}
