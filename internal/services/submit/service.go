// Package submit runs a card fields submission: resolve the caller
// configuration, check the mounted frames, read the card and dispatch it to
// exactly one of the vault, order or tokenize flows.
package submit

import (
	"context"
	"errors"
	"fmt"

	"cardfields/internal/card"
	apperrors "cardfields/internal/errors"
	"cardfields/internal/frames"
	"cardfields/internal/metrics"
	"cardfields/internal/services/action"
	"cardfields/internal/services/fieldstate"
	"cardfields/internal/services/order"
	"cardfields/internal/services/vault"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Log events
const (
	EventSubmit                   = "card_fields_submit"
	EventRemoteErrorsReset        = "card_fields_remote_errors_reset"
	EventRemoteErrorsApplied      = "card_fields_remote_errors_applied"
	EventUnsupportedAction        = "card_fields_unsupported_action"
	EventVaultPaymentSourceFailed = "card_fields_vault_payment_source_failed"
	EventPaymentFailed            = "card_fields_payment_failed"
)

type service struct {
	resolver  action.Resolver
	vaults    vault.Gateway
	orders    order.Gateway
	tokenizer vault.Tokenizer
	recorder  Recorder
	newID     func() string
	logger    logrus.FieldLogger
	metrics   metrics.MetricsCollector
}

// NewService creates the submission pipeline.
func NewService(
	resolver action.Resolver,
	vaults vault.Gateway,
	orders order.Gateway,
	logger logrus.FieldLogger,
	m metrics.MetricsCollector,
	cfg Config,
) Service {
	if resolver == nil {
		panic("resolver is required")
	}
	if vaults == nil {
		panic("vault gateway is required")
	}
	if orders == nil {
		panic("order gateway is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if m == nil {
		m = &metrics.NoopMetricsCollector{}
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	return &service{
		resolver:  resolver,
		vaults:    vaults,
		orders:    orders,
		tokenizer: cfg.Tokenizer,
		recorder:  cfg.Recorder,
		newID:     newID,
		logger:    logger,
		metrics:   m,
	}
}

func (s *service) Submit(ctx context.Context, registry frames.Registry, cfg action.Config) (res *Result, err error) {
	outcome := Outcome{Path: PathUnresolved}
	defer func() { s.finish(ctx, &outcome, res, err) }()

	props, err := s.resolver.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	outcome.Path = pathOf(props)

	s.resetRemoteErrors(registry)

	if !registry.HasCardFields() {
		return nil, apperrors.FieldsUnavailable("Card fields not available to submit")
	}

	c, err := fieldstate.NewAggregator(registry).GetCardFields()
	if err != nil {
		return nil, apperrors.FieldsUnavailable("Card not available to submit")
	}
	outcome.Card = &c

	if props.Action != nil {
		return s.submitAction(ctx, registry, props, c, &outcome)
	}

	switch props.Intent {
	case action.IntentCapture, action.IntentAuthorize:
		return s.submitOrder(ctx, registry, props, c, &outcome)
	case action.IntentTokenize:
		return s.submitTokenize(ctx, props, c)
	default:
		return nil, apperrors.UnsupportedAction(fmt.Sprintf("Intent %s is not supported by Card Fields", props.Intent))
	}
}

func (s *service) resetRemoteErrors(registry frames.Registry) {
	mounted := registry.ListCardFrames().Mounted()
	for _, f := range mounted {
		f.ResetRemoteErrors()
	}
	s.logger.WithField("frames", len(mounted)).Debug(EventRemoteErrorsReset)
}

func (s *service) submitAction(ctx context.Context, registry frames.Registry, props *action.CardProps, c card.Card, outcome *Outcome) (*Result, error) {
	save, ok := props.Action.(*action.SaveAction)
	if !ok {
		err := apperrors.UnsupportedAction(fmt.Sprintf("Action of type %s is not supported by Card Fields", props.Action.Type()))
		s.logger.WithFields(logrus.Fields{
			"action_type": string(props.Action.Type()),
			"error":       err.Error(),
		}).Error(EventUnsupportedAction)
		return nil, err
	}

	vc := card.NewVaultCard(c)
	created, err := s.vaults.Create(ctx, vault.CreateParams{
		Action:                 save,
		FacilitatorAccessToken: props.FacilitatorAccessToken,
		PaymentSource:          vault.PaymentSource{Card: &vc},
	})
	if err != nil {
		s.logger.WithError(err).Error(EventVaultPaymentSourceFailed)
		s.applyRemoteErrors(registry, err)
		return nil, err
	}

	outcome.VaultSetupToken = created.VaultSetupToken
	res := &Result{
		Path:            PathSave,
		VaultSetupToken: created.VaultSetupToken,
		Approval:        created.Approval.Channel.String(),
	}
	if !created.Approval.Approved() {
		outcome.Result = ResultOnError
	}
	return res, nil
}

func (s *service) submitOrder(ctx context.Context, registry frames.Registry, props *action.CardProps, c card.Card, outcome *Outcome) (*Result, error) {
	if props.CreateOrder == nil {
		return nil, apperrors.Configuration(fmt.Sprintf("Must pass createOrder with intent=%s", props.Intent))
	}

	orderID, err := props.CreateOrder(ctx)
	if err != nil {
		return nil, err
	}
	outcome.OrderID = orderID

	data, err := s.orders.ConfirmOrder(ctx, orderID,
		order.ConfirmRequest{PaymentSource: order.PaymentSource{Card: card.NewValues(c, props.ExtraFields)}},
		order.ConfirmOptions{FacilitatorAccessToken: props.FacilitatorAccessToken, PartnerAttributionID: ""},
	)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		}).Error(EventPaymentFailed)
		s.applyRemoteErrors(registry, err)
		if props.OnError != nil {
			props.OnError(ctx, err)
		}
		return nil, apperrors.Upstream(err)
	}

	id := data.ID
	if id == "" {
		id = orderID
	}

	if props.OnApprove != nil {
		approve := action.ApproveData{
			PayerID:          s.newID(),
			BuyerAccessToken: s.newID(),
			ID:               id,
			Status:           data.Status,
			Order:            data.Raw,
		}
		if err := props.OnApprove(ctx, approve, action.ApproveActions{Restart: restart}); err != nil {
			return nil, err
		}
	}

	return &Result{Path: string(props.Intent), OrderID: id, OrderStatus: data.Status}, nil
}

func (s *service) submitTokenize(ctx context.Context, props *action.CardProps, c card.Card) (*Result, error) {
	if s.tokenizer == nil {
		return nil, apperrors.UnsupportedAction("Intent tokenize is not supported by Card Fields")
	}

	token, err := s.tokenizer.TokenizeCard(ctx, props.FacilitatorAccessToken, c)
	if err != nil {
		s.logger.WithError(err).Error(EventPaymentFailed)
		if props.OnError != nil {
			props.OnError(ctx, err)
		}
		return nil, apperrors.Upstream(err)
	}

	if props.OnApprove != nil {
		approve := action.ApproveData{
			PayerID:          s.newID(),
			BuyerAccessToken: s.newID(),
			PaymentToken:     token,
		}
		if err := props.OnApprove(ctx, approve, action.ApproveActions{Restart: restart}); err != nil {
			return nil, err
		}
	}

	return &Result{Path: PathTokenize, PaymentToken: token}, nil
}

func (s *service) finish(ctx context.Context, outcome *Outcome, res *Result, err error) {
	switch {
	case err != nil:
		outcome.Result = ResultError
		outcome.Err = err
	case outcome.Result == "":
		outcome.Result = ResultSuccess
	}

	s.metrics.RecordSubmission(outcome.Path, outcome.Result)
	if err != nil {
		code := apperrors.CodeOf(err)
		if code == "" {
			code = "unclassified"
		}
		s.metrics.RecordError("submit", code)
	}

	fields := logrus.Fields{"path": outcome.Path, "result": outcome.Result}
	if res != nil && res.OrderID != "" {
		fields["order_id"] = res.OrderID
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	s.logger.WithFields(fields).Info(EventSubmit)

	if s.recorder != nil {
		if rerr := s.recorder.RecordSubmission(ctx, *outcome); rerr != nil {
			s.logger.WithError(rerr).Warn("failed to record submission")
		}
	}
}

func restart(context.Context) error {
	return apperrors.RestartNotImplemented("Restart not implemented for card fields flow")
}

func pathOf(props *action.CardProps) string {
	if props.Action != nil {
		return string(props.Action.Type())
	}
	switch props.Intent {
	case action.IntentCapture:
		return PathCapture
	case action.IntentAuthorize:
		return PathAuthorize
	case action.IntentTokenize:
		return PathTokenize
	case action.IntentSubscription:
		return PathSubscription
	}
	return string(props.Intent)
}

// IsCallerError reports whether err was caused by the caller's configuration
// or fields rather than by an upstream service.
func IsCallerError(err error) bool {
	return errors.Is(err, apperrors.ErrConfiguration) ||
		errors.Is(err, apperrors.ErrFieldsUnavailable) ||
		errors.Is(err, apperrors.ErrInvalidVaultToken) ||
		errors.Is(err, apperrors.ErrUnsupportedAction)
}
