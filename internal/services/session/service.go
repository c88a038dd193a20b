// Package session hosts card fields sessions: the merchant registers its
// caller configuration, frame hosts report snapshots, and a submit runs the
// pipeline over the stored frames.
package session

import (
	"context"
	"errors"
	"net/url"
	"time"

	"cardfields/internal/card"
	"cardfields/internal/frames"
	"cardfields/internal/models"
	"cardfields/internal/repositories/cache"
	"cardfields/internal/services/action"
	"cardfields/internal/services/audit"
	"cardfields/internal/services/fieldstate"
	"cardfields/internal/services/submit"
	"cardfields/internal/services/validation"
	"cardfields/internal/services/webhook"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type service struct {
	store    cache.SessionStore
	binder   webhook.Binder
	resolver action.Resolver
	pipeline submit.Service
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewService(
	store cache.SessionStore,
	binder webhook.Binder,
	resolver action.Resolver,
	pipeline submit.Service,
	logger logrus.FieldLogger,
) Service {
	if store == nil {
		panic("store is required")
	}
	if binder == nil {
		panic("binder is required")
	}
	if pipeline == nil {
		panic("pipeline is required")
	}
	if resolver == nil {
		resolver = action.NewResolver()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &service{
		store:    store,
		binder:   binder,
		resolver: resolver,
		pipeline: pipeline,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates the configuration up front, so conflicting callbacks are
// reported to the merchant before any frame is mounted.
func (s *service) Create(ctx context.Context, merchantID string, cfg models.SessionConfig) (*models.Session, error) {
	if err := validateCallbackURLs(cfg); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	if _, err := s.resolver.Resolve(s.binder.Bind(id, cfg)); err != nil {
		return nil, err
	}

	sess := &models.Session{
		ID:         id,
		MerchantID: merchantID,
		Config:     cfg,
		CreatedAt:  s.now(),
	}
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"session_id": id, "merchant_id": merchantID}).Info("card fields session created")
	return sess, nil
}

func (s *service) Get(ctx context.Context, merchantID, id string) (*models.Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.MerchantID != merchantID {
		return nil, ErrForbidden
	}
	return sess, nil
}

func (s *service) Delete(ctx context.Context, merchantID, id string) error {
	if _, err := s.Get(ctx, merchantID, id); err != nil {
		return err
	}
	return s.store.DeleteSession(ctx, id)
}

// UpdateFrame stores a frame snapshot. Number values that fail the Luhn or
// brand length check are stored as invalid whatever the frame reported.
func (s *service) UpdateFrame(ctx context.Context, id, frame string, snap frames.Snapshot) error {
	kind, ok := frames.ParseKind(frame)
	if !ok {
		return ErrUnknownFrame
	}

	switch kind {
	case frames.KindNumber:
		if snap.Valid && !card.IsValidNumber(snap.Value) {
			snap.Valid = false
		}
		if len(snap.PotentialCardTypes) > 0 {
			snap.PotentialCardTypes = card.ParseCardTypes(snap.PotentialCardTypes)
		}
	case frames.KindComposite:
		if snap.Valid && (snap.Card == nil || !card.IsValidNumber(snap.Card.Number)) {
			snap.Valid = false
		}
	}

	err := s.store.PutFrame(ctx, id, kind, snap)
	if errors.Is(err, cache.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return err
}

func (s *service) RemoveFrame(ctx context.Context, id, frame string) error {
	kind, ok := frames.ParseKind(frame)
	if !ok {
		return ErrUnknownFrame
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return s.store.RemoveFrame(ctx, id, kind)
}

func (s *service) State(ctx context.Context, id string) (*State, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	enum, err := cache.LoadEnumerator(ctx, s.store, id, s.logger)
	if err != nil {
		return nil, err
	}
	registry := frames.NewRegistry(enum)

	fs := fieldstate.NewAggregator(registry).GetFieldState()
	st := &State{
		CardFieldsState: fs,
		Errors:          validation.GetFieldErrors(fs),
		HasFields:       registry.HasCardFields(),
	}

	snaps, err := s.store.GetFrames(ctx, id)
	if err != nil {
		return nil, err
	}
	for kind, snap := range snaps {
		if len(snap.RemoteErrors) == 0 {
			continue
		}
		if st.RemoteErrors == nil {
			st.RemoteErrors = map[string][]frames.RemoteError{}
		}
		st.RemoteErrors[kind.FieldKey()] = snap.RemoteErrors
	}
	return st, nil
}

// Submit runs the pipeline over the session's frames with its bound
// callbacks. The configuration is rebound on every call.
func (s *service) Submit(ctx context.Context, id string) (*submit.Result, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	enum, err := cache.LoadEnumerator(ctx, s.store, id, s.logger)
	if err != nil {
		return nil, err
	}

	ctx = audit.WithScope(ctx, audit.Scope{SessionID: id, MerchantID: sess.MerchantID})
	return s.pipeline.Submit(ctx, frames.NewRegistry(enum), s.binder.Bind(id, sess.Config))
}

func (s *service) load(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.store.GetSession(ctx, id)
	if errors.Is(err, cache.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

func validateCallbackURLs(cfg models.SessionConfig) error {
	cb := cfg.Callbacks
	urls := []string{
		cb.CreateOrder, cb.CreateBillingAgreement, cb.CreateSubscription,
		cb.OnApprove, cb.OnCancel, cb.OnComplete, cb.OnError,
	}
	if cfg.Action != nil {
		urls = append(urls, cfg.Action.CreateVaultSetupToken, cfg.Action.OnApprove)
	}
	for _, raw := range urls {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidCallback
		}
	}
	return nil
}
