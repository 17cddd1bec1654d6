package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/pkg/auth"
	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/i18n"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
	pkgredis "github.com/herbpoint/kiosk-backend/pkg/redis"
)

type sessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SessionKey(deviceID string) string
	CartKey(sessionID string) string
}

type devicesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.KioskDevice, error)
	TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
}

type metricsRecorder interface {
	IncSessionStarted(storeID string)
	IncSessionReset(storeID, trigger string)
}

// StartInput carries what a kiosk device sends when opening a session.
type StartInput struct {
	DeviceID uuid.UUID
	Language string
}

// StartResult bundles the new session with its bearer token.
type StartResult struct {
	Session *Session
	Token   string
}

// Service owns the session lifecycle: open, language switch, customer
// attach, confirmation countdown, and reset back to the home screen.
type Service interface {
	Start(ctx context.Context, input StartInput) (*StartResult, error)
	Get(ctx context.Context, deviceID string) (*Session, error)
	SetLanguage(ctx context.Context, deviceID, language string) (*Session, error)
	AttachCustomer(ctx context.Context, deviceID string, customerID uuid.UUID) (*Session, error)
	EnterConfirmation(ctx context.Context, deviceID string) (*Session, error)
	Reset(ctx context.Context, deviceID, trigger string) error
	HasSession(ctx context.Context, deviceID, sessionID string) (bool, error)
}

type service struct {
	store     sessionStore
	devices   devicesRepository
	scheduler *ResetScheduler
	metrics   metricsRecorder
	logg      *logger.Logger
	jwtCfg    config.JWTConfig
	ttl       time.Duration
	countdown time.Duration
	now       func() time.Time
}

// NewService builds the session service.
func NewService(store sessionStore, devices devicesRepository, scheduler *ResetScheduler, metrics metricsRecorder, logg *logger.Logger, jwtCfg config.JWTConfig, kioskCfg config.KioskConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if devices == nil {
		return nil, fmt.Errorf("devices repository required")
	}
	if scheduler == nil {
		return nil, fmt.Errorf("reset scheduler required")
	}
	if kioskCfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if kioskCfg.CountdownSeconds <= 0 {
		return nil, fmt.Errorf("countdown seconds must be positive")
	}
	return &service{
		store:     store,
		devices:   devices,
		scheduler: scheduler,
		metrics:   metrics,
		logg:      logg,
		jwtCfg:    jwtCfg,
		ttl:       kioskCfg.SessionTTL,
		countdown: time.Duration(kioskCfg.CountdownSeconds) * time.Second,
		now:       time.Now,
	}, nil
}

func (s *service) Start(ctx context.Context, input StartInput) (*StartResult, error) {
	if input.DeviceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device id is required")
	}

	device, err := s.devices.FindByID(ctx, input.DeviceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load device")
	}
	if device == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "device not registered")
	}
	if device.Status != enums.DeviceStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "device is retired")
	}

	language := i18n.Normalize(input.Language)

	// Opening a session implicitly ends any previous one on the device.
	// The kiosk is single-user hardware.
	existing, err := s.load(ctx, input.DeviceID.String())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.Reset(ctx, input.DeviceID.String(), "replaced"); err != nil {
			return nil, err
		}
	}

	sess := &Session{
		SessionID: uuid.NewString(),
		DeviceID:  input.DeviceID.String(),
		StoreID:   device.StoreID.String(),
		Language:  language,
		State:     StateBrowsing,
		StartedAt: s.now().UTC(),
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	token, err := auth.MintSessionToken(s.jwtCfg, s.now(), auth.SessionTokenPayload{
		SessionID: sess.SessionID,
		StoreID:   device.StoreID,
		DeviceID:  device.ID,
		Language:  language,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	if err := s.devices.TouchLastSeen(ctx, device.ID, s.now().UTC()); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "touch device last seen failed")
	}

	if s.metrics != nil {
		s.metrics.IncSessionStarted(sess.StoreID)
	}

	return &StartResult{Session: sess, Token: token}, nil
}

func (s *service) Get(ctx context.Context, deviceID string) (*Session, error) {
	sess, err := s.load(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active session")
	}
	return sess, nil
}

func (s *service) SetLanguage(ctx context.Context, deviceID, language string) (*Session, error) {
	lang, err := i18n.ParseLanguage(language)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported language")
	}

	sess, err := s.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	sess.Language = lang
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *service) AttachCustomer(ctx context.Context, deviceID string, customerID uuid.UUID) (*Session, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	sess, err := s.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	id := customerID.String()
	sess.CustomerID = &id
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *service) EnterConfirmation(ctx context.Context, deviceID string) (*Session, error) {
	sess, err := s.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	sess.State = StateConfirmation
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	// The countdown outlives the request; the reset runs with a fresh
	// context so a cancelled request cannot strand the kiosk.
	s.scheduler.Schedule(deviceID, s.countdown, func() {
		if err := s.Reset(context.Background(), deviceID, "countdown"); err != nil && s.logg != nil {
			s.logg.Error(context.Background(), "countdown reset failed", err)
		}
	})

	return sess, nil
}

func (s *service) Reset(ctx context.Context, deviceID, trigger string) error {
	sess, err := s.load(ctx, deviceID)
	if err != nil {
		return err
	}

	s.scheduler.Cancel(deviceID)

	if sess == nil {
		return nil
	}

	keys := []string{s.store.SessionKey(deviceID), s.store.CartKey(sess.SessionID)}
	if err := s.store.Del(ctx, keys...); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}

	if s.metrics != nil {
		s.metrics.IncSessionReset(sess.StoreID, trigger)
	}
	if s.logg != nil {
		lctx := s.logg.WithFields(ctx, map[string]any{"device_id": deviceID, "trigger": trigger})
		s.logg.Info(lctx, "session.reset")
	}
	return nil
}

func (s *service) HasSession(ctx context.Context, deviceID, sessionID string) (bool, error) {
	sess, err := s.load(ctx, deviceID)
	if err != nil {
		return false, err
	}
	if sess == nil {
		return false, nil
	}
	return sess.SessionID == sessionID, nil
}

func (s *service) load(ctx context.Context, deviceID string) (*Session, error) {
	raw, err := s.store.Get(ctx, s.store.SessionKey(deviceID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	return &sess, nil
}

func (s *service) save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := s.store.Set(ctx, s.store.SessionKey(sess.DeviceID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
	}
	return nil
}
