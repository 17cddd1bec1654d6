package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	pkgredis "github.com/herbpoint/kiosk-backend/pkg/redis"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", pkgredis.Nil
}

func (m *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memStore) SessionKey(deviceID string) string { return "kiosk:session:" + deviceID }
func (m *memStore) CartKey(sessionID string) string   { return "kiosk:cart:" + sessionID }

// failingStore simulates a session store whose reads fail outright, as
// opposed to returning pkgredis.Nil for a missing key.
type failingStore struct {
	*memStore
	getErr error
}

func (f *failingStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.memStore.Get(ctx, key)
}

type stubDevices struct {
	device *models.KioskDevice
	err    error
}

func (s *stubDevices) FindByID(context.Context, uuid.UUID) (*models.KioskDevice, error) {
	return s.device, s.err
}

func (s *stubDevices) TouchLastSeen(context.Context, uuid.UUID, time.Time) error {
	return nil
}

type stubMetrics struct {
	mu      sync.Mutex
	started int
	resets  map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{resets: make(map[string]int)}
}

func (s *stubMetrics) IncSessionStarted(string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
}

func (s *stubMetrics) IncSessionReset(_, trigger string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[trigger]++
}

func (s *stubMetrics) resetCount(trigger string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets[trigger]
}

func testKioskConfig() config.KioskConfig {
	return config.KioskConfig{
		SessionTTL:       time.Hour,
		CountdownSeconds: 30,
	}
}

func newTestService(t *testing.T, store *memStore, devices *stubDevices, metrics *stubMetrics) Service {
	t.Helper()
	scheduler := NewResetScheduler()
	t.Cleanup(scheduler.Stop)
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "test", ExpirationMinutes: 60}
	svc, err := NewService(store, devices, scheduler, metrics, nil, jwtCfg, testKioskConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func activeDevice() *models.KioskDevice {
	return &models.KioskDevice{
		ID:      uuid.New(),
		StoreID: uuid.New(),
		Name:    "front-entrance",
		Status:  enums.DeviceStatusActive,
	}
}

func TestStartSession(t *testing.T) {
	device := activeDevice()
	metrics := newStubMetrics()
	svc := newTestService(t, newMemStore(), &stubDevices{device: device}, metrics)

	result, err := svc.Start(context.Background(), StartInput{DeviceID: device.ID, Language: "fr"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected session token")
	}
	if result.Session.Language != "fr" {
		t.Fatalf("unexpected language %s", result.Session.Language)
	}
	if result.Session.State != StateBrowsing {
		t.Fatalf("new session should be browsing, got %s", result.Session.State)
	}
	if result.Session.StoreID != device.StoreID.String() {
		t.Fatalf("store id mismatch")
	}
	if metrics.started != 1 {
		t.Fatalf("expected started metric")
	}
}

func TestStartSessionUnknownLanguageFallsBack(t *testing.T) {
	device := activeDevice()
	svc := newTestService(t, newMemStore(), &stubDevices{device: device}, newStubMetrics())

	result, err := svc.Start(context.Background(), StartInput{DeviceID: device.ID, Language: "klingon"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if result.Session.Language != "en" {
		t.Fatalf("expected fallback to en, got %s", result.Session.Language)
	}
}

func TestStartSessionRejectsRetiredDevice(t *testing.T) {
	device := activeDevice()
	device.Status = enums.DeviceStatusRetired
	svc := newTestService(t, newMemStore(), &stubDevices{device: device}, newStubMetrics())

	_, err := svc.Start(context.Background(), StartInput{DeviceID: device.ID})
	if err == nil {
		t.Fatalf("expected error for retired device")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestStartSessionReplacesExisting(t *testing.T) {
	device := activeDevice()
	metrics := newStubMetrics()
	svc := newTestService(t, newMemStore(), &stubDevices{device: device}, metrics)

	first, err := svc.Start(context.Background(), StartInput{DeviceID: device.ID})
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := svc.Start(context.Background(), StartInput{DeviceID: device.ID})
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if first.Session.SessionID == second.Session.SessionID {
		t.Fatalf("expected a fresh session id")
	}
	if metrics.resetCount("replaced") != 1 {
		t.Fatalf("expected replaced reset metric")
	}

	ok, err := svc.HasSession(context.Background(), device.ID.String(), first.Session.SessionID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatalf("old session should be gone")
	}
}

func TestStartSessionSurfacesStoreFailure(t *testing.T) {
	device := activeDevice()
	store := &failingStore{memStore: newMemStore(), getErr: errors.New("connection refused")}
	scheduler := NewResetScheduler()
	t.Cleanup(scheduler.Stop)

	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "test", ExpirationMinutes: 60}
	svc, err := NewService(store, &stubDevices{device: device}, scheduler, newStubMetrics(), nil, jwtCfg, testKioskConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	// A store outage must surface, not be mistaken for "no prior session".
	_, err = svc.Start(context.Background(), StartInput{DeviceID: device.ID})
	if err == nil {
		t.Fatalf("expected error when the session store is unreachable")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSetLanguage(t *testing.T) {
	device := activeDevice()
	svc := newTestService(t, newMemStore(), &stubDevices{device: device}, newStubMetrics())

	if _, err := svc.Start(context.Background(), StartInput{DeviceID: device.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}

	sess, err := svc.SetLanguage(context.Background(), device.ID.String(), "ar")
	if err != nil {
		t.Fatalf("set language: %v", err)
	}
	if sess.Language != "ar" {
		t.Fatalf("unexpected language %s", sess.Language)
	}
	if sess.Direction() != "rtl" {
		t.Fatalf("arabic should be rtl")
	}

	if _, err := svc.SetLanguage(context.Background(), device.ID.String(), "xx"); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
}

func TestAttachCustomer(t *testing.T) {
	device := activeDevice()
	svc := newTestService(t, newMemStore(), &stubDevices{device: device}, newStubMetrics())

	if _, err := svc.Start(context.Background(), StartInput{DeviceID: device.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}

	customerID := uuid.New()
	sess, err := svc.AttachCustomer(context.Background(), device.ID.String(), customerID)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if sess.CustomerID == nil || *sess.CustomerID != customerID.String() {
		t.Fatalf("customer not attached")
	}
}

func TestResetClearsSessionAndCart(t *testing.T) {
	device := activeDevice()
	store := newMemStore()
	metrics := newStubMetrics()
	svc := newTestService(t, store, &stubDevices{device: device}, metrics)

	result, err := svc.Start(context.Background(), StartInput{DeviceID: device.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	cartKey := store.CartKey(result.Session.SessionID)
	if err := store.Set(context.Background(), cartKey, `{"lines":[]}`, 0); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	if err := svc.Reset(context.Background(), device.ID.String(), "manual"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, err := store.Get(context.Background(), cartKey); err != pkgredis.Nil {
		t.Fatalf("cart should be cleared with the session")
	}
	if _, err := svc.Get(context.Background(), device.ID.String()); err == nil {
		t.Fatalf("expected session gone after reset")
	}
	if metrics.resetCount("manual") != 1 {
		t.Fatalf("expected manual reset metric")
	}
}

func TestResetWithoutSessionIsNoop(t *testing.T) {
	device := activeDevice()
	svc := newTestService(t, newMemStore(), &stubDevices{device: device}, newStubMetrics())

	if err := svc.Reset(context.Background(), device.ID.String(), "manual"); err != nil {
		t.Fatalf("reset without session should succeed: %v", err)
	}
}

func TestEnterConfirmationSchedulesCountdownReset(t *testing.T) {
	device := activeDevice()
	store := newMemStore()
	metrics := newStubMetrics()
	scheduler := NewResetScheduler()
	t.Cleanup(scheduler.Stop)

	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "test", ExpirationMinutes: 60}
	kioskCfg := testKioskConfig()
	kioskCfg.CountdownSeconds = 1
	svc, err := NewService(store, &stubDevices{device: device}, scheduler, metrics, nil, jwtCfg, kioskCfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	// Shrink the countdown far below a second so the test stays fast.
	svc.(*service).countdown = 10 * time.Millisecond

	if _, err := svc.Start(context.Background(), StartInput{DeviceID: device.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}

	sess, err := svc.EnterConfirmation(context.Background(), device.ID.String())
	if err != nil {
		t.Fatalf("enter confirmation: %v", err)
	}
	if sess.State != StateConfirmation {
		t.Fatalf("expected confirmation state")
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if metrics.resetCount("countdown") == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if metrics.resetCount("countdown") != 1 {
		t.Fatalf("expected countdown reset to fire")
	}
	if _, err := svc.Get(context.Background(), device.ID.String()); err == nil {
		t.Fatalf("session should be reset after countdown")
	}
}
