package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Version is the envelope version written by Set. Entries carrying any other
// version are discarded on read.
const Version = 1

const (
	KeyCart            = "cart"
	KeyCheckoutData    = "checkoutData"
	KeyUserPreferences = "userPreferences"
)

const (
	EstimatedCapacity = 5 * 1024 * 1024
	HighWaterMark     = 4 * 1024 * 1024
	EvictionAge       = 7 * 24 * time.Hour
	HealthCheckKey    = "__health_check__"
)

type envelope struct {
	Version   int             `json:"version"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Store is the versioned, validated view over one session namespace.
type Store struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger, now: time.Now}
}

// WithClock overrides the time source used for envelope timestamps and eviction.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) available(ctx context.Context) bool {
	return s.backend != nil && s.backend.Available(ctx)
}

func (s *Store) logEvent(event, key string, err error) {
	fields := []zap.Field{zap.String("event", event), zap.String("key", key)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Warn("storage event", fields...)
}

// Get reads key and decodes its payload into T. Any entry that cannot be
// parsed, carries a different version, or fails validate is removed and
// reported as absent.
func Get[T any](ctx context.Context, s *Store, key string, validate func(T) error) (T, bool) {
	var zero T
	if !s.available(ctx) {
		s.logEvent("storage_not_available", key, nil)
		return zero, false
	}

	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logEvent("unexpected_error", key, err)
		return zero, false
	}
	if !ok || raw == "" {
		return zero, false
	}

	payload, err := s.unwrap(ctx, key, raw)
	if err != nil {
		s.logEvent("corrupted_data_removed", key, err)
		s.Remove(ctx, key)
		return zero, false
	}
	if payload == nil {
		return zero, false
	}

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		s.logEvent("validation_error", key, err)
		s.Remove(ctx, key)
		return zero, false
	}
	if validate != nil {
		if err := validate(value); err != nil {
			s.logEvent("validation_error", key, err)
			s.Remove(ctx, key)
			return zero, false
		}
	}
	return value, true
}

// unwrap strips the envelope. A nil payload with a nil error means the entry
// was written under another version and has been dropped.
func (s *Store) unwrap(ctx context.Context, key, raw string) (json.RawMessage, error) {
	if !json.Valid([]byte(raw)) {
		s.logEvent("parse_error", key, nil)
		return nil, &Error{Kind: ParseError, Key: key}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return json.RawMessage(raw), nil
	}
	if _, ok := fields["version"]; !ok {
		return json.RawMessage(raw), nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return json.RawMessage(raw), nil
	}
	if env.Version != Version {
		s.logEvent("migration_needed", key, nil)
		s.Remove(ctx, key)
		return nil, nil
	}
	if len(env.Data) == 0 {
		return json.RawMessage("null"), nil
	}
	return env.Data, nil
}

// Set validates value, wraps it in an envelope and writes it. A false result
// with a nil error means storage is not available.
func Set[T any](ctx context.Context, s *Store, key string, value T, validate func(T) error) (bool, error) {
	if !s.available(ctx) {
		s.logEvent("storage_not_available", key, nil)
		return false, nil
	}

	if validate != nil {
		if err := validate(value); err != nil {
			s.logEvent("validation_error_on_set", key, err)
			return false, &Error{Kind: ValidationError, Key: key, Err: err}
		}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return false, &Error{Kind: CorruptedData, Key: key, Err: err}
	}
	raw, err := json.Marshal(envelope{
		Version:   Version,
		Timestamp: s.now().UnixMilli(),
		Data:      data,
	})
	if err != nil {
		return false, &Error{Kind: CorruptedData, Key: key, Err: err}
	}
	return s.write(ctx, key, string(raw))
}

func (s *Store) write(ctx context.Context, key, raw string) (bool, error) {
	err := s.backend.Set(ctx, key, raw)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		s.logEvent("set_error", key, err)
		return false, &Error{Kind: CorruptedData, Key: key, Err: err}
	}

	s.evictStale(ctx, key)
	s.logEvent("quota_exceeded", key, err)

	if err := s.backend.Set(ctx, key, raw); err != nil {
		return false, &Error{Kind: QuotaExceeded, Key: key, Err: err}
	}
	return true, nil
}

// evictStale drops every entry other than keep that is not valid JSON or
// whose envelope was written more than EvictionAge ago.
func (s *Store) evictStale(ctx context.Context, keep string) {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		s.logEvent("cleanup_error", keep, err)
		return
	}
	now := s.now()
	for _, k := range keys {
		if k == keep {
			continue
		}
		raw, ok, err := s.backend.Get(ctx, k)
		if err != nil || !ok {
			continue
		}
		if !json.Valid([]byte(raw)) {
			s.Remove(ctx, k)
			continue
		}
		var meta struct {
			Timestamp int64 `json:"timestamp"`
		}
		// Valid JSON that is not an envelope object carries no age.
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			continue
		}
		if meta.Timestamp > 0 && now.Sub(time.UnixMilli(meta.Timestamp)) > EvictionAge {
			s.Remove(ctx, k)
		}
	}
}

func (s *Store) Remove(ctx context.Context, key string) {
	if !s.available(ctx) {
		return
	}
	if err := s.backend.Remove(ctx, key); err != nil {
		s.logEvent("remove_error", key, err)
	}
}

func (s *Store) Clear(ctx context.Context) {
	if !s.available(ctx) {
		return
	}
	if err := s.backend.Clear(ctx); err != nil {
		s.logEvent("clear_error", "all", err)
	}
}

type StorageInfo struct {
	Used      int      `json:"used"`
	Available int      `json:"available"`
	Keys      []string `json:"keys"`
}

func (s *Store) Info(ctx context.Context) StorageInfo {
	empty := StorageInfo{Keys: []string{}}
	if !s.available(ctx) {
		return empty
	}
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		s.logEvent("storage_info_error", "info", err)
		return empty
	}
	used := 0
	for _, k := range keys {
		if v, ok, err := s.backend.Get(ctx, k); err == nil && ok {
			used += entrySize(k, v)
		}
	}
	available := EstimatedCapacity - used
	if available < 0 {
		available = 0
	}
	return StorageInfo{Used: used, Available: available, Keys: keys}
}

type Health struct {
	Healthy bool     `json:"healthy"`
	Issues  []string `json:"issues"`
}

// HealthCheck round-trips a sentinel entry and scans the namespace for
// unparsable values.
func (s *Store) HealthCheck(ctx context.Context) Health {
	issues := []string{}
	if !s.available(ctx) {
		return Health{Healthy: false, Issues: append(issues, "Storage not available")}
	}

	probe, _ := json.Marshal(map[string]interface{}{"test": true, "timestamp": s.now().UnixMilli()})
	if err := s.backend.Set(ctx, HealthCheckKey, string(probe)); err != nil {
		issues = append(issues, fmt.Sprintf("Health check failed: %v", err))
	} else {
		raw, ok, err := s.backend.Get(ctx, HealthCheckKey)
		_ = s.backend.Remove(ctx, HealthCheckKey)
		var got struct {
			Test bool `json:"test"`
		}
		if err != nil || !ok || json.Unmarshal([]byte(raw), &got) != nil || !got.Test {
			issues = append(issues, "Read/write test failed")
		}
	}

	info := s.Info(ctx)
	if info.Used > HighWaterMark {
		issues = append(issues, "Storage usage is high")
	}

	corrupted := 0
	for _, k := range info.Keys {
		raw, ok, err := s.backend.Get(ctx, k)
		if err != nil || !ok || raw == "" {
			continue
		}
		if !json.Valid([]byte(raw)) {
			corrupted++
		}
	}
	if corrupted > 0 {
		issues = append(issues, fmt.Sprintf("%d corrupted entries found", corrupted))
	}

	return Health{Healthy: len(issues) == 0, Issues: issues}
}

// Provider binds Stores to session namespaces.
type Provider struct {
	factory BackendFactory
	logger  *zap.Logger
}

func NewProvider(factory BackendFactory, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{factory: factory, logger: logger}
}

// For returns the Store for namespace. An empty namespace yields a Store
// that behaves as unavailable.
func (p *Provider) For(namespace string) *Store {
	if namespace == "" || p.factory == nil {
		return NewStore(nil, p.logger)
	}
	return NewStore(p.factory(namespace), p.logger.With(zap.String("namespace", namespace)))
}
