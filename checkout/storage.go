package checkout

import (
	"context"
	"fmt"
	"time"

	"storefront/storage"

	"go.uber.org/zap"
)

// StaleAfter is the draft age past which a read logs a warning.
const StaleAfter = 24 * time.Hour

type RecoveryStrategy string

const (
	// ResetAll removes the stored draft before falling back to defaults.
	ResetAll RecoveryStrategy = "reset_all"
	// UseDefaults returns defaults and leaves storage untouched.
	UseDefaults RecoveryStrategy = "use_defaults"
)

// Sink is a mirror the draft is written to on every update.
type Sink interface {
	Write(ctx context.Context, d Draft) error
	Clear(ctx context.Context) error
}

type Option func(*Storage)

func WithValidateOnGet(v bool) Option {
	return func(s *Storage) { s.validateOnGet = v }
}

func WithRecovery(strategy RecoveryStrategy) Option {
	return func(s *Storage) { s.recovery = strategy }
}

func WithErrorHandler(fn func(err error)) Option {
	return func(s *Storage) { s.onError = fn }
}

func WithRecoveryHandler(fn func(strategy RecoveryStrategy, d Draft)) Option {
	return func(s *Storage) { s.onRecovery = fn }
}

// WithSinks adds mirrors written alongside session storage.
func WithSinks(sinks ...Sink) Option {
	return func(s *Storage) { s.sinks = append(s.sinks, sinks...) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

// Storage is the checkout draft kept in session storage. Session storage is
// the read source; sinks only receive writes.
type Storage struct {
	store         *storage.Store
	sinks         []Sink
	logger        *zap.Logger
	now           func() time.Time
	validateOnGet bool
	recovery      RecoveryStrategy
	onError       func(err error)
	onRecovery    func(strategy RecoveryStrategy, d Draft)
}

func NewStorage(store *storage.Store, logger *zap.Logger, opts ...Option) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Storage{
		store:         store,
		logger:        logger,
		now:           time.Now,
		validateOnGet: true,
		recovery:      UseDefaults,
	}
	s.onError = func(err error) {
		s.logger.Error("Checkout storage error", zap.Error(err))
	}
	s.onRecovery = func(strategy RecoveryStrategy, _ Draft) {
		s.logger.Info("Checkout data recovered", zap.String("strategy", string(strategy)))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) GetCheckoutData(ctx context.Context) Draft {
	return s.read(ctx, s.validateOnGet)
}

func (s *Storage) read(ctx context.Context, checkConsistency bool) Draft {
	d, ok := storage.Get(ctx, s.store, storage.KeyCheckoutData, Draft.Validate)
	if !ok {
		fresh := NewDraft(s.now())
		s.onRecovery(UseDefaults, fresh)
		return fresh
	}
	if d.StepProgress == nil {
		d.StepProgress = []Step{}
	}
	if checkConsistency {
		if err := s.ValidateDataConsistency(d); err != nil {
			s.onError(err)
			return s.recover(ctx)
		}
	}
	return d
}

func (s *Storage) recover(ctx context.Context) Draft {
	if s.recovery == ResetAll {
		s.store.Remove(ctx, storage.KeyCheckoutData)
	}
	fresh := NewDraft(s.now())
	s.onRecovery(s.recovery, fresh)
	return fresh
}

// SetCheckoutData merges p into the current draft and writes the result to
// session storage and every sink. The bool reports whether session storage
// accepted the write.
func (s *Storage) SetCheckoutData(ctx context.Context, p Patch) (bool, error) {
	updated := s.read(ctx, false).merge(p, s.now())
	if err := updated.Validate(); err != nil {
		verr := &storage.Error{Kind: storage.ValidationError, Key: storage.KeyCheckoutData, Err: err}
		s.onError(verr)
		return false, verr
	}

	stored, err := storage.Set(ctx, s.store, storage.KeyCheckoutData, updated, Draft.Validate)
	if err != nil {
		s.onError(err)
	}
	for _, sink := range s.sinks {
		if serr := sink.Write(ctx, updated); serr != nil {
			s.onError(serr)
			if err == nil {
				err = serr
			}
		}
	}
	return stored, err
}

// UpdateStep validates data and stores it under its step. Invalid data is
// rejected with FieldErrors and leaves the draft unchanged.
func (s *Storage) UpdateStep(ctx context.Context, data StepData) (bool, error) {
	if errs := data.Validate(); len(errs) > 0 {
		return false, errs
	}
	return s.SetCheckoutData(ctx, PatchFor(data))
}

// GetStepData returns the saved form for step, or nil.
func (s *Storage) GetStepData(ctx context.Context, step Step) StepData {
	return s.GetCheckoutData(ctx).StepData(step)
}

func (s *Storage) IsStepCompleted(ctx context.Context, step Step) bool {
	return s.GetCheckoutData(ctx).HasStep(step)
}

// GetProgress is the share of steps in stepProgress, in percent.
func (s *Storage) GetProgress(ctx context.Context) float64 {
	d := s.GetCheckoutData(ctx)
	return float64(len(d.StepProgress)) / float64(len(AllSteps)) * 100
}

func (s *Storage) ClearCheckoutData(ctx context.Context) {
	s.store.Remove(ctx, storage.KeyCheckoutData)
	for _, sink := range s.sinks {
		if err := sink.Clear(ctx); err != nil {
			s.onError(err)
		}
	}
}

type Submission struct {
	Valid        bool     `json:"valid"`
	MissingSteps []Step   `json:"missingSteps"`
	Errors       []string `json:"errors"`
}

func (s *Storage) ValidateForSubmission(ctx context.Context) Submission {
	return ValidateSubmission(s.GetCheckoutData(ctx))
}

var stepLabels = map[Step]string{
	StepCustomer: "Customer",
	StepShipping: "Shipping",
	StepPayment:  "Payment",
	StepReview:   "Review",
}

// ValidateSubmission reports absent steps and steps whose data fails its
// schema. A draft may be submitted only when both lists are empty.
func ValidateSubmission(d Draft) Submission {
	sub := Submission{MissingSteps: []Step{}, Errors: []string{}}
	for _, step := range AllSteps {
		data := d.StepData(step)
		if data == nil {
			sub.MissingSteps = append(sub.MissingSteps, step)
			continue
		}
		if errs := data.Validate(); len(errs) > 0 {
			sub.Errors = append(sub.Errors, fmt.Sprintf("%s data invalid: %s", stepLabels[step], errs.Error()))
		}
	}
	sub.Valid = len(sub.MissingSteps) == 0 && len(sub.Errors) == 0
	return sub
}

// ValidateDataConsistency checks the enumerated fields of a stored draft.
// A stale draft is only logged.
func (s *Storage) ValidateDataConsistency(d Draft) error {
	if d.Shipping != nil && d.Shipping.ShippingMethod != "" && !validShippingMethod(d.Shipping.ShippingMethod) {
		return &storage.Error{
			Kind: storage.ValidationError,
			Key:  storage.KeyCheckoutData,
			Err:  fmt.Errorf("invalid shipping method: %s", d.Shipping.ShippingMethod),
		}
	}
	if d.Payment != nil && d.Payment.PaymentMethod != "" && d.Payment.PaymentMethod != PaymentCashOnDelivery {
		return &storage.Error{
			Kind: storage.ValidationError,
			Key:  storage.KeyCheckoutData,
			Err:  fmt.Errorf("invalid payment method: %s", d.Payment.PaymentMethod),
		}
	}
	if d.LastUpdated > 0 && s.now().Sub(time.UnixMilli(d.LastUpdated)) > StaleAfter {
		s.logger.Warn("Checkout data is older than 24 hours", zap.Int64("lastUpdated", d.LastUpdated))
	}
	return nil
}

func validShippingMethod(m string) bool {
	for _, v := range ShippingMethods {
		if v == m {
			return true
		}
	}
	return false
}

type ExportMetadata struct {
	Timestamp   string              `json:"timestamp"`
	StorageInfo storage.StorageInfo `json:"storageInfo"`
	HealthCheck storage.Health      `json:"healthCheck"`
	UserAgent   string              `json:"userAgent"`
}

type Export struct {
	Data     Draft          `json:"data"`
	Metadata ExportMetadata `json:"metadata"`
}

// ExportData bundles the draft with storage diagnostics.
func (s *Storage) ExportData(ctx context.Context, userAgent string) Export {
	if userAgent == "" {
		userAgent = "unknown"
	}
	return Export{
		Data: s.GetCheckoutData(ctx),
		Metadata: ExportMetadata{
			Timestamp:   s.now().UTC().Format(time.RFC3339Nano),
			StorageInfo: s.store.Info(ctx),
			HealthCheck: s.store.HealthCheck(ctx),
			UserAgent:   userAgent,
		},
	}
}
