// Package escrow is the application layer of the OTC engine. It runs each
// lifecycle decision inside one storage transaction together with the
// custody movements it implies.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/nseguias/otc/internal/platform/errors"
	"github.com/nseguias/otc/internal/platform/requestctx"
	"github.com/nseguias/otc/internal/services/otc/custody"
	"github.com/nseguias/otc/internal/services/otc/domain/deal"
	"github.com/nseguias/otc/internal/services/otc/domain/lifecycle"
	"github.com/nseguias/otc/internal/services/otc/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nseguias/otc/internal/services/otc/escrow"

// Service executes escrow operations against a store.
type Service struct {
	store     storage.Store
	validator deal.AddressValidator
	custodian custody.Custodian
	clock     func() time.Time
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock used for timeouts.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithCustodian overrides the ledger custodian.
func WithCustodian(custodian custody.Custodian) Option {
	return func(s *Service) {
		if custodian != nil {
			s.custodian = custodian
		}
	}
}

// WithTracer overrides the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// New builds a Service over store, validating addresses with validator.
func New(store storage.Store, validator deal.AddressValidator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if validator == nil {
		return nil, fmt.Errorf("address validator is required")
	}
	s := &Service{
		store:     store,
		validator: validator,
		custodian: custody.NewLedger(),
		clock:     time.Now,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Result is the outcome of one execute operation.
type Result struct {
	Deal       *deal.Deal
	Attributes []deal.Attribute
	Transfers  []deal.Transfer
}

// now returns the current time truncated to whole seconds, since deal
// timeouts are stored at second precision.
func (s *Service) now() time.Time {
	return s.clock().UTC().Truncate(time.Second)
}

// sender resolves and validates the caller stored in ctx.
func (s *Service) sender(ctx context.Context) (deal.Address, error) {
	raw := strings.TrimSpace(requestctx.SenderFromContext(ctx))
	if raw == "" {
		return "", apperrors.New(apperrors.CodeUnauthenticated, "caller identity is required")
	}
	addr, err := s.validator.ValidateAddress(raw)
	if err != nil {
		return "", apperrors.WithMetadata(apperrors.CodeUnauthenticated, err.Error(), map[string]string{"address": raw})
	}
	return addr, nil
}

func (s *Service) startSpan(ctx context.Context, action string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "otc."+action, trace.WithAttributes(attribute.String("action", action)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("code", string(apperrors.GetCode(err))))
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

func setDealID(span trace.Span, id uint64) {
	span.SetAttributes(attribute.Int64("deal_id", int64(id)))
}

// loadConfig maps a missing configuration to NotInitialized.
func loadConfig(ctx context.Context, r storage.Reader) (deal.Config, error) {
	cfg, err := r.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return deal.Config{}, lifecycle.NotInitialized()
		}
		return deal.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadDeal maps a missing deal to DealNotFound.
func loadDeal(ctx context.Context, r storage.Reader, id uint64) (deal.Deal, error) {
	current, err := r.GetDeal(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return deal.Deal{}, lifecycle.DealNotFound(id)
		}
		return deal.Deal{}, fmt.Errorf("load deal %d: %w", id, err)
	}
	return current, nil
}
