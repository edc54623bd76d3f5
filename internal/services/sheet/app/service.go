// Package app is the sheet application service: it validates character
// records, runs the derived-attribute engine against the content catalog and
// lists catalog records for outer transports.
package app

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/sheetkeeper/internal/services/sheet/app"

// Content is the catalog the service reads.
type Content interface {
	rules.GameDataRepository
	storage.ContentReader
}

// Config controls optional service behavior.
type Config struct {
	// MaxCharacteristic bounds characteristic bases; zero uses the default.
	MaxCharacteristic int
	// Logger receives one line per failed recomputation. Nil discards.
	Logger *log.Logger
	// Tracer overrides the global tracer provider.
	Tracer trace.Tracer
}

// Service recomputes derived attributes on demand. It holds no character
// state, so it is safe for concurrent use when Content is.
type Service struct {
	content Content
	max     int
	logger  *log.Logger
	tracer  trace.Tracer
}

// NewService builds a service over content.
func NewService(content Content, cfg Config) (*Service, error) {
	if content == nil {
		return nil, errors.New("content store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	max := cfg.MaxCharacteristic
	if max <= 0 {
		max = character.MaxCharacteristic
	}
	return &Service{content: content, max: max, logger: logger, tracer: tracer}, nil
}

// MaxCharacteristic returns the base bound applied to incoming records.
func (s *Service) MaxCharacteristic() int {
	return s.max
}

// Recompute validates snap and returns a fresh computation of its derived
// attributes.
func (s *Service) Recompute(ctx context.Context, snap character.Snapshot) (rules.DerivedAttributes, error) {
	ctx, span := s.tracer.Start(ctx, "sheet.Recompute", trace.WithAttributes(
		attribute.String("sheet.character_id", snap.ID),
		attribute.String("sheet.nationality_id", snap.NationalityID),
		attribute.String("sheet.class_id", snap.ClassID),
		attribute.Int("sheet.skill_count", len(snap.Skills)),
	))
	defer span.End()

	derived, err := s.recompute(ctx, snap)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Printf("recompute %q: %v", snap.ID, err)
		return rules.DerivedAttributes{}, err
	}
	span.SetAttributes(
		attribute.Int("sheet.hit_points", derived.HitPoints),
		attribute.Int("sheet.protection", derived.Protection),
	)
	return derived, nil
}

func (s *Service) recompute(ctx context.Context, snap character.Snapshot) (rules.DerivedAttributes, error) {
	return rules.Compute(ctx, s.content, snap, s.max)
}

// Nationalities lists the catalog nationalities ordered by id.
func (s *Service) Nationalities(ctx context.Context) ([]rules.Nationality, error) {
	return s.content.ListNationalities(ctx)
}

// Classes lists the catalog classes ordered by id.
func (s *Service) Classes(ctx context.Context) ([]rules.Class, error) {
	return s.content.ListClasses(ctx)
}
