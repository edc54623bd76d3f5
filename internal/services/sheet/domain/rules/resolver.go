package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/sheetkeeper/internal/platform/errors"
)

var (
	// ErrRecordNotFound is returned by GameDataRepository implementations
	// when an id does not resolve.
	ErrRecordNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")
	// ErrNationalityNotFound indicates an unresolvable nationality id.
	ErrNationalityNotFound = apperrors.New(apperrors.CodeNationalityNotFound, "nationality not found")
	// ErrClassNotFound indicates an unresolvable class id.
	ErrClassNotFound = apperrors.New(apperrors.CodeClassNotFound, "class not found")
)

// GameDataRepository looks up nationality and class records.
type GameDataRepository interface {
	LookupNationality(ctx context.Context, id string) (Nationality, error)
	LookupClass(ctx context.Context, id string) (Class, error)
}

// Resolution is the ordered modifier list for one nationality and class pair.
type Resolution struct {
	NationalityID string
	ClassID       string
	// Nationality modifiers, in record order.
	Nationality []Modifier
	// Class modifiers, in record order.
	Class []Modifier
}

// Modifiers returns every modifier, nationality modifiers first.
func (r Resolution) Modifiers() []Modifier {
	out := make([]Modifier, 0, len(r.Nationality)+len(r.Class))
	out = append(out, r.Nationality...)
	return append(out, r.Class...)
}

// Resolver turns nationality and class ids into a Resolution.
type Resolver struct {
	repo GameDataRepository
}

// NewResolver returns a resolver reading from repo.
func NewResolver(repo GameDataRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve looks up both records and flattens their modifiers. It fails with
// a not-found error when either id does not resolve; records without
// modifiers yield empty lists.
func (r *Resolver) Resolve(ctx context.Context, nationalityID, classID string) (Resolution, error) {
	if r == nil || r.repo == nil {
		return Resolution{}, errors.New("game data repository is required")
	}
	nationalityID = strings.TrimSpace(nationalityID)
	classID = strings.TrimSpace(classID)

	nationality, err := r.lookupNationality(ctx, nationalityID)
	if err != nil {
		return Resolution{}, err
	}
	class, err := r.lookupClass(ctx, classID)
	if err != nil {
		return Resolution{}, err
	}

	resolution := Resolution{
		NationalityID: nationality.ID,
		ClassID:       class.ID,
		Nationality:   nationality.Modifiers(),
		Class:         class.Modifiers(),
	}
	if err := ValidateModifiers(resolution.Modifiers()); err != nil {
		return Resolution{}, err
	}
	return resolution, nil
}

func (r *Resolver) lookupNationality(ctx context.Context, id string) (Nationality, error) {
	if id == "" {
		return Nationality{}, notFound(apperrors.CodeNationalityNotFound, "nationality", id, ErrRecordNotFound)
	}
	record, err := r.repo.LookupNationality(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return Nationality{}, notFound(apperrors.CodeNationalityNotFound, "nationality", id, err)
		}
		return Nationality{}, fmt.Errorf("lookup nationality %q: %w", id, err)
	}
	return record, nil
}

func (r *Resolver) lookupClass(ctx context.Context, id string) (Class, error) {
	if id == "" {
		return Class{}, notFound(apperrors.CodeClassNotFound, "class", id, ErrRecordNotFound)
	}
	record, err := r.repo.LookupClass(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return Class{}, notFound(apperrors.CodeClassNotFound, "class", id, err)
		}
		return Class{}, fmt.Errorf("lookup class %q: %w", id, err)
	}
	return record, nil
}

func notFound(code apperrors.Code, kind, id string, cause error) error {
	return apperrors.WrapWithMetadata(
		code,
		fmt.Sprintf("%s %q not found", kind, id),
		map[string]string{"ID": id},
		cause,
	)
}
