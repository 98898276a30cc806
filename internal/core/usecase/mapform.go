package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rashidmajid/docuflow/internal/core/domain"
	"github.com/rashidmajid/docuflow/internal/core/fieldmap"
	"github.com/rashidmajid/docuflow/internal/core/ports"
)

// MapFormUseCase projects a merged profile onto a target form's field
// names using the fuzzy field mapping engine.
type MapFormUseCase struct {
	profiles ports.ProfileRepository
	engine   *fieldmap.Engine
}

func NewMapFormUseCase(profiles ports.ProfileRepository, engine *fieldmap.Engine) *MapFormUseCase {
	return &MapFormUseCase{profiles: profiles, engine: engine}
}

func (uc *MapFormUseCase) MapProfile(ctx context.Context, profileID string, formFields []string) (domain.MappingResult, error) {
	if len(formFields) == 0 {
		return domain.MappingResult{}, domain.WrapError(domain.ErrInvalidInput, "map profile", errors.New("no form fields requested"))
	}

	fields, _, err := uc.profiles.GetFields(ctx, profileID)
	if err != nil {
		return domain.MappingResult{}, fmt.Errorf("fetch profile fields: %w", err)
	}

	data := domain.ExtractedData{Fields: fields, Entities: domain.EntitySet{}}
	return uc.engine.MapFields(data, formFields), nil
}
