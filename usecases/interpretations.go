package usecases

import (
	"strings"

	"dream-journal/apperrors"
	"dream-journal/entities"
	"dream-journal/repositories"
)

type InterpretationUseCase struct {
	Interpretations repositories.InterpretationRepository
}

func NewInterpretationUseCase(repo repositories.InterpretationRepository) *InterpretationUseCase {
	return &InterpretationUseCase{Interpretations: repo}
}

// RandomOrExact resolves a lookup in three steps: no keyword means a uniform
// random row; otherwise a case-insensitive exact match wins; failing that, a
// random row among case-insensitive substring matches.
func (uc *InterpretationUseCase) RandomOrExact(keyword string) (*entities.Interpretation, error) {
	if keyword == "" {
		interpretation, err := uc.Interpretations.Random()
		if err != nil {
			return nil, apperrors.NotFound("No interpretation found")
		}
		return interpretation, nil
	}

	if interpretation, err := uc.Interpretations.GetByKeyword(keyword); err == nil {
		return interpretation, nil
	}

	interpretation, err := uc.Interpretations.SearchRandom(keyword)
	if err != nil {
		return nil, apperrors.NotFound("No interpretation found")
	}
	return interpretation, nil
}

// ListAll returns the full reference table.
func (uc *InterpretationUseCase) ListAll() ([]entities.Interpretation, error) {
	return uc.Interpretations.GetAll()
}

// Create validates and stores a new reference row.
func (uc *InterpretationUseCase) Create(interpretation *entities.Interpretation) error {
	// Keywords are stored trimmed, so the duplicate check must compare the
	// trimmed form too.
	interpretation.Keyword = strings.TrimSpace(interpretation.Keyword)
	if err := interpretation.Validate(); err != nil {
		return apperrors.Validation("%s", err.Error())
	}
	if _, err := uc.Interpretations.GetByKeyword(interpretation.Keyword); err == nil {
		return apperrors.Conflict("keyword already exists")
	}
	interpretation.ID = ""
	return uc.Interpretations.Create(interpretation)
}
