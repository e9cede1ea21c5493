package repositories

import (
	"strings"

	"dream-journal/db"
	"dream-journal/entities"
)

// likeEscaper neutralizes LIKE metacharacters so user input only ever
// matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type interpretationPgRepository struct {
	db db.Database
}

func NewInterpretationPgRepository(database db.Database) InterpretationRepository {
	return &interpretationPgRepository{db: database}
}

func (r *interpretationPgRepository) Create(interpretation *entities.Interpretation) error {
	return r.db.GetDB().Create(interpretation).Error
}

func (r *interpretationPgRepository) GetAll() ([]entities.Interpretation, error) {
	var interpretations []entities.Interpretation
	err := r.db.GetDB().Order("keyword ASC").Find(&interpretations).Error
	return interpretations, err
}

// GetByKeyword returns the case-insensitive exact match for keyword.
func (r *interpretationPgRepository) GetByKeyword(keyword string) (*entities.Interpretation, error) {
	var interpretation entities.Interpretation
	err := r.db.GetDB().Where("LOWER(keyword) = LOWER(?)", keyword).First(&interpretation).Error
	if err != nil {
		return nil, err
	}
	return &interpretation, nil
}

// SearchRandom returns one uniformly-random row whose keyword contains the
// given substring, case-insensitively.
func (r *interpretationPgRepository) SearchRandom(keyword string) (*entities.Interpretation, error) {
	var interpretation entities.Interpretation
	err := r.db.GetDB().
		Where(`LOWER(keyword) LIKE LOWER(?) ESCAPE '\'`, "%"+likeEscaper.Replace(keyword)+"%").
		Order("RANDOM()").
		First(&interpretation).Error
	if err != nil {
		return nil, err
	}
	return &interpretation, nil
}

// Random returns one row chosen uniformly from the full table.
func (r *interpretationPgRepository) Random() (*entities.Interpretation, error) {
	var interpretation entities.Interpretation
	err := r.db.GetDB().Order("RANDOM()").First(&interpretation).Error
	if err != nil {
		return nil, err
	}
	return &interpretation, nil
}
