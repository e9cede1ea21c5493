package repositories

import "dream-journal/entities"

type UserRepository interface {
	Create(user *entities.User) error
	GetByID(id string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
}

type DreamRepository interface {
	Create(dream *entities.Dream) error
	GetByID(id string) (*entities.Dream, error)
	GetByIDForUser(id, userID string) (*entities.Dream, error)
	List(userID string, q ListQuery) ([]entities.Dream, int64, error)
	Update(dream *entities.Dream) error
	Delete(id string) error
	Stats(userID string) (*DreamStats, error)
}

type InterpretationRepository interface {
	Create(interpretation *entities.Interpretation) error
	GetAll() ([]entities.Interpretation, error)
	GetByKeyword(keyword string) (*entities.Interpretation, error)
	SearchRandom(keyword string) (*entities.Interpretation, error)
	Random() (*entities.Interpretation, error)
}

// DreamStats is the aggregate produced for a single owner. JSON keys match
// the public statistics endpoint contract.
type DreamStats struct {
	TotalDreams       int64   `json:"totalDreams"`
	AvgRating         float64 `json:"avgRating"`
	LucidPercentage   float64 `json:"lucidPercentage"`
	MostCommonEmotion *string `json:"mostCommonEmotion"`
}
