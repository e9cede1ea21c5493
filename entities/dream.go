package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 1000
)

// DreamEmotions is the set of emotions an entry may carry.
var DreamEmotions = []string{
	"joy", "fear", "anger", "sadness", "surprise",
	"excitement", "peace", "confusion", "love", "anxiety", "freedom",
}

// DreamTypes is the set of valid dream categories.
var DreamTypes = []string{
	"adventure", "nightmare", "lucid", "recurring",
	"prophetic", "fantasy", "realistic", "abstract",
}

type Dream struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"index;not null" json:"user_id"`
	Title       string         `gorm:"type:varchar(50)" json:"title"`
	Description string         `gorm:"type:varchar(1000)" json:"description"`
	Emotions    []string       `gorm:"serializer:json" json:"emotions"`
	Tags        []string       `gorm:"serializer:json" json:"tags"`
	Type        string         `gorm:"type:varchar(32)" json:"type"`
	Lucid       bool           `json:"lucid"`
	Rating      *int           `json:"rating,omitempty"`
	Date        string         `json:"date"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (d *Dream) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Date == "" {
		d.Date = now
	}
	return nil
}

// Validate checks required fields, length limits and enum membership.
func (d *Dream) Validate() error {
	if d.Title == "" {
		return errors.New("please add a title")
	}
	if len(d.Title) > MaxTitleLength {
		return fmt.Errorf("title cannot be more than %d characters", MaxTitleLength)
	}
	if d.Description == "" {
		return errors.New("please add a description")
	}
	if len(d.Description) > MaxDescriptionLength {
		return fmt.Errorf("description cannot be more than %d characters", MaxDescriptionLength)
	}
	if len(d.Emotions) == 0 {
		return errors.New("please add at least one emotion")
	}
	for _, e := range d.Emotions {
		if !contains(DreamEmotions, e) {
			return fmt.Errorf("'%s' is not a valid emotion", e)
		}
	}
	if !contains(DreamTypes, d.Type) {
		return fmt.Errorf("'%s' is not a valid dream type", d.Type)
	}
	if d.Rating != nil && (*d.Rating < 1 || *d.Rating > 5) {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
