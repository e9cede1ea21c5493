package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxMeaningLength = 500

// CulturalOrigins is the set of valid origins for an interpretation.
var CulturalOrigins = []string{"Western", "Eastern", "African", "Indigenous", "Universal"}

// Interpretation is a read-only reference row mapping a dream keyword to its
// interpretive meaning. It has no owner.
type Interpretation struct {
	ID             string `gorm:"primaryKey" json:"id"`
	Keyword        string `gorm:"uniqueIndex;not null" json:"keyword"`
	Meaning        string `gorm:"type:varchar(500)" json:"meaning"`
	CulturalOrigin string `gorm:"type:varchar(32)" json:"cultural_origin"`
}

func (i *Interpretation) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	i.Keyword = strings.TrimSpace(i.Keyword)
	return nil
}

// Validate checks required fields, the meaning length limit and the origin enum.
func (i *Interpretation) Validate() error {
	if strings.TrimSpace(i.Keyword) == "" {
		return errors.New("please add a keyword")
	}
	if i.Meaning == "" {
		return errors.New("please add the meaning")
	}
	if len(i.Meaning) > MaxMeaningLength {
		return fmt.Errorf("meaning cannot be more than %d characters", MaxMeaningLength)
	}
	if !contains(CulturalOrigins, i.CulturalOrigin) {
		return fmt.Errorf("'%s' is not a valid cultural origin", i.CulturalOrigin)
	}
	return nil
}
