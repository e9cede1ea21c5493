package repositories

import (
	"database/sql"
	"math"
	"time"

	"dream-journal/db"
	"dream-journal/entities"

	"gorm.io/gorm"
)

type dreamPgRepository struct {
	db db.Database
}

func NewDreamPgRepository(database db.Database) DreamRepository {
	return &dreamPgRepository{db: database}
}

func (r *dreamPgRepository) Create(dream *entities.Dream) error {
	return r.db.GetDB().Create(dream).Error
}

func (r *dreamPgRepository) GetByID(id string) (*entities.Dream, error) {
	var dream entities.Dream
	err := r.db.GetDB().Where("id = ?", id).First(&dream).Error
	if err != nil {
		return nil, err
	}
	return &dream, nil
}

// GetByIDForUser scopes the lookup itself by owner, so a row belonging to
// another user is indistinguishable from a missing one.
func (r *dreamPgRepository) GetByIDForUser(id, userID string) (*entities.Dream, error) {
	var dream entities.Dream
	err := r.db.GetDB().Where("id = ? AND user_id = ?", id, userID).First(&dream).Error
	if err != nil {
		return nil, err
	}
	return &dream, nil
}

func (r *dreamPgRepository) List(userID string, q ListQuery) ([]entities.Dream, int64, error) {
	q.Normalize()

	base := func() *gorm.DB {
		tx := r.db.GetDB().Model(&entities.Dream{}).Where("user_id = ?", userID)
		return applyFilters(tx, q.Filters)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx := base()
	if len(q.Select) > 0 {
		tx = tx.Select(q.Select)
	}

	var dreams []entities.Dream
	err := tx.Order(orderClause(q.Sort)).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&dreams).Error
	return dreams, total, err
}

func (r *dreamPgRepository) Update(dream *entities.Dream) error {
	dream.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Save(dream).Error
}

func (r *dreamPgRepository) Delete(id string) error {
	return r.db.GetDB().Where("id = ?", id).Delete(&entities.Dream{}).Error
}

func (r *dreamPgRepository) Stats(userID string) (*DreamStats, error) {
	var row struct {
		Total int64
		Avg   sql.NullFloat64
		Lucid sql.NullFloat64
	}
	err := r.db.GetDB().Model(&entities.Dream{}).
		Select("COUNT(*) AS total, AVG(rating) AS avg, AVG(CASE WHEN lucid THEN 1.0 ELSE 0.0 END) AS lucid").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &DreamStats{TotalDreams: row.Total}
	if row.Avg.Valid {
		stats.AvgRating = round2(row.Avg.Float64)
	}
	if row.Lucid.Valid {
		stats.LucidPercentage = round2(row.Lucid.Float64) * 100
	}
	if row.Total == 0 {
		return stats, nil
	}

	// Emotion arrays are JSON columns, so the tally happens here rather than
	// in SQL. Ties break on first-seen order over entries sorted by creation.
	var rows []entities.Dream
	err = r.db.GetDB().Model(&entities.Dream{}).
		Select("emotions").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var order []string
	for _, d := range rows {
		for _, e := range d.Emotions {
			if _, seen := counts[e]; !seen {
				order = append(order, e)
			}
			counts[e]++
		}
	}
	best := ""
	for _, e := range order {
		if best == "" || counts[e] > counts[best] {
			best = e
		}
	}
	if best != "" {
		stats.MostCommonEmotion = &best
	}
	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
