package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"life-dashboard/internal/model"
)

// PreferenceRepository is a string key/value store in the preferences table.
type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns the stored value for key; ok is false when the key was never set.
func (r *PreferenceRepository) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var prefs []model.Preference
	if err := r.db.WithContext(ctx).Where(&model.Preference{Key: key}).Limit(1).Find(&prefs).Error; err != nil {
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
	if len(prefs) == 0 {
		return "", false, nil
	}
	return prefs[0].Value, true, nil
}

func (r *PreferenceRepository) Set(ctx context.Context, key, value string) error {
	pref := model.Preference{Key: key, Value: value}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&pref).Error; err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}
