package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/naadiaramirezx/fitlife-notifications/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) GetByRecipient(ctx context.Context, recipientID uuid.UUID) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	if err := r.db.WithContext(ctx).First(&pref, "recipient_id = ?", recipientID).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

// FindOrCreateDefault returns the recipient's preference row, creating the
// default one on first access. The insert runs ON CONFLICT DO NOTHING
// against the recipient_id unique index, so two concurrent first accesses
// converge on a single row.
func (r *PreferenceRepository) FindOrCreateDefault(ctx context.Context, recipientID uuid.UUID) (*models.NotificationPreference, error) {
	pref, err := r.GetByRecipient(ctx, recipientID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	def := models.DefaultPreference(recipientID)
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipient_id"}},
		DoNothing: true,
	}).Create(def).Error
	if err != nil {
		return nil, err
	}
	// Re-read: the insert may have hit the conflict path.
	return r.GetByRecipient(ctx, recipientID)
}

func (r *PreferenceRepository) Save(ctx context.Context, pref *models.NotificationPreference) error {
	return r.db.WithContext(ctx).Save(pref).Error
}

// MutateLocked loads the row under FOR UPDATE, applies mutate and writes it
// back in one transaction. Device-token upserts go through here so
// concurrent registrations cannot clobber each other's list edits.
func (r *PreferenceRepository) MutateLocked(ctx context.Context, recipientID uuid.UUID, mutate func(*models.NotificationPreference)) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pref, "recipient_id = ?", recipientID).Error; err != nil {
			return err
		}
		mutate(&pref)
		return tx.Save(&pref).Error
	})
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// ListWithReminders returns every preference row with at least one enabled
// recurring reminder category, for the daily expansion tick.
func (r *PreferenceRepository) ListWithReminders(ctx context.Context) ([]models.NotificationPreference, error) {
	var prefs []models.NotificationPreference
	err := r.db.WithContext(ctx).
		Where("workout_reminders ->> 'enabled' = 'true'").
		Or("meal_reminders ->> 'enabled' = 'true'").
		Or("water_reminders ->> 'enabled' = 'true'").
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	return prefs, nil
}
