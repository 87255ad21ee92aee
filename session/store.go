package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

// Session is the single local row holding the slices of state the
// engine reads but does not own: who is logged in, which branch is
// selected, the theme, and the sound toggle.
type Session struct {
	ID             uint   `gorm:"primaryKey"`
	ClientID       string `gorm:"type:varchar(36);not null"`
	UserID         uint
	UserName       string `gorm:"type:varchar(100)"`
	Role           string `gorm:"type:varchar(20)"`
	AccessToken    string `gorm:"type:text"`
	SelectedBranch *uint
	Theme          string `gorm:"type:varchar(30);not null;default:'default'"`
	SoundEnabled   bool   `gorm:"not null;default:true"`
	UpdatedAt      time.Time
}

// ReadMark records a notification the user marked read before the
// backend confirmed it. The next poll reconciles by overwrite: marks
// the server already reflects are pruned, unconfirmed ones only
// suppress re-alerting locally.
type ReadMark struct {
	NotificationID string    `gorm:"primaryKey;type:varchar(64)"`
	MarkedAt       time.Time `gorm:"not null"`
}

// Store wraps the local sqlite database. It is constructed explicitly
// by the composition root and passed to whoever needs it; there is no
// package-level singleton.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the local database at path and migrates the
// schema. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	if err := db.AutoMigrate(&Session{}, &ReadMark{}); err != nil {
		return nil, fmt.Errorf("migrating session db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Current returns the session row, creating a fresh one with a new
// client id on first run.
func (s *Store) Current() (Session, error) {
	var sess Session
	err := s.db.First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess = Session{
			ClientID:     uuid.NewString(),
			Theme:        "default",
			SoundEnabled: true,
		}
		if err := s.db.Create(&sess).Error; err != nil {
			return Session{}, fmt.Errorf("creating session row: %w", err)
		}
		return sess, nil
	}
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Save persists the whole session row.
func (s *Store) Save(sess Session) error {
	return s.db.Save(&sess).Error
}

// SetSelectedBranch updates just the branch selection.
func (s *Store) SetSelectedBranch(branchID *uint) error {
	sess, err := s.Current()
	if err != nil {
		return err
	}
	sess.SelectedBranch = branchID
	return s.Save(sess)
}

// SetSoundEnabled flips the audio-cue toggle.
func (s *Store) SetSoundEnabled(enabled bool) error {
	sess, err := s.Current()
	if err != nil {
		return err
	}
	sess.SoundEnabled = enabled
	return s.Save(sess)
}

// SetTheme updates the stored theme name.
func (s *Store) SetTheme(theme string) error {
	sess, err := s.Current()
	if err != nil {
		return err
	}
	sess.Theme = theme
	return s.Save(sess)
}

// MarkReadLocal records an optimistic read mark for a notification.
func (s *Store) MarkReadLocal(notificationID string) error {
	mark := ReadMark{NotificationID: notificationID, MarkedAt: time.Now()}
	return s.db.Save(&mark).Error
}

// IsReadLocal reports whether the notification carries a local read
// mark not yet confirmed by the backend.
func (s *Store) IsReadLocal(notificationID string) bool {
	var count int64
	s.db.Model(&ReadMark{}).Where("notification_id = ?", notificationID).Count(&count)
	return count > 0
}

// PruneReadMarks drops local marks the backend now reflects, so the
// cache never outlives its purpose.
func (s *Store) PruneReadMarks(confirmedRead []string) error {
	if len(confirmedRead) == 0 {
		return nil
	}
	return s.db.Where("notification_id IN ?", confirmedRead).Delete(&ReadMark{}).Error
}

// ReconcileReadMarks folds the local read cache into a fresh poll
// snapshot. Marks the backend already reflects are pruned; marks it
// does not yet reflect overlay the record's read flag, so an
// optimistically-read notification is never re-surfaced as unread.
func (s *Store) ReconcileReadMarks(records []models.NotificationRecord) ([]models.NotificationRecord, error) {
	out := make([]models.NotificationRecord, len(records))
	var confirmed []string
	for i, rec := range records {
		if rec.Read {
			confirmed = append(confirmed, rec.ID)
		} else if s.IsReadLocal(rec.ID) {
			rec.Read = true
		}
		out[i] = rec
	}
	return out, s.PruneReadMarks(confirmed)
}
