package storage

import (
	"aduan/frontend/internal/models"
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase connects to PostgreSQL and migrates the diagnostics table.
func OpenDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	if err := db.AutoMigrate(&models.DiagnosticEvent{}); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return db, nil
}

// SaveDiagnostic inserts one event.
func (s *Service) SaveDiagnostic(ctx context.Context, event *models.DiagnosticEvent) error {
	if s.DB == nil {
		return ErrNotConfigured
	}
	if err := s.DB.WithContext(ctx).Create(event).Error; err != nil {
		log.Printf("ERROR: Failed to save diagnostic event %s: %v", event.Operation, err)
		return err
	}
	return nil
}

// RecentDiagnostics returns the newest events first.
func (s *Service) RecentDiagnostics(ctx context.Context, limit int) ([]models.DiagnosticEvent, error) {
	if s.DB == nil {
		return nil, ErrNotConfigured
	}
	var events []models.DiagnosticEvent
	if err := s.DB.WithContext(ctx).
		Order("occurred_at desc").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// PurgeDiagnostics deletes events recorded before olderThan and reports how
// many went.
func (s *Service) PurgeDiagnostics(ctx context.Context, olderThan time.Time) (int64, error) {
	if s.DB == nil {
		return 0, ErrNotConfigured
	}
	result := s.DB.WithContext(ctx).
		Where("occurred_at < ?", olderThan).
		Delete(&models.DiagnosticEvent{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("INFO: purged %d diagnostic events older than %s", result.RowsAffected, olderThan.Format(time.RFC3339))
	}
	return result.RowsAffected, nil
}
