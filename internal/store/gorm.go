package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dkeye/Sketch/internal/domain"
)

// drawEvent is the persisted row. The autoincrement id is the append order.
type drawEvent struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement"`
	RoomID    string         `gorm:"size:64;not null;index:idx_draw_events_room"`
	UserID    string         `gorm:"size:64;not null"`
	ShapeType string         `gorm:"size:32;not null;index:idx_draw_events_type"`
	ShapeData datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

func (drawEvent) TableName() string { return "draw_events" }

func (e drawEvent) toStored() StoredEvent {
	return StoredEvent{
		ID:        EventID(strconv.FormatUint(e.ID, 10)),
		RoomID:    domain.RoomID(e.RoomID),
		UserID:    domain.UserID(e.UserID),
		ShapeType: domain.ShapeType(e.ShapeType),
		ShapeData: []byte(e.ShapeData),
		CreatedAt: e.CreatedAt,
	}
}

type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the schema and wraps db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&drawEvent{}); err != nil {
		return nil, fmt.Errorf("migrate draw_events: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Append(ctx context.Context, room domain.RoomID, rec Record) (EventID, error) {
	row := drawEvent{
		RoomID:    string(room),
		UserID:    string(rec.UserID),
		ShapeType: string(rec.Type),
		ShapeData: datatypes.JSON(rec.Data),
		CreatedAt: rec.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("append draw event: %w", err)
	}
	return EventID(strconv.FormatUint(row.ID, 10)), nil
}

func (s *GormStore) ListByRoom(ctx context.Context, room domain.RoomID) ([]StoredEvent, error) {
	var rows []drawEvent
	err := s.db.WithContext(ctx).
		Where("room_id = ?", string(room)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list room %s: %w", room, err)
	}
	return toStored(rows), nil
}

func (s *GormStore) ListByType(ctx context.Context, t domain.ShapeType, limit int) ([]StoredEvent, error) {
	var rows []drawEvent
	q := s.db.WithContext(ctx).Where("shape_type = ?", string(t)).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list type %s: %w", t, err)
	}
	return toStored(rows), nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toStored(rows []drawEvent) []StoredEvent {
	out := make([]StoredEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toStored())
	}
	return out
}

type gormLogWriter struct{}

func (gormLogWriter) Printf(format string, args ...any) {
	log.Warn().Str("module", "store.gorm").Msgf(format, args...)
}

func newGormLogger() logger.Interface {
	return logger.New(gormLogWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
