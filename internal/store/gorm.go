package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"moegraph/internal/models"
)

// GormStore 基于 GORM 的 Store 实现（生产环境 Postgres，测试用 SQLite）
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate runs schema auto-migration for all stored models.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Node{},
		&models.QuotaRecord{},
		&models.HistoryEntry{},
		&models.Application{},
	)
}

// --- nodes ---

func (s *GormStore) GetNode(ctx context.Context, id uint) (*models.Node, error) {
	var node models.Node
	err := s.db.WithContext(ctx).First(&node, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *GormStore) ListNodes(ctx context.Context) ([]models.Node, error) {
	var nodes []models.Node
	if err := s.db.WithContext(ctx).Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *GormStore) PutNode(ctx context.Context, node *models.Node) error {
	// 整条记录覆盖写入，不做字段级合并
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(node).Error
}

func (s *GormStore) DeleteNode(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Node{}, "id = ?", id).Error
}

func (s *GormStore) MaxNodeID(ctx context.Context) (uint, error) {
	var max uint
	err := s.db.WithContext(ctx).Model(&models.Node{}).
		Select("COALESCE(MAX(id), 0)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (s *GormStore) CountNodes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Node{}).Count(&count).Error
	return count, err
}

// --- quota ---

func (s *GormStore) GetQuota(ctx context.Context, userID string) (*models.QuotaRecord, error) {
	var rec models.QuotaRecord
	err := s.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) SaveQuota(ctx context.Context, rec *models.QuotaRecord) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(rec).Error
}

// --- history ---

func (s *GormStore) AppendHistory(ctx context.Context, entry *models.HistoryEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) RecentHistory(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormStore) RecentNodeHistory(ctx context.Context, nodeID uint, limit int) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.db.WithContext(ctx).
		Where("node_id = ?", nodeID).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// --- applications ---

func (s *GormStore) CreateApplication(ctx context.Context, app *models.Application) error {
	return s.db.WithContext(ctx).Create(app).Error
}

func (s *GormStore) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *GormStore) GetNodeApplication(ctx context.Context, nodeID uint) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).First(&app, "node_id = ?", nodeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *GormStore) ListApplications(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *GormStore) DeleteApplication(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Application{}, "id = ?", id).Error
}
