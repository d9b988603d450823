package store

import (
	"context"

	"moegraph/internal/models"
)

// Store 聚合四类持久化存储，注入到服务层使用
type Store interface {
	NodeStore
	QuotaStore
	HistoryStore
	ApplicationStore
	Migrate() error
}

type NodeStore interface {
	// GetNode retrieves a node by id; returns (nil, nil) when absent.
	GetNode(ctx context.Context, id uint) (*models.Node, error)
	// ListNodes returns all nodes. Order is not guaranteed.
	ListNodes(ctx context.Context) ([]models.Node, error)
	// PutNode upserts a full node record.
	PutNode(ctx context.Context, node *models.Node) error
	// DeleteNode removes a node record by id.
	DeleteNode(ctx context.Context, id uint) error
	// MaxNodeID returns the largest assigned node id, 0 when empty.
	MaxNodeID(ctx context.Context) (uint, error)
	// CountNodes returns the number of stored nodes.
	CountNodes(ctx context.Context) (int64, error)
}

type QuotaStore interface {
	// GetQuota retrieves a quota record; returns (nil, nil) when absent.
	GetQuota(ctx context.Context, userID string) (*models.QuotaRecord, error)
	// SaveQuota upserts a quota record.
	SaveQuota(ctx context.Context, rec *models.QuotaRecord) error
}

type HistoryStore interface {
	// AppendHistory inserts one history entry.
	AppendHistory(ctx context.Context, entry *models.HistoryEntry) error
	// RecentHistory returns the last limit entries by append order,
	// most recent first.
	RecentHistory(ctx context.Context, limit int) ([]models.HistoryEntry, error)
	// RecentNodeHistory is RecentHistory filtered to one node.
	RecentNodeHistory(ctx context.Context, nodeID uint, limit int) ([]models.HistoryEntry, error)
}

type ApplicationStore interface {
	// CreateApplication inserts a pending application.
	CreateApplication(ctx context.Context, app *models.Application) error
	// GetApplication retrieves by id; returns (nil, nil) when absent.
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	// GetNodeApplication retrieves the pending application for a node;
	// returns (nil, nil) when absent.
	GetNodeApplication(ctx context.Context, nodeID uint) (*models.Application, error)
	// ListApplications returns all pending applications, oldest first.
	ListApplications(ctx context.Context) ([]models.Application, error)
	// DeleteApplication removes a pending application by id.
	DeleteApplication(ctx context.Context, id string) error
}
