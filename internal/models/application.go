package models

import (
	"time"
)

// Application 「设为知名形态」待审申请，审批通过或驳回后删除。
// node_id 唯一索引保证同一节点同时只有一条待审申请。
type Application struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	NodeID    uint      `gorm:"not null;uniqueIndex" json:"node_id"`
	NodeName  string    `gorm:"size:200" json:"node_name"`
	UserID    string    `gorm:"size:64;not null" json:"user_id"`
	Nickname  string    `gorm:"size:100" json:"nickname"`
	CreatedAt time.Time `json:"timestamp"`
}
