package models

import (
	"time"
)

// 操作记录动作类型
const (
	ActionAdd           = "add"
	ActionEdit          = "edit"
	ActionDelete        = "delete"
	ActionApplyFamous   = "apply_famous"
	ActionApproveFamous = "approve_famous"
	ActionRejectFamous  = "reject_famous"
)

// HistoryEntry 操作记录，只追加，写入后不再修改
type HistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	Nickname  string    `gorm:"size:100" json:"nickname"`
	Role      string    `gorm:"size:20" json:"role"`
	NodeID    uint      `gorm:"not null;index" json:"node_id"`
	NodeName  string    `gorm:"size:200" json:"node_name"`
	Action    string    `gorm:"size:20;not null" json:"action"`
	CreatedAt time.Time `json:"timestamp"`
}
