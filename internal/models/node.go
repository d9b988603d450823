package models

import (
	"time"
)

// Node 一个角色形态节点
// source/related/tags 的语义由前端定义，后端按原样保存
type Node struct {
	ID           uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Introduction string    `gorm:"type:text" json:"introduction"`
	Image        string    `json:"image"` // /images/<uuid>.<ext>，空串表示无图
	Source       RawList   `gorm:"type:text" json:"source"`
	Related      RawList   `gorm:"type:text" json:"related"`
	Tags         RawList   `gorm:"type:text" json:"tags"`
	Extension    IDList    `gorm:"type:text" json:"extension"` // 子形态节点 ID 列表
	X            float64   `gorm:"default:0" json:"x"`
	Y            float64   `gorm:"default:0" json:"y"`
	IsFamous     bool      `gorm:"default:false" json:"is_famous"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RootNodeID 根节点 ID，其他节点存在时受删除保护
const RootNodeID uint = 1
