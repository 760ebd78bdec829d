package model

import (
	"time"
)

// BaseModel 基础模型，自增主键 + 软删除标记
// 软删除使用显式的 is_deleted 列而不是 gorm.DeletedAt，查询时由调用方带上过滤条件
type BaseModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
	ModifiedAt time.Time `gorm:"autoUpdateTime;not null" json:"modified_at"`
	IsDeleted  bool      `gorm:"not null;default:false;index" json:"-"`
}
