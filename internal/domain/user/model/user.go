package model

import (
	baseModel "social_feed/pkg/model"
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	Login    string  `gorm:"size:256;not null;uniqueIndex" json:"login"`
	Password string  `gorm:"not null" json:"-"` // bcrypt 哈希，不返回给前端
	Name     string  `gorm:"size:256;not null" json:"name"`
	About    *string `json:"about"`
}
