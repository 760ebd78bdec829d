package model

import (
	"time"

	baseModel "social_feed/pkg/model"
)

// Post 帖子
type Post struct {
	baseModel.BaseModel
	Title    string `gorm:"size:256" json:"title"`
	Text     string `json:"text"`
	AuthorID int64  `gorm:"not null;index" json:"author_id"`
}

// Like 点赞，(post_id, user_id) 联合主键保证每人每帖至多一条
type Like struct {
	PostID    int64     `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	UserID    int64     `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// Comment 评论
type Comment struct {
	baseModel.BaseModel
	PostID   int64  `gorm:"not null;index" json:"post_id"`
	AuthorID int64  `gorm:"not null;index" json:"author_id"`
	Text     string `gorm:"not null" json:"text"`
}
