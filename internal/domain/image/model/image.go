package model

import "time"

// Image 上传的图片，Hash 即对象存储中的 key
type Image struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Hash      string    `gorm:"size:128;not null;uniqueIndex" json:"hash"`
	Width     int       `gorm:"not null" json:"width"`
	Height    int       `gorm:"not null" json:"height"`
	OwnerID   int64     `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	IsDeleted bool      `gorm:"not null;default:false" json:"-"`
}

// PostImage 帖子与图片的关联，Position 保持上传时的顺序
type PostImage struct {
	PostID   int64 `gorm:"primaryKey;autoIncrement:false"`
	ImageID  int64 `gorm:"primaryKey;autoIncrement:false"`
	Position int   `gorm:"not null;default:0"`
}

// UserImage 用户头像关联，最新一条为当前头像
type UserImage struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	ImageID   int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"not null"`
}

// View 对外返回的图片信息
type View struct {
	Hash   string `json:"hash"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
