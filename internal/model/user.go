package model

import "time"

// User 用户模型
type User struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Username        string    `gorm:"size:255;not null;uniqueIndex;comment:用户名" json:"username"`
	Email           string    `gorm:"size:255;not null;uniqueIndex;comment:邮箱" json:"email"`
	Password        string    `gorm:"size:255;not null;comment:密码哈希" json:"-"` // json:"-" 序列化时忽略密码
	FullName        string    `gorm:"size:255;not null;comment:昵称" json:"fullname"`
	Avatar          string    `gorm:"size:500;not null;comment:头像地址" json:"avatar"`
	CoverImage      *string   `gorm:"size:500;comment:主页封面地址" json:"cover_image"`
	SubscriberCount int64     `gorm:"not null;default:0;comment:订阅者数量" json:"subscriber_count"`
	CreatedAt       time.Time `gorm:"autoCreateTime;comment:注册时间" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Videos []Video `gorm:"foreignKey:OwnerID" json:"videos,omitempty"`
}

func (User) TableName() string {
	return "users"
}
