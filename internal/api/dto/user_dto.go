package dto

import "time"

// UpdateAccountRequest 账户信息更新请求
type UpdateAccountRequest struct {
	FullName *string `json:"fullname" binding:"omitempty,min=1,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
}

// ChannelProfile 频道主页信息
type ChannelProfile struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	FullName        string  `json:"fullname"`
	Avatar          string  `json:"avatar"`
	CoverImage      *string `json:"cover_image"`
	SubscriberCount int64   `json:"subscriber_count"`
	SubscribedTo    int64   `json:"subscribed_to_count"`
	IsSubscribed    bool    `json:"is_subscribed"`
}

// WatchHistoryEntry 观看历史条目
type WatchHistoryEntry struct {
	ID        int64     `json:"id"`
	WatchedAt time.Time `json:"watched_at"`
	Video     VideoInfo `json:"video"`
}

// WatchHistoryData 观看历史列表响应数据
type WatchHistoryData struct {
	Entries  []WatchHistoryEntry `json:"entries"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}
