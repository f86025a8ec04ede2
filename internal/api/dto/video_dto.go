package dto

import "time"

// VideoUploadRequest 视频上传请求（multipart/form-data，视频和缩略图走文件字段）
type VideoUploadRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=200"`
	Description string `form:"description" binding:"omitempty"`
	IsPublished *bool  `form:"isPublished" binding:"omitempty"`
}

// OwnerBrief 视频中嵌套的作者简要信息
type OwnerBrief struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"fullname"`
	Avatar          string `json:"avatar"`
	SubscriberCount int64  `json:"subscriber_count"`
}

// VideoInfo 视频详情
type VideoInfo struct {
	ID           int64       `json:"id"`
	OwnerID      int64       `json:"owner_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	VideoURL     string      `json:"video_url"`
	ThumbnailURL string      `json:"thumbnail_url"`
	Duration     int         `json:"duration"`
	IsPublished  bool        `json:"is_published"`
	Views        int64       `json:"views"`
	Likes        int64       `json:"likes"`
	CreatedAt    time.Time   `json:"created_at"`
	Owner        *OwnerBrief `json:"owner,omitempty"`
	IsLiked      *bool       `json:"is_liked,omitempty"`
	IsSubscribed *bool       `json:"is_subscribed,omitempty"`
}

// VideoListData 视频列表响应数据
type VideoListData struct {
	Videos     []VideoInfo `json:"videos"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}
