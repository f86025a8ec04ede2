package dto

// LikeRequest 点赞状态设置请求
type LikeRequest struct {
	Like *bool `json:"like" binding:"required"`
}

// LikeData 点赞操作响应数据
type LikeData struct {
	VideoID int64 `json:"video_id"`
	Liked   bool  `json:"liked"`
	Likes   int64 `json:"likes"`
}
