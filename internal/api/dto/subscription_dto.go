package dto

// SubscribeRequest 订阅请求
type SubscribeRequest struct {
	ChannelID int64 `json:"channel_id" binding:"required,gt=0"`
}

// SubscriptionStatusData 订阅状态响应数据
type SubscriptionStatusData struct {
	ChannelID    int64 `json:"channel_id"`
	IsSubscribed bool  `json:"is_subscribed"`
}

// SubscriptionTotalData 订阅总数响应数据
type SubscriptionTotalData struct {
	ChannelID       int64 `json:"channel_id"`
	SubscriberCount int64 `json:"subscriber_count"`
}
