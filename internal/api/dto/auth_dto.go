package dto

// RegisterRequest 注册请求（multipart/form-data，头像和封面走文件字段）
type RegisterRequest struct {
	Username string `form:"username" binding:"required,min=1,max=255"`
	Email    string `form:"email" binding:"required,email,max=255"`
	FullName string `form:"fullname" binding:"required,min=1,max=255"`
	Password string `form:"password" binding:"required,min=6,max=255"`
}

// LoginRequest 登录请求，email 和 username 至少填一个
type LoginRequest struct {
	Email    string `json:"email" binding:"omitempty,max=255"`
	Username string `json:"username" binding:"omitempty,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

// RefreshTokenRequest 刷新令牌请求，Cookie 缺失时可从 Body 携带
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"omitempty"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required,min=6,max=255"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=255"`
}

// TokenData 登录/刷新成功返回的令牌信息
type TokenData struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         UserInfo `json:"user"`
}

// UserInfo 用户公开信息（不含密码）
type UserInfo struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	FullName        string  `json:"fullname"`
	Avatar          string  `json:"avatar"`
	CoverImage      *string `json:"cover_image"`
	SubscriberCount int64   `json:"subscriber_count"`
}
