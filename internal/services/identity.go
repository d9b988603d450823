package services

// GuestUserID 未登录用户的占位 ID
const GuestUserID = "guest"

// Identity 经 OAuth 认证后的操作者身份，由上层传入
type Identity struct {
	UserID   string
	Nickname string
}

// IsGuest reports whether the identity is the unauthenticated sentinel.
func (i Identity) IsGuest() bool {
	return i.UserID == "" || i.UserID == GuestUserID
}
