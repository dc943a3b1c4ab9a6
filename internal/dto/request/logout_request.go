package request

// LogoutRequest 注销请求
type LogoutRequest struct {
	Id int64 `json:"id"` // 用户id
}
