package request

// LoginRequest 登录请求
type LoginRequest struct {
	Id       int64  `json:"id"`       // 用户id
	Password string `json:"password"` // 明文密码
}
