package request

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name"`     // 显示名称
	Password string `json:"password"` // 明文密码
}
