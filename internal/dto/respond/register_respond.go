package respond

// RegisterRespond 注册响应
// 成功时 Id 为新分配的用户 id
type RegisterRespond struct {
	MsgID  int    `json:"msgid"`
	Errno  int    `json:"errno"`
	ErrMsg string `json:"errmsg,omitempty"`
	Id     int64  `json:"id,omitempty"`
}
