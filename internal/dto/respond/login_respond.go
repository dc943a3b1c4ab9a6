package respond

// FriendInfo 登录响应中携带的好友快照
type FriendInfo struct {
	Id    int64  `json:"id"`    // 好友id
	Name  string `json:"name"`  // 好友名称
	State string `json:"state"` // 在线状态："online" 或 "offline"
}

// LoginRespond 登录响应
type LoginRespond struct {
	MsgID       int          `json:"msgid"`
	Errno       int          `json:"errno"`
	ErrMsg      string       `json:"errmsg,omitempty"`
	Id          int64        `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	OfflineMsgs []string     `json:"offline_msgs,omitempty"` // 离线消息的原始载荷，按发送顺序
	Friends     []FriendInfo `json:"friends,omitempty"`
}
