package request

// AddFriendRequest 添加好友请求
type AddFriendRequest struct {
	Id       int64 `json:"id"`       // 用户id
	FriendId int64 `json:"friendid"` // 好友id
}
