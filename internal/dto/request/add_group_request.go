package request

// AddGroupRequest 加入群组请求
type AddGroupRequest struct {
	Id      int64 `json:"id"`      // 用户id
	GroupId int64 `json:"groupid"` // 群组id
}
