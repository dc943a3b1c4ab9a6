package request

// CreateGroupRequest 创建群组请求
type CreateGroupRequest struct {
	Id        int64  `json:"id"`        // 创建者id
	GroupName string `json:"groupname"` // 群名称
	GroupDesc string `json:"groupdesc"` // 群描述
}
