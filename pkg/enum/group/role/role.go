// Package role 定义群成员角色枚举
package role

// 群成员角色，持久化在 group_member 表的 role 字段
const (
	Normal  int8 = 1 // 普通成员
	Creator int8 = 2 // 群主
)
