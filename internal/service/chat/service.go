// service.go
// 核心职责：聊天业务编排
// 实现全部协议 handler（登录、注册、注销、单聊、好友、群组、群聊）、
// 断连清理和总线入站投递，通过四个网关完成实际工作：
// 会话注册表（本进程）、目录存储（MySQL）、离线队列（MySQL）、集群总线（Redis/Kafka）
package chat

import (
	"context"
	"encoding/json"

	"cluster_chat_server/internal/dao/mysql/repository"
	"cluster_chat_server/internal/dto/request"
	"cluster_chat_server/internal/dto/respond"
	"cluster_chat_server/internal/infrastructure/bus"
	"cluster_chat_server/internal/model"
	"cluster_chat_server/internal/protocol"
	"cluster_chat_server/internal/transport"
	"cluster_chat_server/pkg/enum/group/role"
	"cluster_chat_server/pkg/enum/presence"
	"cluster_chat_server/pkg/errorx"
	"cluster_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// ChatService 聊天服务编排结构
// 依赖通过构造函数注入，不使用进程级单例
type ChatService struct {
	repos    *repository.Repositories
	bus      bus.ClusterBus
	registry *Registry
	handlers map[int]HandlerFunc
}

// NewChatService 创建聊天服务
// 构造时建好分发表并注册总线投递回调
func NewChatService(repos *repository.Repositories, clusterBus bus.ClusterBus) *ChatService {
	s := &ChatService{
		repos:    repos,
		bus:      clusterBus,
		registry: NewRegistry(),
	}
	// 用户基本业务
	s.handlers = map[int]HandlerFunc{
		protocol.LoginMsg:     s.handleLogin,
		protocol.LogoutMsg:    s.handleLogout,
		protocol.RegMsg:       s.handleRegister,
		protocol.OneChatMsg:   s.handleOneChat,
		protocol.AddFriendMsg: s.handleAddFriend,
		// 群组业务
		protocol.CreateGroupMsg: s.handleCreateGroup,
		protocol.AddGroupMsg:    s.handleAddGroup,
		protocol.GroupChatMsg:   s.handleGroupChat,
	}
	// 总线送达本节点订阅用户的消息，重新进入本服务投递
	clusterBus.OnDelivery(s.handleBusDelivery)
	return s
}

// Registry 返回会话注册表
func (s *ChatService) Registry() *Registry {
	return s.registry
}

// ==================== 登录 / 注册 / 注销 ====================

// handleLogin 处理登录业务
// 校验顺序：用户存在 -> 密码 -> 在线标志；通过后登记会话、订阅总线、
// 置在线标志、取离线消息、带好友快照，每个分支恰好回一条响应
func (s *ChatService) handleLogin(conn transport.Conn, env *protocol.Envelope) {
	var req request.LoginRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil {
		zap.L().Error("登录请求解析失败", zap.Error(err))
		return
	}

	rsp := respond.LoginRespond{MsgID: protocol.LoginMsgAck}

	user, err := s.repos.User.FindById(req.Id)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			rsp.Errno = protocol.ErrnoUserNotFound
			rsp.ErrMsg = "User not found"
		} else {
			// 目录存储不可达与"不存在"区分上报
			zap.L().Error("查询用户失败", zap.Int64("id", req.Id), zap.Error(err))
			rsp.Errno = protocol.ErrnoServerBusy
			rsp.ErrMsg = "Server busy"
		}
		s.reply(conn, &rsp)
		return
	}

	if !user.CheckPassword(req.Password) {
		rsp.Errno = protocol.ErrnoBadPassword
		rsp.ErrMsg = "Password error"
		s.reply(conn, &rsp)
		return
	}

	// 在线标志已置位说明集群中某节点持有该用户的会话，拒绝二次登录
	if user.IsOnline() {
		rsp.Errno = protocol.ErrnoAlreadyOnline
		rsp.ErrMsg = "User already online"
		s.reply(conn, &rsp)
		return
	}

	// 登记本地会话，并在总线上订阅该用户，使发往他的集群消息到达本节点
	s.registry.Put(req.Id, conn)
	if err := s.bus.Subscribe(req.Id); err != nil {
		zap.L().Warn("总线订阅失败，跨节点投递对该用户失效", zap.Int64("id", req.Id), zap.Error(err))
	}
	if err := s.repos.User.UpdatePresence(req.Id, presence.Online); err != nil {
		zap.L().Error("置在线标志失败", zap.Int64("id", req.Id), zap.Error(err))
	}

	rsp.Errno = protocol.ErrnoSuccess
	rsp.Id = user.UserID()
	rsp.Name = user.Name

	// 取离线消息，取出即删除
	msgs, err := s.repos.OfflineMessage.DrainByUserId(req.Id)
	if err != nil {
		zap.L().Error("取离线消息失败", zap.Int64("id", req.Id), zap.Error(err))
	}
	for _, m := range msgs {
		rsp.OfflineMsgs = append(rsp.OfflineMsgs, m.Payload)
	}

	// 好友快照：id、名称、当前在线状态
	friends, err := s.repos.Friend.FindFriendsOf(req.Id)
	if err != nil {
		zap.L().Error("查询好友列表失败", zap.Int64("id", req.Id), zap.Error(err))
	}
	for _, f := range friends {
		rsp.Friends = append(rsp.Friends, respond.FriendInfo{
			Id:    f.UserID(),
			Name:  f.Name,
			State: presence.Label(f.Status),
		})
	}

	s.reply(conn, &rsp)
}

// handleRegister 处理注册业务
// 目录存储分配 id；存储失败回通用失败，不带 id
func (s *ChatService) handleRegister(conn transport.Conn, env *protocol.Envelope) {
	var req request.RegisterRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil {
		zap.L().Error("注册请求解析失败", zap.Error(err))
		return
	}

	rsp := respond.RegisterRespond{MsgID: protocol.RegMsgAck}

	user := &model.UserInfo{
		Name:        req.Name,
		RawPassword: req.Password,
	}
	if err := s.repos.User.Create(user); err != nil {
		zap.L().Error("创建用户失败", zap.String("name", req.Name), zap.Error(err))
		rsp.Errno = protocol.ErrnoUserNotFound
		s.reply(conn, &rsp)
		return
	}

	rsp.Errno = protocol.ErrnoSuccess
	rsp.Id = user.UserID()
	s.reply(conn, &rsp)
}

// handleLogout 处理注销业务
// 与异常断连清理收敛到同样的效果：注销会话、退订总线、置离线标志
func (s *ChatService) handleLogout(conn transport.Conn, env *protocol.Envelope) {
	var req request.LogoutRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil {
		zap.L().Error("注销请求解析失败", zap.Error(err))
		return
	}
	s.cleanup(req.Id)
}

// HandleDisconnect 处理异常断连
// 断连通知只携带连接句柄，反查注册表得到用户 id；句柄未登记时为空操作，
// 保证与正常注销竞争时清理只生效一次
func (s *ChatService) HandleDisconnect(conn transport.Conn) {
	userId, ok := s.registry.RemoveByConn(conn)
	if !ok {
		return
	}
	zap.L().Info("连接断开，清理会话", zap.Int64("id", userId), zap.String("conn", conn.ID()))
	if err := s.bus.Unsubscribe(userId); err != nil {
		zap.L().Warn("总线退订失败", zap.Int64("id", userId), zap.Error(err))
	}
	if err := s.repos.User.UpdatePresence(userId, presence.Offline); err != nil {
		zap.L().Error("置离线标志失败", zap.Int64("id", userId), zap.Error(err))
	}
}

// cleanup 注销路径的会话清理，重复调用为空操作
func (s *ChatService) cleanup(userId int64) {
	s.registry.Remove(userId)
	if err := s.bus.Unsubscribe(userId); err != nil {
		zap.L().Warn("总线退订失败", zap.Int64("id", userId), zap.Error(err))
	}
	if err := s.repos.User.UpdatePresence(userId, presence.Offline); err != nil {
		zap.L().Error("置离线标志失败", zap.Int64("id", userId), zap.Error(err))
	}
}

// ==================== 消息投递 ====================

// handleOneChat 单聊业务
// 原始文档原样转发，路由决策见 deliver
func (s *ChatService) handleOneChat(conn transport.Conn, env *protocol.Envelope) {
	var req request.OneChatRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil {
		zap.L().Error("单聊请求解析失败", zap.Error(err))
		return
	}
	s.deliver(req.To, env.Raw)
}

// handleGroupChat 群聊业务
// 解出成员列表后对每个成员独立执行三级投递，发送者自己除外；
// 各成员之间无原子性，部分失败只影响对应成员
func (s *ChatService) handleGroupChat(conn transport.Conn, env *protocol.Envelope) {
	var req request.GroupChatRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil {
		zap.L().Error("群聊请求解析失败", zap.Error(err))
		return
	}

	memberIds, err := s.repos.GroupMember.FindMemberIds(req.GroupId)
	if err != nil {
		zap.L().Error("查询群成员失败", zap.Int64("group", req.GroupId), zap.Error(err))
		return
	}

	for _, memberId := range memberIds {
		if memberId == req.Id {
			continue // 不回显给发送者
		}
		s.deliver(memberId, env.Raw)
	}
}

// deliver 对单个接收者执行三级投递，依次尝试：
//  1. 本地会话：注册表命中，直接从本连接发出
//  2. 集群总线：在线标志置位说明会话在其他节点，发布到总线
//  3. 离线队列：入库等接收者下次登录时取走
//
// 每级成本升高、确定性降低，顺序不可调换
func (s *ChatService) deliver(to int64, payload []byte) {
	if c, ok := s.registry.Find(to); ok {
		if err := c.Send(payload); err == nil {
			return
		}
		// 查到句柄但发送失败，说明连接正在关闭，转存离线而不是丢弃
		zap.L().Warn("本地投递失败，转存离线", zap.Int64("to", to))
		s.enqueueOffline(to, payload)
		return
	}

	user, err := s.repos.User.FindById(to)
	if err != nil {
		if errorx.GetCode(err) != errorx.CodeNotFound {
			zap.L().Error("查询接收者失败", zap.Int64("to", to), zap.Error(err))
		}
	} else if user.IsOnline() {
		if err := s.bus.Publish(context.Background(), to, payload); err == nil {
			return
		}
		zap.L().Error("总线发布失败，转存离线", zap.Int64("to", to))
	}

	s.enqueueOffline(to, payload)
}

// handleBusDelivery 总线入站投递
// 集群消息的再入口，不经过协议分发表；接收者可能在发布和送达之间断开，
// 此时转存离线队列而不是丢弃
func (s *ChatService) handleBusDelivery(userId int64, payload []byte) {
	if c, ok := s.registry.Find(userId); ok {
		if err := c.Send(payload); err == nil {
			return
		}
		zap.L().Warn("总线消息本地投递失败，转存离线", zap.Int64("to", userId))
	}
	s.enqueueOffline(userId, payload)
}

// enqueueOffline 消息入离线队列
func (s *ChatService) enqueueOffline(userId int64, payload []byte) {
	msg := &model.OfflineMessage{
		Uuid:    snowflake.GenerateID(),
		UserId:  userId,
		Payload: string(payload),
	}
	if err := s.repos.OfflineMessage.Create(msg); err != nil {
		zap.L().Error("存储离线消息失败", zap.Int64("to", userId), zap.Error(err))
	}
}

// ==================== 好友 / 群组 ====================

// handleAddFriend 添加好友业务，不回响应
func (s *ChatService) handleAddFriend(conn transport.Conn, env *protocol.Envelope) {
	var req request.AddFriendRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil {
		zap.L().Error("添加好友请求解析失败", zap.Error(err))
		return
	}
	if err := s.repos.Friend.Create(req.Id, req.FriendId); err != nil {
		zap.L().Error("添加好友失败", zap.Int64("user", req.Id), zap.Int64("friend", req.FriendId), zap.Error(err))
	}
}

// handleCreateGroup 创建群组业务
// 群组入库后把创建者以群主角色加入，不回响应
func (s *ChatService) handleCreateGroup(conn transport.Conn, env *protocol.Envelope) {
	var req request.CreateGroupRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil {
		zap.L().Error("创建群组请求解析失败", zap.Error(err))
		return
	}

	group := &model.GroupInfo{
		Name: req.GroupName,
		Desc: req.GroupDesc,
	}
	if err := s.repos.Group.Create(group); err != nil {
		zap.L().Error("创建群组失败", zap.String("name", req.GroupName), zap.Error(err))
		return
	}
	member := &model.GroupMember{
		GroupId: group.GroupID(),
		UserId:  req.Id,
		Role:    role.Creator,
	}
	if err := s.repos.GroupMember.Create(member); err != nil {
		zap.L().Error("登记群主失败", zap.Int64("group", group.GroupID()), zap.Error(err))
	}
}

// handleAddGroup 加入群组业务，普通成员角色，不回响应
// 群组不存在时拒绝，避免产生悬空成员行
func (s *ChatService) handleAddGroup(conn transport.Conn, env *protocol.Envelope) {
	var req request.AddGroupRequest
	if err := json.Unmarshal(env.Raw, &req); err != nil {
		zap.L().Error("加入群组请求解析失败", zap.Error(err))
		return
	}
	if _, err := s.repos.Group.FindById(req.GroupId); err != nil {
		zap.L().Error("加入群组失败，群组不存在", zap.Int64("group", req.GroupId), zap.Int64("user", req.Id), zap.Error(err))
		return
	}
	member := &model.GroupMember{
		GroupId: req.GroupId,
		UserId:  req.Id,
		Role:    role.Normal,
	}
	if err := s.repos.GroupMember.Create(member); err != nil {
		zap.L().Error("加入群组失败", zap.Int64("group", req.GroupId), zap.Int64("user", req.Id), zap.Error(err))
	}
}

// ==================== 辅助 ====================

// reply 序列化响应文档并回写到请求连接
func (s *ChatService) reply(conn transport.Conn, rsp any) {
	data, err := json.Marshal(rsp)
	if err != nil {
		zap.L().Error("响应序列化失败", zap.Error(err))
		return
	}
	if err := conn.Send(data); err != nil {
		zap.L().Warn("响应发送失败", zap.String("conn", conn.ID()), zap.Error(err))
	}
}
