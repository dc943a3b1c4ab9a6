package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cluster_chat_server/internal/config"
	dao "cluster_chat_server/internal/dao/mysql"
	myredis "cluster_chat_server/internal/dao/redis"
	wsgateway "cluster_chat_server/internal/gateway/websocket"
	"cluster_chat_server/internal/https_server"
	"cluster_chat_server/internal/infrastructure/bus"
	"cluster_chat_server/internal/infrastructure/logger"
	"cluster_chat_server/internal/infrastructure/pool"
	"cluster_chat_server/internal/service/chat"
	"cluster_chat_server/internal/transport"
	"cluster_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化雪花算法节点
	snowflake.Init()

	// 4. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 进程崩溃会遗留过期的在线标志，开始接受连接前统一重置
	if err := repos.User.ResetAllPresence(); err != nil {
		zap.L().Fatal("重置在线状态失败", zap.Error(err))
	}

	// 5. 初始化集群总线，不可达时降级为单机模式
	clusterBus := initBus(conf)

	// 6. 初始化聊天服务 (依赖注入)
	chatService := chat.NewChatService(repos, clusterBus)
	if err := clusterBus.Start(); err != nil {
		zap.L().Fatal("启动集群总线失败", zap.Error(err))
	}
	zap.L().Info("聊天服务初始化成功")

	// 7. 初始化事件分发 Worker Pool，传输层事件都在池内执行
	// 以连接 id 为亲和键，同一连接的帧和断连通知按到达顺序串行执行
	dispatchPool := pool.New(conf.PoolConfig.Workers, conf.PoolConfig.BufferSize)
	onFrame := func(conn transport.Conn, data []byte) {
		dispatchPool.Submit(conn.ID(), func() { chatService.Dispatch(conn, data) })
	}
	onClose := func(conn transport.Conn) {
		dispatchPool.Submit(conn.ID(), func() { chatService.HandleDisconnect(conn) })
	}

	// 8. 启动 TCP 长连接服务器
	tcpServer := transport.NewTCPServer(
		fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.TcpPort),
		onFrame, onClose,
	)
	if err := tcpServer.Start(); err != nil {
		zap.L().Fatal("启动 TCP 服务器失败", zap.Error(err))
	}

	// 9. 启动 HTTP 服务器，承载 WebSocket 入口
	gateway := wsgateway.NewGateway(onFrame, onClose)
	engine := https_server.Init(gateway.UpgradeHandler())
	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.HttpPort)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("服务器启动完成")

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待信号
	<-quit

	zap.L().Info("关闭服务器...")
	if err := tcpServer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := clusterBus.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	dispatchPool.Close()
	zap.L().Info("服务器已关闭")
}

// initBus 按配置选择总线实现
// redis 或 kafka 不可达时记录警告并退回空实现，跨节点投递失效但单机功能完整
func initBus(conf *config.Config) bus.ClusterBus {
	switch conf.BusConfig.Mode {
	case "redis":
		if err := myredis.Init(); err != nil {
			zap.L().Warn("Redis 总线不可达，降级为单机模式", zap.Error(err))
			return bus.NoopBus{}
		}
		zap.L().Info("集群总线初始化成功", zap.String("mode", "redis"))
		return bus.NewRedisBus(myredis.GetClient())
	case "kafka":
		zap.L().Info("集群总线初始化成功", zap.String("mode", "kafka"))
		return bus.NewKafkaBus(&conf.BusConfig)
	default:
		zap.L().Info("未配置集群总线，单机模式运行")
		return bus.NoopBus{}
	}
}
