package constants

const (
	POOL_BUFFER_SIZE   = 1024         // 事件分发任务通道默认缓冲区大小
	FRAME_MAX_SIZE     = 65536        // 单条消息帧最大字节数
	WS_BUFFER_SIZE     = 2048         // WebSocket 读写缓冲区大小
	BUS_CHANNEL_PREFIX = "chat:user:" // 集群总线中每用户频道的前缀
)
