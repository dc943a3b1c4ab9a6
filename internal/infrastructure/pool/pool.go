// Package pool 实现按键亲和的事件分发 Worker Pool
// 同一个 key（连接 id）的任务固定哈希到同一个 Worker 队列，按提交顺序执行，
// 单连接的帧处理和断连通知因此不会乱序；不同 key 之间并行
package pool

import (
	"hash/fnv"
	"runtime"
	"sync"

	"cluster_chat_server/pkg/constants"

	"go.uber.org/zap"
)

// Pool 固定大小、按键亲和的 Worker Pool
type Pool struct {
	queues []chan func()

	mu     sync.RWMutex
	closed bool
}

// New 创建并启动 Worker Pool
// workerNum: Worker 数量，<=0 时取 CPU 核数
// bufferSize: 每个 Worker 的任务队列缓冲区大小
func New(workerNum int, bufferSize int) *Pool {
	if workerNum <= 0 {
		workerNum = runtime.NumCPU()
	}
	if bufferSize <= 0 {
		bufferSize = constants.POOL_BUFFER_SIZE
	}
	p := &Pool{
		queues: make([]chan func(), workerNum),
	}
	for i := range p.queues {
		q := make(chan func(), bufferSize)
		p.queues[i] = q
		go p.startWorker(q)
	}
	zap.L().Info("dispatch workers started", zap.Int("workers", workerNum), zap.Int("buffer", bufferSize))
	return p
}

// Submit 提交任务
// 同一 key 的任务在同一个 Worker 上按提交顺序执行；队列满时阻塞，
// 对上游读协程形成背压而不是打乱顺序。关闭后的提交被丢弃
func (p *Pool) Submit(key string, action func()) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		zap.L().Warn("dispatch pool closed, task dropped", zap.String("key", key))
		return
	}
	p.queues[p.indexFor(key)] <- action
}

// indexFor key 到 Worker 队列的映射，FNV-1a 哈希取模
func (p *Pool) indexFor(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(p.queues)))
}

// startWorker 单个 Worker 的消费循环，队列关闭后退出
func (p *Pool) startWorker(q chan func()) {
	for action := range q {
		p.run(action)
	}
}

// run 执行单个任务，panic 不影响同队列的后续任务
func (p *Pool) run(action func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("dispatch task panic", zap.Any("recover", r))
		}
	}()
	action()
}

// Close 关闭所有任务队列，已提交的任务执行完后 Worker 自行退出
// 幂等，关闭后 Submit 为空操作
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, q := range p.queues {
		close(q)
	}
}
