package pool

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolExecutesSubmittedTasks(t *testing.T) {
	p := New(4, 16)
	defer p.Close()

	var done int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Submit(fmt.Sprintf("conn-%d", i), func() {
			atomic.AddInt32(&done, 1)
			wg.Done()
		})
	}
	wg.Wait()
	if got := atomic.LoadInt32(&done); got != 100 {
		t.Fatalf("expected 100 tasks executed, got %d", got)
	}
}

func TestPoolSameKeyRunsInSubmitOrder(t *testing.T) {
	p := New(4, 16)
	defer p.Close()

	// 先提交慢任务再提交快任务：同一 key 必须按提交顺序完成
	var mu sync.Mutex
	var order []string
	p.Submit("conn-1", func() {
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		order = append(order, "first")
		mu.Unlock()
	})
	p.Submit("conn-1", func() {
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
	})

	done := make(chan struct{})
	p.Submit("conn-1", func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("same-key tasks completed out of submit order: %v", order)
	}
}

func TestPoolManyFramesOneKeyStayOrdered(t *testing.T) {
	p := New(8, 4)
	defer p.Close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 200; i++ {
		n := i
		p.Submit("conn-1", func() {
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		})
	}
	done := make(chan struct{})
	p.Submit("conn-1", func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, n := range got {
		if n != i {
			t.Fatalf("task %d executed at position %d", n, i)
		}
	}
}

func TestPoolDifferentKeysRunConcurrently(t *testing.T) {
	p := New(4, 4)
	defer p.Close()

	// 找一个与 conn-a 落到不同队列的 key
	other := ""
	for i := 0; i < 100; i++ {
		k := fmt.Sprintf("conn-%d", i)
		if p.indexFor(k) != p.indexFor("conn-a") {
			other = k
			break
		}
	}
	if other == "" {
		t.Fatal("no key hashed to a different queue")
	}

	block := make(chan struct{})
	defer close(block)
	p.Submit("conn-a", func() { <-block })

	ran := make(chan struct{})
	p.Submit(other, func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("a blocked key must not stall other keys")
	}
}

func TestPoolRecoversFromPanic(t *testing.T) {
	p := New(1, 4)
	defer p.Close()

	p.Submit("conn-1", func() { panic("boom") })

	// 同队列的后续任务不受影响
	ran := make(chan struct{})
	p.Submit("conn-1", func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a task panic")
	}
}

func TestPoolSubmitAfterCloseDropped(t *testing.T) {
	p := New(2, 4)
	p.Close()

	// 关闭后提交：丢弃而不是 panic
	ran := make(chan struct{}, 1)
	p.Submit("conn-1", func() { ran <- struct{}{} })
	select {
	case <-ran:
		t.Fatal("task submitted after close must not run")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPoolCloseIsIdempotent(t *testing.T) {
	p := New(2, 4)
	p.Close()
	p.Close()
}
