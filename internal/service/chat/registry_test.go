package chat

import (
	"fmt"
	"sync"
	"testing"
)

type fakeConn struct {
	id string
}

func (c *fakeConn) ID() string          { return c.id }
func (c *fakeConn) Send(p []byte) error { return nil }
func (c *fakeConn) Close() error        { return nil }

func TestRegistryPutFindRemove(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Find(1); ok {
		t.Fatal("empty registry must not find anything")
	}

	c1 := &fakeConn{id: "c1"}
	r.Put(1, c1)
	if c, ok := r.Find(1); !ok || c.ID() != "c1" {
		t.Fatal("put then find must return the same conn")
	}

	r.Remove(1)
	if _, ok := r.Find(1); ok {
		t.Fatal("removed entry must not be found")
	}
	// 删除不存在的表项为空操作
	r.Remove(1)
}

func TestRegistryRemoveByConn(t *testing.T) {
	r := NewRegistry()
	c1, c2 := &fakeConn{id: "c1"}, &fakeConn{id: "c2"}
	r.Put(1, c1)
	r.Put(2, c2)

	userId, ok := r.RemoveByConn(c1)
	if !ok || userId != 1 {
		t.Fatalf("expected to remove user 1, got %d %v", userId, ok)
	}
	if _, ok := r.Find(1); ok {
		t.Fatal("entry must be gone after RemoveByConn")
	}
	if _, ok := r.Find(2); !ok {
		t.Fatal("unrelated entry must survive")
	}

	// 句柄已不在表中：无事发生
	if _, ok := r.RemoveByConn(c1); ok {
		t.Fatal("second RemoveByConn must be a no-op")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := int64(n % 8)
			c := &fakeConn{id: fmt.Sprintf("c%d", n)}
			r.Put(id, c)
			r.Find(id)
			if n%2 == 0 {
				r.Remove(id)
			} else {
				r.RemoveByConn(c)
			}
		}(i)
	}
	wg.Wait()
}
