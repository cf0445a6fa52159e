package gateway

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	k := newKeyedMutex()
	var wg sync.WaitGroup
	a, b := 0, 0
	counters := map[string]*int{"a": &a, "b": &b}

	for i := 0; i < 50; i++ {
		for key, n := range counters {
			wg.Add(1)
			go func(key string, n *int) {
				defer wg.Done()
				unlock := k.Lock(key)
				defer unlock()
				*n++
			}(key, n)
		}
	}
	wg.Wait()

	if a != 50 || b != 50 {
		t.Errorf("a = %d, b = %d, want 50 each", a, b)
	}
	if k.size() != 0 {
		t.Errorf("entries left behind: %d", k.size())
	}
}
