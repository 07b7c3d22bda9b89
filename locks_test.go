package quickdb

import (
	"sync"
	"testing"
)

func TestLockTableSerializesPerKey(t *testing.T) {
	table := newLockTable()

	var n int
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := table.acquire("k")
			n++ // would race without the lock
			release()
		}()
	}
	wg.Wait()

	if n != 100 {
		t.Fatalf("expected 100 increments, got %d", n)
	}
}

func TestLockTableDropsIdleEntries(t *testing.T) {
	table := newLockTable()

	release := table.acquire("a")
	if len(table.locks) != 1 {
		t.Fatalf("expected 1 live entry, got %d", len(table.locks))
	}
	release()
	if len(table.locks) != 0 {
		t.Fatalf("expected entry to be dropped after release, got %d", len(table.locks))
	}
}

func TestLockTableIndependentKeys(t *testing.T) {
	table := newLockTable()

	releaseA := table.acquire("a")
	done := make(chan struct{})
	go func() {
		releaseB := table.acquire("b")
		releaseB()
		close(done)
	}()
	<-done // must not block while "a" is held
	releaseA()
}
