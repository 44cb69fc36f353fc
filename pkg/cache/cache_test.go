package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestTimed(t *testing.T) {
	c := NewTimed[[]byte](5 * time.Minute)

	tstart := time.Now()

	c.set("key", []byte("value"), tstart)

	_, ok := c.get("key", tstart.Add(time.Minute))
	if !ok {
		t.Errorf("failed to get key that should not be expired")
	}

	_, ok = c.get("key", tstart.Add(10*time.Minute))
	if ok {
		t.Errorf("succeeded in getting expired key")
	}

	_, ok = c.get("key", tstart.Add(time.Minute))
	if ok {
		t.Errorf("succeeded in getting key that was previously evicted")
	}
}

func TestMemo(t *testing.T) {
	c := NewTimed[int](time.Hour)
	tstart := time.Now()

	calls := 0
	fn := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.memo("2026", fn, tstart.Add(time.Duration(i)*time.Minute))
		if err != nil || got != 42 {
			t.Errorf("got %d, %v, wanted 42", got, err)
		}
	}
	if calls != 1 {
		t.Errorf("computed %d times, wanted once", calls)
	}

	c.memo("2026", fn, tstart.Add(2*time.Hour))
	if calls != 2 {
		t.Errorf("expired key was not recomputed, %d calls", calls)
	}

	c.memo("all", fn, tstart)
	if calls != 3 {
		t.Errorf("distinct key was not computed, %d calls", calls)
	}
}

func TestMemoError(t *testing.T) {
	c := NewTimed[int](time.Hour)
	tstart := time.Now()
	fail := errors.New("tabua.json not found")

	calls := 0
	fn := func() (int, error) {
		calls++
		if calls == 1 {
			return 0, fail
		}
		return 7, nil
	}

	if _, err := c.memo("all", fn, tstart); !errors.Is(err, fail) {
		t.Errorf("got %v, wanted %v", err, fail)
	}
	if got, err := c.memo("all", fn, tstart); err != nil || got != 7 {
		t.Errorf("failure was cached: %d, %v", got, err)
	}
	if calls != 2 {
		t.Errorf("computed %d times, wanted twice", calls)
	}
}

func TestMemoConcurrent(t *testing.T) {
	c := NewTimed[string](time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Memo("key", func() (string, error) { return "value", nil })
			if err != nil || got != "value" {
				t.Errorf("got %q, %v", got, err)
			}
		}()
	}
	wg.Wait()
}
