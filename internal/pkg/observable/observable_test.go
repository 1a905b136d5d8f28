package observable

import (
	"sync"
	"testing"
)

func TestCell_SetNotifiesUntilUnsubscribed(t *testing.T) {
	c := NewCell([]string{})

	var got [][]string
	unsub := c.Subscribe(func(v []string) { got = append(got, v) })

	c.Set([]string{"bitcoin"})
	unsub()
	unsub()
	c.Set([]string{"ethereum"})

	if len(got) != 1 || got[0][0] != "bitcoin" {
		t.Fatalf("unexpected notifications: %v", got)
	}
	if v := c.Get(); len(v) != 1 || v[0] != "ethereum" {
		t.Fatalf("Get = %v", v)
	}
}

// Флаг не сбрасывается, пока жив второй держатель
func TestFlag_HoldCounted(t *testing.T) {
	f := NewFlag()

	var seen []bool
	f.Subscribe(func(v bool) { seen = append(seen, v) })

	r1 := f.Hold()
	r2 := f.Hold()
	r1()
	if !f.Get() {
		t.Fatalf("flag dropped while second holder active")
	}
	r1()
	r2()
	if f.Get() {
		t.Fatalf("flag still raised after all releases")
	}
	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("transitions = %v", seen)
	}
}

func TestFlag_ConcurrentHolds(t *testing.T) {
	f := NewFlag()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := f.Hold()
			release()
		}()
	}
	wg.Wait()
	if f.Get() {
		t.Fatalf("flag must be false after all goroutines released")
	}
}
