package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatest_SetTake(t *testing.T) {
	l := NewLatest[time.Duration]()
	_, ok := l.Take()
	assert.False(t, ok, "nothing set yet")

	l.Set(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, l.Peek())

	d, ok := l.Take()
	assert.True(t, ok)
	assert.Equal(t, 50*time.Millisecond, d)

	d, ok = l.Take()
	assert.False(t, ok, "a value is taken only once")
	assert.Equal(t, 50*time.Millisecond, d, "the last value stays readable")
}

func TestLatest_CollapsesValues(t *testing.T) {
	l := NewLatest[string]()

	l.Set("a")
	l.Set("b")
	l.Set("c")

	select {
	case <-l.Wake():
	default:
		t.Fatal("should have been woken")
	}
	v, ok := l.Take()
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	select {
	case <-l.Wake():
		t.Fatal("wake ups should have been collapsed")
	default:
	}
}

func TestLatest_TakeClearsWake(t *testing.T) {
	l := NewLatest[int]()
	l.Set(1)

	_, ok := l.Take()
	assert.True(t, ok)
	select {
	case <-l.Wake():
		t.Fatal("Take should consume the pending wake up")
	default:
	}

	l.Set(2)
	<-l.Wake()
	v, ok := l.Take()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLatest_ConcurrentSetters(t *testing.T) {
	l := NewLatest[int]()
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			l.Set(v)
		}(i)
	}
	wg.Wait()

	v, ok := l.Take()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, v, 1)
	assert.LessOrEqual(t, v, 50)
	_, ok = l.Take()
	assert.False(t, ok)
}
