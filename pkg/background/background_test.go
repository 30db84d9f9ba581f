package background_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yusukebe/url-shortener/pkg/background"
)

func TestBackgroundJobProcessing(t *testing.T) {
	numbers := make([]int, 0)
	ch := make(chan int, 100)
	pool := background.NewPool(background.PoolConfig{
		Concurrency:   5,
		DoJobTimeout:  time.Millisecond * 500,
		AddJobTimeout: time.Second,
	})
	for i := 1; i < 101; i++ {
		x := i
		// nolint:errcheck
		pool.Add(context.TODO(), background.NewJob("test", func(context.Context) error {
			ch <- x
			return nil
		}))
	}

	go func() {
		<-time.After(time.Millisecond * 50)
		close(ch)
		pool.Close()
	}()

	sum := 0
	for n := range ch {
		numbers = append(numbers, n)
		sum += n
	}
	assert.Len(t, numbers, 100)
	assert.Equal(t, 5050, sum)
}

func TestBackgroundJobTimeout(t *testing.T) {
	done := make(chan struct{})
	pool := background.NewPool(background.PoolConfig{
		Concurrency:   1,
		DoJobTimeout:  time.Millisecond * 10,
		AddJobTimeout: time.Second,
	})
	defer pool.Close()

	// nolint:errcheck
	pool.Add(context.TODO(), background.NewJob("slow", func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job was not canceled in time")
	}
}

func TestQueuedJobsAreFinishedOnClose(t *testing.T) {
	var processed int32
	pool := background.NewPool(background.PoolConfig{
		Concurrency:   1,
		DoJobTimeout:  time.Second,
		AddJobTimeout: time.Second,
	})
	for i := 0; i < 3; i++ {
		// nolint:errcheck
		pool.Add(context.TODO(), background.NewJob("flush", func(context.Context) error {
			time.Sleep(time.Millisecond * 10)
			atomic.AddInt32(&processed, 1)
			return nil
		}))
	}

	// Close возвращается только после того, как воркеры разберут очередь
	pool.Close()
	assert.Equal(t, int32(3), atomic.LoadInt32(&processed))

	err := pool.Add(context.TODO(), background.NewJob("late", func(context.Context) error {
		return nil
	}))
	assert.ErrorIs(t, err, background.ErrPoolClosed)
}
