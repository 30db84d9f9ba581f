package background

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAddJobTimeout = errors.New("failed to add new job in time")
	ErrPoolClosed    = errors.New("the pool no longer accepts new jobs")
)

const queueBufferMultiplier = 2

type PoolConfig struct {
	Concurrency   int
	DoJobTimeout  time.Duration
	AddJobTimeout time.Duration
}

type JobFunc func(context.Context) error

type Job struct {
	ID   string
	Name string
	do   JobFunc
}

type JobResult struct {
	Job Job
	Err error
}

func NewJob(name string, jobFunc JobFunc) Job {
	return Job{
		ID:   uuid.New().String(),
		Name: name,
		do:   jobFunc,
	}
}

func (job Job) Do(ctx context.Context) JobResult {
	return JobResult{Job: job, Err: job.do(ctx)}
}

type Pool struct {
	queue  chan Job
	cfg    PoolConfig
	done   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool запускает пул воркеров, разбирающих джобы из общей очереди.
// Результаты исполнения никуда не возвращаются, а лишь протоколируются:
// фоновая работа сервиса не влияет на исход запросов
func NewPool(cfg PoolConfig) *Pool {
	pool := Pool{
		done:  make(chan struct{}),
		cfg:   cfg,
		queue: make(chan Job, cfg.Concurrency*queueBufferMultiplier),
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.cancel = cancel
	pool.wg.Add(cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		go pool.work(ctx)
	}

	return &pool
}

func (pool *Pool) Add(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, pool.cfg.AddJobTimeout)
	defer cancel()
	select {
	case <-pool.done:
		return ErrPoolClosed
	case <-ctx.Done():
		log.Printf("failed to add job %s [%s] due to blocked queue", job.Name, job.ID)
		return ErrAddJobTimeout
	case pool.queue <- job:
		return nil
	}
}

// Close останавливает пул: новые джобы больше не принимаются,
// но уже поставленные в очередь дорабатываются до конца
func (pool *Pool) Close() {
	close(pool.done)
	pool.wg.Wait()
	pool.cancel()
}

func (pool *Pool) work(ctx context.Context) {
	defer pool.wg.Done()
	for {
		select {
		case job := <-pool.queue:
			pool.run(ctx, job)
		case <-pool.done:
			// пул закрывается - разбираем джобы, оставшиеся в очереди
			for {
				select {
				case job := <-pool.queue:
					pool.run(ctx, job)
				default:
					return
				}
			}
		}
	}
}

func (pool *Pool) run(ctx context.Context, job Job) {
	result := pool.doWithTimeout(ctx, job)
	if result.Err != nil {
		log.Printf("job %s [%s] returned an error: %s", job.Name, job.ID, result.Err)
	}
}

func (pool *Pool) doWithTimeout(ctx context.Context, job Job) JobResult {
	ctx, cancel := context.WithTimeout(ctx, pool.cfg.DoJobTimeout)
	defer cancel()
	// хотя мы и передаем контекст с таймаутом, мы не можем гарантировать,
	// что джоба вовремя остановится, поэтому запускаем ее в горутине и сами следим за временем
	resultCh := make(chan JobResult, 1)
	go func() {
		resultCh <- job.Do(ctx)
	}()
	select {
	case <-ctx.Done():
		log.Printf("deadline exceeded for job %s [%s]", job.Name, job.ID)
		return JobResult{Job: job, Err: ctx.Err()}
	case result := <-resultCh:
		return result
	}
}
