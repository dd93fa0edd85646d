package middleware

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis answers INCR, TTL and EXPIRE in memory through client hooks, so
// no connection is ever dialed.
type fakeRedis struct {
	mu         sync.Mutex
	counts     map[string]int64
	expiring   map[string]time.Duration
	failExpire int
}

func newFakeRedisClient() (*redis.Client, *fakeRedis) {
	fake := &fakeRedis{
		counts:   make(map[string]int64),
		expiring: make(map[string]time.Duration),
	}
	client := redis.NewClient(&redis.Options{Addr: "fake:6379"})
	client.AddHook(fake)
	return client, fake
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("fake redis does not dial")
	}
}

func (f *fakeRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		return f.apply(cmd)
	}
}

func (f *fakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			if err := f.apply(cmd); err != nil {
				return err
			}
		}
		return nil
	}
}

func (f *fakeRedis) apply(cmd redis.Cmder) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := fmt.Sprint(cmd.Args()[1])
	switch cmd.Name() {
	case "incr":
		f.counts[key]++
		cmd.(*redis.IntCmd).SetVal(f.counts[key])
	case "ttl":
		ttl, ok := f.expiring[key]
		if !ok {
			ttl = -1
		}
		cmd.(*redis.DurationCmd).SetVal(ttl)
	case "expire":
		if f.failExpire > 0 {
			f.failExpire--
			err := errors.New("i/o timeout")
			cmd.SetErr(err)
			return err
		}
		f.expiring[key] = time.Minute
		cmd.(*redis.BoolCmd).SetVal(true)
	default:
		err := fmt.Errorf("unexpected command %q", cmd.Name())
		cmd.SetErr(err)
		return err
	}
	return nil
}

func (f *fakeRedis) hasExpiry(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.expiring[key]
	return ok
}
