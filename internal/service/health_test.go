package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Harry9021/kata-sweet-shop/internal/testutil"
)

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (p *fakePinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *fakePinger) set(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type recordingSink struct {
	mu    sync.Mutex
	calls []bool
}

func (s *recordingSink) SetServing(serving bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, serving)
}

func (s *recordingSink) last() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return false, false
	}
	return s.calls[len(s.calls)-1], true
}

func TestHealth_Check(t *testing.T) {
	db := &fakePinger{}
	sink := &recordingSink{}
	h := NewHealth(db, time.Minute, testutil.MakeNoopLogger(), sink)

	assert.True(t, h.Check(context.Background()))
	assert.True(t, h.Healthy())

	db.set(errors.New("down"))
	assert.False(t, h.Check(context.Background()))
	assert.False(t, h.Healthy())
	assert.Equal(t, []bool{true, false}, sink.calls)
}

func TestHealth_Run(t *testing.T) {
	db := &fakePinger{err: errors.New("starting")}
	sink := &recordingSink{}
	h := NewHealth(db, 10*time.Millisecond, testutil.MakeNoopLogger(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	assert.Eventually(t, func() bool {
		v, ok := sink.last()
		return ok && !v
	}, time.Second, 5*time.Millisecond)

	db.set(nil)
	assert.Eventually(t, h.Healthy, time.Second, 5*time.Millisecond)
}
