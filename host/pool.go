package host

import (
	"context"
	"log"

	"github.com/pkg/errors"
)

// Pool hands out hosts over independent instances, one caller per host at a time
type Pool struct {
	factory func() Exports
	free    chan *Host
}

func NewPool(size int, factory func() Exports) (*Pool, error) {
	if size < 1 {
		return nil, errors.Errorf("pool size %d", size)
	}
	p := &Pool{factory: factory, free: make(chan *Host, size)}
	for i := 0; i < size; i++ {
		h, err := p.spawn()
		if err != nil {
			return nil, err
		}
		p.free <- h
	}
	return p, nil
}

func (p *Pool) spawn() (*Host, error) {
	h := New(p.factory())
	if _, err := h.LoadMetadata(); err != nil {
		return nil, errors.Wrapf(err, "loading metadata of %v", h.Id)
	}
	return h, nil
}

func (p *Pool) Acquire(ctx context.Context) (*Host, error) {
	select {
	case h := <-p.free:
		return h, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns h; a broken host is dropped and replaced by a fresh instance
func (p *Pool) Release(h *Host) {
	if h.Broken() {
		fresh, err := p.spawn()
		if err != nil {
			log.Printf("[host] replacing broken %v failed: %v", h.Id, err)
			fresh = h
		} else {
			log.Printf("[host] replaced broken %v with %v", h.Id, fresh.Id)
		}
		h = fresh
	}
	p.free <- h
}

// Do runs fn with an acquired host
func (p *Pool) Do(ctx context.Context, fn func(h *Host) error) error {
	h, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(h)
	return fn(h)
}
