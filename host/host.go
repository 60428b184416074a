// Package host drives animation module instances through their narrow ABI.
//
// A Host owns the exclusive right to call into one instance: it loads the
// capability metadata once, resolves animation symbols from it, and exchanges
// one request and one response per call through the instance staging buffer.
// Calls are serialized; separate hosts over separate instances are
// independent.
package host

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mogaika/figure_anim/abi"
	"github.com/mogaika/figure_anim/skeleton"
	"github.com/mogaika/figure_anim/staging"
)

var (
	ErrNoMetadata       = errors.New("metadata was not loaded")
	ErrUnknownAnimation = errors.New("animation is not declared by module metadata")
	ErrBroken           = errors.New("host is broken after a fatal module error")
)

// Exports is the routine surface of one module instance
type Exports interface {
	// Memory in which returned pointers are resolved
	Memory() []byte
	StagingBufferPtr() uint32
	Metadata() (uint32, error)
	Call(symbol string, animTime float64, rate float32) (uint32, error)
}

// Request is the pass-through request of a host call, dependency is global time
type Request = abi.PassThrough[float64]

type Host struct {
	Id uuid.UUID

	mu       sync.Mutex
	exports  Exports
	metadata *abi.Metadata
	broken   error
}

func New(exports Exports) *Host {
	return &Host{Id: uuid.New(), exports: exports}
}

func (h *Host) fail(err error) error {
	h.broken = err
	log.Printf("[host] %v: fatal: %v", h.Id, err)
	return fmt.Errorf("%w: %w", ErrBroken, err)
}

func (h *Host) Broken() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.broken != nil
}

// LoadMetadata queries the capability descriptor. It has to run once before
// any Animate; later calls return the cached value.
func (h *Host) LoadMetadata() (*abi.Metadata, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.broken != nil {
		return nil, errors.Wrapf(ErrBroken, "%v", h.broken)
	}
	if h.metadata != nil {
		return h.metadata, nil
	}

	ptr, err := h.exports.Metadata()
	if err != nil {
		return nil, h.fail(errors.Wrapf(err, "calling %s", abi.EXPORT_METADATA))
	}
	buf, err := staging.View(h.exports.Memory(), ptr)
	if err != nil {
		return nil, h.fail(err)
	}

	var md abi.Metadata
	if err := staging.Decode(buf, &md); err != nil {
		return nil, h.fail(err)
	}
	if md.Version != abi.VERSION {
		log.Printf("[host] %v: module metadata version %d, host built for %d", h.Id, md.Version, abi.VERSION)
	}

	h.metadata = &md
	return h.metadata, nil
}

func (h *Host) Metadata() (*abi.Metadata, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.metadata == nil {
		return nil, ErrNoMetadata
	}
	return h.metadata, nil
}

// Animate runs animation name of kind. The rate argument is authoritative:
// req.Rate is overwritten with it before the request is written.
// The returned skeleton is a copy, it stays valid after the next call.
func (h *Host) Animate(kind skeleton.Kind, name string, animTime float64, rate float32, req *Request) (*abi.AnimReturn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.broken != nil {
		return nil, errors.Wrapf(ErrBroken, "%v", h.broken)
	}
	if h.metadata == nil {
		return nil, ErrNoMetadata
	}
	symbol, ok := h.metadata.Lookup(kind, name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAnimation, "%v %q", kind, name)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Kind() != kind {
		return nil, errors.Wrapf(skeleton.ErrKindMismatch, "request %v for %v animation", req.Kind(), kind)
	}

	in, err := staging.View(h.exports.Memory(), h.exports.StagingBufferPtr())
	if err != nil {
		return nil, h.fail(err)
	}
	req.Rate = rate
	if _, err := staging.Encode(in, req); err != nil {
		return nil, h.fail(err)
	}

	ptr, err := h.exports.Call(symbol, animTime, rate)
	if err != nil {
		return nil, h.fail(errors.Wrapf(err, "calling %s", symbol))
	}

	out, err := staging.View(h.exports.Memory(), ptr)
	if err != nil {
		return nil, h.fail(err)
	}
	ret, err := abi.NewAnimReturn(kind)
	if err != nil {
		return nil, err
	}
	if err := staging.Decode(out, ret); err != nil {
		return nil, h.fail(errors.Wrapf(err, "%s response", symbol))
	}
	return ret, nil
}
