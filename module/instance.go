// Package module is the animation side of the ABI. An Instance owns the
// linear memory and the staging buffer that one host talks through; it
// replaces a process wide static buffer so instances never share state.
package module

import (
	"log"
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/mogaika/figure_anim/abi"
	"github.com/mogaika/figure_anim/anim"
	"github.com/mogaika/figure_anim/staging"
	"github.com/mogaika/figure_anim/utils"
)

// One wasm page
const MEMORY_SIZE = 0x10000

// Fixed for the instance lifetime
const STAGING_BUFFER_PTR = 0x400

var (
	ErrUnknownExport = errors.New("unknown export")
	ErrBusy          = errors.New("instance is already serving a call")
	ErrPoisoned      = errors.New("instance poisoned by earlier failure")
)

type Instance struct {
	memory   []byte
	busy     int32
	poisoned error
}

func NewInstance() *Instance {
	return &Instance{memory: make([]byte, MEMORY_SIZE)}
}

// Memory is the instance linear memory, borrowed by the host between calls
func (inst *Instance) Memory() []byte { return inst.memory }

func (inst *Instance) StagingBufferPtr() uint32 { return STAGING_BUFFER_PTR }

func (inst *Instance) staging() []byte {
	return inst.memory[STAGING_BUFFER_PTR : STAGING_BUFFER_PTR+staging.BUFFER_SIZE]
}

// Exports lists every callable routine name, sorted
func (inst *Instance) Exports() []string {
	names := []string{abi.EXPORT_STAGING_BUFFER_PTR, abi.EXPORT_METADATA}
	for _, e := range anim.Entries() {
		names = append(names, e.Symbol)
	}
	sort.Strings(names)
	return names
}

func (inst *Instance) enter() error {
	if !atomic.CompareAndSwapInt32(&inst.busy, 0, 1) {
		return ErrBusy
	}
	if inst.poisoned != nil {
		atomic.StoreInt32(&inst.busy, 0)
		return errors.Wrapf(ErrPoisoned, "%v", inst.poisoned)
	}
	return nil
}

func (inst *Instance) leave() {
	atomic.StoreInt32(&inst.busy, 0)
}

func (inst *Instance) poison(err error) error {
	inst.poisoned = err
	log.Printf("[module] fatal: %v", err)
	return err
}

// Metadata writes the capability descriptor into the staging buffer
func (inst *Instance) Metadata() (uint32, error) {
	if err := inst.enter(); err != nil {
		return 0, err
	}
	defer inst.leave()

	if _, err := staging.Encode(inst.staging(), anim.BuildMetadata()); err != nil {
		return 0, inst.poison(err)
	}
	return STAGING_BUFFER_PTR, nil
}

// Call runs the routine exported as symbol on the request already present in
// the staging buffer and replaces it with the response
func (inst *Instance) Call(symbol string, animTime float64, rate float32) (uint32, error) {
	entry, ok := anim.Lookup(symbol)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownExport, "%q", symbol)
	}

	if err := inst.enter(); err != nil {
		return 0, err
	}
	defer inst.leave()

	buf := inst.staging()
	req, err := abi.NewPassThrough[float64](entry.Kind)
	if err != nil {
		return 0, inst.poison(err)
	}
	if err := staging.Decode(buf, req); err != nil {
		return 0, inst.poison(errors.Wrapf(err, "%s request [%s]", symbol, utils.DumpToOneLineString(buf, 32)))
	}

	ret, err := entry.Routine(animTime, rate, req)
	if err != nil {
		return 0, inst.poison(errors.Wrapf(err, "%s", symbol))
	}
	if ret.Skeleton == nil || ret.Skeleton.Kind() != entry.Kind {
		return 0, inst.poison(errors.Errorf("%s returned a skeleton of the wrong kind", symbol))
	}

	if _, err := staging.Encode(buf, ret); err != nil {
		return 0, inst.poison(errors.Wrapf(err, "%s response", symbol))
	}
	return STAGING_BUFFER_PTR, nil
}
