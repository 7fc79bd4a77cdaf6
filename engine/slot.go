package engine

import (
	"sync/atomic"

	fmtplayground "github.com/wippyai/fmt-playground"
)

// Slot holds the single active engine of a playground session.
//
// Readers take one snapshot with Current at the start of a handler and use
// it throughout; Replace swaps the engine in one atomic step so a reader
// never observes a partially loaded engine.
type Slot struct {
	current atomic.Pointer[holder]
}

type holder struct {
	engine fmtplayground.Engine
}

// NewSlot creates an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Current returns the active engine, or nil before the first load.
func (s *Slot) Current() fmtplayground.Engine {
	h := s.current.Load()
	if h == nil {
		return nil
	}
	return h.engine
}

// Replace installs e as the active engine and returns the engine it replaced.
func (s *Slot) Replace(e fmtplayground.Engine) fmtplayground.Engine {
	prev := s.current.Swap(&holder{engine: e})
	if prev == nil {
		return nil
	}
	return prev.engine
}

// Version returns the active engine's version, or "" when the slot is empty.
func (s *Slot) Version() string {
	if e := s.Current(); e != nil {
		return e.Version()
	}
	return ""
}
