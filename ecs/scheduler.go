package ecs

import (
	"github.com/milk9111/sandbox3d/clock"
	"github.com/milk9111/sandbox3d/input"
)

// Frame is the per-frame context handed to every system. It is only valid
// for the duration of one Scheduler.Update call.
type Frame struct {
	Metrics clock.Metrics
	Input   *input.State
}

// Delta returns the clamped frame delta in seconds as float32.
func (f Frame) Delta() float32 {
	return float32(f.Metrics.DeltaSeconds)
}

type System interface {
	Update(w *World, f Frame)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := make([]System, 0, len(systems))
	for _, s := range systems {
		if s != nil {
			copied = append(copied, s)
		}
	}
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World, f Frame) {
	for _, system := range s.systems {
		system.Update(w, f)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
