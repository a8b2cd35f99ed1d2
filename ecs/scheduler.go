package ecs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateSystem   = errors.New("scheduler: duplicate system name")
	ErrUnknownDependency = errors.New("scheduler: unknown dependency")
	ErrDependencyCycle   = errors.New("scheduler: dependency cycle")
)

type scheduledSystem struct {
	name   string
	system System
	after  []string
}

// Scheduler runs named systems once per tick. Systems run in insertion
// order unless an After constraint moves them later.
type Scheduler struct {
	entries []scheduledSystem
	order   []int
	dirty   bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers system under name. It will run after every system listed
// in after; those may be registered later, Resolve checks them.
func (s *Scheduler) Add(name string, system System, after ...string) error {
	if system == nil {
		return fmt.Errorf("scheduler: add %q: nil system", name)
	}
	for _, e := range s.entries {
		if e.name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateSystem, name)
		}
	}
	s.entries = append(s.entries, scheduledSystem{
		name:   name,
		system: system,
		after:  append([]string(nil), after...),
	})
	s.dirty = true
	return nil
}

// Resolve computes the run order. It is stable: among systems whose
// constraints are satisfied, the earliest registered runs first.
func (s *Scheduler) Resolve() error {
	if !s.dirty {
		return nil
	}
	index := make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		index[e.name] = i
	}

	pending := make([]int, len(s.entries))
	dependents := make([][]int, len(s.entries))
	for i, e := range s.entries {
		for _, dep := range e.after {
			j, ok := index[dep]
			if !ok {
				return fmt.Errorf("%w: %q runs after %q", ErrUnknownDependency, e.name, dep)
			}
			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	order := make([]int, 0, len(s.entries))
	done := make([]bool, len(s.entries))
	for len(order) < len(s.entries) {
		next := -1
		for i := range s.entries {
			if !done[i] && pending[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []string
			for i, e := range s.entries {
				if !done[i] {
					stuck = append(stuck, e.name)
				}
			}
			return fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(stuck, ", "))
		}
		done[next] = true
		order = append(order, next)
		for _, d := range dependents[next] {
			pending[d]--
		}
	}

	s.order = order
	s.dirty = false
	return nil
}

// Update runs every system once. Call Resolve after the last Add; a
// scheduler that cannot resolve panics here.
func (s *Scheduler) Update(w *World) {
	if s.dirty {
		if err := s.Resolve(); err != nil {
			panic(err)
		}
	}
	for _, i := range s.order {
		s.entries[i].system.Update(w)
	}
}

// Order returns system names in run order.
func (s *Scheduler) Order() ([]string, error) {
	if err := s.Resolve(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.order))
	for _, i := range s.order {
		names = append(names, s.entries[i].name)
	}
	return names, nil
}

// Systems returns systems in run order.
func (s *Scheduler) Systems() []System {
	if err := s.Resolve(); err != nil {
		return nil
	}
	systems := make([]System, 0, len(s.order))
	for _, i := range s.order {
		systems = append(systems, s.entries[i].system)
	}
	return systems
}
