package engine

import (
	"fmt"
	"image"

	"MandelbrotViewer/task"
	"MandelbrotViewer/viewport"
)

const (
	Ready State = iota
	Working
	OutOfMemory
)

type State int

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Working:
		return "Working"
	case OutOfMemory:
		return "OutOfMemory"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const (
	// StatusChanged is sent on every generation start and stop and on every
	// state transition.
	StatusChanged EventKind = iota
	// LimitsChanged carries the previous and the new displayed region.
	LimitsChanged
	// Redraw names the part of the image that changed since the last one.
	Redraw
	// Failure reports a problem the engine recovered from.
	Failure
)

type EventKind int

func (k EventKind) String() string {
	return []string{
		"StatusChanged", "LimitsChanged", "Redraw", "Failure",
	}[k]
}

type Event struct {
	Kind       EventKind
	Status     State
	Generation task.Generation
	Old        viewport.Region
	New        viewport.Region
	Rect       image.Rectangle
	Err        error
}

func (e Event) String() string {
	switch e.Kind {
	case StatusChanged:
		return fmt.Sprintf("{Event %s %s generation %d}", e.Kind, e.Status, e.Generation)
	case LimitsChanged:
		return fmt.Sprintf("{Event %s %s -> %s}", e.Kind, e.Old, e.New)
	case Redraw:
		return fmt.Sprintf("{Event %s %s}", e.Kind, e.Rect)
	}
	return fmt.Sprintf("{Event %s %v}", e.Kind, e.Err)
}

// Observer receives engine events. It runs on the engine goroutine and must
// not call back into the Engine.
type Observer func(Event)

type Stats struct {
	Generation    task.Generation
	Applied       uint64
	Discarded     uint64
	Retried       uint64
	FailedRows    uint64
	Purged        uint64
	Reallocations uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("Generation: %d [Applied: %d] [Discarded: %d] [Retried: %d] [Failed: %d] [Purged: %d] [Reallocations: %d]",
		s.Generation, s.Applied, s.Discarded, s.Retried, s.FailedRows, s.Purged, s.Reallocations)
}
