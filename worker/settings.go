package worker

import (
	"fmt"
	"runtime"
	"time"

	"MandelbrotViewer/mandelbrot"
	"MandelbrotViewer/task"
)

// ComputeFunc turns one job into its result. It must not touch shared state.
type ComputeFunc func(task.Job) task.JobResult

type Settings struct {
	// Compute defaults to mandelbrot.ComputeRow.
	Compute     ComputeFunc
	HeartBeat   time.Duration
	Name        string
	WorkerCount int
}

func (s *Settings) String() string {
	output := "\nWorker pool settings\n"
	output += fmt.Sprintf("Name: %s\n", s.Name)
	output += fmt.Sprintf("Worker Count: %d\n", s.WorkerCount)
	output += fmt.Sprintf("Heart Beat: %s\n", s.HeartBeat)
	return output
}

func (s *Settings) Verify() error {
	if s.Compute == nil {
		s.Compute = mandelbrot.ComputeRow
	}
	if s.HeartBeat <= 0 {
		s.HeartBeat = 30 * time.Second
	}
	if s.Name == "" {
		s.Name = "WorkerPool"
	}
	if s.WorkerCount <= 0 {
		s.WorkerCount = runtime.NumCPU()
	}
	return nil
}
