// Package task holds the unit of dispatched work: one image row tagged with
// the generation that asked for it.
package task

import (
	"fmt"

	"MandelbrotViewer/viewport"
)

// InSet marks a point whose orbit stayed bounded for every allowed iteration.
const InSet = -1

// Generation identifies one computation attempt. Results from any other
// generation than the current one are stale.
type Generation uint64

type Job struct {
	Generation    Generation
	Row           int
	XMin          float64
	DX            float64
	Y             float64
	MaxIterations int
	Width         int
}

func (j Job) String() string {
	output := "{Job "
	output += fmt.Sprintf("Generation: %d ", j.Generation)
	output += fmt.Sprintf("Row: %d ", j.Row)
	output += fmt.Sprintf("Y: %g ", j.Y)
	output += fmt.Sprintf("Width: %d}", j.Width)
	return output
}

type JobResult struct {
	Generation Generation
	Row        int
	Iterations []int

	// Err is set when computing the row failed; Iterations is then nil.
	Err error
}

func (r JobResult) String() string {
	output := "{JobResult "
	output += fmt.Sprintf("Generation: %d ", r.Generation)
	output += fmt.Sprintf("Row: %d ", r.Row)
	output += fmt.Sprintf("Count: %d ", len(r.Iterations))
	output += fmt.Sprintf("Err: %v}", r.Err)
	return output
}

// NewRowJob builds the job for one row of v.
func NewRowJob(generation Generation, v viewport.Viewport, row int, maxIterations int) Job {
	_, y := v.ToPlane(0, float64(row))
	return Job{
		Generation:    generation,
		Row:           row,
		XMin:          v.XMin,
		DX:            v.DX(),
		Y:             y,
		MaxIterations: maxIterations,
		Width:         v.Width,
	}
}

// NewRowJobs builds one job per row, row 0 first.
func NewRowJobs(generation Generation, v viewport.Viewport, maxIterations int) []Job {
	jobs := make([]Job, v.Height)
	for row := range jobs {
		jobs[row] = NewRowJob(generation, v, row, maxIterations)
	}
	return jobs
}
