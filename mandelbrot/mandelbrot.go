// Package mandelbrot counts escape iterations.
package mandelbrot

import (
	"MandelbrotViewer/task"
)

// Bailout is compared against the squared orbit radius.
const Bailout = 4.1

// EscapeTime returns how many iterations the orbit of (x0, y0) takes to leave
// the bailout radius, or task.InSet if it has not left after maxIterations.
func EscapeTime(x0 float64, y0 float64, maxIterations int) int {
	a, b := x0, y0
	count := 0
	for a*a+b*b < Bailout && count <= maxIterations {
		count++
		a, b = a*a-b*b+x0, 2*a*b+y0
	}
	if count > maxIterations {
		return task.InSet
	}
	return count
}

// ComputeRow fills in the iteration counts for every pixel of job.
func ComputeRow(job task.Job) task.JobResult {
	iterations := make([]int, job.Width)
	for column := range iterations {
		x := job.XMin + float64(column)*job.DX
		iterations[column] = EscapeTime(x, job.Y, job.MaxIterations)
	}
	return task.JobResult{
		Generation: job.Generation,
		Row:        job.Row,
		Iterations: iterations,
	}
}
