// Package viewer exposes an engine to remote shells over net/rpc.
package viewer

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotViewer/engine"
	"MandelbrotViewer/misc"
	"MandelbrotViewer/viewport"
)

// Status is a snapshot of what the engine shows and how far it got.
type Status struct {
	State         string
	Generation    uint64
	Region        viewport.Region
	Width         int
	Height        int
	MaxIterations int
	Palette       string
	Stats         engine.Stats
	Redraws       uint64
	LastFailure   string
}

type ZoomRequest struct {
	X, Y     float64
	Factor   float64
	Recenter bool
}

type BoxRequest struct {
	Box     image.Rectangle
	ZoomOut bool
}

type SizeRequest struct {
	Width, Height int
}

// Service is registered with an rpc.TcpServer. Every method maps onto one
// engine operation.
type Service struct {
	engine *engine.Engine
	logger bslogger.Logger
	mutex  sync.Mutex

	lastFailure string
	redraws     uint64
}

func NewService(e *engine.Engine) (*Service, error) {
	s := &Service{
		engine: e,
		logger: bslogger.NewLogger("ViewerService", bslogger.Normal, nil),
	}
	err := e.Subscribe(s.observe)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) observe(event engine.Event) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch event.Kind {
	case engine.Redraw:
		s.redraws++
	case engine.Failure:
		s.lastFailure = event.Err.Error()
	}
}

func (s *Service) RollCall(nothing misc.Nothing, present *bool) error {
	*present = true
	return nil
}

func (s *Service) Status(nothing misc.Nothing, status *Status) error {
	v := s.engine.Viewport()
	stats := s.engine.Stats()

	s.mutex.Lock()
	redraws, lastFailure := s.redraws, s.lastFailure
	s.mutex.Unlock()

	*status = Status{
		State:         s.engine.State().String(),
		Generation:    uint64(stats.Generation),
		Region:        v.Region,
		Width:         v.Width,
		Height:        v.Height,
		MaxIterations: s.engine.MaxIterations(),
		Palette:       s.engine.Palette().String(),
		Stats:         stats,
		Redraws:       redraws,
		LastFailure:   lastFailure,
	}
	return nil
}

func (s *Service) SetLimits(region viewport.Region, nothing *misc.Nothing) error {
	s.logger.Debugf("SetLimits %s", region)
	return s.engine.SetLimits(region)
}

func (s *Service) ZoomAtPoint(request ZoomRequest, nothing *misc.Nothing) error {
	return s.engine.ZoomAtPoint(request.X, request.Y, request.Factor, request.Recenter)
}

func (s *Service) ZoomToBox(request BoxRequest, nothing *misc.Nothing) error {
	return s.engine.ZoomToBox(request.Box, request.ZoomOut)
}

func (s *Service) Undo(nothing misc.Nothing, undone *bool) error {
	var err error
	*undone, err = s.engine.Undo()
	return err
}

func (s *Service) Cancel(nothing misc.Nothing, reply *misc.Nothing) error {
	return s.engine.Cancel()
}

func (s *Service) Resize(request SizeRequest, nothing *misc.Nothing) error {
	return s.engine.Resize(request.Width, request.Height)
}

func (s *Service) SetMaxIterations(n int, nothing *misc.Nothing) error {
	return s.engine.SetMaxIterations(n)
}

func (s *Service) SetPaletteLength(n int, nothing *misc.Nothing) error {
	return s.engine.SetPaletteLength(n)
}

// WaitReady blocks the call for at most timeout until the engine is Ready.
func (s *Service) WaitReady(timeout time.Duration, nothing *misc.Nothing) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.engine.WaitReady(ctx)
}

// ImagePNG returns the current image, complete or not, encoded as PNG.
func (s *Service) ImagePNG(nothing misc.Nothing, encoded *[]byte) error {
	img, err := s.engine.Image()
	if err != nil {
		return err
	}

	var buffer bytes.Buffer
	err = png.Encode(&buffer, img)
	if err != nil {
		s.logger.Errorf("Encoding image - %s", err)
		return err
	}
	*encoded = buffer.Bytes()
	return nil
}

func (s *Service) ExportSettings(nothing misc.Nothing, settings *map[string]string) error {
	*settings = s.engine.ExportSettings()
	return nil
}

func (s *Service) ImportSettings(settings map[string]string, nothing *misc.Nothing) error {
	return s.engine.ImportSettings(settings)
}
