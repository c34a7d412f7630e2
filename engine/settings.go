package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"MandelbrotViewer/palette"
	"MandelbrotViewer/viewport"
)

// Setting keys used by ExportSettings and ImportSettings.
const (
	KeyXMin          = "xmin"
	KeyXMax          = "xmax"
	KeyYMin          = "ymin"
	KeyYMax          = "ymax"
	KeyMaxIterations = "maxIterations"
	KeyPaletteType   = "paletteType"
	KeyPaletteLength = "paletteLength"
	KeyGradientStart = "gradientStart"
	KeyGradientEnd   = "gradientEnd"
)

// SettingError names the imported key and value that could not be used.
type SettingError struct {
	Key   string
	Value string
	Err   error
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("setting %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *SettingError) Unwrap() error {
	return e.Err
}

// ExportSettings returns the view as flat key/value pairs.
func (e *Engine) ExportSettings() map[string]string {
	var settings map[string]string
	e.do(func() {
		settings = exportSettings(e.view.Region, e.maxIterations, e.palette)
	})
	return settings
}

func exportSettings(r viewport.Region, maxIterations int, p palette.Palette) map[string]string {
	return map[string]string{
		KeyXMin:          formatFloat(r.XMin),
		KeyXMax:          formatFloat(r.XMax),
		KeyYMin:          formatFloat(r.YMin),
		KeyYMax:          formatFloat(r.YMax),
		KeyMaxIterations: strconv.Itoa(maxIterations),
		KeyPaletteType:   p.Type.String(),
		KeyPaletteLength: strconv.Itoa(p.Length),
		KeyGradientStart: palette.FormatColor(p.GradientStart),
		KeyGradientEnd:   palette.FormatColor(p.GradientEnd),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ImportSettings validates every pair first and applies them together, with
// at most one new generation. On error nothing changes and the error is a
// *SettingError for the first bad key in sorted order. Missing keys keep
// their current value, unknown keys are ignored.
func (e *Engine) ImportSettings(settings map[string]string) error {
	var err error
	doErr := e.do(func() {
		err = e.importSettings(settings)
		if err != nil {
			e.fail(err)
		}
	})
	if doErr != nil {
		return doErr
	}
	return err
}

func (e *Engine) importSettings(settings map[string]string) error {
	region := e.view.Region
	maxIterations := e.maxIterations
	p := e.palette

	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		var err error
		switch key {
		case KeyXMin:
			region.XMin, err = parseFinite(value)
		case KeyXMax:
			region.XMax, err = parseFinite(value)
		case KeyYMin:
			region.YMin, err = parseFinite(value)
		case KeyYMax:
			region.YMax, err = parseFinite(value)
		case KeyMaxIterations:
			maxIterations, err = strconv.Atoi(value)
			if err == nil && (maxIterations <= 0 || maxIterations > MaxIterationsLimit) {
				err = ErrBadIterations
			}
		case KeyPaletteType:
			p.Type, err = palette.ParseType(value)
		case KeyPaletteLength:
			p.Length, err = strconv.Atoi(value)
			if err == nil && p.Length < 0 {
				err = errors.New("negative length")
			}
		case KeyGradientStart:
			p.GradientStart, err = palette.ParseColor(value)
		case KeyGradientEnd:
			p.GradientEnd, err = palette.ParseColor(value)
		default:
			e.logger.Debugf("Ignoring unknown setting %s", key)
		}
		if err != nil {
			return &SettingError{Key: key, Value: value, Err: err}
		}
	}

	if err := region.Verify(); err != nil {
		key, value := KeyXMax, settings[KeyXMax]
		if region.XMin < region.XMax {
			key, value = KeyYMax, settings[KeyYMax]
		}
		return &SettingError{Key: key, Value: value, Err: err}
	}

	next := viewport.New(region, e.view.Width, e.view.Height)
	recompute := next.Region != e.view.Region || maxIterations != e.maxIterations
	if recompute {
		e.cancelGeneration()
		if next.Region != e.view.Region {
			old := e.view.Region
			e.remember(old)
			e.limits = region
			e.view = next
			e.emit(Event{Kind: LimitsChanged, Status: e.state, Generation: e.generation, Old: old, New: next.Region})
		}
		e.maxIterations = maxIterations
		e.palette = p
		e.colors = e.palette.Build(e.maxIterations)
		e.startGeneration()
		return nil
	}
	e.setPalette(p)
	return nil
}

func parseFinite(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}
