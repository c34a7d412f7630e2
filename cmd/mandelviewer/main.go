// Command mandelviewer is a headless shell around the render engine. It
// renders to PNG, renders zoom sequences, serves an engine over TCP or drives
// one that is served elsewhere.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotViewer/engine"
	"MandelbrotViewer/misc"
	"MandelbrotViewer/palette"
	"MandelbrotViewer/rpc"
	"MandelbrotViewer/viewer"
)

var (
	centerX, centerY, zoom                                       float64
	frames, height, maxIterations, paletteLength, width, workers int
	input, output, paletteType, remote, save, serve              string
	timeout                                                      time.Duration
	centerSet                                                    bool
)

func main() {
	logger := bslogger.NewLogger("MandelViewer", bslogger.Normal, nil)
	parseArguments()

	settings := map[string]string{}
	if input != "" {
		settings = readSettings(input, logger)
	}
	if maxIterations > 0 {
		settings[engine.KeyMaxIterations] = fmt.Sprint(maxIterations)
	}
	if paletteType != "" {
		settings[engine.KeyPaletteType] = paletteType
	}
	if paletteLength >= 0 {
		settings[engine.KeyPaletteLength] = fmt.Sprint(paletteLength)
	}

	if remote != "" {
		runRemote(settings, logger)
		return
	}

	e, err := engine.New(engine.Options{Width: width, Height: height, Workers: workers})
	misc.CheckError(err, logger, misc.Fatal)
	defer e.Close()
	misc.CheckErrorf(e.ImportSettings(settings), logger, misc.Fatal, "Importing settings from %s", input)

	if serve != "" {
		runServer(e, logger)
		return
	}

	sequence := zoomSequence{frames: frames, factor: zoom}
	if centerSet {
		sequence.centerX, sequence.centerY, sequence.centered = centerX, centerY, true
	}
	misc.CheckError(sequence.render(e, output, timeout, logger), logger, misc.Fatal)

	if save != "" {
		writeSettings(save, e.ExportSettings(), logger)
	}
}

func parseArguments() {
	flag.IntVar(&width, "width", 800, "Width of the image")
	flag.IntVar(&height, "height", 600, "Height of the image")
	flag.IntVar(&maxIterations, "maxIterations", 0, "Iteration cap, 0 keeps the settings file value")
	flag.StringVar(&paletteType, "palette", "", "Palette type: Spectrum, PaleSpectrum, Grayscale, ReverseGrayscale or Gradient")
	flag.IntVar(&paletteLength, "paletteLength", -1, "Colours before the palette wraps, 0 for one per iteration")
	flag.IntVar(&workers, "workers", 0, "Number of workers, 0 for one per cpu")
	flag.StringVar(&input, "settings", "", "Json file with view settings")
	flag.StringVar(&save, "save", "", "Write the final view settings to this json file")
	flag.StringVar(&output, "output", "mandelbrot.png", "Png file to write")
	flag.IntVar(&frames, "frames", 1, "Number of frames in a zoom sequence")
	flag.Float64Var(&zoom, "zoom", 2, "Magnification between frames")
	flag.Float64Var(&centerX, "centerX", 0, "Real part of the zoom center")
	flag.Float64Var(&centerY, "centerY", 0, "Imaginary part of the zoom center")
	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "Longest wait for one frame")
	flag.StringVar(&serve, "serve", "", "Serve the engine over tcp at this address")
	flag.StringVar(&remote, "remote", "", "Render with an engine served at this address")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "centerX" || f.Name == "centerY" {
			centerSet = true
		}
	})
	if paletteType != "" {
		if _, err := palette.ParseType(paletteType); err != nil {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
	}
}

func readSettings(fileName string, logger bslogger.Logger) map[string]string {
	fileBytes, err := misc.ReadFile(fileName)
	misc.CheckError(err, logger, misc.Fatal)
	settings := map[string]string{}
	misc.CheckErrorf(json.Unmarshal(fileBytes, &settings), logger, misc.Fatal, "Parsing %s", fileName)
	logger.Infof("Loaded %d settings from %s", len(settings), fileName)
	return settings
}

func writeSettings(fileName string, settings map[string]string, logger bslogger.Logger) {
	fileBytes, err := json.MarshalIndent(settings, "", "  ")
	misc.CheckError(err, logger, misc.Fatal)
	_, err = misc.WriteFile(fileName, fileBytes)
	misc.CheckError(err, logger, misc.Fatal)
	logger.Infof("Saved settings to %s", fileName)
}

func runServer(e *engine.Engine, logger bslogger.Logger) {
	service, err := viewer.NewService(e)
	misc.CheckError(err, logger, misc.Fatal)

	server := rpc.NewTcpServer(service, serve, "ViewerServer")
	misc.CheckError(server.Run(), server.Logger, misc.Fatal)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()

	misc.CheckError(server.Stop(), server.Logger, misc.Warning)
	if save != "" {
		writeSettings(save, e.ExportSettings(), logger)
	}
}

func runRemote(settings map[string]string, logger bslogger.Logger) {
	client, err := viewer.Dial(remote)
	misc.CheckError(err, logger, misc.Fatal)
	defer client.Close()

	if len(settings) > 0 {
		misc.CheckError(client.ImportSettings(settings), logger, misc.Fatal)
	}
	misc.CheckError(client.WaitReady(timeout), logger, misc.Fatal)

	encoded, err := client.ImagePNG()
	misc.CheckError(err, logger, misc.Fatal)
	_, err = misc.WriteFile(output, encoded)
	misc.CheckError(err, logger, misc.Fatal)

	status, err := client.Status()
	if !misc.CheckError(err, logger, misc.Warning) {
		logger.Infof("Saved %s from %s: %s", output, remote, status.Stats)
	}
	if save != "" {
		exported, err := client.ExportSettings()
		misc.CheckError(err, logger, misc.Fatal)
		writeSettings(save, exported, logger)
	}
}
