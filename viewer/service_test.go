package viewer

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"MandelbrotViewer/engine"
	"MandelbrotViewer/rpc"
	"MandelbrotViewer/viewport"
)

func serve(t *testing.T) *Client {
	t.Helper()
	e, err := engine.New(engine.Options{
		Width:             30,
		Height:            20,
		MaxIterations:     40,
		CompositeInterval: 5 * time.Millisecond,
		ResizeDelay:       -1,
	})
	if err != nil {
		t.Fatalf("engine.New: %s", err)
	}
	t.Cleanup(e.Close)

	service, err := NewService(e)
	if err != nil {
		t.Fatalf("NewService: %s", err)
	}
	server := rpc.NewTcpServer(service, "127.0.0.1:0", "ViewerServer")
	if err := server.Run(); err != nil {
		t.Fatalf("Run: %s", err)
	}
	t.Cleanup(func() { server.Stop() })

	client, err := Dial(server.Addr())
	if err != nil {
		t.Fatalf("Dial(%s): %s", server.Addr(), err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestServiceRender(t *testing.T) {
	client := serve(t)

	if present, err := client.RollCall(); err != nil || !present {
		t.Fatalf("RollCall() = %t, %v", present, err)
	}
	if err := client.WaitReady(5 * time.Second); err != nil {
		t.Fatalf("WaitReady: %s", err)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %s", err)
	}
	if status.State != "Ready" || status.Width != 30 || status.Height != 20 || status.MaxIterations != 40 {
		t.Errorf("Status() = %+v", status)
	}
	if status.Redraws == 0 {
		t.Error("no redraws seen by the service")
	}

	encoded, err := client.ImagePNG()
	if err != nil {
		t.Fatalf("ImagePNG: %s", err)
	}
	img, err := png.Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("png.Decode: %s", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("image bounds = %s, want 30x20", img.Bounds())
	}
}

func TestServiceNavigation(t *testing.T) {
	client := serve(t)
	if err := client.WaitReady(5 * time.Second); err != nil {
		t.Fatalf("WaitReady: %s", err)
	}
	start, _ := client.Status()

	region := viewport.Region{XMin: -1.5, XMax: 0, YMin: -0.5, YMax: 0.5}
	if err := client.SetLimits(region); err != nil {
		t.Fatalf("SetLimits: %s", err)
	}
	status, _ := client.Status()
	if !status.Region.Equal(region) {
		t.Errorf("region after SetLimits = %s, want %s", status.Region, region)
	}
	if status.Generation <= start.Generation {
		t.Errorf("generation %d did not move past %d", status.Generation, start.Generation)
	}

	if err := client.ZoomAtPoint(15, 10, 2, true); err != nil {
		t.Fatalf("ZoomAtPoint: %s", err)
	}
	if undone, err := client.Undo(); err != nil || !undone {
		t.Fatalf("Undo() = %t, %v", undone, err)
	}
	status, _ = client.Status()
	if !status.Region.Equal(region) {
		t.Errorf("region after Undo = %s, want %s", status.Region, region)
	}

	if err := client.Resize(40, 30); err != nil {
		t.Fatalf("Resize: %s", err)
	}
	if err := client.WaitReady(5 * time.Second); err != nil {
		t.Fatalf("WaitReady: %s", err)
	}
	status, _ = client.Status()
	if status.Width != 40 || status.Height != 30 {
		t.Errorf("size after Resize = %dx%d, want 40x30", status.Width, status.Height)
	}
}

func TestServiceSettings(t *testing.T) {
	client := serve(t)

	settings, err := client.ExportSettings()
	if err != nil {
		t.Fatalf("ExportSettings: %s", err)
	}
	if settings[engine.KeyMaxIterations] != "40" {
		t.Errorf("exported maxIterations = %q, want 40", settings[engine.KeyMaxIterations])
	}

	err = client.ImportSettings(map[string]string{engine.KeyMaxIterations: "lots"})
	if err == nil || !strings.Contains(err.Error(), engine.KeyMaxIterations) {
		t.Errorf("bad import error = %v, want one naming %s", err, engine.KeyMaxIterations)
	}
	status, _ := client.Status()
	if status.LastFailure == "" {
		t.Error("rejected import did not show up as a failure")
	}

	if err := client.ImportSettings(map[string]string{engine.KeyMaxIterations: "60"}); err != nil {
		t.Fatalf("ImportSettings: %s", err)
	}
	if err := client.SetPaletteLength(8); err != nil {
		t.Fatalf("SetPaletteLength: %s", err)
	}
	settings, _ = client.ExportSettings()
	if settings[engine.KeyMaxIterations] != "60" || settings[engine.KeyPaletteLength] != "8" {
		t.Errorf("settings after import = %v", settings)
	}
	if err := client.SetMaxIterations(-1); err == nil {
		t.Error("SetMaxIterations(-1) succeeded")
	}
	if err := client.Cancel(); err != nil {
		t.Errorf("Cancel: %s", err)
	}
}
