package viewport

import (
	"errors"
	"image"
	"math"
	"testing"
)

func TestAspectCorrect(t *testing.T) {
	tests := []struct {
		name          string
		region        Region
		width, height int
		want          Region
	}{
		{
			name:   "grow height",
			region: Region{XMin: -2.5, XMax: 1.1, YMin: -1.35, YMax: 1.35},
			width:  100, height: 100,
			want: Region{XMin: -2.5, XMax: 1.1, YMin: -1.8, YMax: 1.8},
		},
		{
			name:   "grow width",
			region: Region{XMin: -1, XMax: 1, YMin: -1, YMax: 1},
			width:  200, height: 100,
			want: Region{XMin: -2, XMax: 2, YMin: -1, YMax: 1},
		},
		{
			name:   "already matching",
			region: Region{XMin: 0, XMax: 4, YMin: 0, YMax: 3},
			width:  400, height: 300,
			want: Region{XMin: 0, XMax: 4, YMin: 0, YMax: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AspectCorrect(tt.region, tt.width, tt.height)
			if !got.Equal(tt.want) {
				t.Errorf("AspectCorrect() = %v, want %v", got, tt.want)
			}
			if got.XMin > tt.region.XMin || got.XMax < tt.region.XMax || got.YMin > tt.region.YMin || got.YMax < tt.region.YMax {
				t.Errorf("AspectCorrect() = %v crops requested %v", got, tt.region)
			}
		})
	}
}

func TestAspectCorrectIdempotent(t *testing.T) {
	regions := []Region{
		Default,
		{XMin: -0.75, XMax: -0.74, YMin: 0.1, YMax: 0.13},
		{XMin: 0, XMax: 1e-9, YMin: 0, YMax: 3e-10},
	}
	sizes := [][2]int{{100, 100}, {1920, 1080}, {333, 777}, {2, 2}}
	for _, r := range regions {
		for _, size := range sizes {
			once := AspectCorrect(r, size[0], size[1])
			twice := AspectCorrect(once, size[0], size[1])
			if once != twice {
				t.Errorf("AspectCorrect not idempotent for %v at %v: %v then %v", r, size, once, twice)
			}
			ratio := once.Width() / once.Height()
			want := float64(size[0]) / float64(size[1])
			if math.Abs(ratio-want) > 1e-9*want {
				t.Errorf("aspect of %v = %g, want %g", once, ratio, want)
			}
		}
	}
}

func TestToPlane(t *testing.T) {
	v := New(Default, 100, 100)
	x, y := v.ToPlane(0, 0)
	if x != v.XMin || y != v.YMax {
		t.Errorf("ToPlane(0, 0) = (%g, %g), want (%g, %g)", x, y, v.XMin, v.YMax)
	}
	x, y = v.ToPlane(99, 99)
	if math.Abs(x-v.XMax) > 1e-12 || math.Abs(y-v.YMin) > 1e-12 {
		t.Errorf("ToPlane(99, 99) = (%g, %g), want (%g, %g)", x, y, v.XMax, v.YMin)
	}
	px, py := v.FromPlane(v.ToPlane(42, 17))
	if px != 42 || py != 17 {
		t.Errorf("FromPlane(ToPlane(42, 17)) = (%d, %d)", px, py)
	}
}

func TestZoomToBoxRoundTrip(t *testing.T) {
	start := New(Default, 200, 150)
	boxes := []image.Rectangle{
		image.Rect(0, 0, 199, 149),
		image.Rect(50, 30, 130, 90),
		image.Rect(130, 90, 50, 30),
	}
	for _, box := range boxes {
		in, ok := start.ZoomToBox(box, false)
		if !ok {
			t.Fatalf("ZoomToBox(%v, false) reported degenerate", box)
		}
		inView := Viewport{Region: in, Width: start.Width, Height: start.Height}
		out, ok := inView.ZoomToBox(box, true)
		if !ok {
			t.Fatalf("ZoomToBox(%v, true) reported degenerate", box)
		}
		if !approx(out, start.Region, 1e-9) {
			t.Errorf("round trip through %v = %v, want %v", box, out, start.Region)
		}
	}
}

func TestZoomToBoxDegenerate(t *testing.T) {
	v := New(Default, 100, 100)
	for _, box := range []image.Rectangle{image.Rect(10, 10, 10, 50), image.Rect(10, 10, 50, 10)} {
		got, ok := v.ZoomToBox(box, false)
		if ok || got != v.Region {
			t.Errorf("ZoomToBox(%v) = %v, %t, want unchanged region and false", box, got, ok)
		}
	}
}

func TestZoomAtPoint(t *testing.T) {
	v := New(Region{XMin: -2, XMax: 2, YMin: -2, YMax: 2}, 101, 101)

	r, err := v.ZoomAtPoint(75, 25, 2, true)
	if err != nil {
		t.Fatalf("ZoomAtPoint() error = %v", err)
	}
	if cx, cy := r.Center(); math.Abs(cx-1) > 1e-12 || math.Abs(cy-1) > 1e-12 {
		t.Errorf("recentered zoom center = (%g, %g), want (1, 1)", cx, cy)
	}
	if math.Abs(r.Width()-2) > 1e-12 {
		t.Errorf("recentered zoom width = %g, want 2", r.Width())
	}

	r, err = v.ZoomAtPoint(75, 25, 2, false)
	if err != nil {
		t.Fatalf("ZoomAtPoint() error = %v", err)
	}
	zoomed := Viewport{Region: r, Width: v.Width, Height: v.Height}
	x, y := zoomed.ToPlane(75, 25)
	if math.Abs(x-1) > 1e-12 || math.Abs(y-1) > 1e-12 {
		t.Errorf("fixed point moved to (%g, %g), want (1, 1)", x, y)
	}

	if _, err := v.ZoomAtPoint(10, 10, 0, false); !errors.Is(err, ErrBadRegion) {
		t.Errorf("ZoomAtPoint(factor 0) error = %v, want ErrBadRegion", err)
	}
}

func TestRegionVerify(t *testing.T) {
	bad := []Region{
		{XMin: 1, XMax: 0, YMin: 0, YMax: 1},
		{XMin: 0, XMax: 1, YMin: 1, YMax: 1},
		{XMin: math.NaN(), XMax: 1, YMin: 0, YMax: 1},
		{XMin: 0, XMax: math.Inf(1), YMin: 0, YMax: 1},
	}
	for _, r := range bad {
		if err := r.Verify(); !errors.Is(err, ErrBadRegion) {
			t.Errorf("%v.Verify() = %v, want ErrBadRegion", r, err)
		}
	}
	if err := Default.Verify(); err != nil {
		t.Errorf("Default.Verify() = %v", err)
	}
}

func approx(a, b Region, tol float64) bool {
	return math.Abs(a.XMin-b.XMin) <= tol && math.Abs(a.XMax-b.XMax) <= tol &&
		math.Abs(a.YMin-b.YMin) <= tol && math.Abs(a.YMax-b.YMax) <= tol
}
