package camera

import (
	"testing"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
)

func vecNear(a, b core.Vec3, tolerance float32) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestDefault_MatchesFixedCamera(t *testing.T) {
	aspect := float32(16.0 / 9.0)
	basis := Default(aspect).Basis()

	viewportHeight := float32(2.0)
	viewportWidth := aspect * viewportHeight

	expected := Basis{
		Origin:          core.NewVec3(0, 0, 0),
		Horizontal:      core.NewVec3(viewportWidth, 0, 0),
		Vertical:        core.NewVec3(0, viewportHeight, 0),
		LowerLeftCorner: core.NewVec3(-viewportWidth/2, -viewportHeight/2, -1),
	}

	checks := []struct {
		name          string
		got, expected core.Vec3
	}{
		{"origin", basis.Origin, expected.Origin},
		{"horizontal", basis.Horizontal, expected.Horizontal},
		{"vertical", basis.Vertical, expected.Vertical},
		{"lower left corner", basis.LowerLeftCorner, expected.LowerLeftCorner},
	}

	for _, c := range checks {
		if !vecNear(c.got, c.expected, 1e-5) {
			t.Errorf("%s: expected %v, got %v", c.name, c.expected, c.got)
		}
	}
}

func TestViewport_Dimensions(t *testing.T) {
	tests := []struct {
		name           string
		config         Config
		expectedHeight float32
		expectedWidth  float32
	}{
		{"90 degrees", Config{VFov: 90, AspectRatio: 2, FocalLength: 1}, 2, 4},
		{"focal length scales viewport", Config{VFov: 90, AspectRatio: 1, FocalLength: 3}, 6, 6},
		{"60 degrees", Config{VFov: 60, AspectRatio: 1, FocalLength: 1}, 1.1547005, 1.1547005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := tt.config.Viewport()
			if diff := vp.Height - tt.expectedHeight; diff > 1e-5 || diff < -1e-5 {
				t.Errorf("Expected height %f, got %f", tt.expectedHeight, vp.Height)
			}
			if diff := vp.Width - tt.expectedWidth; diff > 1e-5 || diff < -1e-5 {
				t.Errorf("Expected width %f, got %f", tt.expectedWidth, vp.Width)
			}
		})
	}
}

func TestForward_YawAndPitch(t *testing.T) {
	tests := []struct {
		name     string
		yaw      float32
		pitch    float32
		expected core.Vec3
	}{
		{"straight ahead", 0, 0, core.NewVec3(0, 0, -1)},
		{"turn right", 90, 0, core.NewVec3(1, 0, 0)},
		{"turn around", 180, 0, core.NewVec3(0, 0, 1)},
		{"look up", 0, 30, core.NewVec3(0, 0.5, -0.8660254)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Yaw: tt.yaw, Pitch: tt.pitch, VFov: 90, AspectRatio: 1, FocalLength: 1}
			if got := cfg.Forward(); !vecNear(got, tt.expected, 1e-5) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestForward_PitchIsClamped(t *testing.T) {
	cfg := Config{Pitch: 120, VFov: 90, AspectRatio: 1, FocalLength: 1}
	basis := cfg.Basis()

	// A degenerate frame would produce a zero horizontal vector
	if basis.Horizontal.Length() < 1e-3 {
		t.Errorf("Expected a usable horizontal vector, got %v", basis.Horizontal)
	}
	if f := cfg.Forward(); f.Y >= 1 {
		t.Errorf("Expected forward to stay off the up axis, got %v", f)
	}
}

func TestBasisRay_CornersAndCentre(t *testing.T) {
	basis := Default(1).Basis()

	tests := []struct {
		name      string
		u, v      float32
		direction core.Vec3
	}{
		{"centre", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-1, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(1, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := basis.Ray(tt.u, tt.v)
			if ray.Origin != basis.Origin {
				t.Errorf("Expected ray origin %v, got %v", basis.Origin, ray.Origin)
			}
			if !vecNear(ray.Direction, tt.direction, 1e-5) {
				t.Errorf("Expected direction %v, got %v", tt.direction, ray.Direction)
			}
		})
	}
}

func TestBasis_FollowsPosition(t *testing.T) {
	cfg := Default(1)
	cfg.Position = core.NewVec3(3, 2, 1)
	basis := cfg.Basis()

	if basis.Origin != cfg.Position {
		t.Errorf("Expected origin %v, got %v", cfg.Position, basis.Origin)
	}
	// Direction through the centre is unaffected by translation
	if d := basis.Ray(0.5, 0.5).Direction; !vecNear(d, core.NewVec3(0, 0, -1), 1e-5) {
		t.Errorf("Expected centre direction (0,0,-1), got %v", d)
	}
}
