package scene_test

import (
	"math"
	"testing"

	"github.com/goliatone/go-scenegen/pkg/scene"
)

func TestGuessCameraFramesDevice(t *testing.T) {
	dims := scene.Vec3{1, 2, 4}

	location, lookAt, light := scene.GuessCamera(dims, scene.CameraPerspective, 0, [2]float64{0, 0})

	// At angle 0 the camera sits on the +x axis: offset 1.2 times the largest
	// extent plus the device's own x halfwidth, level with the device top.
	wantX := 1.2*4 + 1
	if math.Abs(location[0]-wantX) > 1e-9 {
		t.Errorf("location x = %g, want %g", location[0], wantX)
	}
	if math.Abs(location[1]) > 1e-9 {
		t.Errorf("location y = %g, want 0", location[1])
	}
	if location[2] != dims[2] {
		t.Errorf("location z = %g, want %g", location[2], dims[2])
	}

	if got, want := lookAt[2], -0.66*dims[2]; math.Abs(got-want) > 1e-9 {
		t.Errorf("look_at z = %g, want %g", got, want)
	}

	// The light trails the camera by 12 degrees and sits further out.
	lightRadius := math.Hypot(light[0], light[1])
	cameraRadius := math.Hypot(location[0], location[1])
	if lightRadius <= cameraRadius {
		t.Errorf("light radius %g should exceed camera radius %g", lightRadius, cameraRadius)
	}
	if light[1] >= 0 {
		t.Errorf("light y = %g, want negative (rotated back from the camera)", light[1])
	}
}

func TestGuessCameraRotation(t *testing.T) {
	dims := scene.Vec3{1, 1, 1}

	loc0, _, _ := scene.GuessCamera(dims, scene.CameraPerspective, 0, [2]float64{0, 0})
	loc90, _, _ := scene.GuessCamera(dims, scene.CameraPerspective, 90, [2]float64{0, 0})

	if math.Abs(loc90[0]) > 1e-9 {
		t.Errorf("rotated location x = %g, want 0", loc90[0])
	}
	if math.Abs(loc90[1]-loc0[0]) > 1e-9 {
		t.Errorf("rotated location y = %g, want %g", loc90[1], loc0[0])
	}
}
