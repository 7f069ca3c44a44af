package scene

import "math"

// GuessCamera estimates a workable camera position, look-at point, and light
// position for a device of the given extents. angleDeg rotates the viewpoint
// about the z axis; 0 looks down the x axis at the side of the device. The
// numbers are tuned for decent framing, not optimality; callers wanting exact
// composition should supply explicit positions.
func GuessCamera(dims Vec3, style string, angleDeg float64, center [2]float64) (location, lookAt, light Vec3) {
	angle := angleDeg * math.Pi / 180.0

	const xOffset = 1.2
	maxDim := math.Max(dims[0], math.Max(dims[1], dims[2]))
	cameraOffset := xOffset * maxDim

	location[0] = (cameraOffset + dims[0]) * math.Cos(angle)
	location[1] = (cameraOffset + dims[0]) * math.Sin(angle)
	location[2] = dims[2]

	lookAt = Vec3{center[0], center[1], -0.66 * dims[2]}

	lightOffset := cameraOffset * 1.25
	lightAngle := angle - 12*math.Pi/180.0
	light[0] = (dims[0] + lightOffset) * math.Cos(lightAngle)
	light[1] = (dims[1] + lightOffset) * math.Sin(lightAngle)
	light[2] = location[2] + lightOffset/3.0

	_ = style // camera placement is currently style-independent
	return location, lookAt, light
}
