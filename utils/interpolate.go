// SPDX-License-Identifier: EPL-2.0

package utils

// CatmullRom evaluates the Catmull-Rom spline through p0..p3 at t in [0, 1],
// where t=0 is p1 and t=1 is p2.
func CatmullRom(p0, p1, p2, p3, t float32) float32 {
	a := 0.5 * (3*(p1-p2) + p3 - p0)
	b := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c := 0.5 * (p2 - p0)

	return ((a*t+b)*t+c)*t + p1
}
