// Package solar computes sunrise, sunset, solar noon, and twilight times for
// a fixed point on Earth using a simplified geocentric model of the sun. The
// model is the NOAA/Meeus approximation: it ignores atmospheric refraction
// beyond the standard -0.8333 degree horizon altitude, elevation, and terrain,
// and is accurate to about a minute for latitudes below the polar circles.
//
// All computations are pure functions of the coordinate and the civil date,
// so a Sun value may be shared freely between goroutines.
package solar
