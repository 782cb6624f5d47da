// Package solar computes the sun's position for solar zenith angle panels.
package solar

import (
	"math"
	"time"
)

// Sun reports the solar altitude in degrees above the horizon.
type Sun interface {
	Altitude(t time.Time, lat, lon float64) float64
}

// NOAA implements Sun with the NOAA general solar position equations. No
// atmospheric refraction correction is applied.
type NOAA struct{}

func (NOAA) Altitude(t time.Time, lat, lon float64) float64 {
	t = t.UTC()
	jd := float64(t.Unix())/86400 + float64(t.Nanosecond())/86400e9 + 2440587.5
	jc := (jd - 2451545) / 36525

	meanLong := math.Mod(280.46646+jc*(36000.76983+jc*0.0003032), 360)
	meanAnom := 357.52911 + jc*(35999.05029-0.0001537*jc)
	ecc := 0.016708634 - jc*(0.000042037+0.0000001267*jc)

	center := sin(meanAnom)*(1.914602-jc*(0.004817+0.000014*jc)) +
		sin(2*meanAnom)*(0.019993-0.000101*jc) +
		sin(3*meanAnom)*0.000289
	omega := 125.04 - 1934.136*jc
	appLong := meanLong + center - 0.00569 - 0.00478*sin(omega)

	meanObliq := 23 + (26+(21.448-jc*(46.815+jc*(0.00059-jc*0.001813)))/60)/60
	obliq := meanObliq + 0.00256*cos(omega)
	decl := deg(math.Asin(sin(obliq) * sin(appLong)))

	y := math.Pow(math.Tan(rad(obliq/2)), 2)
	eqTime := 4 * deg(y*sin(2*meanLong)-
		2*ecc*sin(meanAnom)+
		4*ecc*y*sin(meanAnom)*cos(2*meanLong)-
		0.5*y*y*sin(4*meanLong)-
		1.25*ecc*ecc*sin(2*meanAnom))

	minutes := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
	trueSolar := math.Mod(minutes+eqTime+4*lon, 1440)
	if trueSolar < 0 {
		trueSolar += 1440
	}
	hourAngle := trueSolar/4 - 180

	cosZenith := sin(lat)*sin(decl) + cos(lat)*cos(decl)*cos(hourAngle)
	cosZenith = math.Max(-1, math.Min(1, cosZenith))
	return 90 - deg(math.Acos(cosZenith))
}

// ZenithAngles returns 90 minus the solar altitude for each time, or NaN
// while the sun is at or below the horizon.
func ZenithAngles(sun Sun, times []time.Time, lat, lon float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		alt := sun.Altitude(t, lat, lon)
		if alt > 0 {
			out[i] = 90 - alt
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }
func sin(d float64) float64 { return math.Sin(rad(d)) }
func cos(d float64) float64 { return math.Cos(rad(d)) }
