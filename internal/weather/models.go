package weather

import (
	"time"
)

// Meteo file column titles.
const (
	ColYear = "year"
	ColDOY  = "doy"
	ColHour = "hour"

	ColDiffuse  = "sdif" // diffuse irradiance, W/m2
	ColDirect   = "sdir" // direct irradiance, W/m2
	ColTemp     = "tout" // outside temperature, degC
	ColPressure = "pout" // outside pressure, hPa
	ColRain     = "rain" // cumulative rain duration counter, s
	ColHumidity = "hout" // relative humidity, %
	ColWindSpd  = "wspd" // wind speed, m/s
	ColWindDir  = "wdir" // wind direction, deg
)

// Window geometry of the meteo figure.
const (
	DayMinutes        = 24 * 60
	RainWindowMinutes = 30
	WindWindowMinutes = 10
)

// MeteoDay is one day of station readings, all series aligned with Time.
type MeteoDay struct {
	Time []time.Time

	Diffuse  []float64
	Direct   []float64
	Temp     []float64
	Pressure []float64
	Rain     []float64
	Humidity []float64
	WindSpd  []float64
	WindDir  []float64
}

// Len returns the number of readings.
func (d *MeteoDay) Len() int { return len(d.Time) }

// WindVector is the averaged wind of one window. U and V form the unit
// vector the direction arrow is drawn with.
type WindVector struct {
	Center    time.Time
	Speed     float64
	Direction float64
	U, V      float64
}
