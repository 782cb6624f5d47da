package weather

import (
	"fmt"

	"github.com/i474232898/tccon-diagnostics/internal/tabular"
	"github.com/i474232898/tccon-diagnostics/internal/timeconv"
)

// LoadMeteoDay extracts the station series from a parsed meteo file. Time
// comes from the year, doy and hour columns.
func LoadMeteoDay(ds *tabular.Dataset) (*MeteoDay, error) {
	cols := make(map[string][]float64)
	for _, name := range []string{
		ColYear, ColDOY, ColHour,
		ColDiffuse, ColDirect, ColTemp, ColPressure,
		ColRain, ColHumidity, ColWindSpd, ColWindDir,
	} {
		v, err := ds.Floats(name)
		if err != nil {
			return nil, fmt.Errorf("meteo: %w", err)
		}
		cols[name] = v
	}

	times, err := timeconv.Convert(cols[ColYear], cols[ColDOY], cols[ColHour])
	if err != nil {
		return nil, fmt.Errorf("meteo: %w", err)
	}

	return &MeteoDay{
		Time:     times,
		Diffuse:  cols[ColDiffuse],
		Direct:   cols[ColDirect],
		Temp:     cols[ColTemp],
		Pressure: cols[ColPressure],
		Rain:     cols[ColRain],
		Humidity: cols[ColHumidity],
		WindSpd:  cols[ColWindSpd],
		WindDir:  cols[ColWindDir],
	}, nil
}
