package world

import (
	"sort"

	"geoworld/internal/geodata"
	"geoworld/pkg/geo"
)

// Bounds returns the minimum corner, the median node location, and the
// maximum corner of a batch.
//
// The median is over latitude+longitude sums, chosen over the mean for
// robustness to outliers such as a single far-flung node. For even counts the
// lower middle element is taken. An empty batch yields zero locations.
func Bounds(data *geodata.GeoData) (min, median, max geo.Location) {
	if len(data.NodeLocations) == 0 {
		return geo.Location{}, geo.Location{}, geo.Location{}
	}

	type locationSum struct {
		location geo.Location
		sum      float64
	}
	sums := make([]locationSum, 0, len(data.NodeLocations))

	first := true
	for _, location := range data.NodeLocations {
		if first {
			min = location
			max = location
			first = false
		}
		if location.Latitude < min.Latitude {
			min.Latitude = location.Latitude
		}
		if location.Latitude > max.Latitude {
			max.Latitude = location.Latitude
		}
		if location.Longitude < min.Longitude {
			min.Longitude = location.Longitude
		}
		if location.Longitude > max.Longitude {
			max.Longitude = location.Longitude
		}
		sums = append(sums, locationSum{location, location.Latitude + location.Longitude})
	}

	sort.Slice(sums, func(i, j int) bool { return sums[i].sum < sums[j].sum })

	mid := len(sums) / 2
	if len(sums)%2 == 0 {
		median = sums[mid-1].location
	} else {
		median = sums[mid].location
	}
	return min, median, max
}
