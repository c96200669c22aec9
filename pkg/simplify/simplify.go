// Package simplify reduces polygon complexity while maintaining shape.
// It is used by the geometry generators that turn building, lake and land-use
// footprints into meshes.
package simplify

import (
	"math"

	"github.com/paulmach/orb"
)

// Ring simplifies a closed polygon by removing points that are not
// significant, using Visvalingam-Whyatt: the vertex spanning the smallest
// triangle with its two cyclic neighbors is removed until the smallest
// triangle area exceeds the threshold. At least 4 points are always kept.
//
// The input is not modified. Rings with fewer than 4 points are returned
// unchanged.
func Ring(ring orb.Ring, threshold float64) orb.Ring {
	if len(ring) < 4 {
		return ring
	}

	polygon := make(orb.Ring, len(ring))
	copy(polygon, ring)

	// Precompute the areas spanned by all triangles.
	areas := make([]float64, 0, len(polygon))
	previous := polygon[len(polygon)-1]
	current := polygon[0]
	next := polygon[1]
	for i := range polygon {
		areas = append(areas, triangleArea(previous, current, next))

		previous = current
		current = next
		next = polygon[(i+2)%len(polygon)]
	}

	// Repeatedly remove the vertex with the smallest triangle. Ties go to the
	// lowest index since the scan compares with strict less-than.
	for len(polygon) > 4 {
		minArea := math.MaxFloat64
		minIndex := 0
		for i, area := range areas {
			if area < minArea {
				minArea = area
				minIndex = i
			}
		}

		if minArea > threshold {
			break
		}

		polygon = append(polygon[:minIndex], polygon[minIndex+1:]...)
		areas = append(areas[:minIndex], areas[minIndex+1:]...)

		// Only the two triangles adjacent to the removal changed; every other
		// cached area is still valid.
		previousIndex := (minIndex + len(polygon) - 1) % len(polygon)
		nextIndex := minIndex % len(polygon)
		areas[previousIndex] = triangleAreaAt(polygon, previousIndex)
		areas[nextIndex] = triangleAreaAt(polygon, nextIndex)
	}

	return polygon
}

func triangleArea(previous, current, next orb.Point) float64 {
	return 0.5 * math.Abs(previous[0]*(current[1]-next[1])+
		current[0]*(next[1]-previous[1])+
		next[0]*(previous[1]-current[1]))
}

func triangleAreaAt(polygon orb.Ring, i int) float64 {
	previous := polygon[(i+len(polygon)-1)%len(polygon)]
	current := polygon[i]
	next := polygon[(i+1)%len(polygon)]
	return triangleArea(previous, current, next)
}
