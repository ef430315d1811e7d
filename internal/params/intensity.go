package params

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// IntensityParameters computes max, mean, population standard deviation, and
// the standardized third/fourth moments of the charges retained by the mask.
// Central moments use gonum's population-weighted MomentAbout, so a
// dispersion-free image yields NaN skewness/kurtosis (0/0) rather than a
// spurious value. An empty mask yields all NaN.
func IntensityParameters(image []float64, mask []bool) Intensity {
	charges := make([]float64, 0, len(image))
	for i, v := range image {
		if mask[i] {
			charges = append(charges, v)
		}
	}
	if len(charges) == 0 {
		return nanIntensity()
	}

	max := charges[0]
	for _, v := range charges[1:] {
		if v > max {
			max = v
		}
	}

	mean := stat.Mean(charges, nil)
	variance := stat.MomentAbout(2, charges, mean, nil)
	std := math.Sqrt(variance)
	m3 := stat.MomentAbout(3, charges, mean, nil)
	m4 := stat.MomentAbout(4, charges, mean, nil)

	return Intensity{
		Max:      max,
		Mean:     mean,
		Std:      std,
		Skewness: m3 / (std * std * std),
		Kurtosis: m4 / (variance * variance),
	}
}
