// pkg/noise/spectrum.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package noise

// OneThirdOctaveBandsSize is the number of one-third-octave bands of a
// reference spectrum (nominal center frequencies 50 Hz to 10 kHz).
const OneThirdOctaveBandsSize = 24

// OneThirdOctaveCenterFrequencies are the nominal band center
// frequencies in Hz.
var OneThirdOctaveCenterFrequencies = [OneThirdOctaveBandsSize]float64{
	50, 63, 80, 100, 125, 160, 200, 250, 315, 400, 500, 630,
	800, 1000, 1250, 1600, 2000, 2500, 3150, 4000, 5000, 6300, 8000, 10000,
}

// OneThirdOctaveAWeight are the standard A-weights in dB at the 24 band
// centers.
var OneThirdOctaveAWeight = [OneThirdOctaveBandsSize]float64{
	-30.2, -26.2, -22.5, -19.1, -16.1, -13.4, -10.9, -8.6,
	-6.6, -4.8, -3.2, -1.9, -0.8, 0.0, 0.6, 1.0,
	1.2, 1.3, 1.2, 1.0, 0.5, -0.1, -1.1, -2.5,
}

// NpdStandardAverageAttenuationRates are the SAE AIR 1845 average
// atmospheric attenuation rates in dB/m at the 24 band centers.
var NpdStandardAverageAttenuationRates = [OneThirdOctaveBandsSize]float64{
	0.000328, 0.000328, 0.000328, 0.000656, 0.000656, 0.000984,
	0.001312, 0.001312, 0.001968, 0.002297, 0.002953, 0.003609,
	0.004593, 0.005906, 0.007546, 0.009843, 0.013123, 0.017060,
	0.022966, 0.031168, 0.036089, 0.052493, 0.072178, 0.098425,
}

// Spectrum is a one-third-octave reference spectrum: unweighted levels
// in dB at a reference distance of 305 m (1000 ft), one value per band.
type Spectrum [OneThirdOctaveBandsSize]float64
