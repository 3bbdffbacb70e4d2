// pkg/geo/wgs84.go
// Copyright(c) 2024-2026 grape-core contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"math"

	"github.com/goncaloroque30/grape-core/pkg/gmath"
)

// WGS84Geodesic solves the direct and inverse geodesic problems on the
// WGS84 ellipsoid via Vincenty's formulae.
type WGS84Geodesic struct {
	a, f, b float64
}

// NewWGS84Geodesic constructs the WGS84 ellipsoidal coordinate system.
func NewWGS84Geodesic() *WGS84Geodesic {
	a := gmath.WGS84SemiMajorAxis
	f := gmath.WGS84Flattening
	return &WGS84Geodesic{a: a, f: f, b: a * (1 - f)}
}

const vincentyMaxIterations = 200
const vincentyTolerance = 1e-12

// vincentyInverse solves the inverse geodesic problem, returning distance
// (m) and the forward azimuths at p1 and p2, both normalized to [0,360).
func (g *WGS84Geodesic) vincentyInverse(p1, p2 Point) (dist, az1, az2 float64) {
	if p1.Lon == p2.Lon && p1.Lat == p2.Lat {
		return 0, 0, 0
	}

	L := gmath.Radians(p2.Lon - p1.Lon)
	U1 := math.Atan((1 - g.f) * math.Tan(gmath.Radians(p1.Lat)))
	U2 := math.Atan((1 - g.f) * math.Tan(gmath.Radians(p2.Lat)))
	sinU1, cosU1 := math.Sincos(U1)
	sinU2, cosU2 := math.Sincos(U2)

	lambda := L
	var sinLambda, cosLambda float64
	var sinSigma, cosSigma, sigma float64
	var sinAlpha, cosSqAlpha, cos2SigmaM float64

	for i := 0; i < vincentyMaxIterations; i++ {
		sinLambda, cosLambda = math.Sincos(lambda)
		sinSigma = math.Sqrt(math.Pow(cosU2*sinLambda, 2) +
			math.Pow(cosU1*sinU2-sinU1*cosU2*cosLambda, 2))
		if sinSigma == 0 {
			// Coincident points.
			return 0, 0, 0
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			// Equatorial line.
			cos2SigmaM = 0
		}
		C := g.f / 16 * cosSqAlpha * (4 + g.f*(4-3*cosSqAlpha))
		lambdaPrev := lambda
		lambda = L + (1-C)*g.f*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-lambdaPrev) < vincentyTolerance {
			break
		}
	}

	uSq := cosSqAlpha * (g.a*g.a - g.b*g.b) / (g.b * g.b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	dist = g.b * A * (sigma - deltaSigma)
	az1 = gmath.Degrees(math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda))
	az2 = gmath.Degrees(math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda))
	return dist, gmath.NormalizeHeading(az1), gmath.NormalizeHeading(az2)
}

// vincentyDirect solves the direct geodesic problem: the point at
// distance s from p1 along initial azimuth alpha1, plus the azimuth at
// that destination point.
func (g *WGS84Geodesic) vincentyDirect(p1 Point, s, alpha1Deg float64) (p2 Point, alpha2 float64) {
	if s == 0 {
		return p1, gmath.NormalizeHeading(alpha1Deg)
	}

	alpha1 := gmath.Radians(alpha1Deg)
	sinAlpha1, cosAlpha1 := math.Sincos(alpha1)

	tanU1 := (1 - g.f) * math.Tan(gmath.Radians(p1.Lat))
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	uSq := cosSqAlpha * (g.a*g.a - g.b*g.b) / (g.b * g.b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	sigma := s / (g.b * A)
	var sigmaP, sinSigma, cosSigma, cos2SigmaM float64
	for i := 0; i < vincentyMaxIterations; i++ {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma, cosSigma = math.Sincos(sigma)
		deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		sigmaP = sigma
		sigma = s/(g.b*A) + deltaSigma
		if math.Abs(sigma-sigmaP) < vincentyTolerance {
			break
		}
	}

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	lat2 := math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-g.f)*math.Sqrt(sinAlpha*sinAlpha+tmp*tmp))
	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	C := g.f / 16 * cosSqAlpha * (4 + g.f*(4-3*cosSqAlpha))
	L := lambda - (1-C)*g.f*sinAlpha*
		(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	lon2 := p1.Lon + gmath.Degrees(L)
	alpha2 = gmath.Degrees(math.Atan2(sinAlpha, -tmp))

	return Point{Lon: normalizeLongitude(lon2), Lat: gmath.Degrees(lat2)}, gmath.NormalizeHeading(alpha2)
}

func normalizeLongitude(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

func (g *WGS84Geodesic) Distance(p1, p2 Point) float64 {
	d, _, _ := g.vincentyInverse(p1, p2)
	return d
}

func (g *WGS84Geodesic) HeadingStart(p1, p2 Point) float64 {
	_, az1, _ := g.vincentyInverse(p1, p2)
	return az1
}

func (g *WGS84Geodesic) HeadingEnd(p1, p2 Point) float64 {
	_, _, az2 := g.vincentyInverse(p1, p2)
	return az2
}

func (g *WGS84Geodesic) DistanceHeading(p1, p2 Point) (float64, float64) {
	d, az1, _ := g.vincentyInverse(p1, p2)
	return d, az1
}

func (g *WGS84Geodesic) DistanceHeadingEnd(p1, p2 Point) (float64, float64) {
	d, _, az2 := g.vincentyInverse(p1, p2)
	return d, az2
}

func (g *WGS84Geodesic) Point(p1 Point, dist, heading float64) Point {
	p2, _ := g.vincentyDirect(p1, dist, heading)
	return p2
}

func (g *WGS84Geodesic) PointHeadingEnd(p1 Point, dist, heading float64) (Point, float64) {
	p2, az2 := g.vincentyDirect(p1, dist, heading)
	return p2, gmath.NormalizeHeading(az2)
}

func (g *WGS84Geodesic) Intersection(p1, p2, p3 Point) (Point, Intersection) {
	return geodesicIntersection(g, p1, p2, p3)
}

func (g *WGS84Geodesic) TurnDirection(p1, p2, p3 Point) int {
	return genericTurnDirection(g, p1, p2, p3)
}

func genericTurnDirection(cs CoordinateSystem, p1, p2, p3 Point) int {
	hdgDiff := gmath.NormalizeHeading(cs.HeadingStart(p2, p3) - cs.HeadingEnd(p1, p2))
	if gmath.Close(hdgDiff, 0, gmath.Precision) || gmath.Close(hdgDiff, 180, gmath.Precision) || gmath.Close(hdgDiff, 360, gmath.Precision) {
		return 0
	}
	if hdgDiff > 180 {
		return -1
	}
	return 1
}

// geodesicIntersection implements the iterative foot-of-perpendicular
// algorithm of S. Baselga and J.C. Martinez-Llario, "Intersection and
// point-to-line solutions for geodesics on the ellipsoid" (2018), the
// same algorithm GRAPE's original CoordinateSystem::Geodesic::intersection
// uses: move a trial point I from p1 towards the perpendicular foot X by
// the analytical single-step distance sIX, until the step shrinks below
// gmath.Precision.
func geodesicIntersection(cs CoordinateSystem, p1, p2, p3 Point) (Point, Intersection) {
	R := gmath.WGS84SemiMajorAxis

	distIX := func(angleA, dist3X float64) float64 {
		num := math.Tan((dist3X - R*math.Asin(math.Sin(dist3X/R)*math.Sin(gmath.Radians(angleA)))) / (2 * R))
		return 2 * R * math.Atan(num*math.Sin(gmath.Radians((90+angleA)/2))/math.Sin(gmath.Radians((90-angleA)/2)))
	}

	pI := p1
	behind := false

	dist12 := cs.Distance(p1, p2)
	aziStart21 := cs.HeadingStart(p2, p1)
	aziStart23 := cs.HeadingStart(p2, p3)

	// Detect p3 orthogonal to p2 up front (avoids NaN in distIX below).
	if math.Abs(gmath.HeadingDifference(aziStart21, aziStart23)-90) < gmath.AngleThreshold {
		return p2, Between
	}

	aziStartI2 := cs.HeadingStart(pI, p2)
	aziStartI3 := cs.HeadingStart(pI, p3)
	if math.Abs(gmath.HeadingDifference(aziStartI2, aziStartI3)-90) < gmath.AngleThreshold {
		return p1, Between
	}

	_, distIn3 := cs.DistanceHeading(pI, p3)
	distInX := distIX(gmath.HeadingDifference(aziStartI2, aziStartI3), distIn3)

	if distInX < -gmath.DistanceThreshold {
		behind = true
	}

	pI = cs.Point(pI, distInX, aziStartI2)

	for i := 0; math.Abs(distInX) > gmath.Precision && i < 200; i++ {
		aziStartI2 = cs.HeadingStart(pI, p2)
		aziStartI3 = cs.HeadingStart(pI, p3)
		distIn3 = cs.Distance(pI, p3)

		if math.Abs(gmath.HeadingDifference(aziStartI2, aziStartI3)-90) < gmath.AngleThreshold {
			break
		}

		distInX = distIX(gmath.HeadingDifference(aziStartI2, aziStartI3), distIn3)
		pI = cs.Point(pI, distInX, aziStartI2)
	}

	// 5cm precision around p2 for detection of ahead.
	s1I := cs.Distance(p1, pI)
	var class Intersection
	switch {
	case behind:
		class = Behind
	case s1I > dist12+intersectionTieBreak:
		class = Ahead
	default:
		class = Between
	}
	return pI, class
}
