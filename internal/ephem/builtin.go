package ephem

import (
	"math"

	"github.com/litescript/ls-barytime/internal/astro"
)

// orbitalElements are Keplerian mean elements referred to the J2000 ecliptic
// and equinox, with linear rates per Julian century (Standish, "Approximate
// Positions of the Planets", table valid 1800-2050).
type orbitalElements struct {
	a, e, i, l, varpi, node       float64 // AU, -, deg, deg, deg, deg
	da, de, di, dl, dvarpi, dnode float64 // per century
	massRatio                     float64 // planet mass / Sun mass
}

var (
	elemEMB = orbitalElements{
		a: 1.00000261, e: 0.01671123, i: -0.00001531, l: 100.46457166, varpi: 102.93768193, node: 0.0,
		da: 0.00000562, de: -0.00004392, di: -0.01294668, dl: 35999.37244981, dvarpi: 0.32327364, dnode: 0.0,
		massRatio: 1 / 328900.56,
	}

	giants = []orbitalElements{
		{ // Jupiter
			a: 5.20288700, e: 0.04838624, i: 1.30439695, l: 34.39644051, varpi: 14.72847983, node: 100.47390909,
			da: -0.00011607, de: -0.00013253, di: -0.00183714, dl: 3034.74612775, dvarpi: 0.21252668, dnode: 0.20469106,
			massRatio: 1 / 1047.348644,
		},
		{ // Saturn
			a: 9.53667594, e: 0.05386179, i: 2.48599187, l: 49.95424423, varpi: 92.59887831, node: 113.66242448,
			da: -0.00125060, de: -0.00050991, di: 0.00193609, dl: 1222.49362201, dvarpi: -0.41897216, dnode: -0.28867794,
			massRatio: 1 / 3497.9018,
		},
		{ // Uranus
			a: 19.18916464, e: 0.04725744, i: 0.77263783, l: 313.23810451, varpi: 170.95427630, node: 74.01692503,
			da: -0.00196176, de: -0.00004397, di: -0.00242939, dl: 428.48202785, dvarpi: 0.40805281, dnode: 0.04240589,
			massRatio: 1 / 22902.98,
		},
		{ // Neptune
			a: 30.06992276, e: 0.00859048, i: 1.77004347, l: -55.12002969, varpi: 44.96476227, node: 131.78422574,
			da: 0.00026291, de: 0.00005105, di: 0.00035372, dl: 218.45945325, dvarpi: -0.32241464, dnode: -0.00508664,
			massRatio: 1 / 19412.26,
		},
	}
)

const (
	mjdJ2000         = 51544.5
	daysPerCentury   = 36525.0
	earthMoonRatio   = 81.30056907
	earthRadiusKm    = 6378.14
	keplerTolerance  = 1e-12
	keplerIterations = 30
)

// BuiltinEphemeris is an analytic solar-system model needing no data files.
// Accuracy is a few thousand km for the barycenter->Earth vector, about
// 10 ms of light time: adequate as a fallback, not for precision timing.
type BuiltinEphemeris struct{}

// NewBuiltinEphemeris creates the analytic ephemeris.
func NewBuiltinEphemeris() *BuiltinEphemeris {
	return &BuiltinEphemeris{}
}

// Name implements SolarSystem.
func (b *BuiltinEphemeris) Name() string {
	return "builtin"
}

// BarycentricEarthSun implements SolarSystem.
func (b *BuiltinEphemeris) BarycentricEarthSun(mjdTT float64) (astro.Vec3, astro.Vec3, error) {
	T := (mjdTT - mjdJ2000) / daysPerCentury

	// Sun relative to the barycenter from the heliocentric planet positions.
	emb := elemEMB.heliocentric(T)
	weighted := emb.Scale(elemEMB.massRatio)
	totalRatio := 1 + elemEMB.massRatio
	for _, p := range giants {
		weighted = weighted.Add(p.heliocentric(T).Scale(p.massRatio))
		totalRatio += p.massRatio
	}
	sunBary := weighted.Scale(-1 / totalRatio)

	// Earth is offset from the Earth-Moon barycenter away from the Moon.
	moonGeo := moonGeocentricKm(T).Scale(1 / astro.AU)
	earthHelio := emb.Sub(moonGeo.Scale(1 / (1 + earthMoonRatio)))

	earthBaryAU := astro.EclipticToEquatorial(sunBary.Add(earthHelio))
	sunBaryAU := astro.EclipticToEquatorial(sunBary)

	return earthBaryAU.Scale(astro.AU), sunBaryAU.Scale(astro.AU), nil
}

// heliocentric returns the ecliptic J2000 position in AU, T in Julian
// centuries from J2000.
func (el orbitalElements) heliocentric(T float64) astro.Vec3 {
	a := el.a + el.da*T
	e := el.e + el.de*T
	inc := degToRad(el.i + el.di*T)
	L := el.l + el.dl*T
	varpi := el.varpi + el.dvarpi*T
	node := el.node + el.dnode*T

	omega := degToRad(varpi - node)
	nodeRad := degToRad(node)
	M := degToRad(normalizeAngle180(L - varpi))

	E := solveKepler(M, e)
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := math.Cos(omega), math.Sin(omega)
	cn, sn := math.Cos(nodeRad), math.Sin(nodeRad)
	ci, si := math.Cos(inc), math.Sin(inc)

	return astro.Vec3{
		X: (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp,
		Y: (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp,
		Z: (sw*si)*xp + (cw*si)*yp,
	}
}

// solveKepler solves M = E - e sin E by Newton iteration.
func solveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for i := 0; i < keplerIterations; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < keplerTolerance {
			break
		}
	}
	return E
}

// moonGeocentricKm returns the geocentric ecliptic position of the Moon, km,
// from the low-precision series of the Astronomical Almanac (about 0.3 deg).
func moonGeocentricKm(T float64) astro.Vec3 {
	sinDeg := func(d float64) float64 { return math.Sin(degToRad(d)) }
	cosDeg := func(d float64) float64 { return math.Cos(degToRad(d)) }

	lon := 218.32 + 481267.881*T +
		6.29*sinDeg(135.0+477198.87*T) -
		1.27*sinDeg(259.3-413335.36*T) +
		0.66*sinDeg(235.7+890534.22*T) +
		0.21*sinDeg(269.9+954397.74*T) -
		0.19*sinDeg(357.5+35999.05*T) -
		0.11*sinDeg(186.5+966404.03*T)

	lat := 5.13*sinDeg(93.3+483202.02*T) +
		0.28*sinDeg(228.2+960400.89*T) -
		0.28*sinDeg(318.3+6003.15*T) -
		0.17*sinDeg(217.6-407332.21*T)

	parallax := 0.9508 +
		0.0518*cosDeg(135.0+477198.87*T) +
		0.0095*cosDeg(259.3-413335.36*T) +
		0.0078*cosDeg(235.7+890534.22*T) +
		0.0028*cosDeg(269.9+954397.74*T)

	dist := earthRadiusKm / sinDeg(parallax)
	cl := cosDeg(lat)

	return astro.Vec3{
		X: dist * cl * cosDeg(lon),
		Y: dist * cl * sinDeg(lon),
		Z: dist * sinDeg(lat),
	}
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// normalizeAngle180 normalizes an angle to (-180, 180] degrees.
func normalizeAngle180(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}
