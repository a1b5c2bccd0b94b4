package ephem

import (
	"strconv"
	"strings"
)

// TargetID is a NAIF SPICE ID for a spacecraft or body.
type TargetID int

// PlatformInfo describes an observing platform with a Horizons ephemeris.
type PlatformInfo struct {
	Code    string   // Short code (e.g., "JWST")
	Name    string   // Full mission name
	NAIFID  TargetID // NAIF SPICE ID
	Aliases []string // Alternative codes
}

// NAIF SPICE IDs for space observatories that time-tag photons.
// Sourced from https://naif.jpl.nasa.gov/pub/naif/toolkit_docs/C/req/naif_ids.html
const (
	NAIFJWST     TargetID = -170
	NAIFHubble   TargetID = -48
	NAIFChandra  TargetID = -151
	NAIFSpitzer  TargetID = -79
	NAIFTESS     TargetID = -95
	NAIFGAIA     TargetID = -123
	NAIFKepler   TargetID = -227
	NAIFEuclid   TargetID = -680
	NAIFIXPE     TargetID = -196
	NAIFNUSTAR   TargetID = -166
	NAIFXMM      TargetID = -125
	NAIFINTEGRAL TargetID = -130
	NAIFFermi    TargetID = -160
	NAIFSOHO     TargetID = -21
)

// Platforms is the list of known observing platforms.
var Platforms = []PlatformInfo{
	// L2
	{Code: "JWST", Name: "James Webb Space Telescope", NAIFID: NAIFJWST, Aliases: []string{"WEBB"}},
	{Code: "GAIA", Name: "Gaia", NAIFID: NAIFGAIA},
	{Code: "EUCLID", Name: "Euclid", NAIFID: NAIFEuclid},

	// Heliocentric
	{Code: "SPTZ", Name: "Spitzer", NAIFID: NAIFSpitzer, Aliases: []string{"SPITZER"}},
	{Code: "KEPLER", Name: "Kepler", NAIFID: NAIFKepler},
	{Code: "SOHO", Name: "SOHO", NAIFID: NAIFSOHO},

	// Earth orbit
	{Code: "HST", Name: "Hubble", NAIFID: NAIFHubble, Aliases: []string{"HUBBLE"}},
	{Code: "CHDR", Name: "Chandra", NAIFID: NAIFChandra, Aliases: []string{"CXO", "CHANDRA"}},
	{Code: "TESS", Name: "TESS", NAIFID: NAIFTESS},
	{Code: "IXPE", Name: "IXPE", NAIFID: NAIFIXPE},
	{Code: "NUSTAR", Name: "NuSTAR", NAIFID: NAIFNUSTAR},
	{Code: "XMM", Name: "XMM-Newton", NAIFID: NAIFXMM, Aliases: []string{"XMM-NEWTON"}},
	{Code: "INTEG", Name: "INTEGRAL", NAIFID: NAIFINTEGRAL, Aliases: []string{"INTEGRAL"}},
	{Code: "FERMI", Name: "Fermi", NAIFID: NAIFFermi, Aliases: []string{"GLAST"}},
}

// PlatformsByNAIF maps NAIF IDs to platform info for quick lookup.
var PlatformsByNAIF = func() map[TargetID]PlatformInfo {
	m := make(map[TargetID]PlatformInfo, len(Platforms))
	for _, p := range Platforms {
		m[p.NAIFID] = p
	}
	return m
}()

// PlatformsByCode maps upper-case codes and aliases to platform info.
var PlatformsByCode = func() map[string]PlatformInfo {
	m := make(map[string]PlatformInfo, len(Platforms)*2)
	for _, p := range Platforms {
		m[p.Code] = p
		for _, alias := range p.Aliases {
			m[alias] = p
		}
	}
	return m
}()

// LookupPlatform resolves a code, alias or full name (case-insensitive), or a
// literal NAIF ID such as "-170".
func LookupPlatform(s string) (PlatformInfo, bool) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if p, ok := PlatformsByNAIF[TargetID(id)]; ok {
			return p, true
		}
		// Unknown IDs are still usable for Horizons queries.
		return PlatformInfo{Code: s, Name: "NAIF " + s, NAIFID: TargetID(id)}, id != 0
	}

	upper := strings.ToUpper(s)
	if p, ok := PlatformsByCode[upper]; ok {
		return p, true
	}
	for _, p := range Platforms {
		if strings.EqualFold(p.Name, s) {
			return p, true
		}
	}
	return PlatformInfo{}, false
}
