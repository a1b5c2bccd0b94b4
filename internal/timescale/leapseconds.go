package timescale

// leapEntry is one row of the TAI-UTC history: from MJD onward,
// TAI-UTC = Offset + (mjd - RefMJD) * Drift seconds.
type leapEntry struct {
	MJD    float64
	Offset float64
	RefMJD float64
	Drift  float64
}

// taiMinusUTC is the IERS / USNO tai-utc history. Entries before 1972 carry
// the frequency-offset drift of the "rubber second" era; from 1972 on TAI-UTC
// is an integer number of seconds.
var taiMinusUTC = []leapEntry{
	{37300, 1.4228180, 37300, 0.001296},  // 1961-01-01
	{37512, 1.3728180, 37300, 0.001296},  // 1961-08-01
	{37665, 1.8458580, 37665, 0.0011232}, // 1962-01-01
	{38334, 1.9458580, 37665, 0.0011232}, // 1963-11-01
	{38395, 3.2401300, 38761, 0.001296},  // 1964-01-01
	{38486, 3.3401300, 38761, 0.001296},  // 1964-04-01
	{38639, 3.4401300, 38761, 0.001296},  // 1964-09-01
	{38761, 3.5401300, 38761, 0.001296},  // 1965-01-01
	{38820, 3.6401300, 38761, 0.001296},  // 1965-03-01
	{38942, 3.7401300, 38761, 0.001296},  // 1965-07-01
	{39004, 3.8401300, 38761, 0.001296},  // 1965-09-01
	{39126, 4.3131700, 39126, 0.002592},  // 1966-01-01
	{39887, 4.2131700, 39126, 0.002592},  // 1968-02-01
	{41317, 10, 0, 0},                    // 1972-01-01
	{41499, 11, 0, 0},                    // 1972-07-01
	{41683, 12, 0, 0},                    // 1973-01-01
	{42048, 13, 0, 0},                    // 1974-01-01
	{42413, 14, 0, 0},                    // 1975-01-01
	{42778, 15, 0, 0},                    // 1976-01-01
	{43144, 16, 0, 0},                    // 1977-01-01
	{43509, 17, 0, 0},                    // 1978-01-01
	{43874, 18, 0, 0},                    // 1979-01-01
	{44239, 19, 0, 0},                    // 1980-01-01
	{44786, 20, 0, 0},                    // 1981-07-01
	{45151, 21, 0, 0},                    // 1982-07-01
	{45516, 22, 0, 0},                    // 1983-07-01
	{46247, 23, 0, 0},                    // 1985-07-01
	{47161, 24, 0, 0},                    // 1988-01-01
	{47892, 25, 0, 0},                    // 1990-01-01
	{48257, 26, 0, 0},                    // 1991-01-01
	{48804, 27, 0, 0},                    // 1992-07-01
	{49169, 28, 0, 0},                    // 1993-07-01
	{49534, 29, 0, 0},                    // 1994-07-01
	{50083, 30, 0, 0},                    // 1996-01-01
	{50630, 31, 0, 0},                    // 1997-07-01
	{51179, 32, 0, 0},                    // 1999-01-01
	{53736, 33, 0, 0},                    // 2006-01-01
	{54832, 34, 0, 0},                    // 2009-01-01
	{56109, 35, 0, 0},                    // 2012-07-01
	{57204, 36, 0, 0},                    // 2015-07-01
	{57754, 37, 0, 0},                    // 2017-01-01
}

// TAIMinusUTC returns TAI-UTC in seconds at the given UTC MJD.
// Epochs before 1961 use the first entry evaluated at its own reference date.
func TAIMinusUTC(mjd float64) float64 {
	if mjd < taiMinusUTC[0].MJD {
		return taiMinusUTC[0].Offset
	}

	// Table is short and sorted; scan from the most recent entry.
	for i := len(taiMinusUTC) - 1; i >= 0; i-- {
		e := taiMinusUTC[i]
		if mjd >= e.MJD {
			return e.Offset + (mjd-e.RefMJD)*e.Drift
		}
	}
	return taiMinusUTC[0].Offset
}
