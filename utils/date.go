package utils

import "time"

// MexicoCityTZ is the fixed offset the platform reports in (no DST since 2022).
var MexicoCityTZ = time.FixedZone("CST", -6*60*60)

func MexicoCityNow() time.Time {
	return time.Now().In(MexicoCityTZ)
}
