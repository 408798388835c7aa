package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/normalize"
)

// Input holds the identifying fields of a layoff notice. Impacted is
// part of the identity on purpose: two otherwise-identical filings
// with different headcounts are legally distinct notices (amendments
// file as new records).
type Input struct {
	StateCode  string
	OrgName    string
	RegionName string
	Date       time.Time
	Impacted   *int
}

const sep = "|"

// Fingerprint builds a stable hash over the normalized identifying
// fields. Identical inputs always produce the identical hex digest,
// across restarts and machines.
func Fingerprint(in Input) string {
	impacted := 0
	if in.Impacted != nil {
		impacted = *in.Impacted
	}
	parts := []string{
		strings.ToUpper(strings.TrimSpace(in.StateCode)),
		normalize.OrgName(in.OrgName),
		normalize.RegionName(in.RegionName),
		in.Date.UTC().Format("2006-01-02"),
		strconv.Itoa(impacted),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, sep)))
	return hex.EncodeToString(sum[:])
}
