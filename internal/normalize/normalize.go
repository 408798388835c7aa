package normalize

import (
	"regexp"
	"strings"
)

// Normalization rules for employer and county names. These feed both
// the dedupe fingerprint and the URL slugs, so every function here
// must be deterministic and idempotent.

var (
	corpSuffixRe = regexp.MustCompile(`(?i)\b(inc\.?|incorporated|llc|llp|l\.l\.c\.?|corp\.?|corporation|co\.?|company|ltd\.?|limited|plc|pllc|lp|l\.p\.)\b`)
	dbaRe        = regexp.MustCompile(`(?i)\s*d/?b/?a\s*.*`)
	punctRe      = regexp.MustCompile(`[.,'"()]`)
	spaceRe      = regexp.MustCompile(`\s+`)

	countySuffixRe = regexp.MustCompile(`(?i)\s+county$`)

	nonSlugRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	hyphenRunRe  = regexp.MustCompile(`-+`)
	edgeHyphenRe = regexp.MustCompile(`^-|-$`)
)

// OrgName lowercases an employer name, strips corporate suffixes and
// any trailing "d/b/a" clause, drops punctuation except hyphens, and
// collapses whitespace.
func OrgName(name string) string {
	if name == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(name))
	s = corpSuffixRe.ReplaceAllString(s, "")
	s = dbaRe.ReplaceAllString(s, "")
	s = punctRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Slugify converts a canonical name into a URL-safe slug. Applying it
// twice yields the same result as once.
func Slugify(name string) string {
	if name == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return edgeHyphenRe.ReplaceAllString(s, "")
}

// OrgSlug is the slug form of a raw employer name; it is the Company
// natural key, so the same input always yields the same slug.
func OrgSlug(name string) string {
	return Slugify(OrgName(name))
}

// RegionName lowercases a county name, drops a trailing "County"
// suffix, and collapses whitespace.
func RegionName(name string) string {
	if name == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(name))
	s = countySuffixRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// RegionSlug is the slug form of a raw county name.
func RegionSlug(name string) string {
	return Slugify(RegionName(name))
}
