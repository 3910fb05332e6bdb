package resolver

import (
	"strings"
	"unicode"
)

// AliasTable maps provider team-name variants onto canonical team names.
// Lookups go through normalizeName first, so casing and punctuation never
// matter; the table only has to cover genuinely different spellings
// (market names, mascot-only forms, abbreviations).
type AliasTable struct {
	aliases map[string]string
}

// NewAliasTable creates an alias table seeded with the built-in variants
func NewAliasTable() *AliasTable {
	return &AliasTable{aliases: buildTeamAliasMap()}
}

// Add registers an additional alias for a canonical team name
func (t *AliasTable) Add(alias, canonical string) {
	t.aliases[normalizeName(alias)] = canonical
}

// Canonical resolves a free-text team name to its canonical form. Names with
// no registered alias pass through normalized, so two providers spelling the
// same canonical name differently only in case or punctuation still agree.
func (t *AliasTable) Canonical(name string) string {
	key := normalizeName(name)
	if canonical, ok := t.aliases[key]; ok {
		return canonical
	}
	return key
}

// Key returns the normalized index key for a team name
func (t *AliasTable) Key(name string) string {
	return normalizeName(t.Canonical(name))
}

// normalizeName case-folds, strips punctuation, and collapses whitespace
func normalizeName(name string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '.' || r == '\'':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// buildTeamAliasMap returns the seed mapping of team name variants to
// canonical names. Keys are pre-normalized.
func buildTeamAliasMap() map[string]string {
	return map[string]string{
		// NFL market/mascot variants
		"kc chiefs":            "Kansas City Chiefs",
		"kansas city":          "Kansas City Chiefs",
		"chiefs":               "Kansas City Chiefs",
		"buffalo":              "Buffalo Bills",
		"bills":                "Buffalo Bills",
		"ne patriots":          "New England Patriots",
		"new england":          "New England Patriots",
		"patriots":             "New England Patriots",
		"gb packers":           "Green Bay Packers",
		"green bay":            "Green Bay Packers",
		"packers":              "Green Bay Packers",
		"sf 49ers":             "San Francisco 49ers",
		"san francisco":        "San Francisco 49ers",
		"niners":               "San Francisco 49ers",
		"49ers":                "San Francisco 49ers",
		"la rams":              "Los Angeles Rams",
		"rams":                 "Los Angeles Rams",
		"la chargers":          "Los Angeles Chargers",
		"chargers":             "Los Angeles Chargers",
		"ny giants":            "New York Giants",
		"giants":               "New York Giants",
		"ny jets":              "New York Jets",
		"jets":                 "New York Jets",
		"tb buccaneers":        "Tampa Bay Buccaneers",
		"tampa bay":            "Tampa Bay Buccaneers",
		"bucs":                 "Tampa Bay Buccaneers",
		"buccaneers":           "Tampa Bay Buccaneers",
		"philadelphia":         "Philadelphia Eagles",
		"eagles":               "Philadelphia Eagles",
		"dallas":               "Dallas Cowboys",
		"cowboys":              "Dallas Cowboys",
		"baltimore":            "Baltimore Ravens",
		"ravens":               "Baltimore Ravens",
		"cincinnati":           "Cincinnati Bengals",
		"bengals":              "Cincinnati Bengals",
		"pittsburgh":           "Pittsburgh Steelers",
		"steelers":             "Pittsburgh Steelers",
		"cleveland":            "Cleveland Browns",
		"browns":               "Cleveland Browns",
		"denver":               "Denver Broncos",
		"broncos":              "Denver Broncos",
		"las vegas":            "Las Vegas Raiders",
		"lv raiders":           "Las Vegas Raiders",
		"raiders":              "Las Vegas Raiders",
		"miami":                "Miami Dolphins",
		"dolphins":             "Miami Dolphins",
		"detroit":              "Detroit Lions",
		"lions":                "Detroit Lions",
		"minnesota":            "Minnesota Vikings",
		"vikings":              "Minnesota Vikings",
		"chicago":              "Chicago Bears",
		"bears":                "Chicago Bears",
		"seattle":              "Seattle Seahawks",
		"seahawks":             "Seattle Seahawks",
		"arizona":              "Arizona Cardinals",
		"houston":              "Houston Texans",
		"texans":               "Houston Texans",
		"indianapolis":         "Indianapolis Colts",
		"colts":                "Indianapolis Colts",
		"jacksonville":         "Jacksonville Jaguars",
		"jaguars":              "Jacksonville Jaguars",
		"tennessee":            "Tennessee Titans",
		"titans":               "Tennessee Titans",
		"atlanta":              "Atlanta Falcons",
		"falcons":              "Atlanta Falcons",
		"carolina":             "Carolina Panthers",
		"new orleans":          "New Orleans Saints",
		"no saints":            "New Orleans Saints",
		"saints":               "New Orleans Saints",
		"washington":           "Washington Commanders",
		"commanders":           "Washington Commanders",
		// College variants
		"ohio st":              "Ohio State Buckeyes",
		"ohio state":           "Ohio State Buckeyes",
		"michigan":             "Michigan Wolverines",
		"alabama":              "Alabama Crimson Tide",
		"bama":                 "Alabama Crimson Tide",
		"georgia":              "Georgia Bulldogs",
		"uga":                  "Georgia Bulldogs",
		"texas":                "Texas Longhorns",
		"oregon":               "Oregon Ducks",
		"penn st":              "Penn State Nittany Lions",
		"penn state":           "Penn State Nittany Lions",
		"notre dame":           "Notre Dame Fighting Irish",
		"lsu":                  "LSU Tigers",
		"louisiana state":      "LSU Tigers",
		"ole miss":             "Ole Miss Rebels",
		"mississippi":          "Ole Miss Rebels",
		"florida st":           "Florida State Seminoles",
		"florida state":        "Florida State Seminoles",
		"usc":                  "USC Trojans",
		"southern california":  "USC Trojans",
	}
}
