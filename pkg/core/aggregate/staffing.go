package aggregate

import (
	"sort"
	"strings"

	"school_budget/pkg/core/calc"
	"school_budget/pkg/core/kademe"
	"school_budget/pkg/models"
)

// Staff localities.
const (
	LocalityLocal         = "local"
	LocalityTurkish       = "turkish"
	LocalityInternational = "international"
)

// Staff summarizes staffing cost and headcount over enabled tiers.
type Staff struct {
	Cost              map[string]float64 `json:"cost"`
	Headcount         map[string]float64 `json:"headcount"`
	TotalHeadcount    float64            `json:"totalHeadcount"`
	CurrentlyEmployed float64            `json:"currentlyEmployed"`
}

// NormalizeLocality maps a free-text locality to one of the three staff
// localities. Unknown values count as local staff.
func NormalizeLocality(raw string) string {
	switch calc.NormalizeKey(raw) {
	case "TURKISH", "TURK", "TR", "TURKIYE", "MERKEZ", "HQ", "TURKPERSONEL":
		return LocalityTurkish
	case "INTERNATIONAL", "INTL", "INT", "YABANCI", "EXPAT", "ULUSLARARASI":
		return LocalityInternational
	}
	return LocalityLocal
}

// CollectStaff sums cost and headcount per locality. Headcount under a
// disabled tier is ignored; keys outside the tier catalog (shared staff) count.
func CollectStaff(s models.Staffing, tiers kademe.Configs, convert func(float64) float64) Staff {
	out := Staff{
		Cost:      map[string]float64{LocalityLocal: 0, LocalityTurkish: 0, LocalityInternational: 0},
		Headcount: map[string]float64{LocalityLocal: 0, LocalityTurkish: 0, LocalityInternational: 0},
	}
	costs := map[string][]float64{}
	for _, role := range s.Roles {
		n := roleHeadcount(role, tiers)
		loc := NormalizeLocality(role.Locality.String())
		unit := calc.NonNeg(convert(role.UnitCost.Float()))

		out.Headcount[loc] += n
		costs[loc] = append(costs[loc], unit*n)
		out.TotalHeadcount += n
		out.CurrentlyEmployed += calc.NonNeg(role.CurrentlyEmployed.Float())
	}
	for loc, c := range costs {
		out.Cost[loc] = calc.Sum(c...)
	}
	return out
}

func roleHeadcount(role models.StaffRole, tiers kademe.Configs) float64 {
	keys := make([]string, 0, len(role.HeadcountByKademe))
	for k := range role.HeadcountByKademe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var n float64
	for _, k := range keys {
		if tier, ok := kademe.TierOf(k); ok && !tiers.IsEnabled(tier) {
			continue
		}
		n += calc.NonNeg(role.HeadcountByKademe[k].Float())
	}
	return n
}

// isHRItem reports whether an operating item key is a payroll line, which is
// already covered by staffing.
func isHRItem(key string) bool {
	k := calc.NormalizeKey(key)
	for _, marker := range []string{"MAAS", "PERSONEL", "SALARY", "SALARIES", "PAYROLL", "SGK", "UCRET", "WAGE", "STAFF", "HR"} {
		if strings.HasPrefix(k, marker) {
			return true
		}
	}
	return false
}

// isBadDebtItem reports whether an operating item key is a bad-debt provision.
func isBadDebtItem(key string) bool {
	k := calc.NormalizeKey(key)
	for _, marker := range []string{"BADDEBT", "SUPHELIALACAK", "KARSILIKSIZ", "TAHSILEDILEMEYEN"} {
		if strings.Contains(k, marker) {
			return true
		}
	}
	return false
}
