package incident

// Stats is the dashboard summary. ByCategory lists only categories that
// have at least one incident.
type Stats struct {
	Total      int            `json:"total"`
	Pending    int            `json:"pending"`
	Active     int            `json:"active"`
	Resolved   int            `json:"resolved"`
	Critical   int            `json:"critical"`
	ByCategory map[string]int `json:"byCategory"`
}

func emptyStats() *Stats {
	return &Stats{ByCategory: map[string]int{}}
}

// FoldStats reduces grouped counts into Stats.
func FoldStats(groups []GroupCount) *Stats {
	s := emptyStats()
	for _, g := range groups {
		if g.Count <= 0 {
			continue
		}
		s.Total += g.Count
		switch g.Status {
		case StatusPending:
			s.Pending += g.Count
		case StatusActive:
			s.Active += g.Count
		case StatusResolved:
			s.Resolved += g.Count
		}
		if g.Priority == PriorityCritical {
			s.Critical += g.Count
		}
		s.ByCategory[string(g.Category)] += g.Count
	}
	return s
}
