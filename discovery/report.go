package discovery

import (
	"fmt"
	"strings"
)

// KnowledgeSummary aggregates what the population has found so far.
type KnowledgeSummary struct {
	TotalDiscoveries   int
	UniquePatterns     int
	PropertyEmergences int
	Reproducible       int
	Breakthroughs      int
	CountsByType       map[Type]int
	MostCreative       string
	MostCreativeCount  int
}

// Summarize computes the current knowledge summary.
func (d *Detector) Summarize() KnowledgeSummary {
	s := KnowledgeSummary{
		TotalDiscoveries:   len(d.ordered),
		UniquePatterns:     len(d.signatures),
		PropertyEmergences: len(d.knownProps),
		CountsByType:       make(map[Type]int),
	}

	perDiscoverer := make(map[string]int)
	for _, disc := range d.ordered {
		s.CountsByType[disc.Type]++
		if disc.Reproducible {
			s.Reproducible++
		}
		if disc.Type == Breakthrough {
			s.Breakthroughs++
		}
		perDiscoverer[disc.Discoverer]++
	}
	for who, n := range perDiscoverer {
		if n > s.MostCreativeCount || (n == s.MostCreativeCount && who < s.MostCreative) {
			s.MostCreative, s.MostCreativeCount = who, n
		}
	}
	return s
}

// Report renders a human-readable account of the discovery record.
func (d *Detector) Report() string {
	s := d.Summarize()

	var b strings.Builder
	b.WriteString("=== DISCOVERY REPORT ===\n")
	fmt.Fprintf(&b, "total discoveries: %d\n", s.TotalDiscoveries)
	fmt.Fprintf(&b, "unique object patterns: %d\n", s.UniquePatterns)
	fmt.Fprintf(&b, "property emergences: %d\n", s.PropertyEmergences)
	fmt.Fprintf(&b, "reproducible: %d\n", s.Reproducible)
	fmt.Fprintf(&b, "breakthroughs: %d\n", s.Breakthroughs)
	if s.MostCreative != "" {
		fmt.Fprintf(&b, "most creative: %s (%d discoveries)\n", s.MostCreative, s.MostCreativeCount)
	}

	if top := d.MostSignificant(5); len(top) > 0 {
		b.WriteString("\nmost significant:\n")
		for _, disc := range top {
			fmt.Fprintf(&b, "  [%s] %s (%.1f) by %s at tick %d\n",
				disc.ID, disc.Name, disc.Significance, disc.Discoverer, disc.Tick)
			if len(disc.Applications) > 0 {
				fmt.Fprintf(&b, "    applications: %s\n", strings.Join(disc.Applications, ", "))
			}
		}
	}
	return b.String()
}
