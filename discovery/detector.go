// Package discovery detects and records emergent findings: novel objects,
// property combinations, and functional tools produced by interactions.
package discovery

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"cosmarium/chem"
)

// Type classifies a discovery.
type Type uint8

const (
	NewObject Type = iota
	PropertyCombination
	ToolCreation
	CompoundCreation
	Breakthrough
)

func (t Type) String() string {
	switch t {
	case NewObject:
		return "new_object"
	case PropertyCombination:
		return "property_combination"
	case ToolCreation:
		return "tool_creation"
	case CompoundCreation:
		return "compound_creation"
	case Breakthrough:
		return "breakthrough"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// DefaultThreshold is the minimum significance a result needs before the
// detector considers it at all.
const DefaultThreshold = 5.0

const (
	chainCap      = 20
	chainSnapshot = 5
	reproducedAt  = 3
)

// Discovery is one recorded finding.
type Discovery struct {
	ID           string
	Type         Type
	Name         string
	Description  string
	Significance float64
	Objects      []string
	Properties   []string
	Tick         int
	Discoverer   string
	Reproducible bool
	Applications []string

	// Sequence snapshots the recent interaction descriptions at recording
	// time, giving context for how the finding came about.
	Sequence []string
}

type signatureRecord struct {
	discovery    *Discovery
	timesCreated int
}

// Detector watches interaction results and records the genuinely new ones.
// One detector serves one simulation.
type Detector struct {
	threshold float64
	log       *slog.Logger

	ordered    []*Discovery
	byID       map[string]*Discovery
	signatures map[string]*signatureRecord
	knownProps map[string]bool
	chain      []string
	nextID     int
}

// NewDetector creates a detector. A non-positive threshold falls back to
// DefaultThreshold.
func NewDetector(threshold float64, log *slog.Logger) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if log == nil {
		log = slog.Default()
	}
	return &Detector{
		threshold:  threshold,
		log:        log,
		byID:       make(map[string]*Discovery),
		signatures: make(map[string]*signatureRecord),
		knownProps: make(map[string]bool),
		nextID:     1,
	}
}

// Threshold returns the detector's significance threshold.
func (d *Detector) Threshold() float64 { return d.threshold }

// Analyze inspects one interaction result and records any discoveries it
// contains. Results that fail, or score below the threshold, record nothing.
func (d *Detector) Analyze(res *chem.Result, discoverer string, tick int) []*Discovery {
	if res == nil || !res.Success || res.Significance < d.threshold {
		return nil
	}

	var found []*Discovery

	for _, obj := range res.New {
		sig := objectSignature(obj)
		rec, seen := d.signatures[sig]
		if !seen {
			disc := d.recordObject(obj, res, discoverer, tick)
			d.signatures[sig] = &signatureRecord{discovery: disc, timesCreated: 1}
			found = append(found, disc)
			continue
		}
		rec.timesCreated++
		if rec.timesCreated >= reproducedAt && !rec.discovery.Reproducible {
			rec.discovery.Reproducible = true
			d.log.Debug("discovery reproduced",
				"id", rec.discovery.ID, "times", rec.timesCreated)
		}
	}

	if len(res.New) == 0 && len(res.Modified) > 0 {
		if disc := d.analyzeProperties(res, discoverer, tick); disc != nil {
			found = append(found, disc)
		}
	}

	if len(found) == 0 {
		if disc := d.analyzeTools(res, discoverer, tick); disc != nil {
			found = append(found, disc)
		}
	}

	for _, disc := range found {
		d.updateKnowledge(disc)
	}
	return found
}

// RecordInteraction appends one interaction description to the rolling
// chain that gives discoveries their context.
func (d *Detector) RecordInteraction(description string) {
	d.chain = append(d.chain, description)
	if len(d.chain) > chainCap {
		d.chain = d.chain[len(d.chain)-chainCap:]
	}
}

// recordObject registers a never-before-seen object as a discovery.
func (d *Detector) recordObject(obj *chem.Object, res *chem.Result, discoverer string, tick int) *Discovery {
	typ := NewObject
	switch {
	case isTool(obj):
		typ = ToolCreation
	case obj.PropertyCount() > 3:
		typ = CompoundCreation
	}

	disc := &Discovery{
		ID:           fmt.Sprintf("DISC_%04d", d.nextID),
		Type:         typ,
		Name:         "Discovery of " + obj.Name,
		Description:  res.Description,
		Significance: res.Significance,
		Objects:      []string{obj.Name},
		Properties:   obj.PropertyNames(),
		Tick:         tick,
		Discoverer:   discoverer,
	}
	d.nextID++
	d.register(disc)
	return disc
}

// analyzeProperties records the first time a transient property shows up on
// an object that only got modified, never replaced.
func (d *Detector) analyzeProperties(res *chem.Result, discoverer string, tick int) *Discovery {
	var fresh []string
	var objects []string
	for _, obj := range res.Modified {
		for _, inst := range obj.TransientProperties() {
			name := obj.Catalog().Name(inst.ID)
			key := obj.Name + "_" + name
			if d.knownProps[key] {
				continue
			}
			d.knownProps[key] = true
			fresh = append(fresh, name)
			objects = appendUnique(objects, obj.Name)
		}
	}
	if len(fresh) == 0 || res.Significance <= d.threshold*0.8 {
		return nil
	}

	disc := &Discovery{
		ID:           fmt.Sprintf("PROP_%04d", d.nextID),
		Type:         PropertyCombination,
		Name:         "Emergence of " + strings.Join(fresh, ", "),
		Description:  res.Description,
		Significance: res.Significance,
		Objects:      objects,
		Properties:   fresh,
		Tick:         tick,
		Discoverer:   discoverer,
	}
	d.nextID++
	d.register(disc)
	return disc
}

// analyzeTools catches functional tools whose object signature was already
// known, so the object path stayed silent.
func (d *Detector) analyzeTools(res *chem.Result, discoverer string, tick int) *Discovery {
	for _, obj := range res.New {
		if !isTool(obj) {
			continue
		}
		disc := &Discovery{
			ID:           fmt.Sprintf("TOOL_%04d", d.nextID),
			Type:         ToolCreation,
			Name:         "Tool: " + obj.Name,
			Description:  res.Description,
			Significance: res.Significance + 5.0,
			Objects:      []string{obj.Name},
			Properties:   obj.PropertyNames(),
			Tick:         tick,
			Discoverer:   discoverer,
		}
		d.nextID++
		d.register(disc)
		return disc
	}
	return nil
}

func (d *Detector) register(disc *Discovery) {
	d.ordered = append(d.ordered, disc)
	d.byID[disc.ID] = disc
	d.log.Debug("discovery recorded",
		"id", disc.ID,
		"type", disc.Type.String(),
		"name", disc.Name,
		"significance", disc.Significance,
		"discoverer", disc.Discoverer,
	)
}

// updateKnowledge snapshots the recent interaction chain onto the finding
// and promotes exceptional findings to breakthroughs.
func (d *Detector) updateKnowledge(disc *Discovery) {
	if len(d.chain) > 0 {
		start := len(d.chain) - chainSnapshot
		if start < 0 {
			start = 0
		}
		disc.Sequence = append([]string(nil), d.chain[start:]...)
	}

	if disc.Significance > d.threshold*2 {
		disc.Type = Breakthrough
	}
}

// Get returns a discovery by id.
func (d *Detector) Get(id string) (*Discovery, bool) {
	disc, ok := d.byID[id]
	return disc, ok
}

// All returns every discovery in recording order.
func (d *Detector) All() []*Discovery { return d.ordered }

// Count reports the number of recorded discoveries.
func (d *Detector) Count() int { return len(d.ordered) }

// ByType returns the discoveries of one type, in recording order.
func (d *Detector) ByType(t Type) []*Discovery {
	var out []*Discovery
	for _, disc := range d.ordered {
		if disc.Type == t {
			out = append(out, disc)
		}
	}
	return out
}

// Recent returns the n most recently recorded discoveries, newest first.
func (d *Detector) Recent(n int) []*Discovery {
	if n > len(d.ordered) {
		n = len(d.ordered)
	}
	out := make([]*Discovery, 0, n)
	for i := len(d.ordered) - 1; i >= len(d.ordered)-n; i-- {
		out = append(out, d.ordered[i])
	}
	return out
}

// MostSignificant returns the n highest scoring discoveries, best first.
func (d *Detector) MostSignificant(n int) []*Discovery {
	sorted := append([]*Discovery(nil), d.ordered...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Significance > sorted[j].Significance
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// MarkApplication records a practical use of a discovery. Unknown ids
// return false.
func (d *Detector) MarkApplication(id, application string) bool {
	disc, ok := d.byID[id]
	if !ok {
		return false
	}
	disc.Applications = append(disc.Applications, application)
	return true
}

// objectSignature identifies an object kind by name and property set,
// independent of intensities.
func objectSignature(obj *chem.Object) string {
	return obj.Name + "::" + strings.Join(obj.PropertyNames(), ":")
}

// isTool reports whether the object has a tool-like property. Wear does
// not matter; a blunt spear is still a spear.
func isTool(obj *chem.Object) bool {
	return obj.HasProperty("pointed") || obj.HasProperty("cutting") || obj.HasProperty("hard")
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
