package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"cosmarium/chem"
)

func successResult(sig float64, objs ...*chem.Object) *chem.Result {
	return &chem.Result{
		Success:      true,
		New:          objs,
		Description:  "test interaction",
		Significance: sig,
	}
}

func TestAnalyzeIgnoresWeakResults(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	obj := chem.NewObject(cat, "Mezcla", "organic")

	if got := d.Analyze(nil, "H1", 0); got != nil {
		t.Errorf("nil result produced discoveries: %v", got)
	}
	failed := successResult(10.0, obj)
	failed.Success = false
	if got := d.Analyze(failed, "H1", 0); got != nil {
		t.Errorf("failed result produced discoveries: %v", got)
	}
	if got := d.Analyze(successResult(4.9, obj), "H1", 0); got != nil {
		t.Errorf("sub-threshold result produced discoveries: %v", got)
	}
	if d.Count() != 0 {
		t.Errorf("count = %d, want 0", d.Count())
	}
}

func TestFirstObjectRecorded(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	mix := chem.NewObject(cat, "Mezcla", "organic")
	found := d.Analyze(successResult(6.0, mix), "H1", 12)
	if len(found) != 1 {
		t.Fatalf("found %d discoveries, want 1", len(found))
	}
	disc := found[0]
	if disc.ID != "DISC_0001" {
		t.Errorf("id = %q, want DISC_0001", disc.ID)
	}
	if disc.Type != NewObject {
		t.Errorf("type = %v, want NewObject", disc.Type)
	}
	if disc.Discoverer != "H1" || disc.Tick != 12 {
		t.Errorf("attribution = %s at %d", disc.Discoverer, disc.Tick)
	}

	// The identical object kind is not a discovery twice.
	again := chem.NewObject(cat, "Mezcla", "organic")
	if found := d.Analyze(successResult(6.0, again), "H2", 13); len(found) != 0 {
		t.Errorf("repeat signature recorded again: %v", found)
	}
}

func TestReproducibleAtThirdCreation(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	var disc *Discovery
	for i := 0; i < 3; i++ {
		obj := chem.NewObject(cat, "Vinagre", "organic", "acidic", "solvent")
		found := d.Analyze(successResult(6.0, obj), "H1", i)
		if i == 0 {
			disc = found[0]
		}
	}
	if !disc.Reproducible {
		t.Error("discovery not reproducible after third creation")
	}

	d2 := NewDetector(5.0, nil)
	obj := chem.NewObject(cat, "Vinagre", "organic", "acidic", "solvent")
	found := d2.Analyze(successResult(6.0, obj), "H1", 0)
	obj2 := chem.NewObject(cat, "Vinagre", "organic", "acidic", "solvent")
	d2.Analyze(successResult(6.0, obj2), "H1", 1)
	if found[0].Reproducible {
		t.Error("discovery reproducible after only two creations")
	}
}

func TestToolAndCompoundClassification(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	spear := chem.NewObject(cat, "Lanza", "organic", "pointed", "light")
	found := d.Analyze(successResult(6.0, spear), "H1", 0)
	if found[0].Type != ToolCreation {
		t.Errorf("pointed object type = %v, want ToolCreation", found[0].Type)
	}

	compound := chem.NewObject(cat, "Compuesto", "organic", "luminous", "viscous", "toxic")
	found = d.Analyze(successResult(6.0, compound), "H1", 1)
	if found[0].Type != CompoundCreation {
		t.Errorf("4-property object type = %v, want CompoundCreation", found[0].Type)
	}
}

func TestWornToolStillRecorded(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	first := chem.NewObject(cat, "Lanza", "pointed")
	d.Analyze(successResult(6.0, first), "H1", 0)

	// The same kind again, this time nearly broken: the object path stays
	// silent but the tool path still qualifies it on its properties alone.
	worn := chem.NewObject(cat, "Lanza", "pointed")
	worn.State.Durability = 10
	found := d.Analyze(successResult(6.0, worn), "H1", 1)
	if len(found) != 1 {
		t.Fatalf("found %d discoveries, want the tool record", len(found))
	}
	if found[0].Type != ToolCreation {
		t.Errorf("type = %v, want ToolCreation", found[0].Type)
	}
	if !strings.HasPrefix(found[0].ID, "TOOL_") {
		t.Errorf("id = %q, want TOOL_ prefix", found[0].ID)
	}
}

func TestSequenceSnapshotsInteractionChain(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	for i := 0; i < 25; i++ {
		d.RecordInteraction(fmt.Sprintf("H1: Palo + Roca (%d)", i))
	}

	obj := chem.NewObject(cat, "Gema", "crystalline")
	found := d.Analyze(successResult(6.0, obj), "H1", 30)
	if len(found) != 1 {
		t.Fatalf("found %d discoveries, want 1", len(found))
	}
	seq := found[0].Sequence
	if len(seq) != 5 {
		t.Fatalf("sequence length = %d, want the last 5 interactions", len(seq))
	}
	if seq[0] != "H1: Palo + Roca (20)" || seq[4] != "H1: Palo + Roca (24)" {
		t.Errorf("sequence window = %v", seq)
	}

	// With no interactions recorded the sequence stays empty.
	d2 := NewDetector(5.0, nil)
	obj2 := chem.NewObject(cat, "Gema", "crystalline")
	found = d2.Analyze(successResult(6.0, obj2), "H1", 0)
	if len(found[0].Sequence) != 0 {
		t.Errorf("sequence = %v, want empty without interactions", found[0].Sequence)
	}
}

func TestBreakthroughPromotion(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	obj := chem.NewObject(cat, "Plasma", "luminous")
	found := d.Analyze(successResult(10.1, obj), "H1", 0)
	if found[0].Type != Breakthrough {
		t.Errorf("type = %v, want Breakthrough above twice the threshold", found[0].Type)
	}
}

func TestPropertyEmergence(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	obj := chem.NewObject(cat, "Metal", "hard")
	obj.AddProperty("charged", 0.8)
	res := &chem.Result{
		Success:      true,
		Modified:     []*chem.Object{obj},
		Description:  "induction",
		Significance: 6.0,
	}
	found := d.Analyze(res, "H3", 7)
	if len(found) != 1 {
		t.Fatalf("found %d discoveries, want 1", len(found))
	}
	disc := found[0]
	if disc.Type != PropertyCombination {
		t.Errorf("type = %v, want PropertyCombination", disc.Type)
	}
	if disc.ID != "PROP_0001" {
		t.Errorf("id = %q, want PROP_0001", disc.ID)
	}

	// The same property on the same object kind only counts once.
	if found := d.Analyze(res, "H3", 8); len(found) != 0 {
		t.Errorf("repeat emergence recorded again: %v", found)
	}
}

func TestRecentAndMostSignificant(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	names := []string{"Alpha", "Beta", "Gamma"}
	sigs := []float64{6.0, 9.0, 7.0}
	for i, name := range names {
		obj := chem.NewObject(cat, name, "organic")
		d.Analyze(successResult(sigs[i], obj), "H1", i)
	}

	recent := d.Recent(2)
	if len(recent) != 2 || recent[0].Objects[0] != "Gamma" || recent[1].Objects[0] != "Beta" {
		t.Errorf("Recent(2) order wrong: %v", recent)
	}

	top := d.MostSignificant(2)
	if len(top) != 2 || top[0].Objects[0] != "Beta" || top[1].Objects[0] != "Gamma" {
		t.Errorf("MostSignificant(2) order wrong: %v", top)
	}
}

func TestMarkApplication(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	obj := chem.NewObject(cat, "Lanza", "pointed")
	found := d.Analyze(successResult(6.0, obj), "H1", 0)

	if !d.MarkApplication(found[0].ID, "hunting") {
		t.Error("MarkApplication failed for a known id")
	}
	if d.MarkApplication("DISC_9999", "nothing") {
		t.Error("MarkApplication accepted an unknown id")
	}
	if got := found[0].Applications; len(got) != 1 || got[0] != "hunting" {
		t.Errorf("applications = %v", got)
	}
}

func TestSummarize(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	for i := 0; i < 2; i++ {
		obj := chem.NewObject(cat, "Gema", "crystalline", "luminous")
		obj.Name = obj.Name + string(rune('A'+i))
		d.Analyze(successResult(6.0, obj), "H1", i)
	}
	obj := chem.NewObject(cat, "Plasma", "luminous")
	d.Analyze(successResult(20.0, obj), "H2", 2)

	s := d.Summarize()
	if s.TotalDiscoveries != 3 {
		t.Errorf("total = %d, want 3", s.TotalDiscoveries)
	}
	if s.Breakthroughs != 1 {
		t.Errorf("breakthroughs = %d, want 1", s.Breakthroughs)
	}
	if s.MostCreative != "H1" || s.MostCreativeCount != 2 {
		t.Errorf("most creative = %s (%d)", s.MostCreative, s.MostCreativeCount)
	}
}

func TestExportJSON(t *testing.T) {
	cat := chem.NewCatalog()
	d := NewDetector(5.0, nil)

	obj := chem.NewObject(cat, "Cuarzo", "crystalline", "piezoelectric", "luminous")
	d.Analyze(successResult(8.0, obj), "H1", 3)

	var buf bytes.Buffer
	if err := d.ExportJSON(&buf); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var decoded struct {
		Metadata struct {
			TotalDiscoveries int `json:"total_discoveries"`
			NextID           int `json:"next_id"`
		} `json:"metadata"`
		Discoveries map[string]struct {
			Type         string   `json:"type"`
			Significance float64  `json:"significance"`
			Objects      []string `json:"objects_involved"`
		} `json:"discoveries"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if decoded.Metadata.TotalDiscoveries != 1 || decoded.Metadata.NextID != 2 {
		t.Errorf("metadata = %+v", decoded.Metadata)
	}
	entry, ok := decoded.Discoveries["DISC_0001"]
	if !ok {
		t.Fatal("DISC_0001 missing from export")
	}
	if entry.Objects[0] != "Cuarzo" {
		t.Errorf("exported object = %q", entry.Objects[0])
	}
}
