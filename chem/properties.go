// Package chem implements the property and interaction layer: a catalog of
// property templates, property-bearing world objects, and the rule engine
// that combines them.
package chem

import "fmt"

// Category groups properties by the kind of behavior they drive.
type Category uint8

const (
	Physical Category = iota
	Thermal
	Chemical
	Biological
	Energy
	State
)

func (c Category) String() string {
	switch c {
	case Physical:
		return "physical"
	case Thermal:
		return "thermal"
	case Chemical:
		return "chemical"
	case Biological:
		return "biological"
	case Energy:
		return "energy"
	case State:
		return "state"
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// PropID is a dense index into a catalog. Names are resolved to ids at
// registration time; strings reappear only at the reporting boundary.
type PropID int

// NoProp is returned by lookups for unknown names.
const NoProp PropID = -1

// Template is an immutable property definition registered once per catalog.
type Template struct {
	ID          PropID
	Name        string
	Category    Category
	Intensity   float64
	Permanent   bool
	Description string
}

// Instance is a property attached to one object. Intensity stays in [0,1].
type Instance struct {
	ID        PropID
	Category  Category
	Intensity float64
	Permanent bool
}

// Catalog holds the property templates of one simulation. It is seeded once
// and read-only afterwards; objects and the engine share a single catalog.
type Catalog struct {
	templates []Template
	byName    map[string]PropID
}

// NewCatalog creates a catalog seeded with the base property set.
func NewCatalog() *Catalog {
	c := &Catalog{byName: make(map[string]PropID)}
	c.seed()
	return c
}

// Register adds a template and returns its id. Registering an existing name
// returns the existing id unchanged.
func (c *Catalog) Register(name string, cat Category, description string, opts ...TemplateOption) PropID {
	if id, ok := c.byName[name]; ok {
		return id
	}
	t := Template{
		ID:          PropID(len(c.templates)),
		Name:        name,
		Category:    cat,
		Intensity:   1.0,
		Permanent:   true,
		Description: description,
	}
	for _, opt := range opts {
		opt(&t)
	}
	c.templates = append(c.templates, t)
	c.byName[name] = t.ID
	return t.ID
}

// TemplateOption adjusts a template at registration.
type TemplateOption func(*Template)

// Transient marks the template's instances as removable.
func Transient() TemplateOption {
	return func(t *Template) { t.Permanent = false }
}

// Lookup resolves a name to its id, or NoProp when unknown.
func (c *Catalog) Lookup(name string) PropID {
	if id, ok := c.byName[name]; ok {
		return id
	}
	return NoProp
}

// Name returns the registered name for an id, or "" for out-of-range ids.
func (c *Catalog) Name(id PropID) string {
	if id < 0 || int(id) >= len(c.templates) {
		return ""
	}
	return c.templates[id].Name
}

// Template returns the template for an id, or nil for out-of-range ids.
func (c *Catalog) Template(id PropID) *Template {
	if id < 0 || int(id) >= len(c.templates) {
		return nil
	}
	return &c.templates[id]
}

// Len reports the number of registered templates.
func (c *Catalog) Len() int { return len(c.templates) }

// ByCategory returns the ids of all templates in a category.
func (c *Catalog) ByCategory(cat Category) []PropID {
	var ids []PropID
	for i := range c.templates {
		if c.templates[i].Category == cat {
			ids = append(ids, c.templates[i].ID)
		}
	}
	return ids
}

// Instantiate creates an instance of a named property. A negative intensity
// means "use the template default". Unknown names return nil.
func (c *Catalog) Instantiate(name string, intensity float64) *Instance {
	id := c.Lookup(name)
	if id == NoProp {
		return nil
	}
	return c.InstantiateID(id, intensity)
}

// InstantiateID is Instantiate for an already-resolved id.
func (c *Catalog) InstantiateID(id PropID, intensity float64) *Instance {
	t := c.Template(id)
	if t == nil {
		return nil
	}
	inst := &Instance{
		ID:        t.ID,
		Category:  t.Category,
		Intensity: t.Intensity,
		Permanent: t.Permanent,
	}
	if intensity >= 0 {
		inst.Intensity = clamp01(intensity)
	}
	return inst
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// seed registers the base property set of the universe.
func (c *Catalog) seed() {
	// Physical
	c.Register("hard", Physical, "resistant to breaking")
	c.Register("fragile", Physical, "easily broken or damaged")
	c.Register("cutting", Physical, "can cut other materials")
	c.Register("pointed", Physical, "has a sharp point")
	c.Register("heavy", Physical, "has significant mass")
	c.Register("light", Physical, "has little mass")
	c.Register("flexible", Physical, "can bend without breaking")
	c.Register("elastic", Physical, "returns to its original shape")
	c.Register("viscous", Physical, "thick, sticky consistency")
	c.Register("crystalline", Physical, "ordered crystalline structure")

	// Thermal
	c.Register("hot", Thermal, "generates or retains heat")
	c.Register("cold", Thermal, "absorbs heat or is cold")
	c.Register("flammable", Thermal, "can catch fire")
	c.Register("retains_heat", Thermal, "stores thermal energy well")
	c.Register("conducts_heat", Thermal, "transfers heat efficiently")
	c.Register("fireproof", Thermal, "cannot be burned")

	// Chemical
	c.Register("acidic", Chemical, "corrosive acidic substance")
	c.Register("alkaline", Chemical, "basic substance")
	c.Register("toxic", Chemical, "harmful to living things")
	c.Register("reactive", Chemical, "reacts easily with other substances")
	c.Register("stable", Chemical, "resists chemical change")
	c.Register("catalyst", Chemical, "accelerates chemical reactions")
	c.Register("explosive", Chemical, "can explode under the right conditions")
	c.Register("solvent", Chemical, "dissolves other substances")

	// Biological
	c.Register("organic", Biological, "made of living or once-living matter")
	c.Register("alive", Biological, "currently alive and active")
	c.Register("nutritious", Biological, "provides nourishment")
	c.Register("poisonous", Biological, "toxic when consumed")
	c.Register("healing", Biological, "has healing properties")
	c.Register("regenerative", Biological, "can regrow or repair itself")
	c.Register("fermentable", Biological, "can undergo fermentation")
	c.Register("psychoactive", Biological, "affects perception")

	// Energy
	c.Register("conductive", Energy, "allows electricity to flow")
	c.Register("magnetic", Energy, "has magnetic properties")
	c.Register("luminous", Energy, "emits light")
	c.Register("light_absorbing", Energy, "absorbs light energy")
	c.Register("radioactive", Energy, "emits radiation")
	c.Register("vibrating", Energy, "produces vibrations or sound")
	c.Register("superconductive", Energy, "conducts with zero resistance")
	c.Register("field_generating", Energy, "creates an energy field")
	c.Register("piezoelectric", Energy, "generates electricity under pressure")

	// State (transient)
	c.Register("humid", State, "contains moisture", Transient())
	c.Register("wet", State, "covered with liquid", Transient())
	c.Register("burnt", State, "has been burned", Transient())
	c.Register("broken", State, "is damaged or broken", Transient())
	c.Register("charged", State, "carries electrical charge", Transient())
	c.Register("magnetized", State, "is temporarily magnetized", Transient())
	c.Register("energized", State, "is in an active state", Transient())
	c.Register("concentrated", State, "is in concentrated form", Transient())
	c.Register("refined", State, "has been refined or purified", Transient())
	c.Register("hybrid", State, "is a blend of different materials", Transient())
}
