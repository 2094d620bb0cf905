package chem

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	maxDurability  = 100
	ambientTemp    = 20.0
	maxHistory     = 50
	brokenBelow    = 30
	igniteAbove    = 100.0
	freezeBelow    = 0.0
	decayCheckProb = 0.01
	decayProb      = 0.1
	decayStep      = 0.1
)

// ObjectState is the physical condition of an object.
type ObjectState struct {
	Durability  int
	Temperature float64
	Mass        float64
	EnergyLevel float64
	Active      bool
}

// ChangeEntry is one entry in an object's bounded change log.
type ChangeEntry struct {
	Tick        int
	Description string
	Durability  int
	Temperature float64
	Props       []PropID
}

// Object is a property-bearing entity: a material, tool, or byproduct.
// An object is owned by exactly one inventory or by the world's scattered
// material map, never both.
type Object struct {
	ID    string
	Name  string
	X, Y  int
	State ObjectState
	Age   int

	cat     *Catalog
	props   map[PropID]*Instance
	history []ChangeEntry
}

// NewObject creates an object with the named base properties. Unknown
// property names are skipped.
func NewObject(cat *Catalog, name string, baseProps ...string) *Object {
	o := &Object{
		ID:   uuid.NewString(),
		Name: name,
		State: ObjectState{
			Durability:  maxDurability,
			Temperature: ambientTemp,
			Mass:        1.0,
			Active:      true,
		},
		cat:   cat,
		props: make(map[PropID]*Instance),
	}
	for _, p := range baseProps {
		o.AddProperty(p, -1)
	}
	return o
}

// Catalog returns the catalog this object resolves property names against.
func (o *Object) Catalog() *Catalog { return o.cat }

// AddProperty attaches a property by name. A negative intensity uses the
// template default. Returns false for unknown names.
func (o *Object) AddProperty(name string, intensity float64) bool {
	inst := o.cat.Instantiate(name, intensity)
	if inst == nil {
		return false
	}
	o.props[inst.ID] = inst
	o.logChange(fmt.Sprintf("gained %s(%.2f)", name, inst.Intensity))
	return true
}

// AddPropertyID is AddProperty for a resolved id.
func (o *Object) AddPropertyID(id PropID, intensity float64) bool {
	inst := o.cat.InstantiateID(id, intensity)
	if inst == nil {
		return false
	}
	o.props[inst.ID] = inst
	o.logChange(fmt.Sprintf("gained %s(%.2f)", o.cat.Name(id), inst.Intensity))
	return true
}

// RemoveProperty detaches a property. Permanent properties are never
// removed; the refusal is logged and false returned.
func (o *Object) RemoveProperty(name string) bool {
	return o.RemovePropertyID(o.cat.Lookup(name))
}

// RemovePropertyID is RemoveProperty for a resolved id.
func (o *Object) RemovePropertyID(id PropID) bool {
	inst, ok := o.props[id]
	if !ok {
		return false
	}
	if inst.Permanent {
		o.logChange(fmt.Sprintf("cannot remove permanent %s", o.cat.Name(id)))
		return false
	}
	delete(o.props, id)
	o.logChange(fmt.Sprintf("lost %s", o.cat.Name(id)))
	return true
}

// HasProperty reports whether the named property is attached.
func (o *Object) HasProperty(name string) bool {
	_, ok := o.props[o.cat.Lookup(name)]
	return ok
}

// HasPropertyID reports whether the property id is attached.
func (o *Object) HasPropertyID(id PropID) bool {
	_, ok := o.props[id]
	return ok
}

// Property returns the attached instance for a name, or nil.
func (o *Object) Property(name string) *Instance {
	return o.props[o.cat.Lookup(name)]
}

// PropertyID returns the attached instance for an id, or nil.
func (o *Object) PropertyID(id PropID) *Instance {
	return o.props[id]
}

// Intensity returns the attached intensity for a name, or 0 when absent.
func (o *Object) Intensity(name string) float64 {
	if inst := o.Property(name); inst != nil {
		return inst.Intensity
	}
	return 0
}

// PropertyIDs returns the attached property ids in ascending order.
func (o *Object) PropertyIDs() []PropID {
	ids := make([]PropID, 0, len(o.props))
	for id := range o.props {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PropertyNames returns the attached property names, sorted.
func (o *Object) PropertyNames() []string {
	names := make([]string, 0, len(o.props))
	for id := range o.props {
		names = append(names, o.cat.Name(id))
	}
	sort.Strings(names)
	return names
}

// PropertyCount reports how many properties are attached.
func (o *Object) PropertyCount() int { return len(o.props) }

// TransientProperties returns the non-permanent attached instances.
func (o *Object) TransientProperties() []*Instance {
	var out []*Instance
	for _, id := range o.PropertyIDs() {
		if inst := o.props[id]; !inst.Permanent {
			out = append(out, inst)
		}
	}
	return out
}

// ModifyIntensity shifts a property's intensity by delta, clamped to [0,1].
// A non-permanent property whose intensity reaches 0 is removed.
func (o *Object) ModifyIntensity(name string, delta float64) bool {
	return o.ModifyIntensityID(o.cat.Lookup(name), delta)
}

// ModifyIntensityID is ModifyIntensity for a resolved id.
func (o *Object) ModifyIntensityID(id PropID, delta float64) bool {
	inst, ok := o.props[id]
	if !ok {
		return false
	}
	old := inst.Intensity
	inst.Intensity = clamp01(inst.Intensity + delta)
	if inst.Intensity <= 0 && !inst.Permanent {
		o.RemovePropertyID(id)
		return true
	}
	o.logChange(fmt.Sprintf("%s intensity %.2f -> %.2f", o.cat.Name(id), old, inst.Intensity))
	return true
}

// TakeDamage reduces durability. At 0 the object is destroyed (inactive)
// and true is returned. A fragile object below the broken threshold gains
// the broken state.
func (o *Object) TakeDamage(amount int) bool {
	old := o.State.Durability
	o.State.Durability -= amount
	if o.State.Durability < 0 {
		o.State.Durability = 0
	}
	o.logChange(fmt.Sprintf("took %d damage: %d -> %d", amount, old, o.State.Durability))

	if o.State.Durability <= 0 {
		o.State.Active = false
		o.logChange("destroyed")
		return true
	}
	if o.State.Durability < brokenBelow && o.HasProperty("fragile") {
		o.AddProperty("broken", -1)
	}
	return false
}

// Heal restores durability, capped at 100.
func (o *Object) Heal(amount int) {
	old := o.State.Durability
	o.State.Durability += amount
	if o.State.Durability > maxDurability {
		o.State.Durability = maxDurability
	}
	o.logChange(fmt.Sprintf("healed %d: %d -> %d", amount, old, o.State.Durability))
}

// ChangeTemperature shifts the temperature. Organic material above the
// ignition point gains the burnt state; moisture is lost below freezing.
func (o *Object) ChangeTemperature(delta float64) {
	old := o.State.Temperature
	o.State.Temperature += delta

	if o.State.Temperature > igniteAbove && o.HasProperty("organic") {
		o.AddProperty("burnt", -1)
	} else if o.State.Temperature < freezeBelow {
		o.RemoveProperty("humid")
		o.RemoveProperty("wet")
	}
	o.logChange(fmt.Sprintf("temperature %.1f -> %.1f", old, o.State.Temperature))
}

// InteractionStrength scores how forcefully this object acts on others,
// scaled down as it takes damage.
func (o *Object) InteractionStrength() float64 {
	strength := o.Intensity("hard")*10 + o.Intensity("cutting")*15 + o.Intensity("pointed")*12
	return strength * (float64(o.State.Durability) / float64(maxDurability))
}

// Update advances the object one tick: transient properties may decay and
// temperature relaxes toward ambient.
func (o *Object) Update(rng *rand.Rand) {
	o.Age++

	for _, id := range o.PropertyIDs() {
		inst := o.props[id]
		if inst == nil || inst.Permanent {
			continue
		}
		if rng.Float64() < decayCheckProb && rng.Float64() < decayProb {
			o.ModifyIntensityID(id, -decayStep)
		}
	}

	if o.State.Temperature != ambientTemp {
		o.State.Temperature += (ambientTemp - o.State.Temperature) * 0.01
	}
}

// Clone returns a deep copy with a fresh id. Shared discoveries hand out
// clones so one object never sits in two inventories.
func (o *Object) Clone() *Object {
	c := &Object{
		ID:    uuid.NewString(),
		Name:  o.Name,
		X:     o.X,
		Y:     o.Y,
		State: o.State,
		Age:   o.Age,
		cat:   o.cat,
		props: make(map[PropID]*Instance, len(o.props)),
	}
	for id, inst := range o.props {
		dup := *inst
		c.props[id] = &dup
	}
	return c
}

// History returns the bounded change log, oldest first.
func (o *Object) History() []ChangeEntry { return o.history }

func (o *Object) logChange(description string) {
	o.history = append(o.history, ChangeEntry{
		Tick:        o.Age,
		Description: description,
		Durability:  o.State.Durability,
		Temperature: o.State.Temperature,
		Props:       o.PropertyIDs(),
	})
	if len(o.history) > maxHistory {
		o.history = o.history[len(o.history)-maxHistory:]
	}
}

func (o *Object) String() string {
	parts := make([]string, 0, len(o.props))
	for _, id := range o.PropertyIDs() {
		parts = append(parts, fmt.Sprintf("%s(%.2f)", o.cat.Name(id), o.props[id].Intensity))
	}
	return fmt.Sprintf("%s[%s]", o.Name, strings.Join(parts, ", "))
}
