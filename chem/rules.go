package chem

import "fmt"

// Action is the kind of interaction attempted between two objects.
type Action uint8

const (
	Combine Action = iota
	Strike
	Apply
	Mix
	Heat
	Cool
	Pressure
	Touch
)

func (a Action) String() string {
	switch a {
	case Combine:
		return "combine"
	case Strike:
		return "strike"
	case Apply:
		return "apply"
	case Mix:
		return "mix"
	case Heat:
		return "heat"
	case Cool:
		return "cool"
	case Pressure:
		return "pressure"
	case Touch:
		return "touch"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction resolves an action name. The second return is false for
// unknown names.
func ParseAction(name string) (Action, bool) {
	switch name {
	case "combine":
		return Combine, true
	case "strike":
		return Strike, true
	case "apply":
		return Apply, true
	case "mix":
		return Mix, true
	case "heat":
		return Heat, true
	case "cool":
		return Cool, true
	case "pressure":
		return Pressure, true
	case "touch":
		return Touch, true
	}
	return 0, false
}

// HandlerKind names the effect a rule applies on success. The engine
// dispatches kinds through one exhaustive switch, which keeps the rule
// table serializable and the effect set closed.
type HandlerKind uint8

const (
	HandleCutting HandlerKind = iota
	HandleBreaking
	HandleBurning
	HandleEvaporation
	HandleCorrosion
	HandleChemicalReaction
	HandleToolCreation
	HandleOrganicMixing
	HandleFermentation
	HandleInduction
	HandlePiezoEffect
	HandleCatalysis
	HandleCrystallization
	HandleExplosion
	HandleAdvancedConductor
)

func (h HandlerKind) String() string {
	switch h {
	case HandleCutting:
		return "cutting"
	case HandleBreaking:
		return "breaking"
	case HandleBurning:
		return "burning"
	case HandleEvaporation:
		return "evaporation"
	case HandleCorrosion:
		return "corrosion"
	case HandleChemicalReaction:
		return "chemical_reaction"
	case HandleToolCreation:
		return "tool_creation"
	case HandleOrganicMixing:
		return "organic_mixing"
	case HandleFermentation:
		return "fermentation"
	case HandleInduction:
		return "induction"
	case HandlePiezoEffect:
		return "piezo_effect"
	case HandleCatalysis:
		return "catalysis"
	case HandleCrystallization:
		return "crystallization"
	case HandleExplosion:
		return "explosion"
	case HandleAdvancedConductor:
		return "advanced_conductor"
	}
	return fmt.Sprintf("handler(%d)", uint8(h))
}

// Rule matches an actor/target property pattern under one action. The
// actor must hold ALL trigger properties; the target must hold ANY one of
// the target properties. Rules are immutable once registered and evaluated
// in registration order on score ties.
type Rule struct {
	Triggers     []PropID
	Targets      []PropID
	Action       Action
	Handler      HandlerKind
	Probability  float64
	RequiresTool bool
	Description  string
}

func (r *Rule) matches(actor, target *Object, action Action, tool *Object) bool {
	if r.Action != action {
		return false
	}
	if r.RequiresTool && tool == nil {
		return false
	}
	for _, id := range r.Triggers {
		if !actor.HasPropertyID(id) {
			return false
		}
	}
	for _, id := range r.Targets {
		if target.HasPropertyID(id) {
			return true
		}
	}
	return false
}

// score ranks a matched rule: actor trigger intensities weigh most, matched
// target intensities less, and rule specificity breaks near-ties.
func (r *Rule) score(actor, target *Object) float64 {
	var score float64
	for _, id := range r.Triggers {
		if inst := actor.PropertyID(id); inst != nil {
			score += inst.Intensity * 10
		}
	}
	for _, id := range r.Targets {
		if inst := target.PropertyID(id); inst != nil {
			score += inst.Intensity * 5
		}
	}
	score += float64(len(r.Triggers) + len(r.Targets))
	return score
}
