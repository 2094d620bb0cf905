package chem

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
)

// ErrUnknownAction is returned for an action value outside the known set.
var ErrUnknownAction = errors.New("chem: unknown action kind")

// Attempt is one logged interaction attempt, success or failure.
type Attempt struct {
	Actor  string
	Target string
	Action Action
	Tool   string
	Seq    int
}

// OutcomeKey identifies an (actor, target, action) combination for the
// outcome table.
type OutcomeKey struct {
	Actor  string
	Target string
	Action Action
}

// Statistics summarizes the engine's interaction history.
type Statistics struct {
	TotalInteractions      int
	SuccessfulCombinations int
	FailedAttempts         int
	TopCombinations        []OutcomeKey
}

// Engine matches and applies interaction rules between objects. One engine
// serves one simulation; it owns the rule table, the attempt log, and the
// per-combination outcome table.
type Engine struct {
	cat *Catalog
	rng *rand.Rand
	log *slog.Logger

	rules     []Rule
	attempts  []Attempt
	succeeded map[OutcomeKey][]*Result
	failed    map[OutcomeKey]int
}

// NewEngine creates an engine with the base rule set registered.
func NewEngine(cat *Catalog, rng *rand.Rand, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		cat:       cat,
		rng:       rng,
		log:       log,
		succeeded: make(map[OutcomeKey][]*Result),
		failed:    make(map[OutcomeKey]int),
	}
	e.registerBaseRules()
	return e
}

// Catalog returns the catalog the engine resolves properties against.
func (e *Engine) Catalog() *Catalog { return e.cat }

// AddRule registers a rule given property names. Unknown names make the
// registration fail.
func (e *Engine) AddRule(triggers, targets []string, action Action, handler HandlerKind,
	probability float64, requiresTool bool, description string) error {

	rule := Rule{
		Action:       action,
		Handler:      handler,
		Probability:  probability,
		RequiresTool: requiresTool,
		Description:  description,
	}
	for _, name := range triggers {
		id := e.cat.Lookup(name)
		if id == NoProp {
			return fmt.Errorf("chem: unknown trigger property %q", name)
		}
		rule.Triggers = append(rule.Triggers, id)
	}
	for _, name := range targets {
		id := e.cat.Lookup(name)
		if id == NoProp {
			return fmt.Errorf("chem: unknown target property %q", name)
		}
		rule.Targets = append(rule.Targets, id)
	}
	e.rules = append(e.rules, rule)
	return nil
}

func (e *Engine) mustRule(triggers, targets []string, action Action, handler HandlerKind,
	probability float64, description string) {
	if err := e.AddRule(triggers, targets, action, handler, probability, false, description); err != nil {
		panic(err)
	}
}

// registerBaseRules installs the fundamental rule set.
func (e *Engine) registerBaseRules() {
	e.mustRule([]string{"cutting"}, []string{"fragile"}, Strike, HandleCutting,
		1.0, "sharp objects cut fragile materials")
	e.mustRule([]string{"hard"}, []string{"fragile"}, Strike, HandleBreaking,
		1.0, "hard objects break fragile materials")
	e.mustRule([]string{"hot"}, []string{"organic"}, Touch, HandleBurning,
		1.0, "heat burns organic materials")
	e.mustRule([]string{"hot"}, []string{"humid"}, Apply, HandleEvaporation,
		1.0, "heat evaporates moisture")
	e.mustRule([]string{"acidic"}, []string{"hard", "organic"}, Apply, HandleCorrosion,
		1.0, "acid corrodes materials")
	e.mustRule([]string{"reactive"}, []string{"reactive"}, Mix, HandleChemicalReaction,
		0.6, "reactive materials can react chemically")
	e.mustRule([]string{"cutting"}, []string{"fragile", "organic"}, Pressure, HandleToolCreation,
		1.0, "careful shaping creates pointed tools")
	e.mustRule([]string{"organic"}, []string{"organic"}, Mix, HandleOrganicMixing,
		0.3, "organic materials can sometimes be blended")
	e.mustRule([]string{"fermentable"}, []string{"organic"}, Mix, HandleFermentation,
		0.5, "fermentable materials create new compounds")
	e.mustRule([]string{"magnetic"}, []string{"conductive"}, Touch, HandleInduction,
		1.0, "magnetic fields induce electricity")
	e.mustRule([]string{"piezoelectric"}, []string{"hard"}, Pressure, HandlePiezoEffect,
		1.0, "pressure on piezoelectric materials generates charge")
	e.mustRule([]string{"catalyst"}, []string{"reactive"}, Apply, HandleCatalysis,
		1.0, "catalysts accelerate reactions")
	e.mustRule([]string{"solvent"}, []string{"crystalline"}, Mix, HandleCrystallization,
		0.4, "solvents dissolve and reform crystals")
	e.mustRule([]string{"explosive"}, []string{"hot", "reactive"}, Apply, HandleExplosion,
		0.8, "explosive materials react violently")
	e.mustRule([]string{"conductive"}, []string{"magnetic"}, Combine, HandleAdvancedConductor,
		0.3, "conductive plus magnetic yields advanced materials")
}

// Interact runs one interaction between actor and target. Every call
// appends exactly one attempt to the log. Unknown actions fail with
// ErrUnknownAction and a failure result.
func (e *Engine) Interact(actor, target *Object, action Action, tool *Object) (*Result, error) {
	e.logAttempt(actor, target, action, tool)

	if action > Touch {
		res := &Result{Description: fmt.Sprintf("unknown action between %s and %s", actor.Name, target.Name)}
		e.storeOutcome(actor, target, action, res)
		return res, fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}

	candidates := e.applicableRules(actor, target, action, tool)
	if len(candidates) == 0 {
		res := e.genericInteraction(actor, target, action)
		res.scoreSignificance()
		e.storeOutcome(actor, target, action, res)
		return res, nil
	}

	best := e.selectBestRule(candidates, actor, target)
	res := &Result{}
	if e.rng.Float64() <= best.Probability {
		e.apply(best.Handler, actor, target, tool, res)
		res.Success = true
		res.Description = fmt.Sprintf("%s: %s + %s", best.Description, actor.Name, target.Name)
	} else {
		res.Description = fmt.Sprintf("interaction between %s and %s failed", actor.Name, target.Name)
	}

	res.scoreSignificance()
	e.storeOutcome(actor, target, action, res)

	if res.Success {
		e.log.Debug("interaction",
			"actor", actor.Name,
			"target", target.Name,
			"action", action.String(),
			"handler", best.Handler.String(),
			"significance", res.Significance,
		)
	}
	return res, nil
}

func (e *Engine) applicableRules(actor, target *Object, action Action, tool *Object) []*Rule {
	var out []*Rule
	for i := range e.rules {
		if e.rules[i].matches(actor, target, action, tool) {
			out = append(out, &e.rules[i])
		}
	}
	return out
}

// selectBestRule picks the highest scoring candidate; registration order
// breaks ties. The sort is stable so earlier rules win equal scores.
func (e *Engine) selectBestRule(rules []*Rule, actor, target *Object) *Rule {
	if len(rules) == 1 {
		return rules[0]
	}
	type scored struct {
		score float64
		rule  *Rule
	}
	list := make([]scored, len(rules))
	for i, r := range rules {
		list[i] = scored{score: r.score(actor, target), rule: r}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })
	return list[0].rule
}

// genericInteraction covers actions with no matching rule: a small physical
// fallback per action kind.
func (e *Engine) genericInteraction(actor, target *Object, action Action) *Result {
	res := &Result{}

	switch action {
	case Strike:
		damage := int(actor.InteractionStrength() - float64(target.State.Durability)*0.1)
		if damage < 1 {
			damage = 1
		}
		target.TakeDamage(damage)
		res.addModified(target)
		res.Description = fmt.Sprintf("%s strikes %s for %d damage", actor.Name, target.Name, damage)
		res.Success = true

	case Touch:
		diff := actor.State.Temperature - target.State.Temperature
		if diff > 10 || diff < -10 {
			transfer := diff * 0.1
			actor.ChangeTemperature(-transfer)
			target.ChangeTemperature(transfer)
			res.addModified(actor)
			res.addModified(target)
			res.Description = fmt.Sprintf("temperature exchange between %s and %s", actor.Name, target.Name)
			res.Success = true
		} else {
			res.Description = fmt.Sprintf("%s touches %s with no effect", actor.Name, target.Name)
		}

	case Combine:
		if e.rng.Float64() < 0.1 {
			e.randomPropertyExchange(actor, target, res)
		}
		if !res.Success {
			res.Description = fmt.Sprintf("%s and %s do not combine", actor.Name, target.Name)
		}

	default:
		res.Description = fmt.Sprintf("%s has no effect on %s via %s", actor.Name, target.Name, action)
	}
	return res
}

// randomPropertyExchange occasionally leaks a transient property from actor
// to target during a generic combine.
func (e *Engine) randomPropertyExchange(actor, target *Object, res *Result) {
	var transferable []PropID
	for _, id := range actor.PropertyIDs() {
		inst := actor.PropertyID(id)
		if !inst.Permanent && inst.Intensity > 0.3 {
			transferable = append(transferable, id)
		}
	}
	if len(transferable) == 0 || e.rng.Float64() >= 0.5 {
		return
	}

	id := transferable[e.rng.Intn(len(transferable))]
	amount := actor.PropertyID(id).Intensity * 0.3
	target.AddPropertyID(id, amount)
	actor.ModifyIntensityID(id, -amount)

	res.addModified(actor)
	res.addModified(target)
	res.Description = fmt.Sprintf("%s transferred from %s to %s", e.cat.Name(id), actor.Name, target.Name)
	res.Success = true
}

func (e *Engine) logAttempt(actor, target *Object, action Action, tool *Object) {
	a := Attempt{
		Actor:  actor.Name,
		Target: target.Name,
		Action: action,
		Seq:    len(e.attempts),
	}
	if tool != nil {
		a.Tool = tool.Name
	}
	e.attempts = append(e.attempts, a)
}

func (e *Engine) storeOutcome(actor, target *Object, action Action, res *Result) {
	key := OutcomeKey{Actor: actor.Name, Target: target.Name, Action: action}
	if res.Success {
		e.succeeded[key] = append(e.succeeded[key], res)
	} else {
		e.failed[key]++
	}
}

// Attempts returns the full attempt log, oldest first.
func (e *Engine) Attempts() []Attempt { return e.attempts }

// Stats summarizes all interactions seen so far.
func (e *Engine) Stats() Statistics {
	var failed int
	for _, n := range e.failed {
		failed += n
	}

	keys := make([]OutcomeKey, 0, len(e.succeeded))
	for k := range e.succeeded {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, nj := len(e.succeeded[keys[i]]), len(e.succeeded[keys[j]])
		if ni != nj {
			return ni > nj
		}
		if keys[i].Actor != keys[j].Actor {
			return keys[i].Actor < keys[j].Actor
		}
		return keys[i].Target < keys[j].Target
	})
	if len(keys) > 5 {
		keys = keys[:5]
	}

	return Statistics{
		TotalInteractions:      len(e.attempts),
		SuccessfulCombinations: len(e.succeeded),
		FailedAttempts:         failed,
		TopCombinations:        keys,
	}
}
