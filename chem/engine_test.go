package chem

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestEngine(seed int64) *Engine {
	return NewEngine(NewCatalog(), rand.New(rand.NewSource(seed)), nil)
}

func TestStrikeBreaksFragile(t *testing.T) {
	e := newTestEngine(42)
	cat := e.Catalog()

	rock := NewObject(cat, "Roca", "hard")
	glass := NewObject(cat, "Vidrio", "fragile")

	res, err := e.Interact(rock, glass, Strike, nil)
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if !res.Success {
		t.Fatal("hard striking fragile did not succeed")
	}
	if glass.State.Durability != 75 {
		t.Errorf("glass durability = %d, want 75", glass.State.Durability)
	}
	if !glass.HasProperty("broken") {
		t.Error("glass did not gain broken")
	}
	if len(res.Modified) != 1 || res.Modified[0] != glass {
		t.Errorf("modified = %v, want [glass]", res.Modified)
	}
	if res.Significance <= 0 {
		t.Errorf("significance = %v, want positive", res.Significance)
	}
}

func TestCuttingCreatesPiece(t *testing.T) {
	cat := NewCatalog()

	// The pointed-piece byproduct is probabilistic; over many seeds it must
	// occur at least once and every piece must carry the expected property set.
	var sawPiece bool
	for seed := int64(0); seed < 20; seed++ {
		e := NewEngine(cat, rand.New(rand.NewSource(seed)), nil)
		knife := NewObject(cat, "Cuchillo", "cutting")
		branch := NewObject(cat, "Rama", "organic", "fragile")
		branch.ModifyIntensity("fragile", -0.5)

		res, err := e.Interact(knife, branch, Strike, nil)
		if err != nil {
			t.Fatalf("Interact: %v", err)
		}
		if !res.Success {
			t.Fatal("cutting a fragile branch did not succeed")
		}
		for _, obj := range res.New {
			sawPiece = true
			if obj.Name != "Rama Puntiagudo" {
				t.Errorf("piece name = %q", obj.Name)
			}
			for _, want := range []string{"organic", "pointed", "fragile"} {
				if !obj.HasProperty(want) {
					t.Errorf("piece missing %s", want)
				}
			}
		}
	}
	if !sawPiece {
		t.Error("no pointed piece produced across 20 seeds")
	}
}

func TestUnknownActionFails(t *testing.T) {
	e := newTestEngine(42)
	cat := e.Catalog()

	a := NewObject(cat, "A", "hard")
	b := NewObject(cat, "B", "fragile")

	res, err := e.Interact(a, b, Action(99), nil)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
	if res == nil || res.Success {
		t.Error("unknown action yielded a success result")
	}
	if len(e.Attempts()) != 1 {
		t.Errorf("attempts = %d, want 1 even on failure", len(e.Attempts()))
	}
}

func TestEveryCallLogged(t *testing.T) {
	e := newTestEngine(42)
	cat := e.Catalog()

	a := NewObject(cat, "Roca", "hard")
	b := NewObject(cat, "Vidrio", "fragile")

	e.Interact(a, b, Strike, nil)
	e.Interact(a, b, Combine, nil)
	e.Interact(a, b, Action(200), nil)

	attempts := e.Attempts()
	if len(attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(attempts))
	}
	for i, at := range attempts {
		if at.Seq != i {
			t.Errorf("attempt %d has seq %d", i, at.Seq)
		}
	}
}

func TestChemicalReactionConsumesReagents(t *testing.T) {
	cat := NewCatalog()

	var sawReaction bool
	for seed := int64(0); seed < 30 && !sawReaction; seed++ {
		e := NewEngine(cat, rand.New(rand.NewSource(seed)), nil)
		acid := NewObject(cat, "Acido", "reactive", "acidic")
		base := NewObject(cat, "Base", "reactive", "alkaline")
		acid.X, base.X = 2, 6

		res, err := e.Interact(acid, base, Mix, nil)
		if err != nil {
			t.Fatalf("Interact: %v", err)
		}
		if !res.Success {
			continue
		}
		sawReaction = true
		if len(res.New) != 1 {
			t.Fatalf("new objects = %d, want 1", len(res.New))
		}
		compound := res.New[0]
		if compound.Name != "Compuesto de Acido y Base" {
			t.Errorf("compound name = %q", compound.Name)
		}
		if !compound.HasProperty("stable") || !compound.HasProperty("crystalline") {
			t.Error("acid+alkaline compound missing stable/crystalline")
		}
		if compound.X != 4 {
			t.Errorf("compound X = %d, want midpoint 4", compound.X)
		}
		if len(res.Destroyed) != 2 {
			t.Errorf("destroyed = %d, want both reagents", len(res.Destroyed))
		}
	}
	if !sawReaction {
		t.Error("no chemical reaction succeeded across 30 seeds")
	}
}

func TestToolCreationBonus(t *testing.T) {
	cat := NewCatalog()

	var sawTool bool
	for seed := int64(0); seed < 30 && !sawTool; seed++ {
		e := NewEngine(cat, rand.New(rand.NewSource(seed)), nil)
		knife := NewObject(cat, "Cuchillo", "cutting")
		branch := NewObject(cat, "Rama", "organic", "fragile")
		branch.TakeDamage(20)

		res, err := e.Interact(knife, branch, Pressure, nil)
		if err != nil {
			t.Fatalf("Interact: %v", err)
		}
		if len(res.New) == 0 {
			continue
		}
		sawTool = true
		spear := res.New[0]
		if spear.Name != "Lanza Primitiva" {
			t.Errorf("tool name = %q", spear.Name)
		}
		if spear.State.Durability != 64 {
			t.Errorf("tool durability = %d, want 64", spear.State.Durability)
		}
		// Base score: one new (10) plus one destroyed (5), then the handler
		// bonus of 15 on top.
		if res.Significance != 30.0 {
			t.Errorf("significance = %v, want 30", res.Significance)
		}
	}
	if !sawTool {
		t.Error("no tool created across 30 seeds")
	}
}

func TestGenericTouchExchangesHeat(t *testing.T) {
	e := newTestEngine(42)
	cat := e.Catalog()

	ember := NewObject(cat, "Brasa", "retains_heat")
	ember.State.Temperature = 120.0
	stone := NewObject(cat, "Piedra Fria", "heavy")

	res, err := e.Interact(ember, stone, Touch, nil)
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if !res.Success {
		t.Fatal("large temperature gap did not exchange heat")
	}
	if stone.State.Temperature <= ambientTemp {
		t.Errorf("stone temperature = %v, want above ambient", stone.State.Temperature)
	}
	if ember.State.Temperature >= 120.0 {
		t.Errorf("ember temperature = %v, want below 120", ember.State.Temperature)
	}
}

func TestStats(t *testing.T) {
	e := newTestEngine(42)
	cat := e.Catalog()

	rock := NewObject(cat, "Roca", "hard")
	glass := NewObject(cat, "Vidrio", "fragile")
	for i := 0; i < 3; i++ {
		e.Interact(rock, glass, Strike, nil)
	}
	e.Interact(rock, glass, Action(99), nil)

	stats := e.Stats()
	if stats.TotalInteractions != 4 {
		t.Errorf("total = %d, want 4", stats.TotalInteractions)
	}
	if stats.SuccessfulCombinations != 1 {
		t.Errorf("successful combinations = %d, want 1", stats.SuccessfulCombinations)
	}
	if stats.FailedAttempts != 1 {
		t.Errorf("failed = %d, want 1", stats.FailedAttempts)
	}
	if len(stats.TopCombinations) != 1 {
		t.Fatalf("top combinations = %d, want 1", len(stats.TopCombinations))
	}
	if got := stats.TopCombinations[0]; got.Actor != "Roca" || got.Target != "Vidrio" {
		t.Errorf("top combination = %+v", got)
	}
}

func TestAddRuleUnknownProperty(t *testing.T) {
	e := newTestEngine(42)
	err := e.AddRule([]string{"imaginary"}, []string{"hard"}, Strike, HandleBreaking, 1.0, false, "bad rule")
	if err == nil {
		t.Fatal("AddRule accepted an unknown trigger property")
	}
}
