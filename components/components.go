// Package components defines ECS components for the simulation.
package components

import "fmt"

// Kind distinguishes the organism species.
type Kind uint8

const (
	KindPlant Kind = iota
	KindHerbivore
	KindCarnivore
)

func (k Kind) String() string {
	switch k {
	case KindPlant:
		return "plant"
	case KindHerbivore:
		return "herbivore"
	case KindCarnivore:
		return "carnivore"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Position is an entity's grid cell, row then column.
type Position struct {
	Row, Col int
}

// Meta carries the identity every organism has regardless of species.
type Meta struct {
	ID   uint32
	Kind Kind
}

// Plant is the component of stationary organisms. Plants age, seed on a
// fixed cycle, and die of old age.
type Plant struct {
	Age int
}

// Animal is the component of brain-driven organisms. Energy is the life
// budget; curiosity drives how often the animal experiments with the
// materials it carries.
type Animal struct {
	Energy            int
	Age               int
	DiscoveryCooldown int
	Curiosity         float64
}
