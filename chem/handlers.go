package chem

// apply runs the effect for a matched rule. The switch is exhaustive over
// HandlerKind; adding a kind without a case here is a compile-time smell
// the default panic turns into a loud failure.
func (e *Engine) apply(kind HandlerKind, actor, target, tool *Object, res *Result) {
	switch kind {
	case HandleCutting:
		e.applyCutting(actor, target, res)
	case HandleBreaking:
		e.applyBreaking(actor, target, res)
	case HandleBurning:
		e.applyBurning(actor, target, res)
	case HandleEvaporation:
		e.applyEvaporation(actor, target, res)
	case HandleCorrosion:
		e.applyCorrosion(actor, target, res)
	case HandleChemicalReaction:
		e.applyChemicalReaction(actor, target, res)
	case HandleToolCreation:
		e.applyToolCreation(actor, target, res)
	case HandleOrganicMixing:
		e.applyOrganicMixing(actor, target, res)
	case HandleFermentation:
		e.applyFermentation(actor, target, res)
	case HandleInduction:
		e.applyInduction(actor, target, res)
	case HandlePiezoEffect:
		e.applyPiezoEffect(actor, target, res)
	case HandleCatalysis:
		e.applyCatalysis(actor, target, res)
	case HandleCrystallization:
		e.applyCrystallization(actor, target, res)
	case HandleExplosion:
		e.applyExplosion(actor, target, res)
	case HandleAdvancedConductor:
		e.applyAdvancedConductor(actor, target, res)
	default:
		panic("chem: unhandled handler kind " + kind.String())
	}
}

func (e *Engine) applyCutting(actor, target *Object, res *Result) {
	sharpness := actor.Intensity("cutting")
	resistance := target.Intensity("fragile")
	if sharpness <= resistance {
		return
	}

	target.AddProperty("broken", -1)
	if target.HasProperty("organic") && e.rng.Float64() < 0.6 {
		piece := NewObject(e.cat, target.Name+" Puntiagudo", "organic", "pointed", "fragile")
		piece.X, piece.Y = target.X, target.Y
		res.addNew(piece)
	}
	target.TakeDamage(int(sharpness * 20))
	res.addModified(target)
}

func (e *Engine) applyBreaking(actor, target *Object, res *Result) {
	hardness := actor.Intensity("hard")
	fragility := target.Intensity("fragile")

	damage := int(hardness * fragility * 25)
	if target.TakeDamage(damage) {
		res.addDestroyed(target)
	} else {
		target.AddProperty("broken", -1)
		res.addModified(target)
	}
}

func (e *Engine) applyBurning(actor, target *Object, res *Result) {
	heat := actor.Intensity("hot")

	target.AddProperty("burnt", -1)
	target.ChangeTemperature(heat * 50)
	target.TakeDamage(int(heat * 30))
	res.addModified(target)

	if e.rng.Float64() < 0.3 {
		ash := NewObject(e.cat, "Ceniza", "organic", "fragile")
		ash.X, ash.Y = target.X, target.Y
		res.addNew(ash)
	}
}

func (e *Engine) applyEvaporation(actor, target *Object, res *Result) {
	target.RemoveProperty("humid")
	target.RemoveProperty("wet")

	if target.HasProperty("nutritious") && e.rng.Float64() < 0.4 {
		concentrated := NewObject(e.cat, target.Name+" Concentrado")
		for _, name := range target.PropertyNames() {
			if name == "humid" || name == "wet" {
				continue
			}
			concentrated.AddProperty(name, -1)
		}
		concentrated.AddProperty("concentrated", -1)
		concentrated.X, concentrated.Y = target.X, target.Y
		res.addNew(concentrated)
	}
	res.addModified(target)
}

func (e *Engine) applyCorrosion(actor, target *Object, res *Result) {
	strength := actor.Intensity("acidic")
	target.TakeDamage(int(strength * 15))
	if target.HasProperty("hard") {
		target.ModifyIntensity("hard", -0.2)
	}
	res.addModified(target)
}

func (e *Engine) applyChemicalReaction(actor, target *Object, res *Result) {
	var props []string
	switch {
	case actor.HasProperty("acidic") && target.HasProperty("alkaline"):
		props = []string{"stable", "crystalline"}
	case actor.HasProperty("explosive") || target.HasProperty("explosive"):
		props = []string{"reactive", "luminous", "hot"}
	default:
		props = []string{"reactive", "hybrid"}
	}
	if e.rng.Float64() < 0.3 {
		special := []string{"catalyst", "solvent", "conductive"}
		props = append(props, special[e.rng.Intn(len(special))])
	}

	compound := NewObject(e.cat, "Compuesto de "+actor.Name+" y "+target.Name, props...)
	compound.X, compound.Y = (actor.X+target.X)/2, (actor.Y+target.Y)/2
	res.addNew(compound)
	res.addDestroyed(actor)
	res.addDestroyed(target)
}

func (e *Engine) applyToolCreation(actor, target *Object, res *Result) {
	if !target.HasProperty("organic") || !target.HasProperty("fragile") {
		return
	}
	sharpness := actor.Intensity("cutting")
	if sharpness <= 0.6 || e.rng.Float64() >= 0.7 {
		return
	}

	spear := NewObject(e.cat, "Lanza Primitiva", "organic", "pointed", "light")
	spear.State.Durability = target.State.Durability * 8 / 10
	spear.X, spear.Y = target.X, target.Y

	res.addNew(spear)
	res.Bonus += 15.0
	res.addDestroyed(target)
}

func (e *Engine) applyOrganicMixing(actor, target *Object, res *Result) {
	if e.rng.Float64() >= 0.4 {
		return
	}

	var props []string
	if actor.HasProperty("nutritious") && target.HasProperty("nutritious") {
		props = append(props, "nutritious")
	}
	if actor.HasProperty("poisonous") || target.HasProperty("poisonous") {
		props = append(props, "organic", "poisonous")
	} else {
		props = append(props, "organic")
	}
	if e.rng.Float64() < 0.1 {
		special := []string{"luminous", "concentrated", "conductive"}
		props = append(props, special[e.rng.Intn(len(special))])
	}

	mixture := NewObject(e.cat, "Mezcla de "+actor.Name+" y "+target.Name, props...)
	mixture.X, mixture.Y = (actor.X+target.X)/2, (actor.Y+target.Y)/2
	res.addNew(mixture)
	res.addDestroyed(actor)
	res.addDestroyed(target)
}

func (e *Engine) applyFermentation(actor, target *Object, res *Result) {
	products := []struct {
		name  string
		props []string
	}{
		{"Alcohol", []string{"organic", "flammable", "toxic"}},
		{"Vinagre", []string{"organic", "acidic", "solvent"}},
		{"Gas Metano", []string{"flammable", "explosive", "vibrating"}},
		{"Enzima", []string{"organic", "catalyst", "fragile"}},
	}
	p := products[e.rng.Intn(len(products))]

	product := NewObject(e.cat, p.name, p.props...)
	product.X, product.Y = target.X, target.Y
	res.addNew(product)
	res.addModified(target)
}

func (e *Engine) applyInduction(actor, target *Object, res *Result) {
	target.AddProperty("charged", -1)
	target.AddProperty("field_generating", -1)

	if e.rng.Float64() < 0.4 {
		generator := NewObject(e.cat, "Generador Primitivo",
			"conductive", "magnetic", "field_generating")
		generator.X, generator.Y = target.X, target.Y
		res.addNew(generator)
	}
	res.addModified(target)
}

func (e *Engine) applyPiezoEffect(actor, target *Object, res *Result) {
	target.AddProperty("charged", -1)
	target.AddProperty("luminous", -1)

	if e.rng.Float64() < 0.3 {
		battery := NewObject(e.cat, "Bateria Cristalina",
			"piezoelectric", "conductive", "crystalline")
		battery.X, battery.Y = target.X, target.Y
		res.addNew(battery)
	}
	res.addModified(target)
}

func (e *Engine) applyCatalysis(actor, target *Object, res *Result) {
	var products []struct {
		name  string
		props []string
	}
	if target.HasProperty("organic") {
		products = []struct {
			name  string
			props []string
		}{
			{"Proteina Pura", []string{"organic", "nutritious", "refined"}},
			{"Aceite Refinado", []string{"organic", "flammable", "viscous"}},
			{"Fibra Procesada", []string{"organic", "flexible", "hard"}},
		}
	} else {
		products = []struct {
			name  string
			props []string
		}{
			{"Metal Puro", []string{"hard", "conductive", "refined"}},
			{"Cristal Perfecto", []string{"crystalline", "luminous", "hard"}},
			{"Ceramica", []string{"hard", "fireproof", "crystalline"}},
		}
	}
	p := products[e.rng.Intn(len(products))]

	product := NewObject(e.cat, p.name, p.props...)
	product.X, product.Y = target.X, target.Y
	res.addNew(product)
	res.addModified(target)
}

func (e *Engine) applyCrystallization(actor, target *Object, res *Result) {
	if !actor.HasProperty("solvent") || e.rng.Float64() >= 0.6 {
		return
	}

	crystals := []struct {
		name  string
		props []string
	}{
		{"Cuarzo", []string{"crystalline", "piezoelectric", "luminous"}},
		{"Sal Cristalina", []string{"crystalline", "solvent", "hard"}},
		{"Gema", []string{"crystalline", "hard", "light_absorbing", "luminous"}},
	}
	c := crystals[e.rng.Intn(len(crystals))]

	crystal := NewObject(e.cat, c.name, c.props...)
	crystal.X, crystal.Y = target.X, target.Y
	res.addNew(crystal)
	res.addDestroyed(target)
}

func (e *Engine) applyExplosion(actor, target *Object, res *Result) {
	explosion := NewObject(e.cat, "Explosion", "hot", "luminous", "vibrating")
	explosion.X, explosion.Y = actor.X, actor.Y
	explosion.State.Temperature = 1000.0
	res.addNew(explosion)
	res.addDestroyed(actor)

	if e.rng.Float64() < 0.5 {
		fragments := []struct {
			name  string
			props []string
		}{
			{"Fragmentos Metalicos", []string{"hard", "cutting", "conductive"}},
			{"Ceniza Reactiva", []string{"organic", "reactive", "fragile"}},
			{"Plasma", []string{"luminous", "hot", "conductive", "vibrating"}},
		}
		f := fragments[e.rng.Intn(len(fragments))]
		fragment := NewObject(e.cat, f.name, f.props...)
		fragment.X, fragment.Y = actor.X, actor.Y
		res.addNew(fragment)
	}

	target.TakeDamage(80)
	res.addModified(target)
}

func (e *Engine) applyAdvancedConductor(actor, target *Object, res *Result) {
	materials := []struct {
		name  string
		props []string
	}{
		{"Superconductor", []string{"superconductive", "cold", "conductive"}},
		{"Electromagneto", []string{"conductive", "magnetic", "field_generating"}},
		{"Bobina de Induccion", []string{"conductive", "magnetic", "vibrating", "field_generating"}},
	}
	m := materials[e.rng.Intn(len(materials))]

	material := NewObject(e.cat, m.name, m.props...)
	material.X, material.Y = (actor.X+target.X)/2, (actor.Y+target.Y)/2
	res.addNew(material)
	res.addDestroyed(actor)
	res.addDestroyed(target)
	res.Bonus += 20.0
}
