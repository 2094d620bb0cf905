package chem

import (
	"fmt"
	"strings"
)

// Result describes the outcome of one interaction between two objects.
type Result struct {
	Success     bool
	New         []*Object
	Modified    []*Object
	Destroyed   []*Object
	Description string

	// Significance is the scored importance of the outcome; Bonus holds the
	// extra weight special handlers add on top of the base formula.
	Significance float64
	Bonus        float64
}

func (r *Result) addNew(obj *Object) { r.New = append(r.New, obj) }

func (r *Result) addModified(obj *Object) {
	for _, m := range r.Modified {
		if m == obj {
			return
		}
	}
	r.Modified = append(r.Modified, obj)
}

func (r *Result) addDestroyed(obj *Object) { r.Destroyed = append(r.Destroyed, obj) }

// scoreSignificance computes the outcome's significance: new objects weigh
// most, then destruction, then transient properties on modified objects.
// Handler bonuses are added on top.
func (r *Result) scoreSignificance() float64 {
	score := float64(len(r.New)) * 10.0
	for _, obj := range r.Modified {
		score += float64(len(obj.TransientProperties())) * 2.0
	}
	score += float64(len(r.Destroyed)) * 5.0
	r.Significance = score + r.Bonus
	return r.Significance
}

// Summary renders a human-readable account of the result.
func (r *Result) Summary() string {
	if !r.Success {
		return "interaction failed or had no effect"
	}
	var b strings.Builder
	b.WriteString(r.Description)
	b.WriteByte('\n')
	if len(r.New) > 0 {
		b.WriteString("created: " + joinNames(r.New) + "\n")
	}
	if len(r.Modified) > 0 {
		b.WriteString("modified: " + joinNames(r.Modified) + "\n")
	}
	if len(r.Destroyed) > 0 {
		b.WriteString("destroyed: " + joinNames(r.Destroyed) + "\n")
	}
	fmt.Fprintf(&b, "significance: %.1f", r.Significance)
	return b.String()
}

func joinNames(objs []*Object) string {
	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = o.Name
	}
	return strings.Join(names, ", ")
}
