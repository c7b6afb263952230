package domain

import "fmt"

// Department is a named stage of the shop floor. Departments are open-ended
// strings so a shop can rename or extend its line through configuration.
type Department string

const (
	DeptEngineering Department = "Engineering"
	DeptLaser       Department = "Laser"
	DeptPressBrake  Department = "Press Brake"
	DeptWelding     Department = "Welding"
	DeptPolishing   Department = "Polishing"
	DeptAssembly    Department = "Assembly"
)

// Pipeline is the ordered sequence of departments every job flows through.
// Order is a total order: it drives window precedence, upstream/downstream
// filtering, and bottleneck attribution.
type Pipeline struct {
	depts []Department
	index map[Department]int
}

// NewPipeline builds a pipeline from an ordered department list.
// The list must be non-empty and free of duplicates.
func NewPipeline(depts []Department) (Pipeline, error) {
	if len(depts) == 0 {
		return Pipeline{}, fmt.Errorf("pipeline must list at least one department")
	}
	index := make(map[Department]int, len(depts))
	for i, d := range depts {
		if d == "" {
			return Pipeline{}, fmt.Errorf("pipeline position %d has an empty department name", i+1)
		}
		if _, dup := index[d]; dup {
			return Pipeline{}, fmt.Errorf("department %q appears twice in the pipeline", d)
		}
		index[d] = i
	}
	return Pipeline{depts: append([]Department(nil), depts...), index: index}, nil
}

// DefaultPipeline returns the stock six-department fabrication line.
func DefaultPipeline() Pipeline {
	p, _ := NewPipeline([]Department{
		DeptEngineering, DeptLaser, DeptPressBrake,
		DeptWelding, DeptPolishing, DeptAssembly,
	})
	return p
}

// Departments returns the pipeline order as a fresh slice.
func (p Pipeline) Departments() []Department {
	return append([]Department(nil), p.depts...)
}

func (p Pipeline) Len() int { return len(p.depts) }

// Index returns the position of dept in the pipeline, or false if the
// department is not part of it.
func (p Pipeline) Index(dept Department) (int, bool) {
	i, ok := p.index[dept]
	return i, ok
}

func (p Pipeline) Contains(dept Department) bool {
	_, ok := p.index[dept]
	return ok
}

// First and Last return the pipeline endpoints. Both are zero-valued for an
// empty pipeline.
func (p Pipeline) First() Department {
	if len(p.depts) == 0 {
		return ""
	}
	return p.depts[0]
}

func (p Pipeline) Last() Department {
	if len(p.depts) == 0 {
		return ""
	}
	return p.depts[len(p.depts)-1]
}

// Next returns the department immediately downstream of dept.
func (p Pipeline) Next(dept Department) (Department, bool) {
	i, ok := p.index[dept]
	if !ok || i+1 >= len(p.depts) {
		return "", false
	}
	return p.depts[i+1], true
}

// Prev returns the department immediately upstream of dept.
func (p Pipeline) Prev(dept Department) (Department, bool) {
	i, ok := p.index[dept]
	if !ok || i == 0 {
		return "", false
	}
	return p.depts[i-1], true
}

// Before reports whether a sits strictly upstream of b. Departments outside
// the pipeline are never upstream of anything.
func (p Pipeline) Before(a, b Department) bool {
	ia, oka := p.index[a]
	ib, okb := p.index[b]
	return oka && okb && ia < ib
}

// After reports whether a sits strictly downstream of b.
func (p Pipeline) After(a, b Department) bool {
	return p.Before(b, a)
}
