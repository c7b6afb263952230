package scheduler

import (
	"sort"

	"github.com/averyhollis/fabline/internal/domain"
)

// rankFor returns a job's explicit priority rank for dept, when one is set.
func rankFor(job *domain.Job, dept domain.Department) (int, bool) {
	if job.PriorityByDept == nil {
		return 0, false
	}
	r, ok := job.PriorityByDept[dept]
	return r, ok
}

// OrderForDept sorts job indices into reconciliation order for one
// department by the deterministic canonical rules:
// 1. Explicit priority rank: lowest first, ranked before unranked
// 2. Points: bigger jobs anchor the week first
// 3. Due date: earliest first
// 4. Job ID: lexical ascending
func OrderForDept(jobs []domain.Job, dept domain.Department) []int {
	idx := make([]int, len(jobs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(x, y int) bool {
		a, b := &jobs[idx[x]], &jobs[idx[y]]

		// 1. Explicit rank
		rankA, okA := rankFor(a, dept)
		rankB, okB := rankFor(b, dept)
		if okA != okB {
			return okA // ranked before unranked
		}
		if okA && okB && rankA != rankB {
			return rankA < rankB
		}

		// 2. Points (bigger first)
		if a.Points != b.Points {
			return a.Points > b.Points
		}

		// 3. Due date (earliest first)
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}

		// 4. Job ID (lexical)
		return a.ID < b.ID
	})
	return idx
}
