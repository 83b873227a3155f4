package repository

import "life-dashboard/internal/observable"

// Table names used for change notification.
const (
	TableTasks    = "tasks"
	TableExpenses = "expenses"
	TableNotes    = "notes"
	TableGoals    = "goals"
)

// changes keeps one version counter per table. Writers bump it after commit
// and every watcher of that table reloads.
type changes struct {
	tables map[string]*observable.Subject[uint64]
}

func newChanges(tables ...string) *changes {
	c := &changes{tables: make(map[string]*observable.Subject[uint64], len(tables))}
	for _, t := range tables {
		c.tables[t] = observable.NewSubjectWithValue[uint64](0)
	}
	return c
}

func (c *changes) of(table string) *observable.Subject[uint64] {
	return c.tables[table]
}

func (c *changes) notify(tables ...string) {
	for _, t := range tables {
		if s, ok := c.tables[t]; ok {
			s.Update(func(v uint64) uint64 { return v + 1 })
		}
	}
}
