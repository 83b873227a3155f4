package service

import (
	"context"
	"sort"

	"life-dashboard/internal/model"
	"life-dashboard/internal/observable"
	"life-dashboard/internal/repository"
)

// GoalService holds the goal list view.
type GoalService struct {
	goalRepo *repository.GoalRepository
	goals    *observable.Subject[[]model.Goal]
}

func NewGoalService(goalRepo *repository.GoalRepository) *GoalService {
	return &GoalService{
		goalRepo: goalRepo,
		goals:    observable.NewSubjectWithValue([]model.Goal{}),
	}
}

func (s *GoalService) Start(ctx context.Context) {
	go observable.Forward(ctx, s.goalRepo.Watch(ctx), s.goals)
}

func (s *GoalService) Subscribe(ctx context.Context) <-chan []model.Goal {
	return s.goals.Subscribe(ctx)
}

func (s *GoalService) Snapshot() []model.Goal {
	goals, _ := s.goals.Value()
	return goals
}

// Insert creates a goal whose period starts now.
func (s *GoalService) Insert(ctx context.Context, input GoalInput) (*model.Goal, error) {
	goalType, err := input.parse()
	if err != nil {
		return nil, err
	}
	input.normalize()

	goal := model.Goal{Text: input.Text, Type: goalType}
	if err := s.goalRepo.Upsert(ctx, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GoalService) Delete(ctx context.Context, goal model.Goal) error {
	return s.goalRepo.Delete(ctx, goal.ID)
}

// GoalSection is one heading of the grouped goal list.
type GoalSection struct {
	Type  model.GoalType
	Goals []model.Goal
}

// GroupGoals splits goals by type: Daily first, Monthly second, anything else
// last. Goals keep their incoming order inside a section.
func GroupGoals(goals []model.Goal) []GoalSection {
	index := make(map[model.GoalType]int)
	var sections []GoalSection
	for _, g := range goals {
		i, ok := index[g.Type]
		if !ok {
			i = len(sections)
			index[g.Type] = i
			sections = append(sections, GoalSection{Type: g.Type})
		}
		sections[i].Goals = append(sections[i].Goals, g)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		oi, oj := sections[i].Type.SectionOrder(), sections[j].Type.SectionOrder()
		if oi != oj {
			return oi < oj
		}
		return sections[i].Type < sections[j].Type
	})
	return sections
}

// ActiveGoal returns the most recently created goal of the given type.
func ActiveGoal(goals []model.Goal, goalType model.GoalType) (model.Goal, bool) {
	var active model.Goal
	found := false
	for _, g := range goals {
		if g.Type != goalType {
			continue
		}
		if !found || g.CreationDate.After(active.CreationDate) {
			active = g
			found = true
		}
	}
	return active, found
}
