package service

import (
	"context"

	"life-dashboard/internal/model"
	"life-dashboard/internal/observable"
	"life-dashboard/internal/repository"
)

// NoteService holds the note list view.
type NoteService struct {
	noteRepo *repository.NoteRepository
	notes    *observable.Subject[[]model.Note]
}

func NewNoteService(noteRepo *repository.NoteRepository) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		notes:    observable.NewSubjectWithValue([]model.Note{}),
	}
}

func (s *NoteService) Start(ctx context.Context) {
	go observable.Forward(ctx, s.noteRepo.Watch(ctx), s.notes)
}

func (s *NoteService) Subscribe(ctx context.Context) <-chan []model.Note {
	return s.notes.Subscribe(ctx)
}

func (s *NoteService) Snapshot() []model.Note {
	notes, _ := s.notes.Value()
	return notes
}

func (s *NoteService) Insert(ctx context.Context, input NoteInput) (*model.Note, error) {
	input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	note := model.Note{Title: input.Title, Content: input.Content}
	if err := s.noteRepo.Upsert(ctx, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *NoteService) Delete(ctx context.Context, note model.Note) error {
	return s.noteRepo.Delete(ctx, note.ID)
}
