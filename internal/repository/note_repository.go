package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
)

// NoteRepository handles notes.
type NoteRepository struct {
	table[model.Note]
}

func NewNoteRepository(db *gorm.DB, ch *changes, log *logger.Logger) *NoteRepository {
	return &NoteRepository{table: table[model.Note]{db: db, changes: ch, name: TableNotes, log: log}}
}

func (r *NoteRepository) Upsert(ctx context.Context, note *model.Note) error {
	return r.upsert(ctx, note)
}

func (r *NoteRepository) Delete(ctx context.Context, noteID uint) error {
	return r.delete(ctx, noteID)
}

func (r *NoteRepository) Clear(ctx context.Context) error {
	return r.clear(ctx)
}

// List returns all notes, newest first.
func (r *NoteRepository) List(ctx context.Context) ([]model.Note, error) {
	var notes []model.Note
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Watch(ctx context.Context) <-chan []model.Note {
	return r.watch(ctx, r.List)
}
