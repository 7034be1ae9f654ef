package repository

import (
	"context"

	"github.com/maccessmap/backend/internal/entity"
	"github.com/maccessmap/backend/pkg/xcontext"
)

type FileRepository interface {
	Create(context.Context, *entity.File) error
	BulkInsert(context.Context, []*entity.File) error
	GetByID(context.Context, string) (*entity.File, error)
}

type fileRepository struct{}

func NewFileRepository() *fileRepository {
	return &fileRepository{}
}

func (r *fileRepository) Create(ctx context.Context, e *entity.File) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *fileRepository) BulkInsert(ctx context.Context, es []*entity.File) error {
	if len(es) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(es).Error
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*entity.File, error) {
	var record entity.File
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}
