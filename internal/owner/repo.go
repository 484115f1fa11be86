package owner

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, o *Owner) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *Repo) FindByUsername(ctx context.Context, username string) (*Owner, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var o Owner
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Owner, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var o Owner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}
