package staff

import (
	"context"

	"gorm.io/gorm"
)

// Repository adalah batas (boundary) ke Roster Provider. Modul payroll
// hanya membaca; create/update staff dikelola subsistem lain.
type Repository interface {
	FindActive(ctx context.Context) ([]Staff, error)
	FindByID(ctx context.Context, id string) (*Staff, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActive(ctx context.Context) ([]Staff, error) {
	var members []Staff
	err := r.db.WithContext(ctx).
		Where("employment_status = ?", EmploymentActive).
		Order("staff_number ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Staff, error) {
	var member Staff
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}
