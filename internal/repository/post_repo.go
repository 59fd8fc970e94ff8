package repository

import (
	"gigaaura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	db   *gorm.DB
	gate *Gate
}

func NewPostRepository(db *gorm.DB, gate *Gate) *PostRepository {
	return &PostRepository{db: db, gate: gate}
}

// Save upserts the post by primary key (insert, on conflict update).
func (r *PostRepository) Save(p *models.Post) error {
	if r.gate.Degraded() {
		return ErrDegraded
	}
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(p).Error
	r.gate.Observe("post save", err)
	return err
}

// Update writes the full current row; callers mutate a copy they loaded.
func (r *PostRepository) Update(p *models.Post) error {
	if r.gate.Degraded() {
		return ErrDegraded
	}
	err := r.db.Save(p).Error
	r.gate.Observe("post update", err)
	return err
}

func (r *PostRepository) GetByID(id string) (*models.Post, error) {
	if r.gate.Degraded() {
		return nil, ErrDegraded
	}
	var p models.Post
	err := r.db.First(&p, "id = ?", id).Error
	if err != nil {
		r.gate.Observe("post get", err)
		return nil, err
	}
	return &p, nil
}

// List returns the feed, newest first. On any failure it returns an empty
// slice with the error; callers fall back to cached posts.
func (r *PostRepository) List(limit, offset int) ([]models.Post, error) {
	if r.gate.Degraded() {
		return []models.Post{}, ErrDegraded
	}
	var posts []models.Post
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	if err != nil {
		r.gate.Observe("post list", err)
		return []models.Post{}, err
	}
	return posts, nil
}

func (r *PostRepository) ListByAuthor(wallet string, limit, offset int) ([]models.Post, error) {
	if r.gate.Degraded() {
		return []models.Post{}, ErrDegraded
	}
	var posts []models.Post
	err := r.db.Where("author_wallet = ?", wallet).Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	if err != nil {
		r.gate.Observe("post list by author", err)
		return []models.Post{}, err
	}
	return posts, nil
}

func (r *PostRepository) Delete(id string) error {
	if r.gate.Degraded() {
		return ErrDegraded
	}
	err := r.db.Delete(&models.Post{}, "id = ?", id).Error
	r.gate.Observe("post delete", err)
	return err
}
