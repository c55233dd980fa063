package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository  *CourseRepository
	SubjectRepository *SubjectRepository
	SyncRunRepository *SyncRunRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseRepository:  NewCourseRepository(db),
		SubjectRepository: NewSubjectRepository(db),
		SyncRunRepository: NewSyncRunRepository(db),
	}
}
