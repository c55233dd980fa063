package services

import (
	"context"
	"fmt"

	"github.com/jdiamond4/CourseSearch/internal/app/models"
	"github.com/jdiamond4/CourseSearch/internal/app/models/dto"
	"github.com/jdiamond4/CourseSearch/internal/app/repositories"
	"github.com/jdiamond4/CourseSearch/internal/pkg/apperrors"
	"github.com/jdiamond4/CourseSearch/internal/pkg/helpers"
	"github.com/jdiamond4/CourseSearch/internal/pkg/validation"
)

// CatalogService defines the read-side operations of the course catalog
type CatalogService interface {
	ListTerms(ctx context.Context) ([]models.TermSummary, error)
	ListSubjectsByTerm(ctx context.Context, termCode string) ([]models.SubjectSummary, error)
	ListSubjectDirectory(ctx context.Context) ([]models.Subject, error)
	ListCourses(ctx context.Context, query dto.CourseListQuery) ([]models.CourseSummary, dto.PaginationInfo, error)
	GetCourse(ctx context.Context, termCode, subject, catalogNumber string) (*models.Course, error)
}

// catalogServiceImpl implements the CatalogService interface
type catalogServiceImpl struct {
	courseRepo  *repositories.CourseRepository
	subjectRepo *repositories.SubjectRepository
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(courseRepo *repositories.CourseRepository, subjectRepo *repositories.SubjectRepository) CatalogService {
	return &catalogServiceImpl{
		courseRepo:  courseRepo,
		subjectRepo: subjectRepo,
	}
}

// ListTerms returns the terms present in the store, newest first
func (s *catalogServiceImpl) ListTerms(ctx context.Context) ([]models.TermSummary, error) {
	return s.courseRepo.ListTerms(ctx)
}

// ListSubjectsByTerm returns the subjects of one term with counts
func (s *catalogServiceImpl) ListSubjectsByTerm(ctx context.Context, termCode string) ([]models.SubjectSummary, error) {
	if !validation.ValidTermCode(termCode) {
		return nil, fmt.Errorf("%w: term code must be four digits", apperrors.ErrValidationFailed)
	}

	subjects, err := s.courseRepo.ListSubjectsByTerm(ctx, termCode)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, apperrors.ErrTermNotFound
	}

	return subjects, nil
}

// ListSubjectDirectory returns the seeded subject directory
func (s *catalogServiceImpl) ListSubjectDirectory(ctx context.Context) ([]models.Subject, error) {
	return s.subjectRepo.GetAll(ctx)
}

// ListCourses returns a filtered page of course summaries
func (s *catalogServiceImpl) ListCourses(ctx context.Context, query dto.CourseListQuery) ([]models.CourseSummary, dto.PaginationInfo, error) {
	if query.TermCode != "" && !validation.ValidTermCode(query.TermCode) {
		return nil, dto.PaginationInfo{}, fmt.Errorf("%w: term code must be four digits", apperrors.ErrValidationFailed)
	}

	subject := ""
	if query.Subject != "" {
		subject = validation.NormalizeSubjectCode(query.Subject)
		if !validation.ValidSubjectCode(subject) {
			return nil, dto.PaginationInfo{}, fmt.Errorf("%w: invalid subject code", apperrors.ErrValidationFailed)
		}
	}

	page, size := helpers.NormalizePagination(query.Page, query.PageSize)

	summaries, total, err := s.courseRepo.List(ctx, query.TermCode, subject, query.Query, page, size)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return summaries, helpers.NewPaginationInfo(total, page, size), nil
}

// GetCourse returns one full course document by natural key
func (s *catalogServiceImpl) GetCourse(ctx context.Context, termCode, subject, catalogNumber string) (*models.Course, error) {
	if !validation.ValidTermCode(termCode) {
		return nil, fmt.Errorf("%w: term code must be four digits", apperrors.ErrValidationFailed)
	}
	subject = validation.NormalizeSubjectCode(subject)
	if !validation.ValidSubjectCode(subject) {
		return nil, fmt.Errorf("%w: invalid subject code", apperrors.ErrValidationFailed)
	}
	if !validation.ValidCatalogNumber(catalogNumber) {
		return nil, fmt.Errorf("%w: invalid catalog number", apperrors.ErrValidationFailed)
	}

	course, err := s.courseRepo.GetByKey(ctx, models.CourseKey{
		TermCode:      termCode,
		Subject:       subject,
		CatalogNumber: catalogNumber,
	})
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}

	return course, nil
}
