package service

import (
	"context"
	"time"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/repository"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
	"github.com/turtacn/coursehub/pkg/utils"
)

// CourseAppService manages courses together with their module and subject.
type CourseAppService interface {
	List(ctx context.Context, limit int) ([]*models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, req *dto.CourseCreateRequest) (*models.Course, error)
	CreateMany(ctx context.Context, reqs []*dto.CourseCreateRequest) ([]*models.Course, error)
	Update(ctx context.Context, id string, req *dto.CourseUpdateRequest) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}

// ModuleAppService manages modules. Deleting a module removes its courses.
type ModuleAppService interface {
	List(ctx context.Context, limit int) ([]*models.Module, error)
	Get(ctx context.Context, id string) (*models.Module, error)
	Create(ctx context.Context, req *dto.ModuleCreateRequest) (*models.Module, error)
	Update(ctx context.Context, id string, req *dto.ModuleUpdateRequest) (*models.Module, error)
	Delete(ctx context.Context, id string) error
}

// SubjectAppService manages subjects. Deleting a subject removes its courses.
type SubjectAppService interface {
	List(ctx context.Context, limit int) ([]*models.Subject, error)
	Get(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, req *dto.SubjectCreateRequest) (*models.Subject, error)
	Update(ctx context.Context, id string, req *dto.SubjectUpdateRequest) (*models.Subject, error)
	Delete(ctx context.Context, id string) error
}

type courseAppServiceImpl struct {
	courses repository.CourseRepository
	now     func() time.Time
	logger  logger.Logger
}

func NewCourseAppService(courses repository.CourseRepository, log logger.Logger) CourseAppService {
	return &courseAppServiceImpl{
		courses: courses,
		now:     time.Now,
		logger:  log.WithComponent("CourseAppService"),
	}
}

func (s *courseAppServiceImpl) List(ctx context.Context, limit int) ([]*models.Course, error) {
	return s.courses.List(ctx, limit)
}

func (s *courseAppServiceImpl) Get(ctx context.Context, id string) (*models.Course, error) {
	return s.courses.FindByID(ctx, id)
}

func (s *courseAppServiceImpl) newCourse(req *dto.CourseCreateRequest) (*models.Course, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	created := s.now().UTC()
	if req.Created != nil {
		created = req.Created.UTC()
	}
	return &models.Course{
		Owner:    req.Owner,
		Title:    req.Title,
		Slug:     req.Slug,
		Overview: req.Overview,
		Created:  created,
		Module:   models.Module{Title: req.Module.Title, Description: req.Module.Description},
		Subject:  models.Subject{Title: req.Subject.Title, Slug: req.Subject.Slug},
	}, nil
}

func (s *courseAppServiceImpl) Create(ctx context.Context, req *dto.CourseCreateRequest) (*models.Course, error) {
	course, err := s.newCourse(req)
	if err != nil {
		return nil, err
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Course created", logger.String("course_id", course.ID))
	return course, nil
}

func (s *courseAppServiceImpl) CreateMany(ctx context.Context, reqs []*dto.CourseCreateRequest) ([]*models.Course, error) {
	if len(reqs) == 0 {
		return nil, errors.ErrInvalidRequest("at least one course is required")
	}
	courses := make([]*models.Course, 0, len(reqs))
	for _, req := range reqs {
		course, err := s.newCourse(req)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := s.courses.CreateMany(ctx, courses); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Courses created", logger.Int("count", len(courses)))
	return courses, nil
}

func (s *courseAppServiceImpl) Update(ctx context.Context, id string, req *dto.CourseUpdateRequest) (*models.Course, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	setIfNotEmpty(&course.Owner, req.Owner)
	setIfNotEmpty(&course.Title, req.Title)
	setIfNotEmpty(&course.Slug, req.Slug)
	setIfNotEmpty(&course.Overview, req.Overview)
	if req.Created != nil {
		course.Created = req.Created.UTC()
	}
	applyModuleUpdate(&course.Module, &req.Module)
	applySubjectUpdate(&course.Subject, &req.Subject)

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseAppServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "Course deleted", logger.String("course_id", id))
	return nil
}

type moduleAppServiceImpl struct {
	modules repository.ModuleRepository
	logger  logger.Logger
}

func NewModuleAppService(modules repository.ModuleRepository, log logger.Logger) ModuleAppService {
	return &moduleAppServiceImpl{modules: modules, logger: log.WithComponent("ModuleAppService")}
}

func (s *moduleAppServiceImpl) List(ctx context.Context, limit int) ([]*models.Module, error) {
	return s.modules.List(ctx, limit)
}

func (s *moduleAppServiceImpl) Get(ctx context.Context, id string) (*models.Module, error) {
	return s.modules.FindByID(ctx, id)
}

func (s *moduleAppServiceImpl) Create(ctx context.Context, req *dto.ModuleCreateRequest) (*models.Module, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	module := &models.Module{Title: req.Title, Description: req.Description}
	if err := s.modules.Create(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *moduleAppServiceImpl) Update(ctx context.Context, id string, req *dto.ModuleUpdateRequest) (*models.Module, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	module, err := s.modules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyModuleUpdate(module, req)
	if err := s.modules.Update(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *moduleAppServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.modules.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "Module deleted", logger.String("module_id", id))
	return nil
}

type subjectAppServiceImpl struct {
	subjects repository.SubjectRepository
	logger   logger.Logger
}

func NewSubjectAppService(subjects repository.SubjectRepository, log logger.Logger) SubjectAppService {
	return &subjectAppServiceImpl{subjects: subjects, logger: log.WithComponent("SubjectAppService")}
}

func (s *subjectAppServiceImpl) List(ctx context.Context, limit int) ([]*models.Subject, error) {
	return s.subjects.List(ctx, limit)
}

func (s *subjectAppServiceImpl) Get(ctx context.Context, id string) (*models.Subject, error) {
	return s.subjects.FindByID(ctx, id)
}

func (s *subjectAppServiceImpl) Create(ctx context.Context, req *dto.SubjectCreateRequest) (*models.Subject, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	subject := &models.Subject{Title: req.Title, Slug: req.Slug}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *subjectAppServiceImpl) Update(ctx context.Context, id string, req *dto.SubjectUpdateRequest) (*models.Subject, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	subject, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applySubjectUpdate(subject, req)
	if err := s.subjects.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *subjectAppServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.subjects.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "Subject deleted", logger.String("subject_id", id))
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func applyModuleUpdate(m *models.Module, req *dto.ModuleUpdateRequest) {
	setIfNotEmpty(&m.Title, req.Title)
	setIfNotEmpty(&m.Description, req.Description)
}

func applySubjectUpdate(s *models.Subject, req *dto.SubjectUpdateRequest) {
	setIfNotEmpty(&s.Title, req.Title)
	setIfNotEmpty(&s.Slug, req.Slug)
}
