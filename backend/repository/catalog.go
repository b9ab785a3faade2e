package repository

import (
	"context"

	"coursehub/backend/apperr"
	"coursehub/backend/logger"
	"coursehub/backend/models"

	"gorm.io/gorm"
)

type CourseFilter struct {
	Search        string
	CategoryID    *uint
	Difficulty    string
	OnlyPublished bool
}

type CatalogStats struct {
	Courses        int64 `json:"courses"`
	Sections       int64 `json:"sections"`
	Lessons        int64 `json:"lessons"`
	PreviewLessons int64 `json:"preview_lessons"`
	Users          int64 `json:"users"`
	Completions    int64 `json:"completions"`
	Certificates   int64 `json:"certificates"`
}

// CatalogRepo covers courses, sections, lessons and categories.
type CatalogRepo interface {
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	ListCourses(ctx context.Context, filter CourseFilter) ([]models.Course, error)
	// GetOutline loads a course with sections and lessons sorted by
	// (sort_order, id).
	GetOutline(ctx context.Context, courseID uint) (*models.Course, error)
	GetLesson(ctx context.Context, id uint) (*models.Lesson, error)
	GetSection(ctx context.Context, id uint) (*models.Section, error)
	// CourseIDForLesson resolves the course a lesson belongs to.
	CourseIDForLesson(ctx context.Context, lessonID uint) (uint, error)
	LessonsByIDs(ctx context.Context, ids []uint) ([]models.Lesson, error)
	SectionsByIDs(ctx context.Context, ids []uint) ([]models.Section, error)
	CoursesByIDs(ctx context.Context, ids []uint) ([]models.Course, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateCourse(ctx context.Context, c *models.Course) error
	UpdateCourse(ctx context.Context, c *models.Course) error
	DeleteCourse(ctx context.Context, id uint) error
	CreateSection(ctx context.Context, s *models.Section) error
	UpdateSection(ctx context.Context, s *models.Section) error
	DeleteSection(ctx context.Context, id uint) error
	CreateLesson(ctx context.Context, l *models.Lesson) error
	UpdateLesson(ctx context.Context, l *models.Lesson) error
	DeleteLesson(ctx context.Context, id uint) error

	Stats(ctx context.Context) (*CatalogStats, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

func (r *catalogRepo) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Category").First(&course, id).Error; err != nil {
		return nil, apperr.Store("catalog.get_course", err)
	}
	return &course, nil
}

func (r *catalogRepo) ListCourses(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	q := r.db.WithContext(ctx).Model(&models.Course{}).Preload("Category")
	if filter.OnlyPublished {
		q = q.Where("is_published = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty_level = ?", filter.Difficulty)
	}

	var courses []models.Course
	if err := q.Order("created_at DESC").Order("id DESC").Find(&courses).Error; err != nil {
		return nil, apperr.Store("catalog.list_courses", err)
	}
	return courses, nil
}

func (r *catalogRepo) GetOutline(ctx context.Context, courseID uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Sections", orderByPosition).
		Preload("Sections.Lessons", orderByPosition).
		First(&course, courseID).Error
	if err != nil {
		return nil, apperr.Store("catalog.get_outline", err)
	}
	return &course, nil
}

func (r *catalogRepo) GetLesson(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, apperr.Store("catalog.get_lesson", err)
	}
	return &lesson, nil
}

func (r *catalogRepo) GetSection(ctx context.Context, id uint) (*models.Section, error) {
	var section models.Section
	if err := r.db.WithContext(ctx).First(&section, id).Error; err != nil {
		return nil, apperr.Store("catalog.get_section", err)
	}
	return &section, nil
}

func (r *catalogRepo) CourseIDForLesson(ctx context.Context, lessonID uint) (uint, error) {
	var section models.Section
	err := r.db.WithContext(ctx).
		Joins("JOIN lessons ON lessons.section_id = sections.id").
		Where("lessons.id = ?", lessonID).
		First(&section).Error
	if err != nil {
		return 0, apperr.Store("catalog.course_for_lesson", err)
	}
	return section.CourseID, nil
}

func (r *catalogRepo) LessonsByIDs(ctx context.Context, ids []uint) ([]models.Lesson, error) {
	var rows []models.Lesson
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, apperr.Store("catalog.lessons_by_ids", err)
	}
	return rows, nil
}

func (r *catalogRepo) SectionsByIDs(ctx context.Context, ids []uint) ([]models.Section, error) {
	var rows []models.Section
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, apperr.Store("catalog.sections_by_ids", err)
	}
	return rows, nil
}

func (r *catalogRepo) CoursesByIDs(ctx context.Context, ids []uint) ([]models.Course, error) {
	var rows []models.Course
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, apperr.Store("catalog.courses_by_ids", err)
	}
	return rows, nil
}

func (r *catalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Store("catalog.list_categories", err)
	}
	return rows, nil
}

func (r *catalogRepo) CreateCourse(ctx context.Context, c *models.Course) error {
	return apperr.Store("catalog.create_course", r.db.WithContext(ctx).Omit("Category", "Sections").Create(c).Error)
}

func (r *catalogRepo) UpdateCourse(ctx context.Context, c *models.Course) error {
	return apperr.Store("catalog.update_course", r.db.WithContext(ctx).Omit("Category", "Sections").Save(c).Error)
}

// DeleteCourse removes the course and everything that hangs off it.
func (r *catalogRepo) DeleteCourse(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sectionIDs []uint
		if err := tx.Model(&models.Section{}).Where("course_id = ?", id).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if err := deleteSections(tx, sectionIDs); err != nil {
			return err
		}
		for _, model := range []interface{}{&models.CourseAccessRecord{}, &models.UserBookmark{}, &models.Certificate{}} {
			if err := tx.Where("course_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Course{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return apperr.Store("catalog.delete_course", err)
}

func (r *catalogRepo) CreateSection(ctx context.Context, s *models.Section) error {
	return apperr.Store("catalog.create_section", r.db.WithContext(ctx).Omit("Lessons").Create(s).Error)
}

func (r *catalogRepo) UpdateSection(ctx context.Context, s *models.Section) error {
	return apperr.Store("catalog.update_section", r.db.WithContext(ctx).Omit("Lessons").Save(s).Error)
}

func (r *catalogRepo) DeleteSection(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Section{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return deleteSections(tx, []uint{id})
	})
	return apperr.Store("catalog.delete_section", err)
}

func (r *catalogRepo) CreateLesson(ctx context.Context, l *models.Lesson) error {
	return apperr.Store("catalog.create_lesson", r.db.WithContext(ctx).Create(l).Error)
}

func (r *catalogRepo) UpdateLesson(ctx context.Context, l *models.Lesson) error {
	return apperr.Store("catalog.update_lesson", r.db.WithContext(ctx).Save(l).Error)
}

func (r *catalogRepo) DeleteLesson(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&models.LessonCompletion{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Lesson{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return apperr.Store("catalog.delete_lesson", err)
}

func deleteSections(tx *gorm.DB, sectionIDs []uint) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	var lessonIDs []uint
	if err := tx.Model(&models.Lesson{}).Where("section_id IN ?", sectionIDs).Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}
	if len(lessonIDs) > 0 {
		if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&models.LessonCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", lessonIDs).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", sectionIDs).Delete(&models.Section{}).Error
}

func (r *catalogRepo) Stats(ctx context.Context) (*CatalogStats, error) {
	db := r.db.WithContext(ctx)
	stats := &CatalogStats{}
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.Courses, db.Model(&models.Course{})},
		{&stats.Sections, db.Model(&models.Section{})},
		{&stats.Lessons, db.Model(&models.Lesson{})},
		{&stats.PreviewLessons, db.Model(&models.Lesson{}).Where("is_preview = ?", true)},
		{&stats.Users, db.Model(&models.User{})},
		{&stats.Completions, db.Model(&models.LessonCompletion{}).Where("completed = ?", true)},
		{&stats.Certificates, db.Model(&models.Certificate{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, apperr.Store("catalog.stats", err)
		}
	}
	return stats, nil
}
