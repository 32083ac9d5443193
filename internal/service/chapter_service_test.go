package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/minhlq/coursecast/internal/model"
	"github.com/minhlq/coursecast/internal/repository"
	"github.com/minhlq/coursecast/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChapterRepo struct {
	mu       sync.Mutex
	chapters map[uint]*model.Chapter
}

func newFakeChapterRepo() *fakeChapterRepo {
	return &fakeChapterRepo{chapters: map[uint]*model.Chapter{}}
}

func (r *fakeChapterRepo) FindByID(id uint) (*model.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chapter, ok := r.chapters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *chapter
	return &cp, nil
}

func (r *fakeChapterRepo) FindByCourseID(courseID uint) ([]model.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Chapter
	for _, chapter := range r.chapters {
		if chapter.CourseID == courseID {
			out = append(out, *chapter)
		}
	}
	return out, nil
}

func (r *fakeChapterRepo) UpdateContent(chapterID uint, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chapter, ok := r.chapters[chapterID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	chapter.Content = content
	return nil
}

var _ repository.ChapterRepository = (*fakeChapterRepo)(nil)

func newChapterFixture(t *testing.T, gemini *fakeGemini) (service.ChapterService, *fakeCourseRepo, *fakeChapterRepo) {
	t.Helper()
	courseRepo := newFakeCourseRepo()
	chapterRepo := newFakeChapterRepo()
	return service.NewChapterService(courseRepo, chapterRepo, gemini), courseRepo, chapterRepo
}

func seedChapter(courseRepo *fakeCourseRepo, chapterRepo *fakeChapterRepo, userID uint) (courseID, chapterID uint) {
	course := seedCourse(courseRepo, userID, model.ContentPlaceholder)
	chapter := course.Chapters[0]
	chapterRepo.chapters[chapter.ID] = &model.Chapter{
		ID:       chapter.ID,
		CourseID: course.ID,
		Title:    chapter.Title,
		Summary:  chapter.Summary,
		Content:  model.ContentPlaceholder,
		Position: chapter.Position,
	}
	return course.ID, chapter.ID
}

func TestGenerateChapterContentPersists(t *testing.T) {
	gemini := &fakeGemini{content: "full chapter text"}
	svc, courseRepo, chapterRepo := newChapterFixture(t, gemini)
	courseID, chapterID := seedChapter(courseRepo, chapterRepo, 1)

	chapter, err := svc.GenerateContent(context.Background(), 1, courseID, chapterID, "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "full chapter text", chapter.Content)

	stored, err := chapterRepo.FindByID(chapterID)
	require.NoError(t, err)
	assert.Equal(t, "full chapter text", stored.Content)
}

func TestGenerateChapterContentPersistsPartialStream(t *testing.T) {
	// An interrupted stream (e.g. client disconnect) still writes back what
	// was produced.
	gemini := &fakeGemini{content: "partial text", err: fmt.Errorf("stream interrupted")}
	svc, courseRepo, chapterRepo := newChapterFixture(t, gemini)
	courseID, chapterID := seedChapter(courseRepo, chapterRepo, 1)

	_, err := svc.GenerateContent(context.Background(), 1, courseID, chapterID, "gemini-2.5-flash")
	require.NoError(t, err)

	stored, err := chapterRepo.FindByID(chapterID)
	require.NoError(t, err)
	assert.Equal(t, "partial text", stored.Content)
}

func TestGenerateChapterContentEmptyStreamFails(t *testing.T) {
	gemini := &fakeGemini{content: "", err: fmt.Errorf("model unavailable")}
	svc, courseRepo, chapterRepo := newChapterFixture(t, gemini)
	courseID, chapterID := seedChapter(courseRepo, chapterRepo, 1)

	_, err := svc.GenerateContent(context.Background(), 1, courseID, chapterID, "gemini-2.5-flash")
	require.ErrorIs(t, err, service.ErrUpstream)

	stored, err := chapterRepo.FindByID(chapterID)
	require.NoError(t, err)
	assert.Equal(t, model.ContentPlaceholder, stored.Content, "placeholder must survive a failed generation")
}

func TestGenerateChapterContentChecksOwnershipAndAssociation(t *testing.T) {
	gemini := &fakeGemini{content: "text"}
	svc, courseRepo, chapterRepo := newChapterFixture(t, gemini)
	courseID, chapterID := seedChapter(courseRepo, chapterRepo, 1)

	_, err := svc.GenerateContent(context.Background(), 2, courseID, chapterID, "gemini-2.5-flash")
	require.ErrorIs(t, err, service.ErrForbidden)

	otherCourse := seedCourse(courseRepo, 1, "done")
	_, err = svc.GenerateContent(context.Background(), 1, otherCourse.ID, chapterID, "gemini-2.5-flash")
	require.ErrorIs(t, err, service.ErrNotFound)
}
