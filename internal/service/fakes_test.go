package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/minhlq/coursecast/internal/model"
	"github.com/minhlq/coursecast/internal/repository"
	"github.com/minhlq/coursecast/internal/service"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// In-memory fakes satisfying the repository interfaces. The exam fake
// reproduces the conditional-update semantics of Finalize so the at-most-once
// guarantee can be exercised without a database.

type fakeCourseRepo struct {
	mu      sync.Mutex
	seq     uint
	courses map[uint]*model.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[uint]*model.Course{}}
}

func (r *fakeCourseRepo) Create(course *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	course.ID = r.seq
	for i := range course.Chapters {
		course.Chapters[i].ID = uint(i + 1)
		course.Chapters[i].CourseID = course.ID
	}
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) FindByID(id uint) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *course
	cp.Chapters = nil
	return &cp, nil
}

func (r *fakeCourseRepo) FindByIDWithChapters(id uint) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *course
	cp.Chapters = append([]model.Chapter(nil), course.Chapters...)
	return &cp, nil
}

func (r *fakeCourseRepo) FindAllByUserID(userID uint) ([]model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Course
	for _, course := range r.courses {
		if course.UserID == userID {
			out = append(out, *course)
		}
	}
	return out, nil
}

type fakeExamRepo struct {
	mu    sync.Mutex
	seq   uint
	exams map[uint]*model.Exam
}

func newFakeExamRepo() *fakeExamRepo {
	return &fakeExamRepo{exams: map[uint]*model.Exam{}}
}

func (r *fakeExamRepo) Replace(courseID uint, exam *model.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ex := range r.exams {
		if ex.CourseID == courseID {
			delete(r.exams, id)
		}
	}
	r.seq++
	exam.ID = r.seq
	cp := *exam
	r.exams[exam.ID] = &cp
	return nil
}

func (r *fakeExamRepo) FindByID(id uint) (*model.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exam, ok := r.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *exam
	return &cp, nil
}

func (r *fakeExamRepo) FindLatestByCourseID(courseID uint) (*model.Exam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.Exam
	for _, exam := range r.exams {
		if exam.CourseID != courseID {
			continue
		}
		if latest == nil || exam.ID > latest.ID {
			latest = exam
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeExamRepo) Finalize(examID uint, score int, answers map[string]string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exam, ok := r.exams[examID]
	if !ok || exam.Score != nil {
		return false, nil
	}
	s := score
	exam.Score = &s
	exam.Answers = datatypes.NewJSONType(answers)
	return true, nil
}

func (r *fakeExamRepo) DeleteByCourseID(courseID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, exam := range r.exams {
		if exam.CourseID == courseID {
			delete(r.exams, id)
		}
	}
	return nil
}

func (r *fakeExamRepo) countForCourse(courseID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, exam := range r.exams {
		if exam.CourseID == courseID {
			n++
		}
	}
	return n
}

type fakeCertificateRepo struct {
	mu     sync.Mutex
	seq    uint
	certs  map[uint]*model.Certificate
	byExam map[uint]uint
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{certs: map[uint]*model.Certificate{}, byExam: map[uint]uint{}}
}

func (r *fakeCertificateRepo) Create(cert *model.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byExam[cert.ExamID]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.seq++
	cert.ID = r.seq
	cp := *cert
	r.certs[cert.ID] = &cp
	r.byExam[cert.ExamID] = cert.ID
	return nil
}

func (r *fakeCertificateRepo) FindByID(id uint) (*model.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cert, ok := r.certs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *cert
	return &cp, nil
}

func (r *fakeCertificateRepo) FindByExamID(examID uint) (*model.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byExam[examID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r.certs[id]
	return &cp, nil
}

// fakeGemini returns canned payloads; err short-circuits every call.
type fakeGemini struct {
	questions []model.Question
	outline   *service.CourseOutline
	content   string
	err       error
}

func (g *fakeGemini) GenerateExamQuestions(ctx context.Context, topic, courseContent, modelName string) ([]model.Question, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.questions, nil
}

func (g *fakeGemini) GenerateCourseOutline(ctx context.Context, topic, modelName string) (*service.CourseOutline, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.outline, nil
}

func (g *fakeGemini) GenerateChapterContent(ctx context.Context, topic string, chapter *model.Chapter, modelName string) (string, error) {
	if g.err != nil {
		return g.content, g.err
	}
	return g.content, nil
}

var (
	_ repository.CourseRepository      = (*fakeCourseRepo)(nil)
	_ repository.ExamRepository        = (*fakeExamRepo)(nil)
	_ repository.CertificateRepository = (*fakeCertificateRepo)(nil)
	_ service.GeminiService            = (*fakeGemini)(nil)
)

// makeQuestions builds n questions whose correct answer is always option A.
func makeQuestions(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			Question: fmt.Sprintf("Question %d?", i),
			Options: []string{
				fmt.Sprintf("A%d", i),
				fmt.Sprintf("B%d", i),
				fmt.Sprintf("C%d", i),
				fmt.Sprintf("D%d", i),
			},
			CorrectAnswer: fmt.Sprintf("A%d", i),
		}
	}
	return questions
}

func seedCourse(repo *fakeCourseRepo, userID uint, chapterContents ...string) *model.Course {
	course := &model.Course{
		UserID: userID,
		Topic:  "Distributed Systems",
		Title:  "Distributed Systems from Scratch",
	}
	for i, content := range chapterContents {
		course.Chapters = append(course.Chapters, model.Chapter{
			Title:    fmt.Sprintf("Chapter %d", i+1),
			Summary:  "summary",
			Content:  content,
			Position: i + 1,
		})
	}
	if err := repo.Create(course); err != nil {
		panic(err)
	}
	return course
}

func seedExam(repo *fakeExamRepo, courseID uint, questions []model.Question) *model.Exam {
	exam := &model.Exam{
		CourseID:  courseID,
		Questions: datatypes.NewJSONSlice(questions),
	}
	if err := repo.Replace(courseID, exam); err != nil {
		panic(err)
	}
	return exam
}
