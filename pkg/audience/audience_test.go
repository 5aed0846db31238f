package audience

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Valeria115/VK-chat-bot/entities"
)

type fakeRepo struct {
	recs []entities.KnowledgeRecord
}

func (f *fakeRepo) ReplaceAll(recs []entities.KnowledgeRecord) error { f.recs = recs; return nil }
func (f *fakeRepo) AllRecords() ([]entities.KnowledgeRecord, error)  { return f.recs, nil }
func (f *fakeRepo) Count() (int64, error)                            { return int64(len(f.recs)), nil }
func (f *fakeRepo) GetMeta(string) (string, bool, error)             { return "", false, nil }
func (f *fakeRepo) SetMeta(string, string) error                     { return nil }

const site = "https://education.vk.company"

func TestDefaultAudienceTakesAllStudentRecords(t *testing.T) {
	l := New(&fakeRepo{recs: []entities.KnowledgeRecord{
		{Title: "Школа программирования", Content: "Бесплатная школа для студентов. Набор открыт.", SourceURL: site + "/students/school"},
		{Title: "О разделе", Content: "Общая информация раздела для студентов без ключевых слов.", SourceURL: site + "/students"},
	}})

	got, err := l.List("студент")
	require.NoError(t, err)

	// the default audience branch skips the title keyword filter
	assert.Contains(t, got, "- Школа программирования")
	assert.Contains(t, got, "- О разделе")
	assert.Contains(t, got, "🔗 "+site+"/students/school")
	assert.Contains(t, got, "Бесплатная школа для студентов...")
	assert.Equal(t, 2, strings.Count(got, "- "))
}

func TestNonDefaultAudienceFiltersByTitle(t *testing.T) {
	l := New(&fakeRepo{recs: []entities.KnowledgeRecord{
		{Title: "Курс для специалистов", Content: "Продвинутый курс. Подробности внутри.", SourceURL: site + "/professionals/course"},
		{Title: "Новости", Content: "Просто новости раздела.", SourceURL: site + "/professionals/news"},
	}})

	got, err := l.List("специалист")
	require.NoError(t, err)

	assert.Contains(t, got, "Курс для специалистов")
	assert.NotContains(t, got, "Новости")
}

func TestAudienceMappingIsKeywordSensitive(t *testing.T) {
	l := New(&fakeRepo{recs: []entities.KnowledgeRecord{
		{Title: "Программа для преподавателей", Content: "Методические материалы и трек повышения квалификации.", SourceURL: site + "/teachers/program"},
		{Title: "Проект для студентов", Content: "Студенческий проект.", SourceURL: site + "/students/project"},
	}})

	got, err := l.List("преподаватель")
	require.NoError(t, err)
	assert.Contains(t, got, "Программа для преподавателей")
	assert.NotContains(t, got, "Проект для студентов", "teacher lookup must not resolve the students path")

	got, err = l.List("специалист")
	require.NoError(t, err)
	assert.Equal(t, NotFound, got)
}

func TestUnknownAudienceKeyword(t *testing.T) {
	l := New(&fakeRepo{})
	got, err := l.List("инопланетянин")
	require.NoError(t, err)
	assert.Equal(t, NoSection, got)
}

func TestDeduplicatesByTitle(t *testing.T) {
	l := New(&fakeRepo{recs: []entities.KnowledgeRecord{
		{Title: "Стажировка", Content: "Летняя стажировка. Заявки до мая.", SourceURL: site + "/students/a"},
		{Title: "Стажировка", Content: "Дубль той же карточки. Другая страница.", SourceURL: site + "/students/b"},
	}})

	got, err := l.List("студент")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "- Стажировка"))
}

func TestSummaryIsFirstSentenceTruncated(t *testing.T) {
	long := strings.Repeat("о", 300)
	l := New(&fakeRepo{recs: []entities.KnowledgeRecord{
		{Title: "Курс", Content: long + ". Вторая фраза.", SourceURL: site + "/students/x"},
	}})

	got, err := l.List("студент")
	require.NoError(t, err)
	assert.NotContains(t, got, "Вторая фраза")
	assert.Contains(t, got, strings.Repeat("о", 160)+"...")
	assert.NotContains(t, got, strings.Repeat("о", 161))
}
