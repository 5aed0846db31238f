package audience

import (
	"strings"

	"github.com/Valeria115/VK-chat-bot/pkg/kb/repository"
)

// NotFound is returned when no stored project survives filtering.
const NotFound = "Не удалось найти проекты по заданной категории."

// NoSection is returned for audience keywords outside the vocabulary.
const NoSection = "Для указанной категории не найдено подходящего раздела."

const summaryRunes = 160

// pagePaths maps audience keywords to the canonical site path their
// projects live under. The lookup is keyword-sensitive: asking for
// teachers must never resolve the students section.
var pagePaths = map[string]string{
	"школьник":      "/students",
	"студент":       "/students",
	"специалист":    "/professionals",
	"преподаватель": "/teachers",
	"учащийся":      "/students",
	"выпускник":     "/students",
	"абитуриент":    "/students",
}

// domainKeywords gate non-default audiences: the record title must look
// like an actual program, not an arbitrary page section.
var domainKeywords = []string{
	"проект", "курс", "школа", "программа", "стажировка", "академия", "трек",
}

type Lister struct{ r repository.KBRepository }

func New(r repository.KBRepository) *Lister { return &Lister{r} }

// List formats the stored projects for one audience as a bulleted summary
// with source links. The default "студент" audience takes every record
// under its path; other audiences are additionally filtered by title.
func (l *Lister) List(keyword string) (string, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	path, ok := pagePaths[keyword]
	if !ok {
		return NoSection, nil
	}

	recs, err := l.r.AllRecords()
	if err != nil {
		return "", err
	}

	defaultAudience := keyword == "студент"
	seen := map[string]bool{}
	var blocks []string
	for _, rec := range recs {
		if !strings.Contains(rec.SourceURL, path) {
			continue
		}
		if !defaultAudience && !titleMatches(rec.Title) {
			continue
		}
		title := strings.TrimSpace(rec.Title)
		summary := firstSentence(rec.Content)
		if summary == "" || seen[title] {
			continue
		}
		seen[title] = true
		blocks = append(blocks, "- "+title+"\n  "+summary+"...\n  🔗 "+rec.SourceURL)
	}

	if len(blocks) == 0 {
		return NotFound, nil
	}
	return strings.Join(blocks, "\n\n"), nil
}

func titleMatches(title string) bool {
	low := strings.ToLower(title)
	for _, kw := range domainKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}

func firstSentence(content string) string {
	s := strings.TrimSpace(content)
	if i := strings.Index(s, ". "); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) > summaryRunes {
		r = r[:summaryRunes]
	}
	return strings.TrimSpace(string(r))
}
