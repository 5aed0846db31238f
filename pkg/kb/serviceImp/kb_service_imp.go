package serviceImp

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Valeria115/VK-chat-bot/entities"
	"github.com/Valeria115/VK-chat-bot/pkg/kb/embedder"
	"github.com/Valeria115/VK-chat-bot/pkg/kb/repository"
)

// NoAnswer is the user-visible sentinel for a query nothing matched.
const NoAnswer = "Я не нашёл подходящего ответа."

const (
	excerptRunes = 700
	// Relatedness is a low bar (don't wrongly refuse in-domain questions),
	// direct answers a higher one (don't confidently return a bad excerpt).
	defaultAnswerThreshold  = 0.5
	defaultRelatedThreshold = 0.4
	defaultLinkThreshold    = 0.5
)

type Svc struct {
	r       repository.KBRepository
	emb     embedder.Embedder
	siteURL string

	AnswerThreshold  float64
	RelatedThreshold float64
	LinkThreshold    float64
}

func New(r repository.KBRepository, e embedder.Embedder, siteURL string) *Svc {
	return &Svc{
		r:                r,
		emb:              e,
		siteURL:          siteURL,
		AnswerThreshold:  defaultAnswerThreshold,
		RelatedThreshold: defaultRelatedThreshold,
		LinkThreshold:    defaultLinkThreshold,
	}
}

func cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		v, w := float64(a[i]), float64(b[i])
		dot += v * w
		na += v * v
		nb += w * w
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}

func (s *Svc) embedQuery(q string) ([]float32, error) {
	vecs, err := s.emb.Embed([]string{q})
	if err != nil {
		return nil, fmt.Errorf("kb: embed query: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("kb: embedder returned no vector")
	}
	return vecs[0], nil
}

func (s *Svc) BestAnswer(question string) (string, error) {
	qvec, err := s.embedQuery(question)
	if err != nil {
		return "", err
	}
	recs, err := s.r.AllRecords()
	if err != nil {
		return "", err
	}

	best := -1.0
	answer := ""
	for _, rec := range recs {
		sc, ok := cosine(qvec, embedder.BytesToFloats(rec.Embedding))
		if !ok {
			continue
		}
		// strict > keeps the first record on exact ties
		if sc > best {
			best = sc
			answer = excerpt(rec.Content, excerptRunes)
		}
	}
	if best <= s.AnswerThreshold {
		return NoAnswer, nil
	}
	return answer, nil
}

func (s *Svc) TopContext(question string, k int) (string, error) {
	if k <= 0 {
		return "", nil
	}
	qvec, err := s.embedQuery(question)
	if err != nil {
		return "", err
	}
	recs, err := s.r.AllRecords()
	if err != nil {
		return "", err
	}

	type scored struct {
		sc  float64
		rec entities.KnowledgeRecord
	}
	list := make([]scored, 0, len(recs))
	for _, rec := range recs {
		sc, ok := cosine(qvec, embedder.BytesToFloats(rec.Embedding))
		if !ok {
			continue
		}
		list = append(list, scored{sc, rec})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].sc > list[j].sc })
	if k > len(list) {
		k = len(list)
	}

	parts := make([]string, 0, k)
	for i := 0; i < k; i++ {
		parts = append(parts, fmt.Sprintf("%s:\n%s", list[i].rec.Title, list[i].rec.Content))
	}
	return strings.Join(parts, "\n\n"), nil
}

func (s *Svc) IsRelated(question string) (bool, error) {
	qvec, err := s.embedQuery(question)
	if err != nil {
		return false, err
	}
	recs, err := s.r.AllRecords()
	if err != nil {
		return false, err
	}
	for _, rec := range recs {
		if sc, ok := cosine(qvec, embedder.BytesToFloats(rec.Embedding)); ok && sc > s.RelatedThreshold {
			return true, nil
		}
	}
	return false, nil
}

func (s *Svc) HelpLinks(question string, topK int) (string, error) {
	qvec, err := s.embedQuery(question)
	if err != nil {
		return "", err
	}
	recs, err := s.r.AllRecords()
	if err != nil {
		return "", err
	}

	type link struct {
		sc  float64
		url string
	}
	var links []link
	for _, rec := range recs {
		if rec.SourceURL == "" {
			continue
		}
		if sc, ok := cosine(qvec, embedder.BytesToFloats(rec.Embedding)); ok && sc >= s.LinkThreshold {
			links = append(links, link{sc, rec.SourceURL})
		}
	}
	if len(links) == 0 {
		return s.siteURL, nil
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].sc > links[j].sc })
	if topK > len(links) {
		topK = len(links)
	}
	urls := make([]string, 0, topK)
	for i := 0; i < topK; i++ {
		urls = append(urls, links[i].url)
	}
	return strings.Join(urls, "\n"), nil
}

func excerpt(content string, maxRunes int) string {
	r := []rune(content)
	if len(r) <= maxRunes {
		return content + "..."
	}
	return string(r[:maxRunes]) + "..."
}
