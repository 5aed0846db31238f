package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Valeria115/VK-chat-bot/entities"
	"github.com/Valeria115/VK-chat-bot/pkg/kb/embedder"
)

// Fetcher returns the rendered markup of a page. The default is a plain
// HTTP GET; a headless-browser fetcher can be injected where the site
// needs JavaScript to produce its final DOM.
type Fetcher interface {
	RenderPage(ctx context.Context, url string) (string, error)
}

type HTTPFetcher struct{ client *http.Client }

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 20 * time.Second}}
}

func (f *HTTPFetcher) RenderPage(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %s", u, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

const (
	minCardWords  = 5
	cardTitleRune = 40
	fetchParallel = 4
)

type Crawler struct {
	fetch   Fetcher
	emb     embedder.Embedder
	limiter *rate.Limiter
	log     *slog.Logger
}

func New(f Fetcher, e embedder.Embedder, log *slog.Logger) *Crawler {
	if log == nil {
		log = slog.Default()
	}
	return &Crawler{
		fetch: f,
		emb:   e,
		// one page per second keeps the crawl polite
		limiter: rate.NewLimiter(rate.Limit(1), fetchParallel),
		log:     log,
	}
}

// Crawl fetches the site root plus every same-site link and returns the
// full fresh record set. A single page failing is logged and skipped; the
// root failing aborts the whole crawl so stale data stays authoritative.
func (c *Crawler) Crawl(ctx context.Context, siteURL string) ([]entities.KnowledgeRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	html, err := c.fetch.RenderPage(ctx, siteURL)
	if err != nil {
		return nil, fmt.Errorf("crawler: root page: %w", err)
	}

	links, err := internalLinks(html, siteURL)
	if err != nil {
		return nil, fmt.Errorf("crawler: root page: %w", err)
	}

	records, err := c.parsePage(html, siteURL)
	if err != nil {
		return nil, fmt.Errorf("crawler: root page: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallel)
	for _, link := range links {
		link := link
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}
			page, err := c.fetch.RenderPage(gctx, link)
			if err != nil {
				c.log.Warn("page fetch failed, skipping", "url", link, "err", err)
				return nil
			}
			recs, err := c.parsePage(page, link)
			if err != nil {
				c.log.Warn("page parse failed, skipping", "url", link, "err", err)
				return nil
			}
			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// internalLinks collects deduplicated same-site links, absolute-resolved
// and fragment-stripped, with the root itself excluded.
func internalLinks(html, siteURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		full := base.ResolveReference(ref)
		full.Fragment = ""
		clean := full.String()
		if !strings.HasPrefix(clean, siteURL) || clean == siteURL {
			return
		}
		if !seen[clean] {
			seen[clean] = true
			links = append(links, clean)
		}
	})
	return links, nil
}

func (c *Crawler) parsePage(html, pageURL string) ([]entities.KnowledgeRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	type block struct{ title, content string }
	var blocks []block

	doc.Find("div[class*=card]").Each(func(_ int, s *goquery.Selection) {
		content := squeeze(s.Text())
		if len(strings.Fields(content)) < minCardWords {
			return
		}
		blocks = append(blocks, block{title: cardTitle(content), content: content})
	})

	doc.Find("section").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h2, h3, h4").First().Text())
		if title == "" {
			return
		}
		content := squeeze(s.Text())
		if content == "" {
			return
		}
		blocks = append(blocks, block{title: title, content: content})
	})

	if len(blocks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(blocks))
	for i, b := range blocks {
		texts[i] = b.content
	}
	vecs, err := c.emb.Embed(texts)
	if err != nil {
		return nil, fmt.Errorf("embed page %s: %w", pageURL, err)
	}

	recs := make([]entities.KnowledgeRecord, 0, len(blocks))
	for i, b := range blocks {
		if i >= len(vecs) || len(vecs[i]) == 0 {
			c.log.Warn("no embedding for block, skipping", "url", pageURL, "title", b.title)
			continue
		}
		recs = append(recs, entities.KnowledgeRecord{
			Title:     b.title,
			Content:   b.content,
			SourceURL: pageURL,
			Embedding: embedder.FloatsToBytes(vecs[i]),
		})
	}
	return recs, nil
}

func cardTitle(content string) string {
	r := []rune(content)
	if len(r) > cardTitleRune {
		r = r[:cardTitleRune]
	}
	return strings.TrimSpace(string(r))
}

func squeeze(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
