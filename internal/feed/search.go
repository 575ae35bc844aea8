package feed

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/panjf2000/ants/v2"
	"github.com/sahilm/fuzzy"
	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/internal/translator"
	"github.com/satyapal28/archive-server/pkg/logger"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrStaleSearch marks results that were superseded by a newer search before
// they arrived; callers discard them and keep the newer view.
var ErrStaleSearch = errors.New("search superseded by a newer query")

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

type searchEntry struct {
	id   string
	text string // folded content plus date tokens
}

// Searcher answers free-text queries over the post store. For each query it
// runs three fuzzy passes -- the literal query, its Hindi translation and its
// English translation -- and merges the match sets by post identity.
type Searcher struct {
	mu         sync.RWMutex
	entries    []searchEntry
	translator translator.Client
	logger     logger.Logger
}

func NewSearcher(tr translator.Client, log logger.Logger) *Searcher {
	return &Searcher{
		translator: tr,
		logger:     log.WithComponent("Searcher"),
	}
}

// Rebuild recreates the searchable projection from the given posts. Unicode
// folding dominates the cost, so entries are built on a worker pool.
func (s *Searcher) Rebuild(posts []domain.Post) {
	entries := make([]searchEntry, len(posts))

	var wg sync.WaitGroup
	pool, err := ants.NewPool(8, ants.WithPreAlloc(true))
	if err != nil {
		for idx := range posts {
			entries[idx] = buildEntry(&posts[idx])
		}
	} else {
		defer pool.Release()
		for idx := range posts {
			wg.Add(1)
			i := idx
			if submitErr := pool.Submit(func() {
				defer wg.Done()
				entries[i] = buildEntry(&posts[i])
			}); submitErr != nil {
				wg.Done()
				entries[i] = buildEntry(&posts[i])
			}
		}
		wg.Wait()
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	s.logger.Info("Search index rebuilt", "posts", len(entries))
}

func buildEntry(p *domain.Post) searchEntry {
	return searchEntry{
		id:   p.ID,
		text: foldText(cleanContent(p.Content)) + " " + dateTokens(p),
	}
}

type entrySource []searchEntry

func (e entrySource) Len() int            { return len(e) }
func (e entrySource) String(i int) string { return e[i].text }

// Search returns the posts from scope matching the query, each pass's own
// relevance order preserved and duplicates collapsed. Translation passes are
// skipped when the collaborator fails or returns the input unchanged.
func (s *Searcher) Search(ctx context.Context, query string, scope []domain.Post) []domain.Post {
	term := strings.TrimSpace(query)
	if term == "" {
		return scope
	}

	matched := make(map[string]struct{})
	var order []string

	runPass := func(q string) {
		s.mu.RLock()
		entries := s.entries
		s.mu.RUnlock()

		results := fuzzy.FindFrom(foldText(q), entrySource(entries))
		for _, r := range results {
			id := entries[r.Index].id
			if _, ok := matched[id]; ok {
				continue
			}
			matched[id] = struct{}{}
			order = append(order, id)
		}
	}

	runPass(term)

	for _, lang := range []string{"hi", "en"} {
		translated, err := s.translator.Translate(ctx, term, lang)
		if err != nil {
			s.logger.Warn("Translation pass skipped", "lang", lang, "error", err)
			continue
		}
		if translated == "" || translated == term {
			continue
		}
		runPass(translated)
	}

	inScope := make(map[string]domain.Post, len(scope))
	for _, p := range scope {
		inScope[p.ID] = p
	}

	var out []domain.Post
	for _, id := range order {
		if p, ok := inScope[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// cleanContent strips URLs and collapses whitespace so links never dominate
// fuzzy scores. Hashtag markers are dropped but their words kept.
func cleanContent(content string) string {
	cleaned := urlPattern.ReplaceAllString(content, "")
	cleaned = hashtagPattern.ReplaceAllString(cleaned, "$1")
	return strings.TrimSpace(spacePattern.ReplaceAllString(cleaned, " "))
}

// dateTokens renders a post's date in several spellings so queries like
// "march 2020", "15 Mar" or "2020" all match.
func dateTokens(p *domain.Post) string {
	k := p.SortKey()
	if k.IsZero() {
		return strings.ToLower(p.Date)
	}
	tokens := []string{
		k.Format("1/2/2006"),
		k.Format("2/1/2006"),
		k.Format("Mon Jan 2 2006"),
		fmt.Sprintf("%d %s", k.Day(), k.Month().String()),
		fmt.Sprintf("%s %d", k.Month().String(), k.Day()),
		k.Format("2 Jan"),
		k.Format("Jan 2"),
		k.Format("2006"),
		k.Month().String(),
	}
	return strings.ToLower(strings.Join(tokens, " "))
}

// foldText lower-cases and strips combining marks so queries match across
// accents and mixed-script spellings, the same folding applied to both the
// index and every query.
func foldText(text string) string {
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(normFunc, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return folded
}
