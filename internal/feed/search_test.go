package feed

import (
	"context"
	"testing"
	"time"

	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchFixture() []domain.Post {
	return []domain.Post{
		{ID: "holi-en", Timestamp: ts("2021-03-29"), Content: "Celebrating holi with the whole family"},
		{ID: "holi-hi", Timestamp: ts("2020-03-10"), Content: "होली की शुभकामनाएं सभी को"},
		{ID: "diwali", Timestamp: ts("2020-11-14"), Content: "Diwali lights at home #festival"},
		{ID: "trip", Timestamp: ts("2019-06-02"), Content: "Road trip to the hills https://example.com/a"},
	}
}

func newTestSearcher(tr *fakeTranslator, posts []domain.Post) *Searcher {
	s := NewSearcher(tr, testLogger())
	s.Rebuild(posts)
	return s
}

func TestSearchLiteralMatch(t *testing.T) {
	posts := searchFixture()
	s := newTestSearcher(&fakeTranslator{}, posts)

	got := s.Search(context.Background(), "diwali", posts)
	require.Len(t, got, 1)
	assert.Equal(t, "diwali", got[0].ID)
}

func TestSearchMergesTranslationPass(t *testing.T) {
	posts := searchFixture()
	tr := &fakeTranslator{byLang: map[string]map[string]string{
		"hi": {"holi": "होली"},
	}}
	s := newTestSearcher(tr, posts)

	got := s.Search(context.Background(), "holi", posts)

	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	assert.Contains(t, ids, "holi-en", "literal pass")
	assert.Contains(t, ids, "holi-hi", "hindi translation pass")
	assert.NotContains(t, ids, "diwali")
}

func TestSearchSkipsFailedTranslation(t *testing.T) {
	posts := searchFixture()
	tr := &fakeTranslator{err: context.DeadlineExceeded}
	s := newTestSearcher(tr, posts)

	got := s.Search(context.Background(), "holi", posts)
	require.Len(t, got, 1, "literal results survive a translator outage")
	assert.Equal(t, "holi-en", got[0].ID)
}

func TestSearchRespectsScope(t *testing.T) {
	posts := searchFixture()
	s := newTestSearcher(&fakeTranslator{}, posts)

	scope := FilterYear(posts, 2020)
	got := s.Search(context.Background(), "holi", scope)

	for _, p := range got {
		assert.Equal(t, 2020, p.Year(), "matches outside the year filter are dropped")
	}
}

func TestSearchEmptyQueryReturnsScope(t *testing.T) {
	posts := searchFixture()
	tr := &fakeTranslator{}
	s := newTestSearcher(tr, posts)

	got := s.Search(context.Background(), "   ", posts)
	assert.Len(t, got, len(posts))
	assert.Zero(t, tr.calls, "no translation for a blank query")
}

func TestSearchMatchesDateTokens(t *testing.T) {
	posts := []domain.Post{
		{ID: "march-post", Timestamp: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC), Content: "quiet day"},
		{ID: "june-post", Timestamp: time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC), Content: "another day"},
	}
	s := newTestSearcher(&fakeTranslator{}, posts)

	got := s.Search(context.Background(), "15 march", posts)
	require.NotEmpty(t, got)
	assert.Equal(t, "march-post", got[0].ID)
}

func TestSearchIgnoresURLNoise(t *testing.T) {
	posts := searchFixture()
	s := newTestSearcher(&fakeTranslator{}, posts)

	got := s.Search(context.Background(), "example.com", posts)
	for _, p := range got {
		assert.NotEqual(t, "trip", p.ID, "URLs are stripped from the index")
	}
}

func TestSearchDeterministicAcrossRuns(t *testing.T) {
	posts := searchFixture()
	s := newTestSearcher(&fakeTranslator{}, posts)

	first := s.Search(context.Background(), "holi", posts)
	for i := 0; i < 5; i++ {
		again := s.Search(context.Background(), "holi", posts)
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].ID, again[j].ID)
		}
	}
}
