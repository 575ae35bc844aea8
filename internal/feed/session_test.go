package feed

import (
	"context"
	"testing"

	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, repo *fakePostRepo, tr *fakeTranslator) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Feed.FetchBatchSize = 1000
	cfg.Feed.PageSize = 10

	svc := NewService(Opts{
		PostRepo:   repo,
		Translator: tr,
		Config:     cfg,
		Logger:     testLogger(),
	})
	svc.Load(context.Background())
	return svc
}

func TestSessionDefaultViewIsWholeArchive(t *testing.T) {
	svc := newTestService(t, newFakePostRepo(archiveOf(25)), &fakeTranslator{})

	sess := svc.Session("visitor-1")
	assert.Equal(t, 25, sess.ViewLen())
	assert.Equal(t, -1, sess.ResultCount())

	batch, ok := sess.NextPage()
	require.True(t, ok)
	assert.Len(t, batch.Posts, 10)
}

func TestSessionApplyYearFilterResetsCursor(t *testing.T) {
	posts := append(archiveOf(15), searchFixture()...)
	svc := newTestService(t, newFakePostRepo(posts), &fakeTranslator{})

	sess := svc.Session("v")
	sess.NextPage()
	sess.NextPage()

	require.NoError(t, sess.Apply(context.Background(), 2020, ""))
	assert.Equal(t, 2, sess.ViewLen())
	assert.Equal(t, -1, sess.ResultCount(), "no indicator without a query")

	batch, ok := sess.NextPage()
	require.True(t, ok)
	assert.Equal(t, 1, batch.Page, "cursor restarted for the re-derived view")
}

func TestSessionSearchComposesWithYearFilter(t *testing.T) {
	tr := &fakeTranslator{byLang: map[string]map[string]string{
		"hi": {"holi": "होली"},
	}}
	svc := newTestService(t, newFakePostRepo(searchFixture()), tr)

	sess := svc.Session("v")
	require.NoError(t, sess.Apply(context.Background(), 2020, "holi"))

	assert.Equal(t, 1, sess.ViewLen(), "the 2021 match is excluded by the year filter")
	assert.Equal(t, 1, sess.ResultCount())
}

// gateTranslator blocks every Translate call until released, standing in for
// a slow translation endpoint.
type gateTranslator struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gateTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	g.entered <- struct{}{}
	<-g.release
	return text, nil
}

func TestSessionStaleSearchDiscarded(t *testing.T) {
	gate := &gateTranslator{entered: make(chan struct{}, 2), release: make(chan struct{})}
	svc := newTestService(t, newFakePostRepo(searchFixture()), nil)
	svc.searcher.translator = gate
	sess := svc.Session("v")

	errCh := make(chan error, 1)
	go func() {
		errCh <- sess.Apply(context.Background(), 0, "holi")
	}()

	// Wait for the slow search to reach its translation pass, then let a
	// newer derivation win.
	<-gate.entered
	require.NoError(t, sess.Apply(context.Background(), 2020, ""))
	close(gate.release)

	assert.ErrorIs(t, <-errCh, ErrStaleSearch)
	assert.Equal(t, 2020, sess.Year(), "the newer state survives")
	assert.Equal(t, 2, sess.ViewLen())
}

func TestSessionsResetOnReload(t *testing.T) {
	repo := newFakePostRepo(archiveOf(25))
	svc := newTestService(t, repo, &fakeTranslator{})

	first := svc.Session("v")
	svc.Load(context.Background())
	second := svc.Session("v")

	assert.NotSame(t, first, second, "reload drops derived sessions")
}

func TestServicePhotoGrid(t *testing.T) {
	posts := archiveOf(20)
	for i := range posts {
		posts[i].Images = []string{posts[i].ID + ".jpg"}
	}
	svc := newTestService(t, newFakePostRepo(posts), &fakeTranslator{})

	grid := svc.PhotoGrid()
	require.Len(t, grid, 9)
	assert.Equal(t, "post-00000.jpg", grid[0], "newest posts first")
}
