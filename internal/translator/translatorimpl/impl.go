package translatorimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/satyapal28/archive-server/internal/ratelimit"
	"github.com/satyapal28/archive-server/internal/translator"
	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/satyapal28/archive-server/pkg/errors"
	"github.com/satyapal28/archive-server/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Config *config.Config
	Logger logger.Logger
}

// Impl talks to the public translate endpoint. It is best-effort by contract:
// bounded timeout, a rolling per-minute cap, and a cache persisted across
// restarts so repeated post translations cost nothing.
type Impl struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	limiter  ratelimit.Limiter
	logger   logger.Logger

	mu        sync.Mutex
	cache     map[string]string
	cachePath string
}

func New(opts Opts) *Impl {
	perMinute := opts.Config.Translate.PerMinuteCap
	timeout := time.Duration(opts.Config.Translate.TimeoutSecs) * time.Second

	i := &Impl{
		endpoint: opts.Config.Translate.Endpoint,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		limiter:  ratelimit.NewInMemoryLimiter(perMinute, time.Minute, perMinute),
		logger:   opts.Logger.WithComponent("Translator"),
		cache:    make(map[string]string),
	}

	if path, err := xdg.CacheFile(filepath.Join("archive-server", "translations.json")); err == nil {
		i.cachePath = path
		i.loadCache()
	}

	opts.LC.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			i.saveCache()
			return nil
		},
	})

	return i
}

var _ translator.Client = (*Impl)(nil)

// Translate returns text in the target language, auto-detecting the source.
func (i *Impl) Translate(ctx context.Context, text, targetLang string) (string, error) {
	key := targetLang + "\x00" + text

	i.mu.Lock()
	if cached, ok := i.cache[key]; ok {
		i.mu.Unlock()
		return cached, nil
	}
	i.mu.Unlock()

	if !i.limiter.Allow("translate") {
		return "", translator.ErrRateLimited
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "build translate request")
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return "", errors.Wrap(translator.ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrap(translator.ErrUnavailable, fmt.Sprintf("status %d", resp.StatusCode))
	}

	translated, err := decodePayload(resp.Body)
	if err != nil {
		return "", errors.Wrap(translator.ErrUnavailable, err.Error())
	}

	i.mu.Lock()
	i.cache[key] = translated
	i.mu.Unlock()

	return translated, nil
}

// decodePayload walks the endpoint's nested-array response and joins the
// translated segments.
func decodePayload(r io.Reader) (string, error) {
	var payload []any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation payload")
	}
	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translation payload shape")
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no translated segments")
	}
	return sb.String(), nil
}

func (i *Impl) loadCache() {
	data, err := os.ReadFile(i.cachePath)
	if err != nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := json.Unmarshal(data, &i.cache); err != nil {
		i.cache = make(map[string]string)
	}
}

func (i *Impl) saveCache() {
	if i.cachePath == "" {
		return
	}
	i.mu.Lock()
	data, err := json.Marshal(i.cache)
	i.mu.Unlock()
	if err != nil {
		return
	}
	if err := os.WriteFile(i.cachePath, data, 0o644); err != nil {
		i.logger.Warn("Failed to persist translation cache", "error", err)
	}
}
