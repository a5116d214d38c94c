package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"playgate/internal/core/domain"

	"go.uber.org/zap/zaptest"
)

type stubCatalog struct {
	content        *domain.Content
	episode        *domain.Episode
	contentSources []*domain.Source
	episodeSources []*domain.Source
	err            error
}

func (s *stubCatalog) GetContent(ctx context.Context, id domain.ContentID) (*domain.Content, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.content == nil {
		return nil, domain.ErrContentNotFound
	}
	return s.content, nil
}

func (s *stubCatalog) GetEpisode(ctx context.Context, id domain.EpisodeID) (*domain.Episode, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.episode == nil {
		return nil, domain.ErrEpisodeNotFound
	}
	return s.episode, nil
}

func (s *stubCatalog) ListSourcesForContent(ctx context.Context, id domain.ContentID) ([]*domain.Source, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.contentSources, nil
}

func (s *stubCatalog) ListSourcesForEpisode(ctx context.Context, id domain.EpisodeID) ([]*domain.Source, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.episodeSources, nil
}

func TestSourceResolver_ExplicitRowsWin(t *testing.T) {
	catalog := &stubCatalog{
		content: &domain.Content{
			ID:              "c1",
			EmbeddedSources: []domain.EmbeddedSource{{Server: "Legacy", URL: "http://legacy/1"}},
		},
		contentSources: []*domain.Source{
			{ID: "s1", ContentID: "c1", IsDefault: true, URL: "http://a"},
			{ID: "s2", ContentID: "c1", URL: "http://b"},
		},
	}
	resolver := NewSourceResolver(catalog, zaptest.NewLogger(t).Sugar())

	got, err := resolver.ResolveSources(context.Background(), domain.PlaybackTarget{ContentID: "c1"})
	if err != nil {
		t.Fatalf("ResolveSources() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(sources) = %d, want 2", len(got))
	}
	if got[0].ID != "s1" || got[1].ID != "s2" {
		t.Errorf("ordering not preserved: %v, %v", got[0].ID, got[1].ID)
	}
}

func TestSourceResolver_ZeroExplicitDefaults(t *testing.T) {
	catalog := &stubCatalog{
		contentSources: []*domain.Source{
			{ID: "s1", ContentID: "c1"},
			{ID: "s2", ContentID: "c1"},
		},
	}
	resolver := NewSourceResolver(catalog, zaptest.NewLogger(t).Sugar())

	got, err := resolver.ResolveSources(context.Background(), domain.PlaybackTarget{ContentID: "c1"})
	if err != nil {
		t.Fatalf("ResolveSources() error = %v", err)
	}
	if !got[0].IsDefault {
		t.Error("first row should be treated as default when none is flagged")
	}
	if got[1].IsDefault {
		t.Error("only one default expected")
	}
}

func TestSourceResolver_EmbeddedFallback(t *testing.T) {
	created := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	catalog := &stubCatalog{
		content: &domain.Content{
			ID:        "c1",
			CreatedAt: created,
			EmbeddedSources: []domain.EmbeddedSource{
				{URL: "http://one", QualityURLs: map[string]string{"1080p": "http://one/hd"}},
				{Server: "Alpha", Type: "hls", URL: "http://two", DefaultQuality: "1080p"},
			},
		},
	}
	resolver := NewSourceResolver(catalog, zaptest.NewLogger(t).Sugar())

	got, err := resolver.ResolveSources(context.Background(), domain.PlaybackTarget{ContentID: "c1"})
	if err != nil {
		t.Fatalf("ResolveSources() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(sources) = %d, want 2", len(got))
	}

	first, second := got[0], got[1]
	if first.ID != "embedded-0" || second.ID != "embedded-1" {
		t.Errorf("synthetic ids = %v, %v", first.ID, second.ID)
	}
	if first.ServerName != "Server 1" {
		t.Errorf("fallback server label = %q, want %q", first.ServerName, "Server 1")
	}
	if first.Kind != domain.SourceMP4 || first.DefaultQuality != "720p" {
		t.Errorf("fallback kind/quality = %v/%v", first.Kind, first.DefaultQuality)
	}
	if first.QualityURLs["1080p"] != "http://one/hd" {
		t.Errorf("quality map not inherited: %v", first.QualityURLs)
	}
	if second.ServerName != "Alpha" || second.Kind != domain.SourceHLS {
		t.Errorf("inline fields not inherited: %v %v", second.ServerName, second.Kind)
	}
	if !first.CreatedAt.Equal(created) || !first.UpdatedAt.Equal(created) {
		t.Errorf("timestamps not stamped from parent: %v %v", first.CreatedAt, first.UpdatedAt)
	}

	defaults := 0
	for _, s := range got {
		if s.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("defaults = %d, want exactly 1", defaults)
	}
	if !first.IsDefault {
		t.Error("first entry should be default-flagged when none is marked")
	}
}

func TestSourceResolver_EmbeddedFallbackForEpisodeStaysContentScoped(t *testing.T) {
	catalog := &stubCatalog{
		content: &domain.Content{
			ID:              "c1",
			Kind:            domain.KindSeries,
			EmbeddedSources: []domain.EmbeddedSource{{URL: "http://one"}},
		},
		episode: &domain.Episode{ID: "e1", ContentID: "c1"},
	}
	resolver := NewSourceResolver(catalog, zaptest.NewLogger(t).Sugar())

	got, err := resolver.ResolveSources(context.Background(), domain.PlaybackTarget{ContentID: "c1", EpisodeID: "e1"})
	if err != nil {
		t.Fatalf("ResolveSources() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(sources) = %d, want 1", len(got))
	}
	// The inline list belongs to the content row, so the synthesized source
	// keys to the content only.
	if got[0].ContentID != "c1" {
		t.Errorf("ContentID = %q, want %q", got[0].ContentID, "c1")
	}
	if got[0].EpisodeID != "" {
		t.Errorf("EpisodeID = %q, want empty", got[0].EpisodeID)
	}
}

func TestSourceResolver_EmbeddedExplicitDefault(t *testing.T) {
	catalog := &stubCatalog{
		content: &domain.Content{
			ID: "c1",
			EmbeddedSources: []domain.EmbeddedSource{
				{URL: "http://one"},
				{URL: "http://two", IsDefault: true},
			},
		},
	}
	resolver := NewSourceResolver(catalog, zaptest.NewLogger(t).Sugar())

	got, err := resolver.ResolveSources(context.Background(), domain.PlaybackTarget{ContentID: "c1"})
	if err != nil {
		t.Fatalf("ResolveSources() error = %v", err)
	}
	if got[0].IsDefault || !got[1].IsDefault {
		t.Errorf("explicit inline default not respected: %v %v", got[0].IsDefault, got[1].IsDefault)
	}
}

func TestSourceResolver_EmptyIsNotAnError(t *testing.T) {
	catalog := &stubCatalog{content: &domain.Content{ID: "c1"}}
	resolver := NewSourceResolver(catalog, zaptest.NewLogger(t).Sugar())

	got, err := resolver.ResolveSources(context.Background(), domain.PlaybackTarget{ContentID: "c1"})
	if err != nil {
		t.Fatalf("empty catalog must not be an error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(sources) = %d, want 0", len(got))
	}
}

func TestSourceResolver_StoreErrorIsCatalogUnavailable(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("connection refused")}
	resolver := NewSourceResolver(catalog, zaptest.NewLogger(t).Sugar())

	_, err := resolver.ResolveSources(context.Background(), domain.PlaybackTarget{ContentID: "c1"})
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("error = %v, want ErrCatalogUnavailable", err)
	}
}

func TestSourceResolver_TwoExplicitDefaultsIsInvariantViolation(t *testing.T) {
	catalog := &stubCatalog{
		contentSources: []*domain.Source{
			{ID: "s1", ContentID: "c1", IsDefault: true},
			{ID: "s2", ContentID: "c1", IsDefault: true},
		},
	}
	resolver := NewSourceResolver(catalog, zaptest.NewLogger(t).Sugar())

	_, err := resolver.ResolveSources(context.Background(), domain.PlaybackTarget{ContentID: "c1"})
	if !errors.Is(err, domain.ErrInvariantViolation) {
		t.Errorf("error = %v, want ErrInvariantViolation", err)
	}
}
