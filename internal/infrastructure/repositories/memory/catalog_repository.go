package memory

import (
	"context"
	"sync"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"
)

// MemoryCatalogRepository is an in-process catalog store used for
// development and tests. Source rows keep insertion order; default-flagged
// rows are served first, matching the backing query contract.
type MemoryCatalogRepository struct {
	mu       sync.RWMutex
	contents map[domain.ContentID]*domain.Content
	episodes map[domain.EpisodeID]*domain.Episode
	// byContent/byEpisode keep explicit source rows in insertion order.
	byContent map[domain.ContentID][]*domain.Source
	byEpisode map[domain.EpisodeID][]*domain.Source
}

func NewMemoryCatalogRepository() *MemoryCatalogRepository {
	return &MemoryCatalogRepository{
		contents:  make(map[domain.ContentID]*domain.Content),
		episodes:  make(map[domain.EpisodeID]*domain.Episode),
		byContent: make(map[domain.ContentID][]*domain.Source),
		byEpisode: make(map[domain.EpisodeID][]*domain.Source),
	}
}

var _ ports.CatalogRepository = (*MemoryCatalogRepository)(nil)

func (r *MemoryCatalogRepository) PutContent(content *domain.Content) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contents[content.ID] = content
}

func (r *MemoryCatalogRepository) PutEpisode(episode *domain.Episode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.episodes[episode.ID] = episode
}

func (r *MemoryCatalogRepository) AddSource(source *domain.Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if source.EpisodeID != "" {
		r.byEpisode[source.EpisodeID] = append(r.byEpisode[source.EpisodeID], source)
		return
	}
	r.byContent[source.ContentID] = append(r.byContent[source.ContentID], source)
}

func (r *MemoryCatalogRepository) GetContent(ctx context.Context, id domain.ContentID) (*domain.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	content, ok := r.contents[id]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	copied := *content
	return &copied, nil
}

func (r *MemoryCatalogRepository) GetEpisode(ctx context.Context, id domain.EpisodeID) (*domain.Episode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	episode, ok := r.episodes[id]
	if !ok {
		return nil, domain.ErrEpisodeNotFound
	}
	copied := *episode
	return &copied, nil
}

func (r *MemoryCatalogRepository) ListSourcesForContent(ctx context.Context, id domain.ContentID) ([]*domain.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return orderSources(r.byContent[id]), nil
}

func (r *MemoryCatalogRepository) ListSourcesForEpisode(ctx context.Context, id domain.EpisodeID) ([]*domain.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return orderSources(r.byEpisode[id]), nil
}

// orderSources copies rows default-first, preserving insertion order
// within each group.
func orderSources(rows []*domain.Source) []*domain.Source {
	if len(rows) == 0 {
		return nil
	}
	out := make([]*domain.Source, 0, len(rows))
	for _, s := range rows {
		if s.IsDefault {
			copied := *s
			out = append(out, &copied)
		}
	}
	for _, s := range rows {
		if !s.IsDefault {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out
}
