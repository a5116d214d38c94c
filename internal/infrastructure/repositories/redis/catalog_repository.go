package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"
)

// RedisCatalogRepository stores catalog rows as JSON blobs. Source rows
// live in a per-owner list that keeps insertion order; reads serve
// default-flagged rows first.
type RedisCatalogRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisCatalogRepository(client *redis.Client) *RedisCatalogRepository {
	return &RedisCatalogRepository{
		client: client,
		prefix: "playgate:",
	}
}

var _ ports.CatalogRepository = (*RedisCatalogRepository)(nil)

func (r *RedisCatalogRepository) contentKey(id domain.ContentID) string {
	return r.prefix + "content:" + string(id)
}

func (r *RedisCatalogRepository) episodeKey(id domain.EpisodeID) string {
	return r.prefix + "episode:" + string(id)
}

func (r *RedisCatalogRepository) contentSourcesKey(id domain.ContentID) string {
	return fmt.Sprintf("%scontent:%s:sources", r.prefix, id)
}

func (r *RedisCatalogRepository) episodeSourcesKey(id domain.EpisodeID) string {
	return fmt.Sprintf("%sepisode:%s:sources", r.prefix, id)
}

// PutContent upserts a content row. Used by the catalog ingest path.
func (r *RedisCatalogRepository) PutContent(ctx context.Context, content *domain.Content) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}
	if err := r.client.Set(ctx, r.contentKey(content.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set content in Redis: %w", err)
	}
	return nil
}

func (r *RedisCatalogRepository) PutEpisode(ctx context.Context, episode *domain.Episode) error {
	data, err := json.Marshal(episode)
	if err != nil {
		return fmt.Errorf("failed to marshal episode: %w", err)
	}
	if err := r.client.Set(ctx, r.episodeKey(episode.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set episode in Redis: %w", err)
	}
	return nil
}

func (r *RedisCatalogRepository) AddSource(ctx context.Context, source *domain.Source) error {
	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("failed to marshal source: %w", err)
	}

	key := r.contentSourcesKey(source.ContentID)
	if source.EpisodeID != "" {
		key = r.episodeSourcesKey(source.EpisodeID)
	}
	if err := r.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to append source in Redis: %w", err)
	}
	return nil
}

func (r *RedisCatalogRepository) GetContent(ctx context.Context, id domain.ContentID) (*domain.Content, error) {
	data, err := r.client.Get(ctx, r.contentKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content from Redis: %w", err)
	}

	var content domain.Content
	if err := json.Unmarshal([]byte(data), &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content: %w", err)
	}
	return &content, nil
}

func (r *RedisCatalogRepository) GetEpisode(ctx context.Context, id domain.EpisodeID) (*domain.Episode, error) {
	data, err := r.client.Get(ctx, r.episodeKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrEpisodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get episode from Redis: %w", err)
	}

	var episode domain.Episode
	if err := json.Unmarshal([]byte(data), &episode); err != nil {
		return nil, fmt.Errorf("failed to unmarshal episode: %w", err)
	}
	return &episode, nil
}

func (r *RedisCatalogRepository) ListSourcesForContent(ctx context.Context, id domain.ContentID) ([]*domain.Source, error) {
	return r.listSources(ctx, r.contentSourcesKey(id))
}

func (r *RedisCatalogRepository) ListSourcesForEpisode(ctx context.Context, id domain.EpisodeID) ([]*domain.Source, error) {
	return r.listSources(ctx, r.episodeSourcesKey(id))
}

func (r *RedisCatalogRepository) listSources(ctx context.Context, key string) ([]*domain.Source, error) {
	entries, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sources from Redis: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	rows := make([]*domain.Source, 0, len(entries))
	for _, data := range entries {
		var source domain.Source
		if err := json.Unmarshal([]byte(data), &source); err != nil {
			return nil, fmt.Errorf("failed to unmarshal source: %w", err)
		}
		rows = append(rows, &source)
	}

	// Default-flagged rows first, insertion order within each group.
	out := make([]*domain.Source, 0, len(rows))
	for _, s := range rows {
		if s.IsDefault {
			out = append(out, s)
		}
	}
	for _, s := range rows {
		if !s.IsDefault {
			out = append(out, s)
		}
	}
	return out, nil
}
