package services

import (
	"context"
	"fmt"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"

	"go.uber.org/zap"
)

type sourceResolver struct {
	catalog ports.CatalogRepository
	logger  *zap.SugaredLogger
}

func NewSourceResolver(catalog ports.CatalogRepository, logger *zap.SugaredLogger) ports.SourceResolver {
	return &sourceResolver{
		catalog: catalog,
		logger:  logger,
	}
}

// ResolveSources applies the table-first-then-embedded rule: explicit
// source rows win and are returned verbatim; otherwise sources are
// synthesized from the content's embedded list. An empty result with a nil
// error means the target exists but has nothing viewable yet, which is a
// valid outcome and must not be conflated with a catalog failure.
func (r *sourceResolver) ResolveSources(ctx context.Context, target domain.PlaybackTarget) ([]*domain.Source, error) {
	var (
		rows []*domain.Source
		err  error
	)
	if target.IsEpisode() {
		rows, err = r.catalog.ListSourcesForEpisode(ctx, target.EpisodeID)
	} else {
		rows, err = r.catalog.ListSourcesForContent(ctx, target.ContentID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list sources: %v", domain.ErrCatalogUnavailable, err)
	}

	if len(rows) > 0 {
		if err := checkSingleDefault(rows); err != nil {
			r.logger.Errorw("catalog returned multiple default sources",
				"content_id", target.ContentID,
				"episode_id", target.EpisodeID,
			)
			return nil, err
		}
		return normalizeDefault(rows), nil
	}

	// Fallback: the legacy inline list on the parent content row.
	content, err := r.catalog.GetContent(ctx, target.ContentID)
	if err != nil {
		return nil, fmt.Errorf("%w: get content: %v", domain.ErrCatalogUnavailable, err)
	}
	if len(content.EmbeddedSources) == 0 {
		return nil, nil
	}

	synthesized := make([]*domain.Source, 0, len(content.EmbeddedSources))
	seenDefault := false
	for i, emb := range content.EmbeddedSources {
		src := synthesizeSource(content, emb, i)
		// The inline list carries no uniqueness guarantee; first default wins.
		if src.IsDefault && seenDefault {
			src.IsDefault = false
		}
		seenDefault = seenDefault || src.IsDefault
		synthesized = append(synthesized, src)
	}
	r.logger.Debugw("using embedded video sources",
		"content_id", content.ID,
		"count", len(synthesized),
	)
	return normalizeDefault(synthesized), nil
}

// synthesizeSource converts one inline entry into a Source row with a
// deterministic synthetic identifier and timestamps inherited from the
// parent content record. The inline list hangs off the content row, so
// the synthesized source is always content-scoped: EpisodeID stays empty
// even when the request targeted an episode.
func synthesizeSource(content *domain.Content, emb domain.EmbeddedSource, index int) *domain.Source {
	server := emb.Server
	if server == "" {
		server = fmt.Sprintf("Server %d", index+1)
	}
	kind := domain.SourceKind(emb.Type)
	if kind == "" {
		kind = domain.SourceMP4
	}
	quality := emb.DefaultQuality
	if quality == "" {
		quality = "720p"
	}
	permission := emb.Permission
	if permission == "" {
		permission = "Web & Mobile"
	}
	updated := content.UpdatedAt
	if updated.IsZero() {
		updated = content.CreatedAt
	}

	return &domain.Source{
		ID:              domain.SourceID(fmt.Sprintf("embedded-%d", index)),
		ContentID:       content.ID,
		ServerName:      server,
		Kind:            kind,
		URL:             emb.URL,
		DefaultQuality:  quality,
		QualityURLs:     emb.QualityURLs,
		IsDefault:       emb.IsDefault,
		Language:        "en",
		PermissionScope: permission,
		CreatedAt:       content.CreatedAt,
		UpdatedAt:       updated,
	}
}

// checkSingleDefault verifies the store's at-most-one-default guarantee.
// Two explicit defaults indicate a consistency bug and must surface, not
// be silently repaired.
func checkSingleDefault(sources []*domain.Source) error {
	defaults := 0
	for _, s := range sources {
		if s.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%w: %d default sources for one target", domain.ErrInvariantViolation, defaults)
	}
	return nil
}

// normalizeDefault marks the first entry default when no entry is, keeping
// exactly one default after ordering resolution. Input order is preserved.
func normalizeDefault(sources []*domain.Source) []*domain.Source {
	for _, s := range sources {
		if s.IsDefault {
			return sources
		}
	}
	if len(sources) > 0 {
		sources[0].IsDefault = true
	}
	return sources
}
