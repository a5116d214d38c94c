package domain

import (
	"time"
)

type ContentID string
type EpisodeID string
type SourceID string

type ContentKind string

const (
	KindMovie  ContentKind = "movie"
	KindSeries ContentKind = "series"
)

// Tier is the monetization class of a content or episode.
type Tier string

const (
	TierFree Tier = "free"
	TierRent Tier = "rent"
	TierVIP  Tier = "vip"
)

type Content struct {
	ID          ContentID
	Title       string
	Kind        ContentKind
	Access      Tier
	// ExcludeFromPlan means an active subscription does not by itself
	// grant access; a rental is still required.
	ExcludeFromPlan bool
	RentalPrice     float64
	RentalPeriod    int // days; 0 means the catalog row carried none
	// EmbeddedSources is the legacy inline authoring path, consulted only
	// when no explicit source rows exist for the content.
	EmbeddedSources []EmbeddedSource
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Episode struct {
	ID            EpisodeID
	ContentID     ContentID
	SeasonNumber  int
	EpisodeNumber int
	// Access, when set, overrides the parent content's tier.
	Access Tier
}

type SourceKind string

const (
	SourceHLS   SourceKind = "hls"
	SourceMP4   SourceKind = "mp4"
	SourceDASH  SourceKind = "dash"
	SourceEmbed SourceKind = "embed"
)

// Source is one playable candidate handed to the player. It belongs to
// exactly one content or episode, never both.
type Source struct {
	ID              SourceID
	ContentID       ContentID
	EpisodeID       EpisodeID
	ServerName      string
	Kind            SourceKind
	URL             string
	DefaultQuality  string
	QualityURLs     map[string]string
	IsDefault       bool
	Language        string
	PermissionScope string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EmbeddedSource is an inline source entry stored on the content row itself.
type EmbeddedSource struct {
	Server         string            `json:"server"`
	Type           string            `json:"type"`
	URL            string            `json:"url"`
	DefaultQuality string            `json:"defaultQuality"`
	QualityURLs    map[string]string `json:"mp4Urls"`
	IsDefault      bool              `json:"isDefault"`
	Permission     string            `json:"permission"`
}

// PlaybackTarget identifies what the viewer asked to watch: a movie by
// content id, or a single episode of a series.
type PlaybackTarget struct {
	ContentID ContentID
	EpisodeID EpisodeID // empty for movies
}

func (t PlaybackTarget) IsEpisode() bool {
	return t.EpisodeID != ""
}
