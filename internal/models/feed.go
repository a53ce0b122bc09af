package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// FeedDomain names one of the five external signal domains the alpha
// signal provider consumes.
type FeedDomain string

const (
	FeedWeather      FeedDomain = "weather"
	FeedMarket       FeedDomain = "market"
	FeedOdds         FeedDomain = "odds"
	FeedInjuryNews   FeedDomain = "injury_news"
	FeedNextGenStats FeedDomain = "nextgenstats"
)

// AllFeedDomains lists every canonical domain, used when no explicit
// contract-domain subset is configured.
func AllFeedDomains() []FeedDomain {
	return []FeedDomain{FeedWeather, FeedMarket, FeedOdds, FeedInjuryNews, FeedNextGenStats}
}

// FeedEnvelope is the canonical shape every feed adapter returns, before
// and after contract validation.
type FeedEnvelope struct {
	Data            map[string]interface{} `json:"data"`
	SourceTimestamp time.Time              `json:"source_timestamp"`
	QualityFlags    []string               `json:"quality_flags"`
	Warnings        []string               `json:"warnings"`
}

// HasFlag reports whether the envelope already carries the named
// quality flag, used to skip redundant contract validation on envelopes
// that are already known-degraded.
func (e FeedEnvelope) HasFlag(flag string) bool {
	for _, f := range e.QualityFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// SnapshotRecord is the durable mirror of an appended JSONL snapshot
// line, letting the HTTP surface query historical feed payloads without
// replaying snapshot files. The JSONL file remains the as-of source of
// truth; this table is a queryable index over it.
type SnapshotRecord struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	LeagueID        int            `gorm:"index:idx_snapshot_lookup" json:"league_id"`
	Year            int            `gorm:"index:idx_snapshot_lookup" json:"year"`
	Week            int            `gorm:"index:idx_snapshot_lookup" json:"week"`
	FeedName        string         `gorm:"index:idx_snapshot_lookup" json:"feed_name"`
	ObservedAtUTC   time.Time      `gorm:"index" json:"observed_at_utc"`
	Payload         datatypes.JSON `json:"payload"`
	QualityFlags    datatypes.JSON `json:"quality_flags"`
	CreatedAt       time.Time      `json:"created_at"`
}

// MarshalEnvelope encodes a FeedEnvelope into the record's payload and
// quality-flag columns.
func (r *SnapshotRecord) MarshalEnvelope(env FeedEnvelope) error {
	payload, err := json.Marshal(env.Data)
	if err != nil {
		return err
	}
	flags, err := json.Marshal(env.QualityFlags)
	if err != nil {
		return err
	}
	r.Payload = datatypes.JSON(payload)
	r.QualityFlags = datatypes.JSON(flags)
	r.ObservedAtUTC = env.SourceTimestamp
	return nil
}
