package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VideoSource supplies third-party video cards for interleaving. A failing
// source must degrade to an empty list, never an error page.
type VideoSource interface {
	Videos(ctx context.Context, limit int) ([]models.Video, error)
}

// Options tunes feed composition.
type Options struct {
	// VideoEvery inserts a video card after every Nth domain card.
	VideoEvery int
	// PageSize is the default and maximum number of domain cards per page.
	PageSize int
	// Lookahead keeps future-dated maintenance visible this far ahead.
	Lookahead time.Duration
	// CacheTTL bounds staleness of a composed page.
	CacheTTL time.Duration
}

// DefaultOptions returns production tuning.
func DefaultOptions() Options {
	return Options{
		VideoEvery: 4,
		PageSize:   20,
		Lookahead:  7 * 24 * time.Hour,
		CacheTTL:   30 * time.Second,
	}
}

// Query selects a slice of the feed.
type Query struct {
	Limit  int
	Before time.Time // exclusive upper bound for pagination; zero = now
	From   time.Time // optional lower bound
	Kinds  []models.FeedKind
}

// Composer builds the merged activity feed.
type Composer struct {
	trips       db.TripCollection
	maintenance db.MaintenanceCollection
	documents   db.DocumentCollection
	alerts      db.AlertCollection
	kpis        db.KPICollection
	videos      VideoSource
	cache       *Cache
	opts        Options
}

// NewComposer creates a feed composer. rdb may be nil to disable caching.
func NewComposer(colls *db.Collections, videos VideoSource, rdb *redis.Client, opts Options) *Composer {
	if opts.VideoEvery <= 0 {
		opts.VideoEvery = 4
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	var cache *Cache
	if rdb != nil {
		cache = NewCache(rdb, opts.CacheTTL)
	}
	return &Composer{
		trips:       colls.Trips,
		maintenance: colls.Maintenance,
		documents:   colls.Documents,
		alerts:      colls.Alerts,
		kpis:        colls.KPIs,
		videos:      videos,
		cache:       cache,
		opts:        opts,
	}
}

// Compose builds one page of the feed for the query.
func (c *Composer) Compose(ctx context.Context, q Query) ([]models.FeedItem, error) {
	if q.Limit <= 0 || q.Limit > c.opts.PageSize {
		q.Limit = c.opts.PageSize
	}
	now := time.Now()
	if q.Before.IsZero() {
		q.Before = now
	}

	if c.cache != nil {
		if items, ok := c.cache.Get(ctx, q); ok {
			return items, nil
		}
	}

	var items []models.FeedItem
	for _, kind := range wantedKinds(q.Kinds) {
		fetched, err := c.fetchKind(ctx, kind, q, now)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s items: %w", kind, err)
		}
		items = append(items, fetched...)
	}

	page := Merge(items, q, now, c.opts.Lookahead)

	if len(page) > 0 && c.videos != nil && wantsKind(q.Kinds, models.FeedVideo) {
		videos, err := c.videos.Videos(ctx, len(page)/c.opts.VideoEvery+1)
		if err != nil {
			// Feed still renders without third-party content.
			log.WithError(err).Warn("Video source unavailable")
			videos = nil
		}
		page = Interleave(page, videos, c.opts.VideoEvery)
	}

	if page == nil {
		page = []models.FeedItem{}
	}
	if c.cache != nil {
		c.cache.Put(ctx, q, page)
	}
	return page, nil
}

func wantedKinds(kinds []models.FeedKind) []models.FeedKind {
	domain := []models.FeedKind{
		models.FeedTrip, models.FeedMaintenance, models.FeedDocument,
		models.FeedAlert, models.FeedKPI,
	}
	if len(kinds) == 0 {
		return domain
	}
	var out []models.FeedKind
	for _, k := range domain {
		if wantsKind(kinds, k) {
			out = append(out, k)
		}
	}
	return out
}

func wantsKind(kinds []models.FeedKind, kind models.FeedKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (c *Composer) fetchKind(ctx context.Context, kind models.FeedKind, q Query, now time.Time) ([]models.FeedItem, error) {
	limit := int64(q.Limit + 1)
	switch kind {
	case models.FeedTrip:
		return c.fetchTrips(ctx, q, limit)
	case models.FeedMaintenance:
		return c.fetchMaintenance(ctx, q, now, limit)
	case models.FeedDocument:
		return c.fetchDocuments(ctx, q, limit)
	case models.FeedAlert:
		return c.fetchAlerts(ctx, q, limit)
	case models.FeedKPI:
		return c.fetchKPIs(ctx, q, limit)
	}
	return nil, nil
}

func (c *Composer) fetchTrips(ctx context.Context, q Query, limit int64) ([]models.FeedItem, error) {
	filter := bson.M{
		"status":     bson.M{"$in": []string{"in_progress", "completed"}},
		"start_time": timeRange(q),
	}
	opts := options.Find().SetSort(bson.M{"start_time": -1}).SetLimit(limit)
	cursor, err := c.trips.FindTrips(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	items := make([]models.FeedItem, 0, len(trips))
	for _, t := range trips {
		items = append(items, TripItem(t))
	}
	return items, nil
}

func (c *Composer) fetchMaintenance(ctx context.Context, q Query, now time.Time, limit int64) ([]models.FeedItem, error) {
	// Window widened past Before so scheduled services inside the
	// lookahead are picked up; Merge applies the future-event rule.
	filter := bson.M{
		"service_date": bson.M{"$lt": now.Add(c.opts.Lookahead)},
	}
	if !q.From.IsZero() {
		filter["service_date"].(bson.M)["$gte"] = q.From
	}
	opts := options.Find().SetSort(bson.M{"service_date": -1}).SetLimit(limit)
	cursor, err := c.maintenance.FindMaintenance(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var records []models.Maintenance
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	items := make([]models.FeedItem, 0, len(records))
	for _, m := range records {
		items = append(items, MaintenanceItem(m))
	}
	return items, nil
}

func (c *Composer) fetchDocuments(ctx context.Context, q Query, limit int64) ([]models.FeedItem, error) {
	filter := bson.M{"created_at": timeRange(q)}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cursor, err := c.documents.FindDocuments(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]models.FeedItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, DocumentItem(d))
	}
	return items, nil
}

func (c *Composer) fetchAlerts(ctx context.Context, q Query, limit int64) ([]models.FeedItem, error) {
	filter := bson.M{
		"status":     models.AlertOpen,
		"created_at": timeRange(q),
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cursor, err := c.alerts.FindAlerts(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var alerts []models.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	items := make([]models.FeedItem, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, AlertItem(a))
	}
	return items, nil
}

func (c *Composer) fetchKPIs(ctx context.Context, q Query, limit int64) ([]models.FeedItem, error) {
	filter := bson.M{"period_end": timeRange(q)}
	opts := options.Find().SetSort(bson.M{"period_end": -1}).SetLimit(limit)
	cursor, err := c.kpis.FindSnapshots(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var snaps []models.KPISnapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, err
	}
	items := make([]models.FeedItem, 0, len(snaps))
	for _, s := range snaps {
		items = append(items, KPIItem(s))
	}
	return items, nil
}

func timeRange(q Query) bson.M {
	r := bson.M{"$lt": q.Before}
	if !q.From.IsZero() {
		r["$gte"] = q.From
	}
	return r
}

// Merge dedupes, applies the date and future-event rules, sorts newest
// first, and truncates to the query limit. Upcoming maintenance cards are
// kept ahead of the chronological block, soonest first.
func Merge(items []models.FeedItem, q Query, now time.Time, lookahead time.Duration) []models.FeedItem {
	seen := make(map[string]bool, len(items))
	var upcoming, past []models.FeedItem
	for _, item := range items {
		if seen[item.Key()] {
			continue
		}
		seen[item.Key()] = true

		if !q.From.IsZero() && item.Timestamp.Before(q.From) {
			continue
		}
		if item.Timestamp.After(now) {
			// Future events are hidden except scheduled maintenance
			// inside the lookahead window, shown on the first page only.
			if item.Kind != models.FeedMaintenance || item.Timestamp.After(now.Add(lookahead)) {
				continue
			}
			if q.Before.Before(now) {
				continue
			}
			item.Upcoming = true
			upcoming = append(upcoming, item)
			continue
		}
		if item.Timestamp.After(q.Before) || item.Timestamp.Equal(q.Before) {
			continue
		}
		past = append(past, item)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Timestamp.Before(upcoming[j].Timestamp)
	})
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].Timestamp.After(past[j].Timestamp)
	})

	if len(past) > q.Limit {
		past = past[:q.Limit]
	}
	return append(upcoming, past...)
}

// Interleave inserts a video card after every Nth domain card. Videos do
// not count toward the page limit and are never adjacent.
func Interleave(items []models.FeedItem, videos []models.Video, every int) []models.FeedItem {
	if every <= 0 || len(videos) == 0 {
		return items
	}
	out := make([]models.FeedItem, 0, len(items)+len(videos))
	vi := 0
	for i, item := range items {
		out = append(out, item)
		if (i+1)%every == 0 && vi < len(videos) {
			out = append(out, VideoItem(videos[vi]))
			vi++
		}
	}
	return out
}
