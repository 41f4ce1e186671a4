package feed

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/seonu/homefeed-go/internal/catalog"
	"github.com/seonu/homefeed-go/internal/constants"
	"github.com/seonu/homefeed-go/internal/domain"
	"github.com/seonu/homefeed-go/internal/util"
	"go.uber.org/zap"
)

// NextAirDateLookup resolves a title's next air date as an ISO date, or ""
// when unknown.
type NextAirDateLookup interface {
	NextAirDate(ctx context.Context, imdbID, tmdbID string) string
}

// AnimeCalendar supplies the weekly broadcast calendar; an empty week means
// the source was unavailable.
type AnimeCalendar interface {
	FetchWeekly(ctx context.Context) []catalog.BangumiWeekday
}

type airDateEntry struct {
	date     string
	cachedAt time.Time
}

// AiringBuilder computes the "airing today / this week" rail from the
// latest-TV list, the on-air list cross-checked against next air dates, and
// the anime calendar.
type AiringBuilder struct {
	lookup   NextAirDateLookup
	calendar AnimeCalendar
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	airDates map[string]airDateEntry
}

func NewAiringBuilder(lookup NextAirDateLookup, calendar AnimeCalendar, logger *zap.Logger) *AiringBuilder {
	return &AiringBuilder{
		lookup:   lookup,
		calendar: calendar,
		logger:   logger,
		now:      time.Now,
		airDates: make(map[string]airDateEntry),
	}
}

// Build assembles the rail. latest comes from the rec catalog's latest-TV
// list, onAir from the metadata catalog; both are capped before any network
// work so fan-out stays bounded.
func (b *AiringBuilder) Build(ctx context.Context, latest, onAir []*domain.CardItem) *domain.AiringRail {
	now := b.now()
	limit := constants.AiringConfig.CandidatesPerList
	if len(latest) > limit {
		latest = latest[:limit]
	}
	if len(onAir) > limit {
		onAir = onAir[:limit]
	}

	dates := b.resolveAirDates(ctx, onAir)

	windowStart, windowEnd := util.AiringWindow(now, constants.AiringConfig.WindowBackDays, constants.AiringConfig.WindowForwardDays)
	dayStart, dayEnd := util.DayBounds(now)

	inWindow := make([]*domain.CardItem, 0, len(onAir))
	anyToday := false
	for i, card := range onAir {
		airDate := util.ParseAirDate(dates[i], now.Location())
		if airDate.IsZero() {
			continue
		}
		if !airDate.Before(windowStart) && !airDate.After(windowEnd) {
			inWindow = append(inWindow, card)
		}
		if !airDate.Before(dayStart) && !airDate.After(dayEnd) {
			anyToday = true
		}
	}

	animeQueue, animeToday := b.animeQueue(ctx, now)

	onAirQueue := inWindow
	if len(onAirQueue) == 0 {
		onAirQueue = onAir
	}

	items := interleave([][]*domain.CardItem{latest, onAirQueue, animeQueue}, constants.AiringConfig.MaxRailItems)

	titleKey := domain.AiringTitleWeek
	if anyToday || animeToday {
		titleKey = domain.AiringTitleToday
	}

	b.logger.Debug("airing rail built",
		zap.Int("latest", len(latest)),
		zap.Int("on_air_in_window", len(inWindow)),
		zap.Int("anime", len(animeQueue)),
		zap.Int("items", len(items)),
		zap.String("title_key", titleKey),
	)

	return &domain.AiringRail{
		TitleKey: titleKey,
		Items:    items,
		CachedAt: now,
	}
}

// resolveAirDates runs the per-title lookups concurrently, bounded by the
// candidate cap, with a 12-hour in-process cache keyed by the title's best
// identifier. A failed lookup yields "" and excludes that title from the
// date-based filter.
func (b *AiringBuilder) resolveAirDates(ctx context.Context, onAir []*domain.CardItem) []string {
	dates := make([]string, len(onAir))
	p := pool.New().WithMaxGoroutines(constants.AiringConfig.LookupConcurrency)

	for i, card := range onAir {
		i, card := i, card
		p.Go(func() {
			imdbID := NormalizeIMDbID(card.IMDbID)
			cacheKey := imdbID
			if cacheKey == "" {
				cacheKey = card.TMDBID
			}
			if cacheKey == "" {
				return
			}

			if date, ok := b.cachedAirDate(cacheKey); ok {
				dates[i] = date
				return
			}

			date := b.lookup.NextAirDate(ctx, imdbID, card.TMDBID)
			b.storeAirDate(cacheKey, date)
			dates[i] = date
		})
	}

	p.Wait()
	return dates
}

func (b *AiringBuilder) cachedAirDate(key string) (string, bool) {
	b.mu.RLock()
	entry, ok := b.airDates[key]
	b.mu.RUnlock()
	if !ok || b.now().Sub(entry.cachedAt) >= constants.CacheTTL.NextAirDate {
		return "", false
	}
	return entry.date, true
}

func (b *AiringBuilder) storeAirDate(key, date string) {
	b.mu.Lock()
	b.airDates[key] = airDateEntry{date: date, cachedAt: b.now()}
	b.mu.Unlock()
}

// animeQueue fetches the weekly calendar and returns today's entries when
// the weekday is present, else the flattened week. The boolean reports
// whether today's entry was non-empty.
func (b *AiringBuilder) animeQueue(ctx context.Context, now time.Time) ([]*domain.CardItem, bool) {
	week := b.calendar.FetchWeekly(ctx)
	if len(week) == 0 {
		return nil, false
	}

	// Calendar weekday ids run Monday=1..Sunday=7.
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	for _, day := range week {
		if day.Weekday.ID != weekday {
			continue
		}
		if len(day.Items) == 0 {
			break
		}
		return mapBangumiItems(day.Items), true
	}

	var flat []*domain.CardItem
	for _, day := range week {
		flat = append(flat, mapBangumiItems(day.Items)...)
	}
	return flat, false
}

func mapBangumiItems(raws []catalog.BangumiItemRaw) []*domain.CardItem {
	cards := make([]*domain.CardItem, len(raws))
	for i, raw := range raws {
		cards[i] = catalog.MapBangumiItem(raw)
	}
	return cards
}

// interleave merges the queues round-robin by cursor position, so no single
// source dominates the rail, until limit items are collected or every queue
// is exhausted. Deduplication tracks both the resolved key and the
// title+year fallback, since the same title reaches the rail from sources
// carrying disjoint identifier sets.
func interleave(queues [][]*domain.CardItem, limit int) []*domain.CardItem {
	items := make([]*domain.CardItem, 0, limit)
	seen := make(map[string]struct{}, limit*2)
	cursors := make([]int, len(queues))

	for len(items) < limit {
		progressed := false
		for qi, queue := range queues {
			if len(items) >= limit {
				break
			}
			for cursors[qi] < len(queue) {
				card := queue[cursors[qi]]
				cursors[qi]++
				if card == nil {
					continue
				}
				keys := railKeys(card)
				if anySeen(seen, keys) {
					continue
				}
				for _, key := range keys {
					seen[key] = struct{}{}
				}
				items = append(items, card)
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}
	return items
}

func railKeys(card *domain.CardItem) []string {
	keys := make([]string, 0, 2)
	if key := DedupKey(card); key != "" {
		keys = append(keys, key)
	}
	if title := util.NormalizeTitle(card.Title); title != "" {
		fallback := title + "__" + card.Year
		if !util.Contains(keys, fallback) {
			keys = append(keys, fallback)
		}
	}
	return keys
}

func anySeen(seen map[string]struct{}, keys []string) bool {
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			return true
		}
	}
	return false
}
