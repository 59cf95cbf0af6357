package timeentry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

var (
	ErrNotCached     = errors.New("time entry not in cache")
	ErrDateImmutable = errors.New("time entry date cannot change")
	// ErrFlushConflict means a placeholder was removed or edited while its
	// Create was in flight. The created copy is not cached; its id is in
	// the error text.
	ErrFlushConflict = errors.New("placeholder changed during flush")
)

// Cache operations run in three steps so that a UI loop can keep the
// repository call off its own goroutine:
//
//	call, err := c.BeginX(...)  // owner goroutine: validate, snapshot
//	settle := call(ctx)         // any goroutine: repository I/O only
//	v, err := settle()          // owner goroutine: reconcile the map
//
// The plain methods (LoadForDate, Add, ...) chain all three.
type (
	Call[T any]   func(ctx context.Context) Settle[T]
	Settle[T any] func() (T, error)
)

// Cache is an id-keyed, in-memory view of time entries assembled from
// partial fetches. It is owned by a single goroutine and holds no locks.
type Cache struct {
	repo    Repository
	log     *slog.Logger
	entries map[string]TimeEntry
}

func NewCache(repo Repository, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		repo:    repo,
		log:     log.With(slog.String("component", "timeentry.cache")),
		entries: make(map[string]TimeEntry),
	}
}

// LoadForDate makes the cache authoritative for one date. Entries cached
// for other dates are left alone.
func (c *Cache) LoadForDate(ctx context.Context, date string) ([]TimeEntry, error) {
	call, err := c.BeginLoadForDate(date)
	if err != nil {
		return nil, err
	}
	return call(ctx)()
}

func (c *Cache) BeginLoadForDate(date string) (Call[[]TimeEntry], error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	return func(ctx context.Context) Settle[[]TimeEntry] {
		fetched, err := c.repo.FetchByDate(ctx, date)
		return func() ([]TimeEntry, error) {
			if err != nil {
				c.log.Warn("load for date failed", slog.String("date", date), slog.Any("err", err))
				return nil, repoErr("fetch by date", err)
			}
			c.mergeDate(date, fetched)
			c.log.Debug("loaded date", slog.String("date", date), slog.Int("count", len(fetched)), slog.Int("cached", len(c.entries)))
			return c.ForDate(date), nil
		}
	}, nil
}

// mergeDate keeps every entry not on date, then lays the fetched set over
// it by id.
func (c *Cache) mergeDate(date string, fetched []TimeEntry) {
	merged := make(map[string]TimeEntry, len(c.entries)+len(fetched))
	for id, e := range c.entries {
		if e.Date != date {
			merged[id] = e
		}
	}
	for _, e := range fetched {
		merged[e.ID] = e.Derive()
	}
	c.entries = merged
}

// LoadForRange is a full refresh: the cache ends up holding exactly the
// fetched range. Unlike LoadForDate it does not merge; entries outside the
// range are dropped.
func (c *Cache) LoadForRange(ctx context.Context, start, end string) ([]TimeEntry, error) {
	call, err := c.BeginLoadForRange(start, end)
	if err != nil {
		return nil, err
	}
	return call(ctx)()
}

func (c *Cache) BeginLoadForRange(start, end string) (Call[[]TimeEntry], error) {
	if err := ValidateDate(start); err != nil {
		return nil, err
	}
	if err := ValidateDate(end); err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("%w: range end %s before start %s", ErrInvalidDate, end, start)
	}
	return func(ctx context.Context) Settle[[]TimeEntry] {
		fetched, err := c.repo.FetchByRange(ctx, start, end)
		return func() ([]TimeEntry, error) {
			if err != nil {
				c.log.Warn("load for range failed", slog.String("start", start), slog.String("end", end), slog.Any("err", err))
				return nil, repoErr("fetch by range", err)
			}
			replaced := make(map[string]TimeEntry, len(fetched))
			for _, e := range fetched {
				replaced[e.ID] = e.Derive()
			}
			c.entries = replaced
			c.log.Debug("loaded range", slog.String("start", start), slog.String("end", end), slog.Int("count", len(fetched)))
			return c.All(), nil
		}
	}, nil
}

// Add creates the entry remotely and caches the authoritative copy. If the
// repository fails, the draft is cached under a local id so the input is not
// lost; the placeholder is returned together with the error.
func (c *Cache) Add(ctx context.Context, d Draft) (TimeEntry, error) {
	call, err := c.BeginAdd(d)
	if err != nil {
		return TimeEntry{}, err
	}
	return call(ctx)()
}

func (c *Cache) BeginAdd(d Draft) (Call[TimeEntry], error) {
	d, err := NewDraft(d)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) Settle[TimeEntry] {
		created, err := c.repo.Create(ctx, d)
		return func() (TimeEntry, error) {
			if err != nil {
				placeholder := d.WithID(NewLocalID())
				c.entries[placeholder.ID] = placeholder
				c.log.Warn("create failed, kept local copy", slog.String("id", placeholder.ID), slog.Any("err", err))
				return placeholder, repoErr("create", err)
			}
			created = created.Derive()
			c.entries[created.ID] = created
			return created, nil
		}
	}, nil
}

// Update writes e through the repository and only then replaces the cached
// copy. On failure the cached copy is untouched.
func (c *Cache) Update(ctx context.Context, e TimeEntry) (TimeEntry, error) {
	call, err := c.BeginUpdate(e)
	if err != nil {
		return TimeEntry{}, err
	}
	return call(ctx)()
}

func (c *Cache) BeginUpdate(e TimeEntry) (Call[TimeEntry], error) {
	prev, ok := c.entries[e.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCached, e.ID)
	}
	if prev.Date != e.Date {
		return nil, fmt.Errorf("%w: %s -> %s", ErrDateImmutable, prev.Date, e.Date)
	}
	if strings.TrimSpace(e.ClientID) == "" {
		return nil, ErrMissingClient
	}
	if e.EntryType == "" {
		e.EntryType = Service
	}
	if _, err := ParseEntryType(string(e.EntryType)); err != nil {
		return nil, err
	}
	e = e.Derive()

	// A placeholder has no remote copy to update.
	if e.Local() {
		return func(context.Context) Settle[TimeEntry] {
			return func() (TimeEntry, error) {
				c.entries[e.ID] = e
				return e, nil
			}
		}, nil
	}

	return func(ctx context.Context) Settle[TimeEntry] {
		updated, err := c.repo.Update(ctx, e)
		return func() (TimeEntry, error) {
			if err != nil {
				c.log.Warn("update failed", slog.String("id", e.ID), slog.Any("err", err))
				return prev, repoErr("update", err)
			}
			updated = updated.Derive()
			c.entries[updated.ID] = updated
			return updated, nil
		}
	}, nil
}

// Remove deletes remotely, then locally. On failure the entry stays.
func (c *Cache) Remove(ctx context.Context, id string) error {
	call, err := c.BeginRemove(id)
	if err != nil {
		return err
	}
	_, err = call(ctx)()
	return err
}

func (c *Cache) BeginRemove(id string) (Call[struct{}], error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotCached)
	}
	if IsLocalID(id) {
		return func(context.Context) Settle[struct{}] {
			return func() (struct{}, error) {
				delete(c.entries, id)
				return struct{}{}, nil
			}
		}, nil
	}
	return func(ctx context.Context) Settle[struct{}] {
		err := c.repo.Delete(ctx, id)
		return func() (struct{}, error) {
			if err != nil {
				c.log.Warn("delete failed", slog.String("id", id), slog.Any("err", err))
				return struct{}{}, repoErr("delete", err)
			}
			delete(c.entries, id)
			return struct{}{}, nil
		}
	}, nil
}

// FlushUnsaved retries Create for every local placeholder. Saved ones are
// swapped for the authoritative copy; the rest stay and their errors are
// joined. A placeholder removed or edited before the settle keeps the
// caller's change and is reported as ErrFlushConflict.
func (c *Cache) FlushUnsaved(ctx context.Context) (int, error) {
	return c.BeginFlushUnsaved()(ctx)()
}

func (c *Cache) BeginFlushUnsaved() Call[int] {
	pending := c.Unsaved()
	return func(ctx context.Context) Settle[int] {
		created := make(map[string]TimeEntry, len(pending))
		var errs []error
		for _, p := range pending {
			e, err := c.repo.Create(ctx, p.Draft())
			if err != nil {
				errs = append(errs, repoErr("create "+p.ID, err))
				continue
			}
			created[p.ID] = e
		}
		return func() (int, error) {
			saved := 0
			for _, p := range pending {
				e, ok := created[p.ID]
				if !ok {
					continue
				}
				if cur, still := c.entries[p.ID]; !still || cur != p {
					errs = append(errs, fmt.Errorf("%w: %s was saved as %s", ErrFlushConflict, p.ID, e.ID))
					continue
				}
				delete(c.entries, p.ID)
				c.entries[e.ID] = e.Derive()
				saved++
			}
			if len(errs) > 0 {
				c.log.Warn("flush left unsaved entries", slog.Int("saved", saved), slog.Int("failed", len(errs)))
			}
			return saved, errors.Join(errs...)
		}
	}
}

// Adopt inserts a placeholder kept from an earlier session so that
// FlushUnsaved picks it up. Only local ids are accepted.
func (c *Cache) Adopt(e TimeEntry) error {
	if !e.Local() {
		return fmt.Errorf("adopt %q: not a local placeholder", e.ID)
	}
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	c.entries[e.ID] = e.Derive()
	return nil
}

func (c *Cache) Get(id string) (TimeEntry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

func (c *Cache) Len() int { return len(c.entries) }

// ForDate returns the cached entries for date, sorted by start time.
func (c *Cache) ForDate(date string) []TimeEntry {
	return c.filter(func(e TimeEntry) bool { return e.Date == date })
}

func (c *Cache) ForClient(clientID string) []TimeEntry {
	return c.filter(func(e TimeEntry) bool { return e.ClientID == clientID })
}

func (c *Cache) Unsaved() []TimeEntry {
	return c.filter(TimeEntry.Local)
}

func (c *Cache) All() []TimeEntry {
	return c.filter(func(TimeEntry) bool { return true })
}

func (c *Cache) TotalMinutes(date string) int {
	total := 0
	for _, e := range c.ForDate(date) {
		total += e.Duration
	}
	return total
}

// Reset drops everything, e.g. at session end.
func (c *Cache) Reset() {
	c.entries = make(map[string]TimeEntry)
}

func (c *Cache) filter(keep func(TimeEntry) bool) []TimeEntry {
	out := make([]TimeEntry, 0)
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
