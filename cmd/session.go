package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ramanasai/tally/internal/clock"
	"github.com/ramanasai/tally/internal/config"
	"github.com/ramanasai/tally/internal/db"
	"github.com/ramanasai/tally/internal/notify"
	"github.com/ramanasai/tally/internal/remote"
	"github.com/ramanasai/tally/internal/timeentry"
	"github.com/ramanasai/tally/internal/utils"
)

var timeNow = time.Now

// session is one command's view of the store: the configured repository,
// a cache over it and the local outbox for entries that failed to save.
type session struct {
	repo    timeentry.Repository
	cache   *timeentry.Cache
	outbox  *db.Outbox
	log     *slog.Logger
	closers []func() error
}

func openSession(cfg config.Config, log *slog.Logger) (*session, error) {
	s := &session{log: log}

	local, err := db.OpenSQLite(cfg.Store.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	s.closers = append(s.closers, local.Close)
	s.outbox = db.NewOutbox(local)

	switch cfg.Store.Backend {
	case "sqlite":
		s.repo = db.NewRepository(local, log)
	case "mysql":
		m, err := db.Open(db.MySQL, cfg.Store.MySQLDSN)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("open mysql: %w", err), s.Close())
		}
		s.closers = append(s.closers, m.Close)
		s.repo = db.NewRepository(m, log)
	case "http":
		if cfg.Remote.BaseURL == "" {
			return nil, errors.Join(errors.New("remote.base_url is required for the http backend"), s.Close())
		}
		s.repo = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout, log)
	default:
		return nil, errors.Join(fmt.Errorf("unknown backend %q", cfg.Store.Backend), s.Close())
	}

	s.cache = timeentry.NewCache(s.repo, log)
	return s, nil
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// park keeps a placeholder returned by a failed Add so a later sync can
// retry it, and tells the user.
func (s *session) park(ctx context.Context, p timeentry.TimeEntry, cause error) error {
	if err := s.outbox.Put(ctx, p); err != nil {
		return errors.Join(cause, err)
	}
	fmt.Fprintf(os.Stderr, "warning: %v\nentry kept locally as %s; run `tally sync` to retry\n", cause, p.ID)
	if cfg.Notifications {
		_ = notify.Failure(cause)
	}
	return nil
}

// adopt loads queued placeholders into the cache, optionally only those
// dated within [from, to].
func (s *session) adopt(ctx context.Context, from, to string) (int, error) {
	queued, err := s.outbox.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range queued {
		if from != "" && (e.Date < from || e.Date > to) {
			continue
		}
		if err := s.cache.Adopt(e); err != nil {
			s.log.Warn("skipping queued entry", slog.String("id", e.ID), slog.Any("err", err))
			continue
		}
		n++
	}
	return n, nil
}

// sync adopts every queued placeholder, retries them and drops the ones
// that were created from the outbox.
func (s *session) sync(ctx context.Context) (saved, remaining int, err error) {
	if _, err := s.adopt(ctx, "", ""); err != nil {
		return 0, 0, err
	}
	pending := s.cache.Unsaved()
	saved, flushErr := s.cache.FlushUnsaved(ctx)

	var errs []error
	if flushErr != nil {
		errs = append(errs, flushErr)
	}
	for _, p := range pending {
		if _, still := s.cache.Get(p.ID); still {
			continue
		}
		if err := s.outbox.Drop(ctx, p.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return saved, len(s.cache.Unsaved()), errors.Join(errs...)
}

// findEntry loads date and returns the cached entry with id. Local ids are
// looked up in the outbox instead.
func (s *session) findEntry(ctx context.Context, id, date string) (timeentry.TimeEntry, error) {
	if timeentry.IsLocalID(id) {
		if _, err := s.adopt(ctx, "", ""); err != nil {
			return timeentry.TimeEntry{}, err
		}
	} else if _, err := s.cache.LoadForDate(ctx, date); err != nil {
		return timeentry.TimeEntry{}, err
	}
	e, ok := s.cache.Get(id)
	if !ok {
		return timeentry.TimeEntry{}, fmt.Errorf("entry %s not found on %s (use --date)", id, date)
	}
	return e, nil
}

// parseClock accepts "09:30", "9:30", "0930" and "now".
func parseClock(s string) (clock.Clock, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "now") {
		t := timeNow().In(cfg.Location())
		return clock.FromMinutes(t.Hour()*60 + t.Minute()), nil
	}
	if h, _, ok := strings.Cut(s, ":"); ok && len(h) == 1 {
		s = "0" + s
	}
	return clock.Parse(clock.Normalize(s))
}

func parseDay(s string) (string, error) {
	if s == "" {
		return today(), nil
	}
	return utils.ParseDay(s, timeNow().In(cfg.Location()))
}

// resolveRange picks the inclusive day range from --preset or --from/--to,
// falling back to def.
func resolveRange(preset, from, to, def string) (string, string, error) {
	now := timeNow().In(cfg.Location())
	if preset == "" && from == "" && to == "" {
		preset = def
	}
	if preset != "" {
		return utils.DateRange(preset, now)
	}
	start, err := parseDay(from)
	if err != nil {
		return "", "", fmt.Errorf("invalid --from: %w", err)
	}
	end, err := parseDay(to)
	if err != nil {
		return "", "", fmt.Errorf("invalid --to: %w", err)
	}
	return start, end, nil
}
