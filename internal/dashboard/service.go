package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"
	"github.com/zoobzio/clockz"

	"github.com/ssaurabh5135/storedashboard/internal/datasource"
	"github.com/ssaurabh5135/storedashboard/internal/metrics"
	"github.com/ssaurabh5135/storedashboard/internal/table"
	"github.com/ssaurabh5135/storedashboard/internal/transformer"
	"github.com/ssaurabh5135/storedashboard/internal/views"
)

var (
	// ErrNotLoaded is returned by queries before the first successful load.
	ErrNotLoaded = errors.New("dashboard: no sheet loaded")
	// ErrNoLoader is returned by Reload when the service only accepts uploads.
	ErrNoLoader = errors.New("dashboard: no source configured")
)

// Origins of a cached sheet.
const (
	OriginSource = "source"
	OriginUpload = "upload"
)

// Options configures a Service. Zero values get defaults: the real clock,
// time.Local, a disabled logger and metrics.DefaultJobLabel.
type Options struct {
	Loader   datasource.Loader // nil: uploads only
	Clock    clockz.Clock
	Location *time.Location
	Logger   zerolog.Logger
	Job      string
}

// Status describes the cached sheet.
type Status struct {
	Loaded      bool      `json:"loaded"`
	Origin      string    `json:"origin,omitempty"`
	Rows        int       `json:"rows"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
}

type snapshot struct {
	raw         *table.Table
	origin      string
	fingerprint string
	loadedAt    time.Time
}

// Service caches the most recent raw sheet and answers dashboard queries
// against it. It is safe for concurrent use; each query runs the pure
// pipeline on the shared, read-only snapshot.
type Service struct {
	loader datasource.Loader
	clock  clockz.Clock
	loc    *time.Location
	log    zerolog.Logger
	job    string

	mu   sync.RWMutex
	snap *snapshot
}

// NewService returns a Service with nothing loaded.
func NewService(opt Options) *Service {
	if opt.Clock == nil {
		opt.Clock = clockz.RealClock
	}
	if opt.Location == nil {
		opt.Location = time.Local
	}
	if opt.Job == "" {
		opt.Job = metrics.DefaultJobLabel
	}
	return &Service{
		loader: opt.Loader,
		clock:  opt.Clock,
		loc:    opt.Location,
		log:    opt.Logger,
		job:    opt.Job,
	}
}

// Reload fetches a fresh sheet from the loader. On any failure, including a
// sheet that lacks a required column, the previous snapshot is kept.
func (s *Service) Reload(ctx context.Context) error {
	if s.loader == nil {
		return ErrNoLoader
	}
	start := s.clock.Now()
	raw, err := s.loader.Load(ctx)
	if err == nil {
		err = s.replace(raw, OriginSource)
	}
	metrics.RecordStep(s.job, "load", err, s.clock.Now().Sub(start))
	if err != nil {
		s.log.Warn().Err(err).Msg("dashboard: reload failed; keeping previous sheet")
		return err
	}
	return nil
}

// Replace installs raw (typically an upload) as the cached sheet after
// checking that it has every required column.
func (s *Service) Replace(raw *table.Table, origin string) error {
	if err := s.replace(raw, origin); err != nil {
		s.log.Warn().Err(err).Str("origin", origin).Msg("dashboard: sheet rejected")
		return err
	}
	return nil
}

func (s *Service) replace(raw *table.Table, origin string) error {
	if raw == nil {
		return fmt.Errorf("dashboard: %s: empty sheet", origin)
	}
	if _, err := transformer.ResolveColumns(raw.Header); err != nil {
		return fmt.Errorf("dashboard: %s: %w", origin, err)
	}
	snap := &snapshot{
		raw:         raw,
		origin:      origin,
		fingerprint: Fingerprint(raw),
		loadedAt:    s.clock.Now(),
	}

	s.mu.Lock()
	prev := s.snap
	s.snap = snap
	s.mu.Unlock()

	metrics.RecordReload(s.job, origin)
	metrics.RecordRow(s.job, "loaded", int64(raw.Len()))

	ev := s.log.Info()
	if prev != nil && prev.fingerprint == snap.fingerprint {
		ev = s.log.Debug()
	}
	ev.Str("origin", origin).
		Int("rows", raw.Len()).
		Str("fingerprint", snap.fingerprint).
		Msg("dashboard: sheet loaded")
	return nil
}

// Status reports what is cached.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return Status{}
	}
	return Status{
		Loaded:      true,
		Origin:      s.snap.origin,
		Rows:        s.snap.raw.Len(),
		Fingerprint: s.snap.fingerprint,
		LoadedAt:    s.snap.loadedAt,
	}
}

// Today is the current calendar date in the service's time zone.
func (s *Service) Today() civil.Date {
	return civil.DateOf(s.clock.Now().In(s.loc))
}

// Dashboard runs the pipeline on the cached sheet for one customer ("" or
// "All" for everyone). The date is read once per call.
func (s *Service) Dashboard(ctx context.Context, customer string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.current()
	if snap == nil {
		return nil, ErrNotLoaded
	}

	start := s.clock.Now()
	now := civil.DateOf(start.In(s.loc))
	res, err := Run(snap.raw, now, customer)
	metrics.RecordStep(s.job, "run", err, s.clock.Now().Sub(start))
	if err != nil {
		return nil, err
	}
	res.RunID = uuid.NewString()
	res.Fingerprint = snap.fingerprint
	metrics.RecordRow(s.job, "in_scope", int64(res.Rows))

	s.log.Debug().
		Str("run_id", res.RunID).
		Str("customer", res.Customer).
		Int("rows", res.Rows).
		Msg("dashboard: run")
	return res, nil
}

// Customers lists the customer filter values of the cached sheet.
func (s *Service) Customers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.current()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	cols, err := transformer.ResolveColumns(snap.raw.Header)
	if err != nil {
		return nil, err
	}
	return views.Customers(transformer.Normalize(snap.raw, cols)), nil
}

func (s *Service) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Fingerprint hashes the header and every cell of t. Cells are delimited so
// that moving text between adjacent cells changes the hash.
func Fingerprint(t *table.Table) string {
	h := xxh3.New()
	unit := []byte{0x1f}
	record := []byte{0x1e}
	write := func(row []string) {
		for _, c := range row {
			_, _ = h.Write([]byte(c))
			_, _ = h.Write(unit)
		}
		_, _ = h.Write(record)
	}
	write(t.Header)
	for _, r := range t.Rows {
		write(r)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// ETag returns a strong HTTP entity tag for res, built from the sheet
// fingerprint, the date and the customer that produced it. It is "" for a
// result that did not come from a Service.
func (r *Result) ETag() string {
	if r.Fingerprint == "" {
		return ""
	}
	return fmt.Sprintf(`"%s-%s-%016x"`, r.Fingerprint, r.Now, xxh3.HashString(r.Customer))
}
