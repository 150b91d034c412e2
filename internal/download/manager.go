package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/royal-15/SpotiPlay-Desktop/internal/audio"
	"github.com/royal-15/SpotiPlay-Desktop/internal/classify"
	"github.com/royal-15/SpotiPlay-Desktop/internal/config"
	"github.com/royal-15/SpotiPlay-Desktop/internal/logutils"
	"github.com/royal-15/SpotiPlay-Desktop/internal/model"
	"github.com/royal-15/SpotiPlay-Desktop/internal/tool"
)

var (
	// ErrNotFound is returned for an id the manager does not know.
	ErrNotFound = errors.New("download not found")

	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("download manager closed")
)

// Default progress throttling per item.
const (
	DefaultProgressRate  = rate.Limit(10)
	DefaultProgressBurst = 1
)

// flushInterval is how often throttled progress is published.
const flushInterval = 100 * time.Millisecond

// Runner starts tool jobs. *tool.Worker is the production implementation.
type Runner interface {
	Start(ctx context.Context, job tool.Job) <-chan tool.Event
}

// Option configures a Manager.
type Option func(*Manager)

// WithRunner replaces the default tool.Worker.
func WithRunner(r Runner) Option {
	return func(m *Manager) {
		m.runner = r
	}
}

// WithProgressLimit sets the per-item rate of progress-only updates.
// rate.Inf publishes every update.
func WithProgressLimit(limit rate.Limit, burst int) Option {
	return func(m *Manager) {
		m.progressLimit = limit
		m.progressBurst = burst
	}
}

// Manager owns the download queue.
//
// A single coordinating goroutine owns every item and the running counter.
// Public methods hand closures to it and worker goroutines send it their
// events, so no state is shared under locks. Items returned to callers are
// copies.
type Manager struct {
	ops     chan func()
	results chan result
	done    chan struct{}
	workers sync.WaitGroup

	runner        Runner
	present       Presentation
	progressLimit rate.Limit
	progressBurst int
	log           *logrus.Entry

	// owned by the coordinator
	settings   *config.Settings
	classifier *classify.Classifier
	items      []*entry
	index      map[string]*entry
	running    int
	closed     bool
	waiters    []chan struct{}
}

type entry struct {
	item     model.Item
	cancel   context.CancelFunc
	limiter  *rate.Limiter
	dirty    bool // progress not yet published
	stopping bool // cancel requested while running
}

// result is one worker event for an item.
type result struct {
	id     string
	event  tool.Event
	title  string
	artist string
}

// NewManager creates a Manager and starts its coordinator. A nil
// presentation discards notifications.
func NewManager(settings *config.Settings, present Presentation, opts ...Option) *Manager {
	if present == nil {
		present = NopPresentation{}
	}
	s := settings.Clone()
	s.ClampParallel()
	s.Normalize()

	m := &Manager{
		ops:           make(chan func()),
		results:       make(chan result, 64),
		done:          make(chan struct{}),
		present:       present,
		progressLimit: DefaultProgressRate,
		progressBurst: DefaultProgressBurst,
		log:           logutils.Component("manager"),
		settings:      s,
		classifier:    classify.New(s.FallbackSource),
		index:         make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.runner == nil {
		m.runner = tool.NewWorker()
	}

	go m.loop()
	return m
}

func (m *Manager) loop() {
	defer close(m.done)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case op := <-m.ops:
			op()
		case r := <-m.results:
			m.handle(r)
		case <-ticker.C:
			m.flush()
		}
		if m.closed && m.running == 0 {
			m.releaseWaiters()
			return
		}
	}
}

// do runs fn on the coordinator and waits for it.
func (m *Manager) do(fn func()) error {
	finished := make(chan struct{})
	op := func() {
		defer close(finished)
		fn()
	}
	select {
	case m.ops <- op:
	case <-m.done:
		return ErrClosed
	}
	<-finished
	return nil
}

// Enqueue adds one classified request. The item shows the current quality,
// format and output directory; the values in effect at dispatch are used.
func (m *Manager) Enqueue(req classify.Request) (model.Item, error) {
	var (
		item model.Item
		err  error
	)
	if doErr := m.do(func() {
		if m.closed {
			err = ErrClosed
			return
		}
		item = m.add(req)
		m.publishStats()
		m.dispatch()
	}); doErr != nil {
		return model.Item{}, doErr
	}
	return item, err
}

// AddRequest classifies every non-empty line of text and enqueues the
// accepted ones. Rejected lines are reported as a *classify.ValidationError
// alongside the items that were queued.
func (m *Manager) AddRequest(text string, mode classify.Mode) ([]model.Item, error) {
	var (
		items []model.Item
		err   error
	)
	if doErr := m.do(func() {
		if m.closed {
			err = ErrClosed
			return
		}
		var reqs []classify.Request
		reqs, err = m.classifier.ClassifyAll(text, mode)
		for _, req := range reqs {
			items = append(items, m.add(req))
		}
		if len(items) > 0 {
			m.publishStats()
			m.dispatch()
		}
	}); doErr != nil {
		return nil, doErr
	}

	if errors.Is(err, classify.ErrInvalidInput) {
		m.log.WithError(err).WithField("mode", mode.String()).Warn("Rejected input")
	}
	return items, err
}

// Cancel stops one item. A queued item is cancelled without starting a
// process; a running item's process is terminated and the item ends
// cancelled. Cancelling a finished item does nothing.
func (m *Manager) Cancel(id string) error {
	var err error
	if doErr := m.do(func() {
		e, ok := m.index[id]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrNotFound, id)
			return
		}
		if m.cancel(e) {
			m.notifyIdle()
		}
	}); doErr != nil {
		return doErr
	}
	return err
}

// CancelAll cancels every queued and running item.
func (m *Manager) CancelAll() {
	m.do(func() {
		m.cancelAll()
	})
}

// ClearCompleted removes every item in a terminal state and returns how
// many were removed. Queued and running items are kept.
func (m *Manager) ClearCompleted() int {
	return m.removeWhere(func(s model.Status) bool { return s.IsTerminal() })
}

// ClearFailed removes only failed items.
func (m *Manager) ClearFailed() int {
	return m.removeWhere(func(s model.Status) bool { return s == model.StatusFailed })
}

// Snapshot returns copies of all items in insertion order.
func (m *Manager) Snapshot() []model.Item {
	var items []model.Item
	m.do(func() {
		items = make([]model.Item, len(m.items))
		for i, e := range m.items {
			items[i] = e.item
		}
	})
	return items
}

// Sync calls fn on the coordinator with a snapshot of the queue. Every
// notification published before fn runs reflects state the snapshot
// already contains, and every later one follows it. fn must not block or
// call back into the Manager.
func (m *Manager) Sync(fn func(items []model.Item, stats model.Stats)) error {
	return m.do(func() {
		items := make([]model.Item, len(m.items))
		for i, e := range m.items {
			items[i] = e.item
		}
		fn(items, model.ComputeStats(items))
	})
}

// Item returns a copy of one item.
func (m *Manager) Item(id string) (model.Item, bool) {
	var (
		item model.Item
		ok   bool
	)
	m.do(func() {
		var e *entry
		if e, ok = m.index[id]; ok {
			item = e.item
		}
	})
	return item, ok
}

// Stats returns item counts by status.
func (m *Manager) Stats() model.Stats {
	var stats model.Stats
	m.do(func() {
		stats = m.stats()
	})
	return stats
}

// Settings returns a copy of the active configuration.
func (m *Manager) Settings() *config.Settings {
	var s *config.Settings
	if err := m.do(func() {
		s = m.settings.Clone()
	}); err != nil {
		return nil
	}
	return s
}

// UpdateConfig validates settings and applies them to subsequent
// dispatches. Items still queued pick up the new quality, format and
// output directory when they start; running items keep theirs. A raised
// ceiling starts more queued items at once.
func (m *Manager) UpdateConfig(settings *config.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s := settings.Clone()
	s.Normalize()

	return m.do(func() {
		old := m.settings.MaxParallelDownloads
		m.settings = s
		m.classifier = classify.New(s.FallbackSource)
		m.log.WithFields(logrus.Fields{
			"max_parallel": s.MaxParallelDownloads,
			"previous":     old,
		}).Info("Configuration updated")
		m.dispatch()
	})
}

// WritePlaylist writes a playlist of every completed item's file to path
// in the configured playlist format. It returns the number of entries.
func (m *Manager) WritePlaylist(path string) (int, error) {
	var (
		items  []model.Item
		format audio.PlaylistFormat
	)
	if err := m.do(func() {
		format = audio.ParsePlaylistFormat(m.settings.PlaylistFormat)
		for _, e := range m.items {
			items = append(items, e.item)
		}
	}); err != nil {
		return 0, err
	}

	n, err := audio.NewPlaylistCreator(format).Write(path, items)
	if err != nil {
		return 0, fmt.Errorf("write playlist: %w", err)
	}
	m.log.WithFields(logrus.Fields{"path": path, "entries": n}).Info("Playlist written")
	return n, nil
}

// Wait blocks until no item is queued or running, or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	idle := make(chan struct{})
	if err := m.do(func() {
		if m.active() == 0 {
			close(idle)
			return
		}
		m.waiters = append(m.waiters, idle)
	}); err != nil {
		// nothing is active once closed
		return nil
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels everything, waits for the processes to exit and stops the
// coordinator. Later calls return ErrClosed.
func (m *Manager) Close() error {
	if err := m.do(func() {
		m.closed = true
		m.cancelAll()
	}); err != nil {
		return err
	}
	<-m.done
	m.workers.Wait()
	m.log.Debug("Manager closed")
	return nil
}

// add appends a queued item for req.
func (m *Manager) add(req classify.Request) model.Item {
	item := model.NewItem(req.Input, req.Target, req.Source, req.Operation,
		m.settings.DefaultQuality, m.settings.DefaultFormat, m.settings.OutputDir)

	e := &entry{
		item:    item,
		limiter: rate.NewLimiter(m.progressLimit, m.progressBurst),
	}
	m.items = append(m.items, e)
	m.index[item.ID] = e

	m.log.WithFields(logrus.Fields{
		"item_id":   item.ID,
		"source":    item.Source,
		"operation": item.Operation,
	}).Info("Item queued")
	m.present.OnItemAdded(item)
	return item
}

// dispatch starts queued items in insertion order while slots are free.
func (m *Manager) dispatch() {
	if m.closed {
		return
	}
	for _, e := range m.items {
		if m.running >= m.settings.MaxParallelDownloads {
			return
		}
		if e.item.Status == model.StatusQueued {
			m.start(e)
		}
	}
}

func (m *Manager) start(e *entry) {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.item.Status = model.StatusRunning
	e.item.StartedAt = time.Now()
	e.item.Quality = m.settings.DefaultQuality
	e.item.Format = m.settings.DefaultFormat
	e.item.OutputDir = m.settings.OutputDir
	m.running++

	job := tool.Job{
		Kind:      tool.ForSource(e.item.Source),
		Target:    e.item.Target,
		Quality:   e.item.Quality,
		Format:    e.item.Format,
		OutputDir: e.item.OutputDir,
		Options:   m.settings.ToolOptions(),
	}
	log := m.log.WithFields(logrus.Fields{
		"item_id": e.item.ID,
		"tool":    job.Kind.String(),
	})
	log.WithField("running", m.running).Info("Item started")

	m.present.OnItemUpdated(e.item)
	m.publishStats()

	events := m.runner.Start(ctx, job)
	m.workers.Add(1)
	go m.watch(e.item, events, newPostProcess(m.settings), log)
}

// watch forwards a job's events to the coordinator. It blocks only on the
// event stream and the results channel.
func (m *Manager) watch(item model.Item, events <-chan tool.Event, post postProcess, log *logrus.Entry) {
	defer m.workers.Done()
	for ev := range events {
		r := result{id: item.ID, event: ev}
		if ev.Type == tool.EventCompleted {
			item.OutputPath = ev.OutputPath
			r.title, r.artist = post.run(item, log)
		}
		m.results <- r
	}
}

func (m *Manager) handle(r result) {
	e, ok := m.index[r.id]
	if !ok || e.item.Status != model.StatusRunning {
		return
	}

	ev := r.event
	if ev.Type == tool.EventProgress {
		m.progress(e, ev)
		return
	}

	status := model.StatusCompleted
	switch {
	case e.stopping || ev.Type == tool.EventCancelled:
		status = model.StatusCancelled
	case ev.Type == tool.EventFailed:
		status = model.StatusFailed
		e.item.Error = ev.Message
	default:
		e.item.Percent = 100
		e.item.OutputPath = ev.OutputPath
		e.item.Title = r.title
		e.item.Artist = r.artist
	}
	m.finish(e, status)

	m.running--
	m.dispatch()
	m.notifyIdle()
}

func (m *Manager) progress(e *entry, ev tool.Event) {
	if ev.Percent > e.item.Percent {
		e.item.Percent = min(ev.Percent, 100)
	}
	if ev.Rate != "" {
		e.item.Rate = ev.Rate
	}
	if ev.ETA != "" {
		e.item.ETA = ev.ETA
	}

	if e.limiter.Allow() {
		e.dirty = false
		m.present.OnItemUpdated(e.item)
		return
	}
	e.dirty = true
}

// flush publishes progress held back by throttling.
func (m *Manager) flush() {
	for _, e := range m.items {
		if e.dirty && e.item.Status == model.StatusRunning && e.limiter.Allow() {
			e.dirty = false
			m.present.OnItemUpdated(e.item)
		}
	}
}

// finish moves an item to a terminal status and publishes it.
func (m *Manager) finish(e *entry, status model.Status) {
	if !e.item.Status.CanTransitionTo(status) {
		return
	}
	e.item.Status = status
	e.item.FinishedAt = time.Now()
	e.item.Rate = ""
	e.item.ETA = ""
	e.dirty = false
	if e.cancel != nil {
		e.cancel()
	}

	fields := logrus.Fields{"item_id": e.item.ID, "status": status}
	switch status {
	case model.StatusFailed:
		m.log.WithFields(fields).WithField("error", e.item.Error).Warn("Item failed")
	default:
		m.log.WithFields(fields).Info("Item finished")
	}

	m.present.OnItemUpdated(e.item)
	m.publishStats()
}

// cancel reports whether the item reached a terminal state right away.
func (m *Manager) cancel(e *entry) bool {
	switch e.item.Status {
	case model.StatusQueued:
		m.finish(e, model.StatusCancelled)
		return true
	case model.StatusRunning:
		if !e.stopping {
			e.stopping = true
			e.cancel()
			m.log.WithField("item_id", e.item.ID).Info("Stopping item")
		}
	}
	return false
}

func (m *Manager) cancelAll() {
	changed := false
	for _, e := range m.items {
		if m.cancel(e) {
			changed = true
		}
	}
	if changed {
		m.notifyIdle()
	}
}

func (m *Manager) removeWhere(match func(model.Status) bool) int {
	removed := 0
	m.do(func() {
		kept := m.items[:0]
		for _, e := range m.items {
			if !match(e.item.Status) || e.item.Status.IsActive() {
				kept = append(kept, e)
				continue
			}
			delete(m.index, e.item.ID)
			m.present.OnItemRemoved(e.item.ID)
			removed++
		}
		clear(m.items[len(kept):])
		m.items = kept
		if removed > 0 {
			m.log.WithField("removed", removed).Info("Cleared items")
			m.publishStats()
		}
	})
	return removed
}

func (m *Manager) stats() model.Stats {
	var s model.Stats
	for _, e := range m.items {
		s.Add(e.item.Status)
	}
	return s
}

func (m *Manager) publishStats() {
	m.present.OnStatsChanged(m.stats())
}

func (m *Manager) active() int {
	n := 0
	for _, e := range m.items {
		if e.item.Status.IsActive() {
			n++
		}
	}
	return n
}

func (m *Manager) notifyIdle() {
	if len(m.waiters) > 0 && m.active() == 0 {
		m.releaseWaiters()
	}
}

func (m *Manager) releaseWaiters() {
	for _, w := range m.waiters {
		close(w)
	}
	m.waiters = nil
}
