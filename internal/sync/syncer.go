// Package sync coordinates one end-to-end ingestion run: connect, search,
// fetch, parse, extract, persist, aggregate.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/folharh/holerite-sync/internal/attachment"
	"github.com/folharh/holerite-sync/internal/mail"
	"github.com/folharh/holerite-sync/internal/model"
	"github.com/folharh/holerite-sync/internal/store"
)

// NotConfiguredMessage is returned when no mailbox credential is present.
const NotConfiguredMessage = "IMAP não configurado"

// lookbackDays is the rolling search window.
const lookbackDays = 90

// defaultKeywords are the subject substrings that identify payslip mail.
var defaultKeywords = []string{"holerite", "contracheque", "folha de pagamento"}

// Result is the aggregate outcome of one sync run. Per-message failures
// are soft: they land in Errors without flipping Success.
type Result struct {
	Success bool     `json:"success"`
	Found   int      `json:"found"`
	Saved   int      `json:"saved"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
	Message string   `json:"message,omitempty"`
}

// Mailbox is one authenticated protocol session with the target mailbox
// selected. mail.Session satisfies it; tests substitute fakes.
type Mailbox interface {
	SearchSubjects(criteria *mail.Criteria) ([]string, error)
	FetchAll(ctx context.Context, ids []string, deliver func(mail.RawMessage)) error
	Close() error
}

// Dialer establishes a Mailbox session.
type Dialer interface {
	Dial(ctx context.Context) (Mailbox, error)
}

// clientDialer adapts mail.Client to the Dialer interface.
type clientDialer struct {
	client *mail.Client
}

func (d clientDialer) Dial(ctx context.Context) (Mailbox, error) {
	return d.client.Dial(ctx)
}

// Syncer runs mailbox ingestion against an injected store and file store.
type Syncer struct {
	cfg      model.IMAPConfig
	store    store.Store
	files    *store.FileStore
	log      *slog.Logger
	dialer   Dialer
	now      func() time.Time
	keywords []string
}

// Option customizes a Syncer.
type Option func(*Syncer)

// WithDialer substitutes the session dialer.
func WithDialer(d Dialer) Option {
	return func(s *Syncer) { s.dialer = d }
}

// WithClock substitutes the clock used to compute the lookback window.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// WithKeywords overrides the subject keyword set.
func WithKeywords(keywords []string) Option {
	return func(s *Syncer) { s.keywords = keywords }
}

// NewSyncer creates a Syncer for the given mailbox configuration.
func NewSyncer(
	cfg model.IMAPConfig,
	st store.Store,
	files *store.FileStore,
	log *slog.Logger,
	opts ...Option,
) *Syncer {
	s := &Syncer{
		cfg:      cfg,
		store:    st,
		files:    files,
		log:      log,
		dialer:   clientDialer{client: mail.NewClient(cfg)},
		now:      time.Now,
		keywords: defaultKeywords,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// outcomeKind classifies how one message's processing settled.
type outcomeKind int

const (
	outcomeSaved outcomeKind = iota
	outcomeSkipped
	outcomeErrored
)

// outcome is the settled result for a single message. A saved message may
// still carry soft per-attachment errors.
type outcome struct {
	kind outcomeKind
	errs []string
}

// Run executes one sync run to completion and always resolves to a Result;
// no failure propagates as an error to the caller.
//
// With no credential configured the run completes immediately in disabled
// mode without any network I/O. Connection and search failures are fatal
// to the run; everything after that is per-message and soft.
func (s *Syncer) Run(ctx context.Context) Result {
	if !s.cfg.Configured() {
		s.log.Info("sync disabled, mailbox not configured")
		return Result{Success: false, Errors: []string{}, Message: NotConfiguredMessage}
	}

	session, err := s.dialer.Dial(ctx)
	if err != nil {
		s.log.Error("connection failed", "error", err)
		return Result{Success: false, Errors: []string{}, Message: err.Error()}
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.log.Warn("closing session", "error", err)
		}
	}()

	since := s.now().AddDate(0, 0, -lookbackDays)
	ids, err := session.SearchSubjects(mail.BuildCriteria(s.keywords, since))
	if err != nil {
		s.log.Error("search failed", "error", err)
		return Result{Success: false, Errors: []string{}, Message: err.Error()}
	}

	result := Result{Success: true, Found: len(ids), Errors: []string{}}

	s.log.Info("search complete", "found", len(ids), "since", since.Format("2006-01-02"))
	if len(ids) == 0 {
		return result
	}

	// Each delivered body is processed in its own goroutine; the run
	// finalizes only after every one of them has settled, whatever the
	// delivery order was.
	outcomes := make(chan outcome, len(ids))
	var wg gosync.WaitGroup

	// FetchAll invokes deliver from this goroutine, so the map needs no
	// locking.
	delivered := make(map[string]bool, len(ids))

	fetchErr := session.FetchAll(ctx, ids, func(raw mail.RawMessage) {
		delivered[raw.UID] = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes <- s.processMessage(ctx, raw)
		}()
	})

	wg.Wait()
	close(outcomes)

	switch {
	case fetchErr != nil:
		// The batch abort covers every undelivered message.
		s.log.Error("fetch aborted", "error", fetchErr)
		result.Errors = append(result.Errors, fmt.Sprintf("fetch: %v", fetchErr))
	default:
		// A message can vanish between search and fetch (expunged, or
		// its body was undeliverable); each one still has to show up in
		// the accounting.
		for _, id := range ids {
			if !delivered[id] {
				s.log.Warn("message not delivered", "uid", id)
				result.Errors = append(result.Errors, fmt.Sprintf("message %s: no body delivered", id))
			}
		}
	}

	for o := range outcomes {
		result.Errors = append(result.Errors, o.errs...)
		switch o.kind {
		case outcomeSaved:
			result.Saved++
		case outcomeSkipped:
			result.Skipped++
		case outcomeErrored:
		}
	}

	s.log.Info("sync complete",
		"found", result.Found,
		"saved", result.Saved,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)

	return result
}

// processMessage runs parse → filter → dedup-check → persist for a single
// message. A message counts as saved only once its record row is inserted;
// attachment write failures are soft and a message whose every qualifying
// attachment failed to store settles as errored.
func (s *Syncer) processMessage(ctx context.Context, raw mail.RawMessage) outcome {
	known, err := s.store.IsKnown(ctx, raw.UID)
	if err != nil {
		return outcome{
			kind: outcomeErrored,
			errs: []string{fmt.Sprintf("message %s: %v", raw.UID, err)},
		}
	}
	if known {
		s.log.Debug("skipping known message", "uid", raw.UID)
		return outcome{kind: outcomeSkipped}
	}

	parsed, err := mail.Parse(raw.Body)
	if err != nil {
		return outcome{
			kind: outcomeErrored,
			errs: []string{fmt.Sprintf("message %s: %v", raw.UID, err)},
		}
	}

	qualifying := attachment.Select(parsed)
	if len(qualifying) == 0 {
		s.log.Debug("no qualifying attachments", "uid", raw.UID, "subject", parsed.Subject)
		return outcome{kind: outcomeSkipped}
	}

	var msgDate *time.Time
	if !parsed.Date.IsZero() {
		d := parsed.Date
		msgDate = &d
	}

	var errs []string
	saved := false

	for _, att := range qualifying {
		name := attachment.DeriveFileName(parsed.Date, raw.UID, att.Filename)

		relPath, err := s.files.Write(name, att.Data)
		if err != nil {
			errs = append(errs, fmt.Sprintf("message %s: %v", raw.UID, err))
			continue
		}

		if saved {
			// One record per message; later qualifying attachments
			// are kept on disk under their own derived names.
			continue
		}

		inserted, err := s.store.CreateIfAbsent(ctx, model.Holerite{
			EmailUID:         raw.UID,
			Sender:           parsed.Sender,
			Subject:          parsed.Subject,
			MessageDate:      msgDate,
			OriginalFilename: att.Filename,
			FilePath:         relPath,
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("message %s: %v", raw.UID, err))
			continue
		}
		if !inserted {
			// Another run won the insert race; the message is a
			// duplicate, not an error.
			return outcome{kind: outcomeSkipped, errs: errs}
		}

		s.log.Info("holerite saved", "uid", raw.UID, "file", relPath)
		saved = true
	}

	if saved {
		return outcome{kind: outcomeSaved, errs: errs}
	}
	return outcome{kind: outcomeErrored, errs: errs}
}
