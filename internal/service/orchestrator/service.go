package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/thdelmas/Rooster/internal/domain/alarm"
	"github.com/thdelmas/Rooster/internal/domain/sunrise"
	"github.com/thdelmas/Rooster/internal/logger"
	"github.com/thdelmas/Rooster/internal/position"
	repo "github.com/thdelmas/Rooster/internal/repository/state"
	"github.com/thdelmas/Rooster/internal/scheduler"
)

// State is the session phase of the toggle.
type State int

// Session phases, in the order they are normally entered.
const (
	// StateAwaitingPermission means the position feed has not admitted us yet.
	StateAwaitingPermission State = iota
	// StateAwaitingFix means the feed is subscribed but no fix arrived.
	StateAwaitingFix
	// StateAwaitingSunrise means the weather query is in flight or has stalled.
	StateAwaitingSunrise
	// StateReady means the sample is known and the toggle is live.
	StateReady
)

// WeatherClient is the slice of the weather client the orchestrator needs.
type WeatherClient interface {
	Fetch(ctx context.Context, fix sunrise.Position) (*sunrise.Sample, error)
}

// LabelSink receives button label updates.
type LabelSink interface {
	SetLabel(text string)
}

// TextSink receives the auxiliary field updates.
type TextSink interface {
	SetFix(fix sunrise.Position)
	SetPlace(name string)
	Advise(message string)
}

// ErrNotReady is returned when the toggle is pressed before the sunrise
// sample is known.
var ErrNotReady = errors.New("alarm toggle is not ready")

// Service binds the position feed, the weather client, the scheduler and
// the state store into the single user-visible toggle.
//
// It keeps one invariant: the persisted armed flag is true exactly when
// the scheduler holds a registration for the alarm name, and an armed
// registration targets the most recently computed sunrise instant. Every
// mutation is serialized by mu, so the session behaves like the single
// cooperative thread it models.
type Service struct {
	// source produces position fixes; only the first one is consumed.
	source position.Source
	// weather turns the fix into a sunrise sample.
	weather WeatherClient
	// sched holds the one-shot wake-up registration.
	sched scheduler.Scheduler
	// repo persists the armed flag across restarts.
	repo repo.Repository
	// label receives button text updates.
	label LabelSink
	// text receives the fix, place and advisory fields.
	text TextSink
	// actor is recorded in the audit trail on every toggle.
	actor *domain.Actor

	// mu serializes every state transition.
	mu sync.Mutex
	// state is the current session phase.
	state State
	// sample is the sunrise answer, set once per session.
	sample *sunrise.Sample
	// armed mirrors the persisted flag.
	armed bool
	// fixSeen marks that the first fix was consumed.
	fixSeen bool
	// fetches tracks the in-flight weather worker.
	fetches sync.WaitGroup
}

// Deps carries the collaborators of the orchestrator.
type Deps struct {
	Source  position.Source
	Weather WeatherClient
	Sched   scheduler.Scheduler
	Repo    repo.Repository
	Label   LabelSink
	Text    TextSink
	Actor   *domain.Actor
}

// NewService wires the collaborators into an idle orchestrator.
func NewService(deps Deps) *Service {
	return &Service{
		source:  deps.Source,
		weather: deps.Weather,
		sched:   deps.Sched,
		repo:    deps.Repo,
		label:   deps.Label,
		text:    deps.Text,
		actor:   deps.Actor,
		state:   StateAwaitingPermission,
	}
}

// Start restores the persisted armed flag and subscribes to the position
// feed. When the flag was left armed by an earlier run, the button renders
// in its "unset" form immediately, before any fix or weather data arrives.
//
// A feed that denies access leaves the toggle disabled for the whole
// session; that is an advisory, not an error.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()

	stored, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.armed = stored.Armed
	case errors.Is(err, repo.ErrNotFound):
		// First run, keep the default.
	default:
		s.mu.Unlock()

		return fmt.Errorf("load state: %w", err)
	}

	if s.armed {
		s.label.SetLabel(sunrise.DisarmLabel)
	}

	s.mu.Unlock()

	if err := s.source.Subscribe(ctx, func(fix sunrise.Position) {
		s.onPosition(ctx, fix)
	}); err != nil {
		if errors.Is(err, position.ErrPermissionDenied) {
			logger.WarnKV(ctx, "Location access denied, toggle stays disabled", "error", err)
			s.text.Advise("Location permission denied")

			return nil
		}

		return fmt.Errorf("subscribe position feed: %w", err)
	}

	s.mu.Lock()

	// The source may deliver a fix before Subscribe returns, in which
	// case the session has already moved on; only leave the permission
	// phase, never regress.
	if s.state == StateAwaitingPermission {
		s.state = StateAwaitingFix
	}

	s.mu.Unlock()

	return nil
}

// onPosition consumes the first delivered fix and hands it to a weather
// worker. Every later fix of the session is ignored, so at most one fetch
// is ever in flight.
func (s *Service) onPosition(ctx context.Context, fix sunrise.Position) {
	s.mu.Lock()

	if s.fixSeen {
		s.mu.Unlock()

		return
	}

	s.fixSeen = true
	s.state = StateAwaitingSunrise
	s.text.SetFix(fix)
	s.mu.Unlock()

	logger.InfoKV(ctx, "Position fix acquired",
		"latitude", fix.Latitude, "longitude", fix.Longitude, "altitude", fix.Altitude)

	// The blocking HTTP call runs on a short-lived worker; its result
	// re-enters the serialized session through onWeather.
	s.fetches.Add(1)

	go func() {
		defer s.fetches.Done()

		sample, err := s.weather.Fetch(ctx, fix)
		s.onWeather(ctx, sample, err)
	}()
}

// onWeather enters Ready on success. A failed fetch leaves the session
// stalled in AwaitingSunrise; there is no retry.
func (s *Service) onWeather(ctx context.Context, sample *sunrise.Sample, err error) {
	if err != nil {
		logger.ErrorKV(ctx, "Weather query failed, session stalls", "error", err)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sample = sample

	// Re-read the flag so the label reflects what is actually persisted.
	if stored, loadErr := s.repo.Load(ctx); loadErr == nil {
		s.armed = stored.Armed
	}

	s.state = StateReady
	s.text.SetPlace(sample.PlaceName)
	s.renderLabel()

	logger.InfoKV(ctx, "Sunrise known, toggle ready",
		"place", sample.PlaceName, "sunrise", sample.SunriseUTC.Format(time.RFC3339))
}

// Toggle flips the alarm. The scheduler is always updated before the
// store: a scheduler failure leaves flag and label untouched, and a store
// failure rolls the scheduler back, so the persisted flag never disagrees
// with the registration.
func (s *Service) Toggle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrNotReady
	}

	if !s.armed {
		if err := s.sched.Arm(ctx, domain.Name, s.sample.SunriseUTC); err != nil {
			return fmt.Errorf("arm alarm: %w", err)
		}

		if err := s.persist(ctx, true); err != nil {
			// Undo the registration so flag and scheduler stay in step.
			if disarmErr := s.sched.Disarm(ctx, domain.Name); disarmErr != nil {
				logger.ErrorKV(ctx, "Rollback disarm failed", "error", disarmErr)
			}

			return err
		}

		s.armed = true
	} else {
		if err := s.sched.Disarm(ctx, domain.Name); err != nil {
			return fmt.Errorf("disarm alarm: %w", err)
		}

		if err := s.persist(ctx, false); err != nil {
			if armErr := s.sched.Arm(ctx, domain.Name, s.sample.SunriseUTC); armErr != nil {
				logger.ErrorKV(ctx, "Rollback arm failed", "error", armErr)
			}

			return err
		}

		s.armed = false
	}

	s.renderLabel()
	logger.InfoKV(ctx, "Alarm toggled", "armed", s.armed)

	return nil
}

// State returns the current session phase.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Armed reports whether the alarm is currently set.
func (s *Service) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.armed
}

// persist writes the armed flag with its audit trail.
// The caller must hold mu.
func (s *Service) persist(ctx context.Context, armed bool) error {
	err := s.repo.Save(ctx, &domain.State{
		Timestamp: time.Now(),
		LastActor: s.actor.Clone(),
		Armed:     armed,
	})
	if err != nil {
		return fmt.Errorf("persist state: %w", err)
	}

	return nil
}

// renderLabel draws the button for the current armed flag.
// The caller must hold mu.
func (s *Service) renderLabel() {
	if s.armed {
		s.label.SetLabel(sunrise.DisarmLabel)

		return
	}

	s.label.SetLabel(s.sample.ArmLabel())
}
