package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/sunrise/internal/alert"
	"github.com/sandeepkv93/sunrise/internal/scheduler"
)

type fakeAlert struct {
	starts int
	stops  int
	closed int
}

func (a *fakeAlert) Start()       { a.starts++ }
func (a *fakeAlert) Stop()        { a.stops++ }
func (a *fakeAlert) Close() error { a.closed++; return nil }

// countingPlayer is an alert.Player that records what reached the device.
type countingPlayer struct {
	chimes   int
	silences int
	closes   int
}

func (p *countingPlayer) Chime() error { p.chimes++; return nil }
func (p *countingPlayer) Silence()     { p.silences++ }
func (p *countingPlayer) Close() error { p.closes++; return nil }

type recorder struct {
	progress []float64
	sessions []int
	statuses []Status
}

func setupEngine(t *testing.T, opts ...Option) (*Engine, *scheduler.Manual, *fakeAlert, *recorder) {
	t.Helper()
	clock := scheduler.NewManual(time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC))
	alert := &fakeAlert{}
	rec := &recorder{}
	e := New(clock, alert, opts...)
	e.OnProgressChange(func(p float64) { rec.progress = append(rec.progress, p) })
	e.OnSessionCompleted(func(n int) { rec.sessions = append(rec.sessions, n) })
	e.OnStatusChange(func(s Status) { rec.statuses = append(rec.statuses, s) })
	return e, clock, alert, rec
}

func TestNewEngineDefaults(t *testing.T) {
	e, _, _, _ := setupEngine(t)
	st := e.State()
	if st.Status != StatusIdle || st.DurationSeconds != 1500 || st.RemainingSeconds != 1500 {
		t.Fatalf("unexpected defaults: %+v", st)
	}
	if e.Progress() != 0 {
		t.Fatalf("expected zero progress, got %v", e.Progress())
	}
	if !st.Fresh() {
		t.Fatalf("expected fresh state: %+v", st)
	}
}

func TestFullCountdownCompletesOnce(t *testing.T) {
	e, clock, alert, rec := setupEngine(t)
	e.Start()
	clock.Step(time.Second, 1500)

	st := e.State()
	if st.Status != StatusCompleted || st.RemainingSeconds != 0 || st.SessionsCompleted != 1 {
		t.Fatalf("unexpected state after countdown: %+v", st)
	}
	if alert.starts != 1 {
		t.Fatalf("expected one alert start, got %d", alert.starts)
	}
	if len(rec.sessions) != 1 || rec.sessions[0] != 1 {
		t.Fatalf("unexpected session notifications: %v", rec.sessions)
	}
	completed := 0
	for _, s := range rec.statuses {
		if s == StatusCompleted {
			completed++
		}
	}
	if completed != 1 {
		t.Fatalf("expected exactly one completed transition, got %v", rec.statuses)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected tick handle released, pending=%d", clock.Pending())
	}

	clock.Advance(time.Hour)
	if st := e.State(); st.SessionsCompleted != 1 || st.Status != StatusCompleted {
		t.Fatalf("state changed after completion: %+v", st)
	}
}

func TestProgressNotificationsStrictlyIncreaseWhileRunning(t *testing.T) {
	e, clock, _, rec := setupEngine(t, WithDurationSeconds(60))
	e.Start()
	clock.Step(time.Second, 60)

	// start publishes once, then one notification per tick
	if len(rec.progress) != 61 {
		t.Fatalf("expected 61 progress notifications, got %d", len(rec.progress))
	}
	for i := 1; i < len(rec.progress); i++ {
		if rec.progress[i] <= rec.progress[i-1] {
			t.Fatalf("progress not increasing at %d: %v -> %v", i, rec.progress[i-1], rec.progress[i])
		}
	}
	if last := rec.progress[len(rec.progress)-1]; last != 1 {
		t.Fatalf("expected final progress 1, got %v", last)
	}
}

func TestProgressStaysInRangeForEveryDuration(t *testing.T) {
	for _, minutes := range []int{1, 2, 7, 25, 45, 60, 179, 180} {
		d := minutes * 60
		for remaining := 0; remaining <= d; remaining += 7 {
			p := State{DurationSeconds: d, RemainingSeconds: remaining}.Progress()
			if p < 0 || p > 1 {
				t.Fatalf("progress out of range: d=%d remaining=%d p=%v", d, remaining, p)
			}
		}
	}
}

func TestResetAfterTicksRestoresIdle(t *testing.T) {
	e, clock, _, rec := setupEngine(t)
	e.Start()
	clock.Step(time.Second, 42)
	e.Reset()

	st := e.State()
	if st.Status != StatusIdle || st.RemainingSeconds != st.DurationSeconds || e.Progress() != 0 {
		t.Fatalf("unexpected state after reset: %+v", st)
	}
	if st.SessionsCompleted != 0 {
		t.Fatalf("reset must not count a session: %+v", st)
	}
	if rec.progress[len(rec.progress)-1] != 0 {
		t.Fatalf("expected reset to publish zero progress, got %v", rec.progress[len(rec.progress)-1])
	}
	clock.Advance(time.Minute)
	if e.State().RemainingSeconds != st.DurationSeconds {
		t.Fatal("ticks processed after reset")
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	e, clock, _, rec := setupEngine(t)
	e.Start()
	clock.Step(time.Second, 3)
	e.Pause()
	notified := len(rec.progress)
	statuses := len(rec.statuses)
	e.Pause()

	if e.State().Status != StatusPaused {
		t.Fatalf("expected paused, got %s", e.State().Status)
	}
	if len(rec.progress) != notified || len(rec.statuses) != statuses {
		t.Fatalf("second pause produced side effects: progress=%d->%d statuses=%d->%d",
			notified, len(rec.progress), statuses, len(rec.statuses))
	}
}

func TestPausedEngineIgnoresTicks(t *testing.T) {
	e, clock, _, _ := setupEngine(t)
	e.Start()
	clock.Step(time.Second, 10)
	e.Pause()
	atPause := e.State().RemainingSeconds
	clock.Step(time.Second, 100)

	if got := e.State().RemainingSeconds; got != atPause || got != 1490 {
		t.Fatalf("remaining changed while paused: at pause %d, now %d", atPause, got)
	}

	e.Start()
	clock.Step(time.Second, 5)
	if got := e.State().RemainingSeconds; got != 1485 {
		t.Fatalf("expected resume to continue from pause, got %d", got)
	}
}

func TestSetDurationWhileIdle(t *testing.T) {
	e, _, _, rec := setupEngine(t)
	if err := e.SetDuration(45); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	st := e.State()
	if st.DurationSeconds != 2700 || st.RemainingSeconds != 2700 || st.Status != StatusIdle {
		t.Fatalf("unexpected state: %+v", st)
	}
	if len(rec.progress) != 1 {
		t.Fatalf("expected one progress notification, got %v", rec.progress)
	}
}

func TestSetDurationRejectsOutOfRange(t *testing.T) {
	e, _, _, rec := setupEngine(t)
	before := e.State()
	for _, minutes := range []int{200, 181, 0, -5} {
		err := e.SetDuration(minutes)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("expected ErrInvalidDuration for %d, got %v", minutes, err)
		}
	}
	if e.State() != before {
		t.Fatalf("state changed by rejected input: before %+v after %+v", before, e.State())
	}
	if len(rec.progress) != 0 {
		t.Fatalf("rejected input must not notify, got %v", rec.progress)
	}
}

func TestSetDurationRejectedWhileRunning(t *testing.T) {
	e, clock, _, _ := setupEngine(t)
	e.Start()
	clock.Step(time.Second, 2)
	if err := e.SetDuration(45); !errors.Is(err, ErrTimerRunning) {
		t.Fatalf("expected ErrTimerRunning, got %v", err)
	}
	if err := e.SelectPreset(3600); !errors.Is(err, ErrTimerRunning) {
		t.Fatalf("expected ErrTimerRunning for preset, got %v", err)
	}
	if st := e.State(); st.DurationSeconds != 1500 || st.RemainingSeconds != 1498 {
		t.Fatalf("running state changed: %+v", st)
	}
}

func TestSetDurationWhilePausedReturnsToIdle(t *testing.T) {
	e, clock, _, _ := setupEngine(t)
	e.Start()
	clock.Step(time.Second, 30)
	e.Pause()
	if err := e.SetDuration(10); err != nil {
		t.Fatalf("set duration while paused: %v", err)
	}
	if st := e.State(); st.Status != StatusIdle || st.RemainingSeconds != 600 {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestSelectPreset(t *testing.T) {
	e, _, _, _ := setupEngine(t)
	if err := e.SelectPreset(3600); err != nil {
		t.Fatalf("select preset: %v", err)
	}
	if st := e.State(); st.DurationSeconds != 3600 || st.RemainingSeconds != 3600 {
		t.Fatalf("unexpected state: %+v", st)
	}
	if err := e.SelectPreset(1234); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
	if e.State().DurationSeconds != 3600 {
		t.Fatal("unknown preset changed duration")
	}
}

func TestResetAfterCompletionStopsAlert(t *testing.T) {
	e, clock, alert, _ := setupEngine(t, WithDurationSeconds(60))
	e.Start()
	clock.Step(time.Second, 60)
	if e.State().Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", e.State().Status)
	}
	e.Reset()
	if alert.stops != 1 {
		t.Fatalf("expected one alert stop, got %d", alert.stops)
	}
	if e.State().Status != StatusIdle {
		t.Fatalf("expected idle, got %s", e.State().Status)
	}
	e.Reset()
	if alert.stops != 1 {
		t.Fatalf("expected stop once per completion cycle, got %d", alert.stops)
	}
}

func TestStartAfterCompletionRestarts(t *testing.T) {
	e, clock, alert, _ := setupEngine(t, WithDurationSeconds(60))
	e.Start()
	clock.Step(time.Second, 60)
	e.Start()

	st := e.State()
	if st.Status != StatusRunning || st.RemainingSeconds != 60 {
		t.Fatalf("expected fresh running countdown, got %+v", st)
	}
	if alert.stops != 1 {
		t.Fatalf("expected restart to stop alert once, got %d", alert.stops)
	}
	clock.Step(time.Second, 60)
	if st := e.State(); st.SessionsCompleted != 2 || alert.starts != 2 {
		t.Fatalf("expected second completion, state=%+v starts=%d", st, alert.starts)
	}
}

func TestToggle(t *testing.T) {
	e, _, _, _ := setupEngine(t)
	e.Toggle()
	if e.State().Status != StatusRunning {
		t.Fatalf("expected running, got %s", e.State().Status)
	}
	e.Toggle()
	if e.State().Status != StatusPaused {
		t.Fatalf("expected paused, got %s", e.State().Status)
	}
}

func TestCloseReleasesResources(t *testing.T) {
	e, clock, alert, _ := setupEngine(t)
	e.Start()
	e.Close()
	if clock.Pending() != 0 {
		t.Fatalf("expected tick handle released, pending=%d", clock.Pending())
	}
	if alert.closed != 1 {
		t.Fatalf("expected alert closed once, got %d", alert.closed)
	}
	e.Start()
	if clock.Pending() != 0 {
		t.Fatal("closed engine acquired a new tick handle")
	}
	e.Close()
	if alert.closed != 1 {
		t.Fatalf("expected close to be idempotent, got %d", alert.closed)
	}
}

func TestClosedEngineRejectsDurationChanges(t *testing.T) {
	e, _, _, _ := setupEngine(t, WithDurationSeconds(60))
	e.Start()
	e.Close()

	if err := e.SetDuration(30); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from SetDuration, got %v", err)
	}
	if err := e.SelectPreset(Presets[0]); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from SelectPreset, got %v", err)
	}
	if st := e.State(); st.DurationSeconds != 60 {
		t.Fatalf("closed engine changed duration: %+v", st)
	}
}

func TestResetSilencesRealAlertOnSharedClock(t *testing.T) {
	clock := scheduler.NewManual(time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC))
	player := &countingPlayer{}
	opens := 0
	chime := alert.New(clock, func() (alert.Player, error) {
		opens++
		return player, nil
	})
	e := New(clock, chime, WithDurationSeconds(60))

	e.Start()
	clock.Step(time.Second, 60)
	if e.State().Status != StatusCompleted || player.chimes != 1 {
		t.Fatalf("expected completion with one immediate chime, state=%+v chimes=%d", e.State(), player.chimes)
	}
	clock.Advance(6 * time.Second)
	if player.chimes != 3 {
		t.Fatalf("expected chimes at 0s, 3s, 6s after completion, got %d", player.chimes)
	}

	e.Reset()
	if chime.Running() || clock.Pending() != 0 {
		t.Fatalf("reset left handles behind: running=%v pending=%d", chime.Running(), clock.Pending())
	}
	if player.silences != 1 {
		t.Fatalf("expected reset to silence the player once, got %d", player.silences)
	}
	clock.Advance(time.Minute)
	if player.chimes != 3 {
		t.Fatalf("chime fired after reset: %d", player.chimes)
	}

	e.Close()
	if opens != 1 || player.closes != 1 {
		t.Fatalf("expected the player opened and closed once, opens=%d closes=%d", opens, player.closes)
	}
}
