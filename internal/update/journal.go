package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/sunrise/internal/storage"
	"github.com/sandeepkv93/sunrise/internal/timer"
)

const journalTimeout = 2 * time.Second

func (m *Model) onSessionCompleted(n int) {
	if m.Timer != nil {
		m.recordSession(m.Timer.State(), true)
	}
	body := fmt.Sprintf("session %d complete", n)
	m.setStatus(body, false)
	m.notify("Sunrise", body, "info")
	m.log.Info("session completed", "sessions", n)
}

// recordSession journals st as completed or abandoned. Journal failures are
// logged and otherwise ignored.
func (m *Model) recordSession(st timer.State, completed bool) {
	if m.Journal == nil {
		return
	}
	s := storage.Session{
		Number:      st.SessionsCompleted,
		Kind:        storage.KindAbandoned,
		DurationSec: st.DurationSeconds,
		ElapsedSec:  st.DurationSeconds - st.RemainingSeconds,
		FinishedAt:  m.now(),
	}
	if completed {
		s.Kind = storage.KindCompleted
		s.ElapsedSec = st.DurationSeconds
	}
	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()
	if _, err := m.Journal.RecordSession(ctx, s); err != nil {
		m.LastError = err
		m.log.Warn("journal write failed", "kind", s.Kind, "err", err)
	}
}

func (m *Model) statsLine() (string, error) {
	if m.Journal == nil {
		return "", fmt.Errorf("session journal unavailable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()
	sum, err := m.Journal.Summarize(ctx, startOfDay(m.now()))
	if err != nil {
		return "", err
	}
	focus := time.Duration(sum.FocusSeconds) * time.Second
	return fmt.Sprintf("today: %d completed, %d abandoned, %s focused", sum.Completed, sum.Abandoned, focus.Round(time.Minute)), nil
}

// historyLine lists the newest limit sessions finished today, oldest first.
func (m *Model) historyLine(limit int, kind storage.SessionKind) (string, error) {
	if m.Journal == nil {
		return "", fmt.Errorf("session journal unavailable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()
	since := startOfDay(m.now())
	sum, err := m.Journal.Summarize(ctx, since)
	if err != nil {
		return "", err
	}
	total := sum.Completed + sum.Abandoned
	switch kind {
	case storage.KindCompleted:
		total = sum.Completed
	case storage.KindAbandoned:
		total = sum.Abandoned
	}
	offset := 0
	if total > limit {
		offset = total - limit
	}
	sessions, err := m.Journal.ListSessions(ctx, storage.SessionListFilter{
		Since:  &since,
		Kind:   kind,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "history: no sessions today", nil
	}
	loc := m.now().Location()
	parts := make([]string, 0, len(sessions))
	for _, s := range sessions {
		parts = append(parts, fmt.Sprintf("%s %s %s", s.FinishedAt.In(loc).Format("15:04"), s.Kind, timer.Format(s.ElapsedSec)))
	}
	return "history: " + strings.Join(parts, ", "), nil
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
