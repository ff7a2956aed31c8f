package combat

import (
	"iter"
	"time"

	"github.com/oomph-ac/frontline/scheduler"
	"github.com/oomph-ac/frontline/utils"
	"github.com/zeebo/xxh3"
)

// killLogTask is the entity the kill log schedules its expiry under. The kill log belongs to the match,
// not to any participant, so it is never cancelled when a participant leaves.
const killLogTask = ""

// KillLogEntry is a single line of the kill log.
type KillLogEntry struct {
	Killer, Victim string
	CreatedAt      time.Time
	Expiry         time.Time
}

// KillLogConfig holds the timing of the kill log.
type KillLogConfig struct {
	Capacity int
	// Duration is how long an entry is shown.
	Duration time.Duration
	// DedupeWindow is the window within which a second entry for the same killer and victim is dropped.
	DedupeWindow time.Duration
	// MinSpacing is the minimum time between any two entries. Entries arriving faster are dropped.
	MinSpacing time.Duration
}

// DefaultKillLogConfig returns the standard kill log timing.
func DefaultKillLogConfig() KillLogConfig {
	return KillLogConfig{
		Capacity:     16,
		Duration:     5 * time.Second,
		DedupeWindow: 100 * time.Millisecond,
		MinSpacing:   100 * time.Millisecond,
	}
}

// KillLog is the bounded list of recent kills shown to the player.
type KillLog struct {
	cfg     KillLogConfig
	sched   *scheduler.Scheduler
	entries *utils.CircularQueue[KillLogEntry]

	// recent holds the time the last entry for every killer and victim pair was added.
	recent map[uint64]time.Time
	last   time.Time

	onAdd func(KillLogEntry)
}

// NewKillLog returns an empty kill log expiring its entries through sched.
func NewKillLog(cfg KillLogConfig, sched *scheduler.Scheduler) *KillLog {
	return &KillLog{
		cfg:     cfg,
		sched:   sched,
		entries: utils.NewCircularQueue[KillLogEntry](max(cfg.Capacity, 1)),
		recent:  make(map[uint64]time.Time),
	}
}

// Add adds an entry for a kill. It returns false if the entry was dropped as a duplicate or because it
// arrived too soon after the previous entry.
func (l *KillLog) Add(now time.Time, killer, victim string) bool {
	if !l.last.IsZero() && now.Sub(l.last) < l.cfg.MinSpacing {
		return false
	}
	for k, at := range l.recent {
		if now.Sub(at) >= l.cfg.DedupeWindow {
			delete(l.recent, k)
		}
	}
	key := pairKey(killer, victim)
	if _, ok := l.recent[key]; ok {
		return false
	}
	l.recent[key], l.last = now, now

	entry := KillLogEntry{Killer: killer, Victim: victim, CreatedAt: now, Expiry: now.Add(l.cfg.Duration)}
	l.entries.Append(entry)
	if !l.sched.Pending(l.key()) {
		l.scheduleExpiry()
	}
	if l.onAdd != nil {
		l.onAdd(entry)
	}
	return true
}

// OnAdd sets a function called with every entry added to the log.
func (l *KillLog) OnAdd(fn func(KillLogEntry)) {
	l.onAdd = fn
}

// Expire removes every entry whose display window ended at or before now and returns how many were removed.
func (l *KillLog) Expire(now time.Time) int {
	n := 0
	for {
		e, ok := l.entries.Front()
		if !ok || e.Expiry.After(now) {
			break
		}
		l.entries.Pop()
		n++
	}
	return n
}

// scheduleExpiry schedules the removal of the oldest entry. Entries share a single display duration, so
// they expire in the order they were added and one pending task is enough.
func (l *KillLog) scheduleExpiry() {
	front, ok := l.entries.Front()
	if !ok {
		return
	}
	l.sched.Schedule(l.key(), front.Expiry, func() {
		l.Expire(front.Expiry)
		l.scheduleExpiry()
	})
}

// Entries iterates the entries from oldest to newest.
func (l *KillLog) Entries() iter.Seq[KillLogEntry] {
	return l.entries.All()
}

// Len returns the number of entries shown.
func (l *KillLog) Len() int {
	return l.entries.Len()
}

// Clear removes every entry and cancels the pending expiry.
func (l *KillLog) Clear() {
	l.entries.Clear()
	clear(l.recent)
	l.last = time.Time{}
	l.sched.Cancel(l.key())
}

func (l *KillLog) key() scheduler.Key {
	return scheduler.Key{Entity: killLogTask, Kind: scheduler.KindKillLogExpiry}
}

// pairKey hashes a killer and victim pair. The separator keeps ("ab", "c") and ("a", "bc") apart.
func pairKey(killer, victim string) uint64 {
	return xxh3.HashString(killer + "\x00" + victim)
}
