package combat

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/oerror"
	"github.com/oomph-ac/frontline/protocol"
	"github.com/oomph-ac/frontline/scheduler"
	"github.com/sirupsen/logrus"
)

type recordingSender struct {
	sent []protocol.Outbound
}

func (s *recordingSender) Send(msg protocol.Outbound) error {
	s.sent = append(s.sent, msg)
	return nil
}

func ms(v int64) time.Time {
	return time.UnixMilli(v)
}

func intPtr(v int) *int {
	return &v
}

type fixture struct {
	registry *entity.Registry
	sched    *scheduler.Scheduler
	sender   *recordingSender
	r        *Reconciler
	local    *entity.Entity
	bob      *entity.Entity
}

func newFixture() *fixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{registry: entity.NewRegistry(), sched: scheduler.New(), sender: &recordingSender{}}
	f.local = entity.NewLocal("me", "alice", mgl32.Vec3{0, game.EyeHeight, 0})
	f.bob = entity.NewRemote("bob", "bob", mgl32.Vec3{0, game.EyeHeight, -10}, entity.DefaultInterpolator())
	f.registry.Add(f.local)
	f.registry.Add(f.bob)
	f.r = NewReconciler(DefaultConfig(), log, f.registry, f.sched, f.sender)
	return f
}

func TestHitOnlyDamagesTarget(t *testing.T) {
	f := newFixture()

	if err := f.r.ApplyHit(ms(0), protocol.Hit{TargetID: "bob", ShooterID: "carol", Damage: 30}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.local.Health() != game.MaxHealth {
		t.Fatalf("expected a hit on someone else to leave local health at %d, got %d", game.MaxHealth, f.local.Health())
	}

	f.r.ApplyHit(ms(0), protocol.Hit{TargetID: "me", ShooterID: "bob", Damage: 30})
	if f.local.Health() != 70 {
		t.Fatalf("expected local health 70, got %d", f.local.Health())
	}
	f.r.ApplyHit(ms(0), protocol.Hit{TargetID: "me", ShooterID: "bob", Damage: 5, Health: intPtr(55)})
	if f.local.Health() != 55 {
		t.Fatalf("expected the authoritative health 55 to win, got %d", f.local.Health())
	}
}

func TestLocalDeath(t *testing.T) {
	f := newFixture()

	err := f.r.ApplyHit(ms(1000), protocol.Hit{TargetID: "me", ShooterID: "bob", Damage: 500})
	if !errors.Is(err, oerror.ErrTerminal) {
		t.Fatalf("expected a terminal error, got %v", err)
	}
	if f.local.Health() != 0 || !f.r.LocalDead() {
		t.Fatalf("expected the local player to be dead with 0 health, got %d", f.local.Health())
	}
	if f.bob.Score() != 50 || f.r.KillLog().Len() != 1 {
		t.Fatalf("expected the killer to be credited and logged")
	}
	if len(f.sender.sent) != 1 || f.sender.sent[0].Event() != protocol.EventDeathReport {
		t.Fatalf("expected the death to be reported, got %v", f.sender.sent)
	}

	// A late death notification for the same death changes nothing.
	if err := f.r.ApplyDeath(ms(1050), protocol.Death{DeadID: "me", KillerID: "bob"}); err != nil {
		t.Fatalf("expected a repeated death to be ignored, got %v", err)
	}

	f.sched.Run(ms(3999))
	if len(f.sender.sent) != 1 {
		t.Fatalf("expected no respawn request before the delay")
	}
	f.sched.Run(ms(4000))
	if len(f.sender.sent) != 2 || f.sender.sent[1].Event() != protocol.EventRespawn {
		t.Fatalf("expected a respawn request 3s after death, got %v", f.sender.sent)
	}
}

func TestShooterScore(t *testing.T) {
	f := newFixture()
	f.r.ApplyHit(ms(0), protocol.Hit{TargetID: "bob", ShooterID: "me", Damage: 5})

	// floor(5 * (1 - 10/100 * 0.5)) = 4, doubled.
	if f.local.Score() != 8 {
		t.Fatalf("expected a score of 8, got %d", f.local.Score())
	}
	if f.local.Health() != game.MaxHealth {
		t.Fatalf("expected firing not to change local health")
	}
}

func TestRemoteDeath(t *testing.T) {
	f := newFixture()

	if err := f.r.ApplyDeath(ms(0), protocol.Death{DeadID: "bob", KillerID: "me"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	f.r.ApplyDeath(ms(50), protocol.Death{DeadID: "bob", KillerID: "me"})

	if f.bob.Health() != 0 {
		t.Fatalf("expected bob to have no health, got %d", f.bob.Health())
	}
	if f.r.KillLog().Len() != 1 {
		t.Fatalf("expected a single kill log entry, got %d", f.r.KillLog().Len())
	}
	for e := range f.r.KillLog().Entries() {
		if e.Killer != "alice" || e.Victim != "bob" {
			t.Fatalf("expected alice to have killed bob, got %+v", e)
		}
	}
	if f.local.Score() != 50 {
		t.Fatalf("expected a single kill bonus, got %d", f.local.Score())
	}
}

func TestDeathAfterBatchState(t *testing.T) {
	f := newFixture()
	f.bob.Push(entity.Snapshot{Health: 0, HasHealth: true})

	if err := f.r.ApplyDeath(ms(1000), protocol.Death{DeadID: "bob", KillerID: "me"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.local.Score() != 50 {
		t.Fatalf("expected the kill bonus for a victim already at 0 health, got %d", f.local.Score())
	}
	if f.r.KillLog().Len() != 1 {
		t.Fatalf("expected the kill to be logged, got %d entries", f.r.KillLog().Len())
	}

	f.r.ApplyDeath(ms(1050), protocol.Death{DeadID: "bob", KillerID: "me"})
	if f.local.Score() != 50 || f.r.KillLog().Len() != 1 {
		t.Fatalf("expected a repeated death within 100ms to be ignored, got score %d", f.local.Score())
	}
	f.r.ApplyDeath(ms(5000), protocol.Death{DeadID: "bob", KillerID: "me"})
	if f.local.Score() != 100 || f.r.KillLog().Len() != 2 {
		t.Fatalf("expected a later death to be credited again, got score %d", f.local.Score())
	}
}

func TestKillLogDedupe(t *testing.T) {
	sched := scheduler.New()
	cfg := DefaultKillLogConfig()
	cfg.MinSpacing = 0
	l := NewKillLog(cfg, sched)

	if !l.Add(ms(0), "a", "b") {
		t.Fatalf("expected the first entry to be added")
	}
	if l.Add(ms(50), "a", "b") {
		t.Fatalf("expected a duplicate within 100ms to be dropped")
	}
	if !l.Add(ms(60), "c", "d") {
		t.Fatalf("expected another pair to be added")
	}
	if !l.Add(ms(150), "a", "b") {
		t.Fatalf("expected the same pair to be added again after 100ms")
	}

	sched.Run(ms(5000))
	if l.Len() != 2 {
		t.Fatalf("expected the first entry to expire after 5s, got %d entries", l.Len())
	}
	sched.Run(ms(5150))
	if l.Len() != 0 || sched.Len() != 0 {
		t.Fatalf("expected every entry to have expired, got %d", l.Len())
	}
}

func TestKillLogSpacing(t *testing.T) {
	l := NewKillLog(DefaultKillLogConfig(), scheduler.New())
	l.Add(ms(0), "a", "b")
	if l.Add(ms(50), "c", "d") {
		t.Fatalf("expected an entry within 100ms of the previous one to be dropped")
	}
	if !l.Add(ms(100), "c", "d") {
		t.Fatalf("expected an entry 100ms after the previous one to be added")
	}
}

func TestRespawn(t *testing.T) {
	f := newFixture()
	f.r.ApplyDeath(ms(0), protocol.Death{DeadID: "me", KillerID: "bob"})

	e, ok := f.r.ApplyRespawn(protocol.Respawned{PlayerID: "me", Position: &protocol.Vec3{X: 3, Y: 5, Z: 4}})
	if !ok || e != f.local {
		t.Fatalf("expected the local player to respawn")
	}
	if f.local.Health() != game.MaxHealth || f.local.Position() != (mgl32.Vec3{3, 5, 4}) {
		t.Fatalf("expected full health at (3, 5, 4), got %d at %v", f.local.Health(), f.local.Position())
	}
	if f.r.LocalDead() || f.sched.Pending(scheduler.Key{Entity: "me", Kind: scheduler.KindRespawn}) {
		t.Fatalf("expected the respawn to end the death of the local player")
	}

	f.bob.SetHealth(0)
	f.bob.SetVelocity(mgl32.Vec3{1, 0, 0})
	f.r.ApplyRespawn(protocol.Respawned{PlayerID: "bob"})
	if f.bob.Position() != f.r.SpawnPoint("bob") || f.bob.Velocity() != (mgl32.Vec3{}) {
		t.Fatalf("expected bob at rest at the assigned spawn point, got %v", f.bob.Position())
	}
	if _, ok := f.r.ApplyRespawn(protocol.Respawned{PlayerID: "nobody"}); ok {
		t.Fatalf("expected the respawn of an unknown participant to be ignored")
	}
}

func TestSpawnPointsStable(t *testing.T) {
	points := DefaultSpawnPoints()
	if points.For("bob") != points.For("bob") {
		t.Fatalf("expected the same participant to get the same spawn point")
	}
	if (SpawnPoints{}).For("bob") != (mgl32.Vec3{0, game.EyeHeight, 0}) {
		t.Fatalf("expected the centre without spawn points")
	}
}

func TestKillLogOnAdd(t *testing.T) {
	l := NewKillLog(DefaultKillLogConfig(), scheduler.New())
	var seen []KillLogEntry
	l.OnAdd(func(e KillLogEntry) {
		seen = append(seen, e)
	})
	l.Add(ms(0), "alice", "bob")
	l.Add(ms(10), "carol", "dave")
	if len(seen) != 1 || seen[0].Killer != "alice" || seen[0].Victim != "bob" {
		t.Fatalf("expected only the entry kept to be seen, got %v", seen)
	}
}
