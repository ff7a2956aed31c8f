package weapon

import (
	"iter"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/scheduler"
	"github.com/oomph-ac/frontline/world"
)

// State is the state of a weapon.
type State uint8

const (
	StateReady State = iota
	StateReloading
)

func (s State) String() string {
	if s == StateReloading {
		return "reloading"
	}
	return "ready"
}

// Config holds the properties of a weapon.
type Config struct {
	MaxAmmo        int
	FireInterval   time.Duration
	ReloadDuration time.Duration
	// Range is the maximum distance a shot travels.
	Range  float32
	Damage int
	// HitMarkerDuration is how long the hit marker stays visible after hitting a participant.
	HitMarkerDuration time.Duration
}

// DefaultConfig returns the properties of the standard rifle.
func DefaultConfig() Config {
	return Config{
		MaxAmmo:           30,
		FireInterval:      100 * time.Millisecond,
		ReloadDuration:    2000 * time.Millisecond,
		Range:             game.EffectiveRange,
		Damage:            20,
		HitMarkerDuration: 50 * time.Millisecond,
	}
}

// Weapon is the weapon held by the local player. Reloads and the hit marker are timed through the
// scheduler, so the weapon only changes state on the goroutine running it.
type Weapon struct {
	cfg   Config
	owner string
	sched *scheduler.Scheduler

	state     State
	ammo      int
	lastFire  time.Time
	fired     bool
	hitMarker bool
}

// New returns a loaded weapon held by the entity with the ID passed.
func New(cfg Config, owner string, sched *scheduler.Scheduler) *Weapon {
	return &Weapon{cfg: cfg, owner: owner, sched: sched, ammo: cfg.MaxAmmo}
}

// Config returns the properties of the weapon.
func (w *Weapon) Config() Config {
	return w.cfg
}

// State returns the current state of the weapon.
func (w *Weapon) State() State {
	return w.state
}

// Ammo returns the rounds left in the magazine.
func (w *Weapon) Ammo() int {
	return w.ammo
}

// HitMarker returns true while the feedback of a recent hit on a participant should be shown.
func (w *Weapon) HitMarker() bool {
	return w.hitMarker
}

// CanFire returns true if a shot fired at the time passed would be accepted.
func (w *Weapon) CanFire(now time.Time) bool {
	if w.state == StateReloading || w.ammo <= 0 {
		return false
	}
	return !w.fired || now.Sub(w.lastFire) >= w.cfg.FireInterval
}

// Fire fires a shot from origin along dir, which must be a unit vector. The shot is resolved against
// the targets and the world, and the nearest hit wins. The local player must not be among the targets.
// Fire returns false without changing anything if the weapon cannot fire yet. An accepted shot that
// empties the magazine starts a reload.
func (w *Weapon) Fire(now time.Time, origin, dir mgl32.Vec3, targets iter.Seq[*entity.Entity], wld *world.World) (Shot, bool) {
	if !w.CanFire(now) {
		return Shot{}, false
	}
	w.ammo--
	w.lastFire, w.fired = now, true

	shot := w.resolve(origin, dir, targets, wld)
	if shot.Kind == ShotEntity {
		w.hitMarker = true
		w.sched.Schedule(w.key(scheduler.KindHitMarker), now.Add(w.cfg.HitMarkerDuration), func() {
			w.hitMarker = false
		})
	}
	if w.ammo == 0 {
		w.Reload(now)
	}
	return shot, true
}

// resolve casts the ray of a shot and returns the nearest thing it hits.
func (w *Weapon) resolve(origin, dir mgl32.Vec3, targets iter.Seq[*entity.Entity], wld *world.World) Shot {
	shot := Shot{Kind: ShotMiss, Origin: origin, Direction: dir, Distance: w.cfg.Range}
	if wld != nil {
		if o, dist, point, ok := wld.Raycast(origin, dir, w.cfg.Range); ok {
			shot.Kind, shot.Distance, shot.Point = ShotWorld, dist, point
			shot.Normal = game.SurfaceNormal(o.Box, point)
		}
	}
	if targets == nil {
		return shot
	}
	for e := range targets {
		if e.Local() || !e.Alive() {
			continue
		}
		dist, point, ok := game.RayIntersect(game.EntityBBox(e.Position()), origin, dir, w.cfg.Range)
		if ok && dist <= shot.Distance {
			shot = Shot{Kind: ShotEntity, Origin: origin, Direction: dir, TargetID: e.ID(), Point: point, Distance: dist}
		}
	}
	return shot
}

// Reload starts reloading the weapon. It does nothing if the weapon is already reloading or full.
func (w *Weapon) Reload(now time.Time) {
	if w.state == StateReloading || w.ammo >= w.cfg.MaxAmmo {
		return
	}
	w.state = StateReloading
	w.sched.Schedule(w.key(scheduler.KindReload), now.Add(w.cfg.ReloadDuration), func() {
		w.ammo = w.cfg.MaxAmmo
		w.state = StateReady
	})
}

// Cancel stops a pending reload and clears the hit marker. The magazine is left as it is.
func (w *Weapon) Cancel() {
	w.sched.Cancel(w.key(scheduler.KindReload))
	w.sched.Cancel(w.key(scheduler.KindHitMarker))
	w.state = StateReady
	w.hitMarker = false
}

// Refill cancels anything pending and fills the magazine, as when the owner respawns.
func (w *Weapon) Refill() {
	w.Cancel()
	w.ammo = w.cfg.MaxAmmo
	w.fired = false
}

func (w *Weapon) key(kind scheduler.Kind) scheduler.Key {
	return scheduler.Key{Entity: w.owner, Kind: kind}
}
