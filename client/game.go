package client

import (
	"iter"
	"strings"
	"time"

	"github.com/oomph-ac/frontline/combat"
	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/player"
	"github.com/oomph-ac/frontline/protocol"
	"github.com/oomph-ac/frontline/scheduler"
	"github.com/oomph-ac/frontline/session"
	"github.com/oomph-ac/frontline/utils"
	"github.com/oomph-ac/frontline/weapon"
	"github.com/oomph-ac/frontline/world"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Session is the connection a game is played over. *session.Session implements it.
type Session interface {
	Username() string
	Inbox() <-chan session.Event
	Send(msg protocol.Outbound) error
	SendUpdate(now time.Time, u protocol.StateUpdate) bool
}

// Game is a single match as seen by the local player. Everything in it is owned by the goroutine calling
// Frame: network events are only applied from there.
type Game struct {
	cfg  Config
	log  *logrus.Logger
	sess Session

	registry   *entity.Registry
	sched      *scheduler.Scheduler
	world      *world.World
	reconciler *combat.Reconciler
	decals     *utils.CircularQueue[Decal]

	// controller and weapon are set once the server started the game.
	controller *player.Controller
	weapon     *weapon.Weapon
	lastHit    HitFeedback

	over bool
}

// New returns a game played over sess. The game starts once the server sends the start event.
func New(cfg Config, log *logrus.Logger, sess Session) *Game {
	if cfg.NewInterpolator == nil {
		cfg.NewInterpolator = entity.DefaultInterpolator
	}
	g := &Game{
		cfg:      cfg,
		log:      log,
		sess:     sess,
		registry: entity.NewRegistry(),
		sched:    scheduler.New(),
		world:    world.Default(),
		decals:   utils.NewCircularQueue[Decal](max(cfg.DecalCapacity, 1)),
	}
	g.reconciler = combat.NewReconciler(cfg.Combat, log, g.registry, g.sched, sess)
	return g
}

// Started returns true once the server started the game.
func (g *Game) Started() bool {
	return g.controller != nil
}

// Over returns true if the game ended and Frame does nothing anymore.
func (g *Game) Over() bool {
	return g.over
}

// Registry returns the participants of the game.
func (g *Game) Registry() *entity.Registry {
	return g.registry
}

// World returns the static geometry of the game.
func (g *Game) World() *world.World {
	return g.world
}

// Local returns the local player, if the game started.
func (g *Game) Local() (*entity.Entity, bool) {
	return g.registry.Local()
}

// LocalDead returns true while the local player waits to respawn.
func (g *Game) LocalDead() bool {
	return g.reconciler.LocalDead()
}

// Weapon returns the weapon of the local player, or nil if the game did not start yet.
func (g *Game) Weapon() *weapon.Weapon {
	return g.weapon
}

// LastHit returns the last hit of the local player on another participant. It returns false once the
// hit marker of that hit is no longer shown.
func (g *Game) LastHit() (HitFeedback, bool) {
	return g.lastHit, g.weapon != nil && g.weapon.HitMarker()
}

// KillLog returns the recent kills of the game.
func (g *Game) KillLog() *combat.KillLog {
	return g.reconciler.KillLog()
}

// Decals iterates the impacts of shots on the world, oldest first.
func (g *Game) Decals() iter.Seq[Decal] {
	return g.decals.All()
}

// ScoreEntry is a row of the scoreboard.
type ScoreEntry struct {
	ID       string
	Username string
	Score    int
	Local    bool
}

// Scoreboard returns every participant sorted by score, highest first. Ties are sorted by username.
func (g *Game) Scoreboard() []ScoreEntry {
	entries := make([]ScoreEntry, 0, g.registry.Len())
	for e := range g.registry.All() {
		entries = append(entries, ScoreEntry{ID: e.ID(), Username: e.Username(), Score: e.Score(), Local: e.Local()})
	}
	slices.SortStableFunc(entries, func(a, b ScoreEntry) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return strings.Compare(a.Username, b.Username)
	})
	return entries
}

// Frame advances the game to now. Events received since the last frame are applied first, then timed
// effects run, then the local player is moved by delta seconds of input and remote participants are
// interpolated. The error returned is one of the errors of this package; see Over to learn if the game
// can go on.
func (g *Game) Frame(now time.Time, delta float32, in player.Input) error {
	if g.over {
		return nil
	}
	var result error
	inbox := g.sess.Inbox()
	for n := len(inbox); n > 0; n-- {
		if err := g.handle(now, <-inbox); err != nil {
			result = err
			if g.over {
				return err
			}
		}
	}

	g.sched.Run(now)
	if g.controller != nil && !g.reconciler.LocalDead() {
		g.simulate(now, delta, in)
	}

	nowMs := now.UnixMilli()
	for e := range g.registry.Remotes() {
		e.Interpolate(nowMs)
	}
	return result
}

// simulate moves the local player, fires its weapon and sends its state.
func (g *Game) simulate(now time.Time, delta float32, in player.Input) {
	local := g.controller.Entity()
	g.controller.Tick(delta, in)
	if g.cfg.Unstick && g.controller.Stuck(g.registry.Remotes()) {
		spawn := g.reconciler.SpawnPoint(local.ID())
		g.log.Debugf("local player stuck at %v, moving back to %v", local.Position(), spawn)
		g.controller.Reset(spawn)
	}

	if in.Reload {
		g.weapon.Reload(now)
	}
	if in.Fire {
		g.fire(now, local)
	}

	yaw, pitch := local.Rotation()
	g.sess.SendUpdate(now, protocol.StateUpdate{
		Position:  protocol.FromVec(local.Position()),
		Rotation:  protocol.Vec3{X: pitch, Y: yaw},
		Velocity:  protocol.FromVec(local.Velocity()),
		Timestamp: float64(now.UnixMilli()),
	})
}

// fire fires the weapon of the local player along the direction it is looking in. A hit on a participant
// is reported to the server, which decides the damage.
func (g *Game) fire(now time.Time, local *entity.Entity) {
	yaw, pitch := local.Rotation()
	shot, ok := g.weapon.Fire(now, local.Position(), game.DirectionVector(yaw, pitch), g.registry.Remotes(), g.world)
	if !ok {
		return
	}
	switch shot.Kind {
	case weapon.ShotEntity:
		g.lastHit = HitFeedback{TargetID: shot.TargetID, Damage: shot.EstimatedDamage(g.weapon.Config().Damage), At: now}
		if err := g.sess.Send(protocol.Shoot{TargetID: shot.TargetID, Timestamp: float64(now.UnixMilli())}); err != nil {
			g.log.Warnf("unable to report hit on %s: %v", shot.TargetID, err)
		}
	case weapon.ShotWorld:
		g.decals.Append(Decal{Point: shot.Point, Normal: shot.Normal, At: now})
	}
}
