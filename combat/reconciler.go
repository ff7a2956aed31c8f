package combat

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/oerror"
	"github.com/oomph-ac/frontline/protocol"
	"github.com/oomph-ac/frontline/scheduler"
	"github.com/sirupsen/logrus"
)

// Sender sends messages to the server.
type Sender interface {
	Send(msg protocol.Outbound) error
}

// Config holds the rules of the match applied by the reconciler.
type Config struct {
	// RespawnDelay is how long after dying the local player asks the server to respawn.
	RespawnDelay time.Duration
	// KillBonus is the score awarded for a kill.
	KillBonus int
	// HitScoreMultiplier scales the estimated damage of a hit into the score awarded for it.
	HitScoreMultiplier int
	// EstimateBaseDamage is the base damage used to estimate the damage of a hit.
	EstimateBaseDamage int
	SpawnPoints        SpawnPoints
	KillLog            KillLogConfig
}

// DefaultConfig returns the standard match rules.
func DefaultConfig() Config {
	return Config{
		RespawnDelay:       3 * time.Second,
		KillBonus:          50,
		HitScoreMultiplier: 2,
		EstimateBaseDamage: game.EstimateBaseDamage,
		SpawnPoints:        DefaultSpawnPoints(),
		KillLog:            DefaultKillLogConfig(),
	}
}

// Reconciler applies the combat events sent by the server to the participants. Health is only ever
// changed here, from server events: firing locally never changes the health of anyone.
type Reconciler struct {
	cfg      Config
	log      *logrus.Logger
	registry *entity.Registry
	sched    *scheduler.Scheduler
	sender   Sender
	kills    *KillLog

	// dead is true from the death of the local player until the server confirms its respawn.
	dead bool
}

// NewReconciler returns a reconciler applying events to the participants of registry.
func NewReconciler(cfg Config, log *logrus.Logger, registry *entity.Registry, sched *scheduler.Scheduler, sender Sender) *Reconciler {
	return &Reconciler{
		cfg:      cfg,
		log:      log,
		registry: registry,
		sched:    sched,
		sender:   sender,
		kills:    NewKillLog(cfg.KillLog, sched),
	}
}

// KillLog returns the kill log of the match.
func (r *Reconciler) KillLog() *KillLog {
	return r.kills
}

// LocalDead returns true while the local player is dead and waiting to respawn.
func (r *Reconciler) LocalDead() bool {
	return r.dead
}

// ApplyHit applies a hit reported by the server. Only a hit addressed to the local player changes its
// health. A hit dealt by the local player earns score in proportion to the damage it is estimated to
// have done. The error returned is terminal if the hit killed the local player.
func (r *Reconciler) ApplyHit(now time.Time, hit protocol.Hit) error {
	local, ok := r.registry.Local()
	if !ok {
		return nil
	}
	target, ok := r.registry.Get(hit.TargetID)
	if !ok {
		r.log.Debugf("hit on unknown participant %q", hit.TargetID)
		return nil
	}

	if target == local {
		if r.dead {
			return nil
		}
		if hit.Health != nil {
			local.SetHealth(*hit.Health)
		} else {
			local.Damage(hit.Damage)
		}
		if !local.Alive() {
			return r.localDeath(now, hit.ShooterID)
		}
		return nil
	}

	if hit.Health != nil {
		target.SetHealth(*hit.Health)
	}
	if hit.ShooterID == local.ID() {
		dist := target.Position().Sub(local.Position()).Len()
		local.AddScore(game.DamageAtDistance(r.cfg.EstimateBaseDamage, dist, game.EffectiveRange) * r.cfg.HitScoreMultiplier)
	}
	return nil
}

// ApplyDeath applies the death of a participant reported by the server. The error returned is terminal
// if the local player died.
func (r *Reconciler) ApplyDeath(now time.Time, death protocol.Death) error {
	local, ok := r.registry.Local()
	if ok && death.DeadID == local.ID() {
		if r.dead {
			return nil
		}
		local.SetHealth(0)
		return r.localDeath(now, death.KillerID)
	}

	dead, ok := r.registry.Get(death.DeadID)
	if !ok {
		r.log.Debugf("death of unknown participant %q", death.DeadID)
		return nil
	}
	dead.SetHealth(0)
	r.sched.CancelEntity(dead.ID())
	killer, ok := r.registry.Get(death.KillerID)
	if !ok {
		return nil
	}
	// A repeated notification of the same death is dropped by the kill log and pays nothing.
	if r.kills.Add(now, killer.Username(), dead.Username()) && killer.Local() {
		killer.AddScore(r.cfg.KillBonus)
	}
	return nil
}

// localDeath ends the life of the local player: the death is reported, the kill is logged and a
// respawn is requested once the respawn delay has passed.
func (r *Reconciler) localDeath(now time.Time, killerID string) error {
	local, _ := r.registry.Local()
	r.dead = true

	if killer, ok := r.registry.Get(killerID); ok && killer != local {
		killer.AddScore(r.cfg.KillBonus)
		r.kills.Add(now, killer.Username(), local.Username())
	}
	if err := r.sender.Send(protocol.DeathReport{KillerID: killerID, Timestamp: timestamp(now)}); err != nil {
		r.log.Warnf("unable to report death: %v", err)
	}

	at := now.Add(r.cfg.RespawnDelay)
	r.sched.Schedule(scheduler.Key{Entity: local.ID(), Kind: scheduler.KindRespawn}, at, func() {
		if err := r.sender.Send(protocol.RespawnRequest{Timestamp: timestamp(at)}); err != nil {
			r.log.Warnf("unable to request respawn: %v", err)
		}
	})
	return oerror.Newk(oerror.KindTerminal, game.ErrorLocalDeath, local.ID(), killerID)
}

// ApplyRespawn applies a respawn confirmed by the server. The participant is moved to the position
// given, or to its assigned spawn point, with full health and at rest. The participant respawned is
// returned so the caller can reset what it owns for it.
func (r *Reconciler) ApplyRespawn(respawned protocol.Respawned) (*entity.Entity, bool) {
	e, ok := r.registry.Get(respawned.PlayerID)
	if !ok {
		r.log.Debugf("respawn of unknown participant %q", respawned.PlayerID)
		return nil, false
	}
	pos := protocol.VecOr(respawned.Position, r.cfg.SpawnPoints.For(e.ID()))
	e.Respawn(pos)
	if e.Local() {
		r.dead = false
		r.sched.Cancel(scheduler.Key{Entity: e.ID(), Kind: scheduler.KindRespawn})
	}
	return e, true
}

// SpawnPoint returns the spawn point assigned to the participant with the ID passed.
func (r *Reconciler) SpawnPoint(id string) mgl32.Vec3 {
	return r.cfg.SpawnPoints.For(id)
}

// Reset forgets the death of the local player and clears the kill log, as when a new session starts.
func (r *Reconciler) Reset() {
	r.dead = false
	r.kills.Clear()
}

// timestamp converts a time into the millisecond timestamps used on the wire.
func timestamp(t time.Time) float64 {
	return float64(t.UnixMilli())
}
