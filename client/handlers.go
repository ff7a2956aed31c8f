package client

import (
	"time"

	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/oerror"
	"github.com/oomph-ac/frontline/player"
	"github.com/oomph-ac/frontline/protocol"
	"github.com/oomph-ac/frontline/session"
	"github.com/oomph-ac/frontline/weapon"
	"github.com/oomph-ac/frontline/world"
	"golang.org/x/exp/slices"
)

// handle applies an event of the session. Every handler leaves the participants consistent before it
// returns, whether it fails or not.
func (g *Game) handle(now time.Time, ev session.Event) error {
	switch ev := ev.(type) {
	case session.Connected:
		if ev.Reconnect {
			g.log.Infof("reconnected as %s", g.sess.Username())
		}
	case session.Disconnected:
		g.log.Warnf("connection lost, reconnecting: %v", ev.Err)
	case session.Reconnecting:
		g.log.Infof("reconnect attempt %d", ev.Attempt)
	case session.ConnectFailed:
		g.over = true
		return wrap(ErrConnectionLost, ev.Err)
	case session.Failed:
		g.over = true
		return wrap(ErrConnectionLost, ev.Err)
	case session.Closed:
		g.over = true
		return wrap(ErrDisconnected, oerror.Newk(oerror.KindTerminal, game.ErrorServerDisconnect, ev.Reason))
	case session.Message:
		return g.handleMessage(now, ev.Msg)
	}
	return nil
}

func (g *Game) handleMessage(now time.Time, msg protocol.Inbound) error {
	switch msg := msg.(type) {
	case protocol.Start:
		g.start(msg)
	case protocol.Joined:
		g.handleJoined(msg)
	case protocol.Roster:
		return g.handleRoster(now, msg)
	case protocol.Left:
		g.handleLeft(msg)
	case protocol.Update:
		g.handleUpdate(now, msg)
	case protocol.BatchState:
		g.handleBatch(now, msg)
	case protocol.Hit:
		if err := g.reconciler.ApplyHit(now, msg); err != nil {
			return wrap(ErrLocalDeath, err)
		}
	case protocol.Death:
		if err := g.reconciler.ApplyDeath(now, msg); err != nil {
			return wrap(ErrLocalDeath, err)
		}
	case protocol.Respawned:
		g.handleRespawned(msg)
	case protocol.Disconnect:
		g.over = true
		return wrap(ErrDisconnected, oerror.Newk(oerror.KindTerminal, game.ErrorServerDisconnect, msg.Reason))
	}
	return nil
}

// start sets the game up for the local player assigned by the server. A start received on a game that
// already started, as after a reconnect, starts over from scratch.
func (g *Game) start(msg protocol.Start) {
	if g.Started() {
		g.log.Infof("game restarted by server")
		g.sched.Clear()
		g.registry.Clear()
		g.reconciler.Reset()
		g.decals.Clear()
	}

	g.world = world.Default()
	if msg.Terrain != nil {
		g.world = world.FromTerrain(*msg.Terrain)
	}

	pos := protocol.VecOr(msg.Position, g.reconciler.SpawnPoint(msg.PlayerID))
	local := entity.NewLocal(msg.PlayerID, g.sess.Username(), pos)
	if msg.Health != nil {
		local.SetHealth(*msg.Health)
	}
	g.registry.Add(local)
	g.controller = player.NewController(g.cfg.Movement, g.log, local, g.world)
	g.weapon = weapon.New(g.cfg.Weapon, local.ID(), g.sched)
	g.log.Infof("game started as %s (%s) at %v with %d objects", local.Username(), local.ID(), pos, g.world.Len())
}

// remote returns the remote participant with the id passed, adding it if it is not known yet. It returns
// false for the local player.
func (g *Game) remote(id, username string, pos *protocol.Vec3) (*entity.Entity, bool) {
	if id == g.registry.LocalID() {
		return nil, false
	}
	if e, ok := g.registry.Get(id); ok {
		if username != "" {
			e.SetUsername(username)
		}
		return e, true
	}
	e := entity.NewRemote(id, username, protocol.VecOr(pos, g.reconciler.SpawnPoint(id)), g.cfg.NewInterpolator())
	g.registry.Add(e)
	g.log.Debugf("%s (%s) joined", username, id)
	return e, true
}

func (g *Game) handleJoined(msg protocol.Joined) {
	e, ok := g.remote(msg.PlayerID, msg.Username, msg.Position)
	if ok && msg.Health != nil {
		e.SetHealth(*msg.Health)
	}
}

// handleRoster replaces the membership of the game by the roster. The roster must hold the local player:
// if it does not, the server lost track of it and the game is over.
func (g *Game) handleRoster(now time.Time, roster protocol.Roster) error {
	if !g.Started() {
		g.log.Debugf("ignoring roster received before start")
		return nil
	}
	localID := g.registry.LocalID()
	if _, ok := roster[localID]; !ok {
		g.over = true
		return wrap(ErrDesync, oerror.Newk(oerror.KindDesync, game.ErrorLocalMissing, localID))
	}

	for _, id := range g.registry.IDs() {
		if _, ok := roster[id]; !ok && id != localID {
			g.removeRemote(id)
		}
	}
	nowMs := now.UnixMilli()
	for _, id := range sortedIDs(roster) {
		st := roster[id]
		e, ok := g.remote(id, st.Username, st.Position)
		if !ok {
			continue
		}
		e.Push(snapshotOf(id, st, nowMs))
	}
	return nil
}

func (g *Game) handleLeft(msg protocol.Left) {
	if msg.PlayerID == g.registry.LocalID() {
		return
	}
	g.removeRemote(msg.PlayerID)
}

func (g *Game) removeRemote(id string) {
	if e, ok := g.registry.Remove(id); ok {
		g.sched.CancelEntity(id)
		g.log.Debugf("%s (%s) left", e.Username(), id)
	}
}

func (g *Game) handleUpdate(now time.Time, msg protocol.Update) {
	if msg.PlayerID == g.registry.LocalID() {
		return
	}
	e, ok := g.registry.Get(msg.PlayerID)
	if !ok {
		g.log.Debugf("update for unknown participant %q", msg.PlayerID)
		return
	}
	e.Push(updateSnapshot(msg, now.UnixMilli()))
}

// handleBatch applies the periodic state of every participant. Participants not known yet are added.
// Only the score of the local player is taken from the batch: the local simulation is authoritative for
// its motion and hits for its health.
func (g *Game) handleBatch(now time.Time, batch protocol.BatchState) {
	nowMs := now.UnixMilli()
	for _, id := range sortedIDs(batch) {
		st := batch[id]
		if id == g.registry.LocalID() {
			if local, ok := g.registry.Local(); ok && st.Score != nil {
				local.SetScore(*st.Score)
			}
			continue
		}
		e, ok := g.remote(id, st.Username, st.Position)
		if !ok {
			continue
		}
		e.Push(snapshotOf(id, st, nowMs))
	}
}

func (g *Game) handleRespawned(msg protocol.Respawned) {
	e, ok := g.reconciler.ApplyRespawn(msg)
	if !ok || !e.Local() || g.controller == nil {
		return
	}
	g.controller.Reset(e.Position())
	g.weapon.Refill()
	g.log.Infof("respawned at %v", e.Position())
}

// sortedIDs returns the ids of a roster or batch in a stable order, so that participants unknown so far
// are added in the same order every time.
func sortedIDs(states map[string]protocol.PlayerState) []string {
	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
