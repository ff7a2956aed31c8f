package client

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/oerror"
	"github.com/oomph-ac/frontline/player"
	"github.com/oomph-ac/frontline/protocol"
	"github.com/oomph-ac/frontline/session"
	"github.com/oomph-ac/frontline/weapon"
	"github.com/sirupsen/logrus"
)

type fakeSession struct {
	inbox   chan session.Event
	sent    []protocol.Outbound
	updates []protocol.StateUpdate
}

func newFakeSession() *fakeSession {
	return &fakeSession{inbox: make(chan session.Event, 64)}
}

func (s *fakeSession) Username() string            { return "alice" }
func (s *fakeSession) Inbox() <-chan session.Event { return s.inbox }

func (s *fakeSession) Send(msg protocol.Outbound) error {
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSession) SendUpdate(_ time.Time, u protocol.StateUpdate) bool {
	s.updates = append(s.updates, u)
	return true
}

func (s *fakeSession) deliver(msgs ...protocol.Inbound) {
	for _, msg := range msgs {
		s.inbox <- session.Message{Msg: msg}
	}
}

func (s *fakeSession) sentOf(event string) []protocol.Outbound {
	var out []protocol.Outbound
	for _, msg := range s.sent {
		if msg.Event() == event {
			out = append(out, msg)
		}
	}
	return out
}

func vec(x, y, z float32) *protocol.Vec3 {
	return &protocol.Vec3{X: x, Y: y, Z: z}
}

var epoch = time.UnixMilli(1_700_000_000_000)

// startedGame returns a game where alice plays as "me" at the origin, facing bob 10 blocks away.
func startedGame(t *testing.T, terrain *protocol.Terrain) (*Game, *fakeSession) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	sess := newFakeSession()
	g := New(DefaultConfig(), log, sess)

	sess.deliver(
		protocol.Start{PlayerID: "me", Position: vec(0, game.EyeHeight, 0), Terrain: terrain},
		protocol.Joined{PlayerID: "bob", Username: "bob", Position: vec(0, game.EyeHeight, -10)},
	)
	if err := g.Frame(epoch, 0.016, player.Input{}); err != nil {
		t.Fatalf("expected the game to start, got %v", err)
	}
	if !g.Started() || g.Registry().Len() != 2 {
		t.Fatalf("expected 2 participants after starting, got %d", g.Registry().Len())
	}
	return g, sess
}

func TestStart(t *testing.T) {
	g, sess := startedGame(t, nil)
	local, ok := g.Local()
	if !ok || local.ID() != "me" || local.Username() != "alice" {
		t.Fatalf("expected alice to be the local player")
	}
	if g.World().Len() == 0 {
		t.Fatalf("expected the default world without a terrain")
	}
	if len(sess.updates) != 1 {
		t.Fatalf("expected the state of the local player to be offered once per frame, got %d", len(sess.updates))
	}

	g, _ = startedGame(t, &protocol.Terrain{Obstacles: []protocol.Box{{Position: protocol.Vec3{Z: -5}, Size: protocol.Vec3{X: 1, Y: 1, Z: 1}}}})
	if g.World().Len() != 1 {
		t.Fatalf("expected the world of the terrain, got %d objects", g.World().Len())
	}
}

func TestRosterWithoutLocalPlayer(t *testing.T) {
	g, sess := startedGame(t, nil)
	sess.deliver(protocol.Roster{"bob": {Username: "bob"}})

	err := g.Frame(epoch.Add(time.Second), 0.016, player.Input{})
	if !errors.Is(err, ErrDesync) || !errors.Is(err, oerror.ErrDesync) {
		t.Fatalf("expected a desync, got %v", err)
	}
	if !g.Over() {
		t.Fatalf("expected the game to be over")
	}
	if err := g.Frame(epoch.Add(2*time.Second), 0.016, player.Input{}); err != nil {
		t.Fatalf("expected a game over to do nothing, got %v", err)
	}
}

func TestRosterReplacesMembership(t *testing.T) {
	g, sess := startedGame(t, nil)
	sess.deliver(protocol.Roster{
		"me":    {Username: "alice"},
		"carol": {Username: "carol", Position: vec(5, game.EyeHeight, 5)},
	})
	if err := g.Frame(epoch.Add(time.Second), 0.016, player.Input{}); err != nil {
		t.Fatalf("expected the roster to be applied, got %v", err)
	}
	if _, ok := g.Registry().Get("bob"); ok {
		t.Fatalf("expected bob to be removed as they are not in the roster")
	}
	if _, ok := g.Registry().Get("carol"); !ok {
		t.Fatalf("expected carol to be added")
	}
}

func TestBatchState(t *testing.T) {
	g, sess := startedGame(t, nil)
	health, score, localScore := 40, 120, 75
	sess.deliver(protocol.BatchState{
		"me":    {Position: vec(30, 10, 30), Health: &health, Score: &localScore},
		"carol": {Username: "carol", Position: vec(5, game.EyeHeight, 5), Health: &health, Score: &score},
	})
	if err := g.Frame(epoch.Add(time.Second), 0.016, player.Input{}); err != nil {
		t.Fatalf("expected the batch to be applied, got %v", err)
	}
	local, _ := g.Local()
	if local.Position().Sub(mgl32.Vec3{0, game.EyeHeight, 0}).Len() > 0.01 || local.Health() != game.MaxHealth {
		t.Fatalf("expected the local player to be left alone, got %v with %d health", local.Position(), local.Health())
	}
	if local.Score() != 75 {
		t.Fatalf("expected the authoritative local score 75, got %d", local.Score())
	}
	carol, ok := g.Registry().Get("carol")
	if !ok {
		t.Fatalf("expected carol to be added from the batch")
	}
	if carol.Health() != 40 || carol.Score() != 120 {
		t.Fatalf("expected health 40 and score 120, got %d and %d", carol.Health(), carol.Score())
	}
}

func TestRemoteInterpolation(t *testing.T) {
	g, sess := startedGame(t, nil)
	now := epoch.Add(time.Second)
	sess.deliver(protocol.Update{PlayerID: "bob", Position: vec(10, game.EyeHeight, -10)})
	g.Frame(now, 0.016, player.Input{})

	bob, _ := g.Registry().Get("bob")
	if x := bob.Position().X(); x < 2.9 || x > 3.1 {
		t.Fatalf("expected bob to be eased 30%% of the way, got x = %v", x)
	}
	g.Frame(now.Add(16*time.Millisecond), 0.016, player.Input{})
	if x := bob.Position().X(); x < 5 || x > 5.2 {
		t.Fatalf("expected bob to keep easing towards the target, got x = %v", x)
	}
}

func TestFireReportsHit(t *testing.T) {
	g, sess := startedGame(t, nil)
	g.Frame(epoch.Add(time.Second), 0.016, player.Input{Fire: true})

	shots := sess.sentOf(protocol.EventShoot)
	if len(shots) != 1 || shots[0].(protocol.Shoot).TargetID != "bob" {
		t.Fatalf("expected a hit on bob to be reported, got %v", sess.sent)
	}
	bob, _ := g.Registry().Get("bob")
	if bob.Health() != game.MaxHealth {
		t.Fatalf("expected firing never to change health, got %d", bob.Health())
	}
	if g.Weapon().Ammo() != 29 || !g.Weapon().HitMarker() {
		t.Fatalf("expected one round used and a hit marker")
	}
	hit, ok := g.LastHit()
	if !ok || hit.TargetID != "bob" || hit.Damage != 19 {
		t.Fatalf("expected 19 damage shown on bob, got %+v", hit)
	}

	g.Frame(epoch.Add(time.Second+20*time.Millisecond), 0.016, player.Input{Fire: true})
	if len(sess.sentOf(protocol.EventShoot)) != 1 {
		t.Fatalf("expected a shot within the fire interval to be rejected")
	}
	g.Frame(epoch.Add(time.Second+100*time.Millisecond), 0.016, player.Input{})
	if g.Weapon().HitMarker() {
		t.Fatalf("expected the hit marker to be cleared")
	}
	if _, ok := g.LastHit(); ok {
		t.Fatalf("expected the hit feedback to be hidden with the hit marker")
	}
}

func TestFireAtWorldLeavesDecal(t *testing.T) {
	g, sess := startedGame(t, &protocol.Terrain{Obstacles: []protocol.Box{
		{Position: protocol.Vec3{Y: game.EyeHeight, Z: -5}, Size: protocol.Vec3{X: 2, Y: 2, Z: 2}},
	}})
	g.Frame(epoch.Add(time.Second), 0.016, player.Input{Fire: true})

	if len(sess.sentOf(protocol.EventShoot)) != 0 {
		t.Fatalf("expected bob to be covered by the obstacle")
	}
	var decals []Decal
	for d := range g.Decals() {
		decals = append(decals, d)
	}
	if len(decals) != 1 {
		t.Fatalf("expected 1 decal, got %d", len(decals))
	}
	if !decals[0].Normal.ApproxEqual(mgl32.Vec3{0, 0, 1}) || !game.Float32ApproxEq(decals[0].Point.Z(), -4) {
		t.Fatalf("expected a decal on the front face of the obstacle, got %v", decals[0])
	}
}

func TestLocalDeathBlocksInput(t *testing.T) {
	g, sess := startedGame(t, nil)
	sess.deliver(protocol.Hit{TargetID: "me", ShooterID: "bob", Damage: 100})

	err := g.Frame(epoch.Add(time.Second), 0.016, player.Input{Forward: true})
	if !errors.Is(err, ErrLocalDeath) || !errors.Is(err, oerror.ErrTerminal) {
		t.Fatalf("expected the local player to die, got %v", err)
	}
	if g.Over() || !g.LocalDead() {
		t.Fatalf("expected the game to wait for the respawn")
	}
	local, _ := g.Local()
	if local.Position().Z() != 0 {
		t.Fatalf("expected input to be blocked while dead, got %v", local.Position())
	}
	if len(sess.sentOf(protocol.EventDeathReport)) != 1 {
		t.Fatalf("expected the death to be reported")
	}
	bob, _ := g.Registry().Get("bob")
	if bob.Score() != 50 {
		t.Fatalf("expected bob to be awarded the kill, got %d", bob.Score())
	}

	g.Frame(epoch.Add(4*time.Second), 0.016, player.Input{Forward: true})
	if len(sess.sentOf(protocol.EventRespawn)) != 1 {
		t.Fatalf("expected a respawn to be requested after the respawn delay")
	}
	if local.Position().Z() != 0 {
		t.Fatalf("expected input to stay blocked until the respawn is confirmed")
	}

	g.Weapon().Fire(epoch.Add(4*time.Second), local.Position(), mgl32.Vec3{0, 0, -1}, nil, nil)
	sess.deliver(protocol.Respawned{PlayerID: "me", Position: vec(5, game.EyeHeight, 5)})
	if err := g.Frame(epoch.Add(5*time.Second), 0.016, player.Input{}); err != nil {
		t.Fatalf("expected the respawn to be applied, got %v", err)
	}
	if g.LocalDead() || local.Health() != game.MaxHealth {
		t.Fatalf("expected the local player to be alive again")
	}
	if !local.Position().ApproxEqual(mgl32.Vec3{5, game.EyeHeight, 5}) {
		t.Fatalf("expected the local player at the respawn point, got %v", local.Position())
	}
	if g.Weapon().Ammo() != g.Weapon().Config().MaxAmmo || g.Weapon().State() != weapon.StateReady {
		t.Fatalf("expected a full weapon after respawning")
	}
}

func TestGameOver(t *testing.T) {
	g, sess := startedGame(t, nil)
	sess.deliver(protocol.Disconnect{Reason: "server restarting"})
	if err := g.Frame(epoch.Add(time.Second), 0.016, player.Input{}); !errors.Is(err, ErrDisconnected) || !g.Over() {
		t.Fatalf("expected the server to end the game, got %v", err)
	}

	g, sess = startedGame(t, nil)
	sess.inbox <- session.Reconnecting{Attempt: 5}
	sess.inbox <- session.Failed{Err: oerror.Newk(oerror.KindConnection, game.ErrorReconnectFailed, 5)}
	err := g.Frame(epoch.Add(time.Second), 0.016, player.Input{})
	if !errors.Is(err, ErrConnectionLost) || !errors.Is(err, oerror.ErrConnection) || !g.Over() {
		t.Fatalf("expected the connection to be lost, got %v", err)
	}
}

func TestLeftAndScoreboard(t *testing.T) {
	g, sess := startedGame(t, nil)
	sess.deliver(protocol.Joined{PlayerID: "carol", Username: "carol"})
	g.Frame(epoch.Add(time.Second), 0.016, player.Input{})

	for id, score := range map[string]int{"me": 10, "bob": 50, "carol": 10} {
		e, _ := g.Registry().Get(id)
		e.SetScore(score)
	}
	board := g.Scoreboard()
	if board[0].ID != "bob" || board[1].Username != "alice" || !board[1].Local || board[2].ID != "carol" {
		t.Fatalf("expected bob, alice then carol, got %v", board)
	}

	sess.deliver(protocol.Left{PlayerID: "bob"}, protocol.Left{PlayerID: "me"})
	g.Frame(epoch.Add(2*time.Second), 0.016, player.Input{})
	if g.Registry().Len() != 2 {
		t.Fatalf("expected only bob to leave, got %d participants", g.Registry().Len())
	}
}
