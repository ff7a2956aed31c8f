package protocol

// Event names as they appear in the envelope of every frame.
const (
	EventJoin        = "player:join"
	EventStart       = "game:start"
	EventJoined      = "player:joined"
	EventRoster      = "player:list"
	EventLeft        = "player:left"
	EventUpdate      = "player:update"
	EventBatchState  = "players:state"
	EventShoot       = "player:shoot"
	EventHit         = "player:hit"
	EventDeath       = "player:died"
	EventDeathReport = "player:death"
	EventRespawn     = "player:respawn"
	EventRespawned   = "player:respawned"
	EventDisconnect  = "disconnect"
)

// Inbound is a message sent by the server. The set of implementations is closed: every inbound
// message is one of the types in this file.
type Inbound interface {
	Event() string
	inbound()
}

// Outbound is a message sent to the server.
type Outbound interface {
	Event() string
	outbound()
}

// PlayerState is the per-player entry of the roster and the periodic batch state. Every member is
// optional as the server omits what it does not know.
type PlayerState struct {
	Username  string  `json:"username,omitempty" msgpack:"username,omitempty"`
	Position  *Vec3   `json:"position,omitempty" msgpack:"position,omitempty"`
	Rotation  *Vec3   `json:"rotation,omitempty" msgpack:"rotation,omitempty"`
	Velocity  *Vec3   `json:"velocity,omitempty" msgpack:"velocity,omitempty"`
	Health    *int    `json:"health,omitempty" msgpack:"health,omitempty"`
	Score     *int    `json:"score,omitempty" msgpack:"score,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty" msgpack:"timestamp,omitempty"`
}

// Start bootstraps a session: it assigns the local player its id and spawn point.
type Start struct {
	PlayerID string   `json:"playerId" msgpack:"playerId"`
	Position *Vec3    `json:"position,omitempty" msgpack:"position,omitempty"`
	Health   *int     `json:"health,omitempty" msgpack:"health,omitempty"`
	Terrain  *Terrain `json:"terrain,omitempty" msgpack:"terrain,omitempty"`
}

// Joined announces a new participant.
type Joined struct {
	PlayerID string `json:"playerId" msgpack:"playerId"`
	Username string `json:"username" msgpack:"username"`
	Position *Vec3  `json:"position,omitempty" msgpack:"position,omitempty"`
	Health   *int   `json:"health,omitempty" msgpack:"health,omitempty"`
}

// Roster is the full membership of the match keyed by player id. It must contain the local player.
type Roster map[string]PlayerState

// Left announces that a participant left the match.
type Left struct {
	PlayerID string `json:"playerId" msgpack:"playerId"`
}

// Update is the motion state of a single remote participant.
type Update struct {
	PlayerID  string  `json:"playerId" msgpack:"playerId"`
	Position  *Vec3   `json:"position,omitempty" msgpack:"position,omitempty"`
	Rotation  *Vec3   `json:"rotation,omitempty" msgpack:"rotation,omitempty"`
	Velocity  *Vec3   `json:"velocity,omitempty" msgpack:"velocity,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty" msgpack:"timestamp,omitempty"`
}

// BatchState is the periodic full state of every participant keyed by player id.
type BatchState map[string]PlayerState

// Hit reports that a participant was hit. Health, when present, is the target's health after the hit.
type Hit struct {
	TargetID  string `json:"targetId" msgpack:"targetId"`
	ShooterID string `json:"shooterId,omitempty" msgpack:"shooterId,omitempty"`
	Damage    int    `json:"damage" msgpack:"damage"`
	Health    *int   `json:"health,omitempty" msgpack:"health,omitempty"`
}

// Death reports that DeadID was killed by KillerID.
type Death struct {
	DeadID   string `json:"deadId" msgpack:"deadId"`
	KillerID string `json:"killerId" msgpack:"killerId"`
}

// Respawned confirms that a participant respawned, optionally at the given position.
type Respawned struct {
	PlayerID string `json:"playerId" msgpack:"playerId"`
	Position *Vec3  `json:"position,omitempty" msgpack:"position,omitempty"`
}

// Disconnect is sent by the server right before it closes the connection.
type Disconnect struct {
	Reason string `json:"reason" msgpack:"reason"`
}

func (Start) Event() string      { return EventStart }
func (Joined) Event() string     { return EventJoined }
func (Roster) Event() string     { return EventRoster }
func (Left) Event() string       { return EventLeft }
func (Update) Event() string     { return EventUpdate }
func (BatchState) Event() string { return EventBatchState }
func (Hit) Event() string        { return EventHit }
func (Death) Event() string      { return EventDeath }
func (Respawned) Event() string  { return EventRespawned }
func (Disconnect) Event() string { return EventDisconnect }

func (Start) inbound()      {}
func (Joined) inbound()     {}
func (Roster) inbound()     {}
func (Left) inbound()       {}
func (Update) inbound()     {}
func (BatchState) inbound() {}
func (Hit) inbound()        {}
func (Death) inbound()      {}
func (Respawned) inbound()  {}
func (Disconnect) inbound() {}

// Join announces the local player. It is sent on every connect and reconnect.
type Join struct {
	Username string `json:"username" msgpack:"username"`
	Token    string `json:"token,omitempty" msgpack:"token,omitempty"`
}

// StateUpdate is the throttled motion state of the local player.
type StateUpdate struct {
	Position  Vec3    `json:"position" msgpack:"position"`
	Rotation  Vec3    `json:"rotation" msgpack:"rotation"`
	Velocity  Vec3    `json:"velocity" msgpack:"velocity"`
	Timestamp float64 `json:"timestamp" msgpack:"timestamp"`
}

// Shoot reports a hit on TargetID. The server decides the damage.
type Shoot struct {
	TargetID  string  `json:"targetId" msgpack:"targetId"`
	Timestamp float64 `json:"timestamp" msgpack:"timestamp"`
}

// DeathReport tells the server the local player died.
type DeathReport struct {
	KillerID  string  `json:"killerId,omitempty" msgpack:"killerId,omitempty"`
	Timestamp float64 `json:"timestamp" msgpack:"timestamp"`
}

// RespawnRequest asks the server to respawn the local player.
type RespawnRequest struct {
	Timestamp float64 `json:"timestamp" msgpack:"timestamp"`
}

func (Join) Event() string           { return EventJoin }
func (StateUpdate) Event() string    { return EventUpdate }
func (Shoot) Event() string          { return EventShoot }
func (DeathReport) Event() string    { return EventDeathReport }
func (RespawnRequest) Event() string { return EventRespawn }

func (Join) outbound()           {}
func (StateUpdate) outbound()    {}
func (Shoot) outbound()          {}
func (DeathReport) outbound()    {}
func (RespawnRequest) outbound() {}
