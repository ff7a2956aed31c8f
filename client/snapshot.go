package client

import (
	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/protocol"
)

// snapshotOf converts the state of a participant received at nowMs into a snapshot. Members missing
// from the state are left unset.
func snapshotOf(id string, st protocol.PlayerState, nowMs int64) entity.Snapshot {
	s := entity.Snapshot{EntityID: id, Timestamp: nowMs, RemoteTimestamp: st.Timestamp}
	if st.Position != nil {
		s.Position, s.HasPosition = st.Position.Vec(), true
	}
	if st.Rotation != nil {
		s.Rotation, s.HasRotation = st.Rotation.Vec(), true
	}
	if st.Velocity != nil {
		s.Velocity, s.HasVelocity = st.Velocity.Vec(), true
	}
	if st.Health != nil {
		s.Health, s.HasHealth = *st.Health, true
	}
	if st.Score != nil {
		s.Score, s.HasScore = *st.Score, true
	}
	return s
}

func updateSnapshot(u protocol.Update, nowMs int64) entity.Snapshot {
	return snapshotOf(u.PlayerID, protocol.PlayerState{
		Position:  u.Position,
		Rotation:  u.Rotation,
		Velocity:  u.Velocity,
		Timestamp: u.Timestamp,
	}, nowMs)
}
