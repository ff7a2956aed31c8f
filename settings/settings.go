package settings

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/oomph-ac/frontline/combat"
	"github.com/oomph-ac/frontline/entity"
	"github.com/oomph-ac/frontline/player"
	"github.com/oomph-ac/frontline/session"
	"github.com/oomph-ac/frontline/weapon"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured for a client. Durations are in milliseconds.
type Settings struct {
	Network struct {
		URL      string
		Username string
		// Token is an optional auth token sent with the join.
		Token string
		// Binary makes the client send msgpack frames instead of JSON.
		Binary bool

		ConnectTimeout    int64
		ReconnectAttempts int
		ReconnectDelay    int64
		UpdateInterval    int64
		// RecordingFile, if set, is where every frame of the session is recorded.
		RecordingFile string
	}
	Movement struct {
		Gravity     float32
		JumpImpulse float32
		WalkSpeed   float32
		SprintSpeed float32
		Radius      float32
		Bounds      float32
		// Unstick pushes the local player back to its spawn point when it is found inside the world or
		// another participant.
		Unstick bool
	}
	Weapon struct {
		MaxAmmo        int
		FireInterval   int64
		ReloadDuration int64
		Range          float32
		Damage         int
	}
	Interpolation struct {
		BufferSize int
		Delay      int64
		Blend      float32
	}
	Combat struct {
		RespawnDelay    int64
		KillBonus       int
		KillLogCapacity int
		KillLogDuration int64
	}
	History struct {
		// File is the SQLite database sessions are recorded to. History is not kept if it is empty.
		File string
	}
}

// DefaultSettings returns the default settings of a client.
func DefaultSettings() Settings {
	s := Settings{}

	net := session.DefaultConfig("ws://localhost:5000/ws", "player")
	s.Network.URL = net.URL
	s.Network.Username = net.Username
	s.Network.ConnectTimeout = net.ConnectTimeout.Milliseconds()
	s.Network.ReconnectAttempts = net.ReconnectAttempts
	s.Network.ReconnectDelay = net.ReconnectDelay.Milliseconds()
	s.Network.UpdateInterval = net.UpdateInterval.Milliseconds()

	mv := player.DefaultConfig()
	s.Movement.Gravity = mv.Gravity
	s.Movement.JumpImpulse = mv.JumpImpulse
	s.Movement.WalkSpeed = mv.WalkSpeed
	s.Movement.SprintSpeed = mv.SprintSpeed
	s.Movement.Radius = mv.Radius
	s.Movement.Bounds = mv.Bounds

	wp := weapon.DefaultConfig()
	s.Weapon.MaxAmmo = wp.MaxAmmo
	s.Weapon.FireInterval = wp.FireInterval.Milliseconds()
	s.Weapon.ReloadDuration = wp.ReloadDuration.Milliseconds()
	s.Weapon.Range = wp.Range
	s.Weapon.Damage = wp.Damage

	s.Interpolation.BufferSize = entity.DefaultBufferSize
	s.Interpolation.Delay = entity.DefaultInterpolationDelay.Milliseconds()
	s.Interpolation.Blend = entity.DefaultBlend

	cb := combat.DefaultConfig()
	s.Combat.RespawnDelay = cb.RespawnDelay.Milliseconds()
	s.Combat.KillBonus = cb.KillBonus
	s.Combat.KillLogCapacity = cb.KillLog.Capacity
	s.Combat.KillLogDuration = cb.KillLog.Duration.Milliseconds()

	s.History.File = "frontline.db"
	return s
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %v", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist. Values
// missing from the file keep their default.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %v", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	return settings, nil
}

func ms(v int64) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// SessionConfig returns the session configuration described by the settings.
func (s Settings) SessionConfig() session.Config {
	cfg := session.DefaultConfig(s.Network.URL, s.Network.Username)
	cfg.Token = s.Network.Token
	cfg.Binary = s.Network.Binary
	cfg.ConnectTimeout = ms(s.Network.ConnectTimeout)
	cfg.ReconnectAttempts = s.Network.ReconnectAttempts
	cfg.ReconnectDelay = ms(s.Network.ReconnectDelay)
	cfg.UpdateInterval = ms(s.Network.UpdateInterval)
	cfg.RecordingFile = s.Network.RecordingFile
	return cfg
}

// MovementConfig returns the movement constants described by the settings.
func (s Settings) MovementConfig() player.Config {
	return player.Config{
		Gravity:     s.Movement.Gravity,
		JumpImpulse: s.Movement.JumpImpulse,
		WalkSpeed:   s.Movement.WalkSpeed,
		SprintSpeed: s.Movement.SprintSpeed,
		Radius:      s.Movement.Radius,
		Bounds:      s.Movement.Bounds,
	}
}

// WeaponConfig returns the weapon properties described by the settings.
func (s Settings) WeaponConfig() weapon.Config {
	cfg := weapon.DefaultConfig()
	cfg.MaxAmmo = s.Weapon.MaxAmmo
	cfg.FireInterval = ms(s.Weapon.FireInterval)
	cfg.ReloadDuration = ms(s.Weapon.ReloadDuration)
	cfg.Range = s.Weapon.Range
	cfg.Damage = s.Weapon.Damage
	return cfg
}

// NewInterpolator returns a new interpolator configured by the settings.
func (s Settings) NewInterpolator() *entity.Interpolator {
	return entity.NewInterpolator(s.Interpolation.BufferSize, ms(s.Interpolation.Delay), s.Interpolation.Blend)
}

// CombatConfig returns the match rules described by the settings.
func (s Settings) CombatConfig() combat.Config {
	cfg := combat.DefaultConfig()
	cfg.RespawnDelay = ms(s.Combat.RespawnDelay)
	cfg.KillBonus = s.Combat.KillBonus
	cfg.KillLog.Capacity = s.Combat.KillLogCapacity
	cfg.KillLog.Duration = ms(s.Combat.KillLogDuration)
	return cfg
}
