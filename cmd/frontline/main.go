package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/joho/godotenv"
	"github.com/oomph-ac/frontline/client"
	"github.com/oomph-ac/frontline/combat"
	"github.com/oomph-ac/frontline/history"
	"github.com/oomph-ac/frontline/session"
	"github.com/oomph-ac/frontline/settings"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const settingsFile = "frontline.toml"

// frameInterval is the time between two frames of the headless client.
const frameInterval = time.Second / 60

// The following program runs a headless client: it joins a match and plays it with a simple bot until it
// is interrupted or the server ends the session.
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("unable to load .env: %v", err)
	}
	log := newLogger()
	s := readSettings(log)

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, AttachStacktrace: true}); err != nil {
			log.Errorf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}
	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	var store *history.Store
	if s.History.File != "" {
		var err error
		if store, err = history.Open(s.History.File); err != nil {
			log.Errorf("history disabled: %v", err)
		} else {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	for {
		err := play(ctx, log, s, store)
		if errors.Is(err, client.ErrDesync) {
			log.Warnf("%v, starting a new session", err)
			continue
		}
		if err != nil {
			log.Errorf("session ended: %v", err)
		}
		return
	}
}

// newLogger returns the logger of the client. If FRONTLINE_LOG_FILE is set, the log is also written to
// that file, rotated once it grows too large.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level = logrus.InfoLevel
	if os.Getenv("FRONTLINE_DEBUG") != "" {
		log.Level = logrus.DebugLevel
	}

	if path := os.Getenv("FRONTLINE_LOG_FILE"); path != "" {
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:     false,
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		})
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		}))
	}
	return log
}

// readSettings reads the settings file, creating it with the default settings first if it does not exist.
// The address, username and token can be overridden from the environment.
func readSettings(log *logrus.Logger) settings.Settings {
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		if err := settings.SaveDefault(settingsFile); err != nil {
			log.Fatalf("error creating settings: %v", err)
		}
	}
	s, err := settings.Load(settingsFile)
	if err != nil {
		log.Fatalf("error reading settings: %v", err)
	}
	if v := os.Getenv("FRONTLINE_URL"); v != "" {
		s.Network.URL = v
	}
	if v := os.Getenv("FRONTLINE_USERNAME"); v != "" {
		s.Network.Username = v
	}
	if v := os.Getenv("FRONTLINE_TOKEN"); v != "" {
		s.Network.Token = v
	}
	return s
}

// play plays a single session until ctx is cancelled or the game is over. The session is recorded to
// store if it is not nil.
func play(ctx context.Context, log *logrus.Logger, s settings.Settings, store *history.Store) (err error) {
	sess := session.New(s.SessionConfig(), log, session.WebsocketDialer{})
	if err := sess.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Errorf("error closing session: %v", err)
		}
	}()

	g := client.New(client.Config{
		Movement:        s.MovementConfig(),
		Weapon:          s.WeaponConfig(),
		Combat:          s.CombatConfig(),
		NewInterpolator: s.NewInterpolator,
		Unstick:         s.Movement.Unstick,
		DecalCapacity:   64,
	}, log, sess)
	b := newBot(s.WeaponConfig().Range)

	if store != nil {
		id := sess.ID().String()
		if err := store.Begin(id, sess.Username(), s.Network.URL, time.Now()); err != nil {
			log.Errorf("%v", err)
		}
		g.KillLog().OnAdd(func(e combat.KillLogEntry) {
			if err := store.RecordKill(id, e.Killer, e.Victim, e.CreatedAt); err != nil {
				log.Errorf("%v", err)
			}
		})
		defer func() {
			reason := "interrupted"
			if err != nil {
				reason = err.Error()
			}
			if err := store.End(id, time.Now(), reason, finalScores(g)); err != nil {
				log.Errorf("%v", err)
			}
		}()
	}

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			delta := float32(now.Sub(last).Seconds())
			last = now

			err := g.Frame(now, delta, b.input(g))
			if err == nil {
				continue
			}
			if g.Over() {
				return err
			}
			log.Info(err)
		}
	}
}

func finalScores(g *client.Game) []history.Score {
	board := g.Scoreboard()
	scores := make([]history.Score, 0, len(board))
	for _, e := range board {
		scores = append(scores, history.Score{PlayerID: e.ID, Username: e.Username, Score: e.Score})
	}
	return scores
}
