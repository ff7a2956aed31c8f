package worker

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/frontline/oerror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Group runs the goroutines of a component. A goroutine that panics is recovered, the panic is reported
// to Sentry with the tags of the group, and Wait returns it as an error.
type Group struct {
	log  *logrus.Entry
	tags map[string]string
	g    errgroup.Group
}

// NewGroup returns a group logging to log and tagging reported panics with tags.
func NewGroup(log *logrus.Entry, tags map[string]string) *Group {
	return &Group{log: log, tags: tags}
}

// Go runs f in a new goroutine. The name identifies the goroutine in logs and reports.
func (g *Group) Go(name string, f func()) {
	g.g.Go(func() (err error) {
		defer func() {
			if v := recover(); v != nil {
				err = g.report(name, v)
			}
		}()
		f()
		return nil
	})
}

// Wait blocks until every goroutine started with Go has returned. It returns the first panic recovered.
func (g *Group) Wait() error {
	return g.g.Wait()
}

func (g *Group) report(name string, v any) error {
	err := oerror.New("%s panic: %v", name, v)
	g.log.Errorf("%v", err)

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("goroutine", name)
		for k, val := range g.tags {
			scope.SetTag(k, val)
		}
	})
	hub.Recover(err)
	hub.Flush(time.Second * 5)
	return err
}
