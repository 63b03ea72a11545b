// File: options.go
// Role: functional options for New, in the WithXxx constructor style; this
// is the only package in the module that defines options.
package topology

import (
	"github.com/latticenet/topology/collab"
	"github.com/sirupsen/logrus"
)

// config collects every construction-time choice; Apply in New before the
// GML file is even opened.
type config struct {
	useShortest bool
	worker      collab.Worker
	rng         collab.Random
	logger      *logrus.Logger
}

// Option configures New.
type Option func(*config)

// defaultConfig matches the source's defaults: shortest-path routing on, no
// worker/rng collaborator (a nil worker simply means no one is notified of
// new minima; with a nil rng, Attach panics whenever the policy reaches its
// random pick, which every attachment not resolved by longest-prefix match
// does, exact-IP matches included).
func defaultConfig() config {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	return config{useShortest: true, logger: logger}
}

// WithShortestPath toggles §4.3's routing policy. false requires the graph
// to be complete (I2); New fails otherwise.
func WithShortestPath(enabled bool) Option {
	return func(c *config) { c.useShortest = enabled }
}

// WithWorker registers the collaborator notified when minimumPathLatency
// drops (§4.4, §6.1).
func WithWorker(w collab.Worker) Option {
	return func(c *config) { c.worker = w }
}

// WithRandom supplies the RNG source the attachment policy draws from
// (§4.6 step 5). Tests should pass a deterministic implementation (§9.2).
func WithRandom(r collab.Random) Option {
	return func(c *config) { c.rng = r }
}

// WithLogger overrides the default logrus.Logger (info level, stderr text
// output) with a caller-supplied one.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) { c.logger = l }
}
