package utils

import (
	"github.com/rollbar/rollbar-go"

	"learning_platform/backend/config"
)

// Reporter forwards unexpected server errors to Rollbar. Without a token it
// does nothing.
type Reporter struct {
	enabled bool
}

func NewReporter(cfg *config.Config) *Reporter {
	if cfg.RollbarToken == "" {
		return &Reporter{}
	}
	rollbar.SetToken(cfg.RollbarToken)
	rollbar.SetEnvironment(cfg.Env)
	rollbar.SetServerRoot("learning_platform")
	rollbar.SetEnabled(true)
	return &Reporter{enabled: true}
}

func (r *Reporter) Error(err error, extras map[string]interface{}) {
	if r == nil || !r.enabled {
		return
	}
	rollbar.Error(err, extras)
}

// Close flushes pending reports.
func (r *Reporter) Close() {
	if r == nil || !r.enabled {
		return
	}
	rollbar.Wait()
}
