package profile

import (
	"github.com/lysyi3m/foaf-comb/app/linkeddata"
)

// SessionFactory creates one linked-data session per request or warm run,
// sharing the process-wide collaborators.
type SessionFactory struct {
	base linkeddata.Options
	deps linkeddata.Dependencies
}

func NewSessionFactory(base linkeddata.Options, deps linkeddata.Dependencies) *SessionFactory {
	return &SessionFactory{base: base, deps: deps}
}

// New returns a fresh session configured for config. The content extractor
// is only attached when the profile asks for it.
func (f *SessionFactory) New(config *Config) *linkeddata.Session {
	deps := f.deps
	if !config.Settings.Activity.ExtractContent {
		deps.Extractor = nil
	}
	return linkeddata.NewSession(config.Options(f.base), deps)
}
