package api

import (
	"github.com/lysyi3m/foaf-comb/app/database"
	"github.com/lysyi3m/foaf-comb/app/feed"
	"github.com/lysyi3m/foaf-comb/app/linkeddata"
	"github.com/lysyi3m/foaf-comb/app/profile"
	"github.com/lysyi3m/foaf-comb/app/tasks"
)

type GeneratorInterface interface {
	Run(channel feed.Channel, activity linkeddata.Activity) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

// ProfileScheduler queues the background work that follows a profile
// configuration change.
type ProfileScheduler interface {
	EnqueueProfile(config *profile.Config) error
}

var _ ProfileScheduler = (*tasks.Scheduler)(nil)

type Handler struct {
	configCache *profile.ConfigCache
	profileRepo database.ProfileRepository
	sessions    *profile.SessionFactory
	generator   GeneratorInterface
	filterer    *feed.Filterer
	scheduler   ProfileScheduler
}

type valueResponse struct {
	Type     string   `json:"type"`
	Value    string   `json:"value"`
	Lang     string   `json:"lang,omitempty"`
	Resolved bool     `json:"resolved"`
	Types    []string `json:"types,omitempty"`
}

func newValueResponse(v linkeddata.Value) valueResponse {
	resp := valueResponse{
		Type:  string(v.Kind),
		Value: v.String(),
		Lang:  v.Lang,
	}
	if v.View != nil {
		resp.Resolved = true
		resp.Types = v.View.Types()
	}
	return resp
}
