package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/foaf-comb/app/database"
	"github.com/lysyi3m/foaf-comb/app/feed"
	"github.com/lysyi3m/foaf-comb/app/linkeddata"
	"github.com/lysyi3m/foaf-comb/app/profile"
	"golang.org/x/text/language"
)

var (
	labelPredicates = []string{"foaf_name", "rdfs_label", "foaf_nick", "dc_title"}
	imagePredicates = []string{"foaf_img", "foaf_depiction", "foaf_logo"}
)

func NewHandler(configCache *profile.ConfigCache, profileRepo database.ProfileRepository,
	sessions *profile.SessionFactory, filterer *feed.Filterer, scheduler ProfileScheduler) *Handler {
	return &Handler{
		configCache: configCache,
		profileRepo: profileRepo,
		sessions:    sessions,
		generator:   feed.NewGenerator(),
		filterer:    filterer,
		scheduler:   scheduler,
	}
}

// openProfile starts a session for the named profile and binds its root
// view. It writes the error response itself and reports false on failure.
func (h *Handler) openProfile(c *gin.Context) (*profile.Config, *linkeddata.Session, *linkeddata.View, bool) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing profile name parameter"})
		return nil, nil, nil, false
	}

	config, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Debug("Profile configuration not found", "profile", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return nil, nil, nil, false
	}

	if !config.Settings.Enabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile disabled"})
		return nil, nil, nil, false
	}

	session := h.sessions.New(config)
	root := session.Root(c.Request.Context(), config.URI)

	return config, session, root, true
}

func (h *Handler) GetProfile(c *gin.Context) {
	config, session, root, ok := h.openProfile(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	response := gin.H{
		"name":    config.Name,
		"uri":     root.URI(),
		"prefix":  root.Prefix(),
		"concept": root.Concept(),
		"types":   root.Types(),
		"data":    root.Data(),
	}

	if label, ok := root.Literal(ctx, labelPredicates, preferredLanguages(c)); ok {
		response["label"] = label
	}
	if image, ok := root.Image(ctx, imagePredicates, true); ok {
		response["image"] = image
	}
	response["stats"] = session.Stats()

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetValues(c *gin.Context) {
	predicate := strings.TrimSpace(c.Query("predicate"))
	if predicate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing predicate parameter"})
		return
	}

	_, session, root, ok := h.openProfile(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	values := []valueResponse{}
	response := gin.H{"predicate": predicate}

	if types := splitList(c.Query("types")); len(types) > 0 {
		intersect, _ := strconv.ParseBool(c.Query("intersect"))
		for _, view := range root.FilterByType(ctx, predicate, types, intersect) {
			values = append(values, valueResponse{
				Type:     "uri",
				Value:    view.URI(),
				Resolved: true,
				Types:    view.Types(),
			})
		}
		response["types"] = types
		response["intersect"] = intersect
	} else {
		result := root.Get(ctx, predicate)
		for _, v := range result.Values {
			values = append(values, newValueResponse(v))
		}
		if len(result.Lang) > 0 {
			byLang := make(map[string][]string, len(result.Lang))
			for tag, tagged := range result.Lang {
				for _, v := range tagged {
					byLang[tag] = append(byLang[tag], v.Value)
				}
			}
			response["lang"] = byLang
		}
	}

	response["values"] = values
	response["total"] = len(values)
	response["stats"] = session.Stats()

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetActivity(c *gin.Context) {
	config, root, activity, ok := h.loadActivity(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       config.Name,
		"uri":        root.URI(),
		"feeds":      activity.Feeds,
		"feed_order": activity.FeedOrder,
		"stream":     activity.Stream,
		"total":      len(activity.Stream),
	})
}

func (h *Handler) GetActivityRSS(c *gin.Context) {
	config, root, activity, ok := h.loadActivity(c)
	if !ok {
		return
	}

	title, _ := root.Literal(c.Request.Context(), labelPredicates, preferredLanguages(c))
	channel := feed.Channel{
		Name:  config.Name,
		Title: title,
		Link:  root.URI(),
	}

	rss, err := h.generator.Run(channel, activity)
	if err != nil {
		slog.Error("RSS generation error", "profile", config.Name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Activity-Items", strconv.Itoa(len(activity.Stream)))
	c.Header("X-Profile-Name", config.Name)

	c.String(http.StatusOK, rss)
}

func (h *Handler) loadActivity(c *gin.Context) (*profile.Config, *linkeddata.View, linkeddata.Activity, bool) {
	maxItems := 0
	if raw := c.Query("max_items"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_items must be a positive integer"})
			return nil, nil, linkeddata.Activity{}, false
		}
		maxItems = n
	}

	config, _, root, ok := h.openProfile(c)
	if !ok {
		return nil, nil, linkeddata.Activity{}, false
	}

	if maxItems == 0 {
		maxItems = config.Settings.Activity.MaxItems
	}

	kinds := config.RelationKinds()
	if requested := splitList(c.Query("kinds")); len(requested) > 0 {
		kinds = kinds[:0]
		for _, k := range requested {
			kinds = append(kinds, linkeddata.RelationKind(k))
		}
	}

	activity := root.ListActivity(c.Request.Context(), kinds, maxItems)
	activity.Stream = h.filterer.Run(activity.Stream, config.Filters)

	return config, root, activity, true
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if profileCount, err := h.profileRepo.GetProfileCount(c.Request.Context()); err == nil {
		health["profiles"] = profileCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListProfiles(c *gin.Context) {
	ctx := c.Request.Context()
	profiles := make([]map[string]interface{}, 0, h.configCache.GetConfigCount())

	for _, name := range h.configCache.Names() {
		config, err := h.configCache.GetConfig(name)
		if err != nil {
			continue
		}

		info := map[string]interface{}{
			"name":          config.Name,
			"uri":           config.URI,
			"enabled":       config.Settings.Enabled,
			"level_max":     config.Settings.LevelMax,
			"requests_max":  config.Settings.RequestsMax,
			"warm_interval": config.WarmInterval().String(),
			"filters":       len(config.Filters),
		}

		if p, err := h.profileRepo.GetProfile(ctx, name); err == nil && p != nil {
			info["last_warmed_at"] = p.LastWarmedAt
			info["next_warm_at"] = p.NextWarmAt
			info["resources"] = p.Resources
			info["requests"] = p.Requests
			info["feeds"] = p.Feeds
			info["items"] = p.Items
		}

		profiles = append(profiles, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"profiles": profiles,
		"total":    len(profiles),
	})
}

func (h *Handler) APIReloadProfile(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing profile name parameter"})
		return
	}

	config, err := h.configCache.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "profile", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	if err := h.scheduler.EnqueueProfile(config); err != nil {
		slog.Error("Error enqueueing profile tasks", "profile", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue profile tasks",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"profile": gin.H{
			"name":    config.Name,
			"uri":     config.URI,
			"enabled": config.Settings.Enabled,
		},
	})
}

// preferredLanguages reads the request's Accept-Language header in
// preference order.
func preferredLanguages(c *gin.Context) []string {
	tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(tags))
	for _, tag := range tags {
		langs = append(langs, tag.String())
	}
	return langs
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
