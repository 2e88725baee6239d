package web

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/engine"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/insights"
	"github.com/lumahq/luma/internal/ops"
	"github.com/lumahq/luma/internal/period"
)

// Handlers contains HTTP route handlers for the dashboard. The
// dashboard is read-only: it surfaces cached narratives and computed
// analytics but never calls the summarizer backend.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

func (h *Handlers) user() string {
	if h.cfg != nil && h.cfg.User != "" {
		return h.cfg.User
	}
	return "local"
}

// pendingBadges computes the per-kind pending counts shown in the nav.
// Errors degrade to zero badges rather than failing the page.
func (h *Handlers) pendingBadges() PendingBadges {
	eng := engine.New(h.db, nil, h.cfg)
	pending, err := eng.Pending()
	if err != nil {
		return PendingBadges{}
	}
	return PendingBadges{
		Daily:   pending[period.Daily],
		Weekly:  pending[period.Weekly],
		Monthly: pending[period.Monthly],
	}
}

// HandleCaptures handles GET /captures — the capture timeline.
func (h *Handlers) HandleCaptures(w http.ResponseWriter, r *http.Request) {
	kindParam := r.URL.Query().Get("kind")
	input := ops.ListInput{
		Limit: parseIntParam(r, "limit", 50),
	}
	if kindParam != "" {
		kind := period.Kind(kindParam)
		if _, err := period.Resolve(kind, time.Now()); err != nil {
			h.renderer.renderError(w, r, errors.NewValidate("kind must be daily, weekly, or monthly"))
			return
		}
		input.Kind = &kind
	}

	result, err := ops.List(h.db, h.cfg, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "captures", CapturesPageData{
		PageData: PageData{
			Title:   "Captures",
			Version: h.renderer.version,
			Nav:     "captures",
		},
		Items:   result.Items,
		Total:   result.Total,
		Kind:    kindParam,
		Pending: h.pendingBadges(),
	})
}

// HandleInsights handles GET /insights — cached narratives plus the
// live-computed analytics (flow, signal, streaks, time-of-day).
func (h *Handlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	badges := h.pendingBadges()

	data := InsightsPageData{
		PageData: PageData{
			Title:   "Insights",
			Version: h.renderer.version,
			Nav:     "insights",
		},
		Daily:   h.insightCard(period.Daily, now, badges.Daily),
		Weekly:  h.insightCard(period.Weekly, now, badges.Weekly),
		Monthly: h.insightCard(period.Monthly, now, badges.Monthly),
	}

	flow, err := ops.Flow(h.db, h.cfg, ops.FlowInput{Day: r.URL.Query().Get("day")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Flow = flow

	signal, err := ops.Signal(h.db, h.cfg)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Signal = signal

	streaks, err := ops.Streak(h.db, h.cfg)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Streaks = streaks.Streaks

	buckets, err := ops.MoodByTime(h.db, h.cfg, ops.MoodByTimeInput{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Buckets = buckets.Buckets

	eng := engine.New(h.db, nil, h.cfg)
	eligibility, err := eng.MonthlyEligibility()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Eligibility = eligibility

	summary, err := db.GetMonthlySummary(h.db, h.user(), period.MonthKey(now))
	if err != nil {
		h.renderer.renderError(w, r, errors.NewFetch(err))
		return
	}
	data.Summary = summary

	h.renderer.renderPage(w, "insights", data)
}

// insightCard loads one kind's cached snapshot for the current period.
// A missing snapshot or a read failure renders as an empty card.
func (h *Handlers) insightCard(kind period.Kind, now time.Time, pending insights.PendingInfo) InsightCard {
	card := InsightCard{Kind: string(kind), Pending: pending}

	key, err := period.Key(kind, now)
	if err != nil {
		return card
	}
	card.PeriodKey = key

	snap, err := db.GetSnapshot(h.db, h.user(), string(kind), key)
	if err != nil || snap == nil {
		return card
	}

	card.HTML = renderMarkdown(snap.Narrative)
	card.GeneratedAt = snap.GeneratedAt
	card.Has = true
	return card
}

// HandleAlbums handles GET /albums — album index with member counts.
func (h *Handlers) HandleAlbums(w http.ResponseWriter, r *http.Request) {
	result, err := ops.AlbumList(h.db, h.cfg)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "albums", AlbumsPageData{
		PageData: PageData{
			Title:   "Albums",
			Version: h.renderer.version,
			Nav:     "albums",
		},
		Items: result.Items,
	})
}

// HandleAlbumDetail handles GET /albums/{id} — one album's captures
// plus its cached narrative, when one exists.
func (h *Handlers) HandleAlbumDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewValidate("album ID is required"))
		return
	}

	result, err := ops.AlbumShow(h.db, h.cfg, ops.AlbumShowInput{AlbumID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data := AlbumPageData{
		PageData: PageData{
			Title:   result.Album.Name,
			Version: h.renderer.version,
			Nav:     "albums",
		},
		Album: result.Album,
		Items: result.Items,
	}

	eng := engine.New(h.db, nil, h.cfg)
	if pending, err := eng.PendingForAlbum(id); err == nil {
		data.Pending = pending
	}

	snap, err := db.GetSnapshot(h.db, h.user(), "album", id)
	if err == nil && snap != nil {
		data.Narrative = renderMarkdown(snap.Narrative)
		data.Has = true
	}

	h.renderer.renderPage(w, "album", data)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
