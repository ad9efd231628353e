package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"site-energy-sim/internal/api/models"
	"site-energy-sim/internal/api/ws"
	"site-energy-sim/internal/data"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/optimiser"
	"site-energy-sim/internal/scenario"
	"site-energy-sim/internal/store"
)

// OptimiseHandler runs task batches and serves their stored results.
type OptimiseHandler struct {
	sim        *scenario.Simulator
	siteDigest string
	cache      data.ResultCache
	store      *store.Store
	hub        *ws.Hub
	metrics    *optimiser.Metrics
	workers    int
	leagueSize int
	log        *zap.Logger

	mu   sync.RWMutex
	last *optimiser.Optimiser
}

// OptimiseDeps are the collaborators an OptimiseHandler needs. Cache, Store
// and Hub are optional.
type OptimiseDeps struct {
	Simulator  *scenario.Simulator
	SiteDigest string
	Cache      data.ResultCache
	Store      *store.Store
	Hub        *ws.Hub
	Metrics    *optimiser.Metrics
	Workers    int
	LeagueSize int
	Logger     *zap.Logger
}

func NewOptimiseHandler(d OptimiseDeps) *OptimiseHandler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &OptimiseHandler{
		sim:        d.Simulator,
		siteDigest: d.SiteDigest,
		cache:      d.Cache,
		store:      d.Store,
		hub:        d.Hub,
		metrics:    d.Metrics,
		workers:    d.Workers,
		leagueSize: d.LeagueSize,
		log:        log,
	}
}

// Optimise handles POST /api/v1/optimise
func (h *OptimiseHandler) Optimise(c *gin.Context) {
	var req models.OptimiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tasks, err := decodeTasks(req.Tasks)
	if err != nil {
		writeError(c, err)
		return
	}

	workers, leagueSize := h.workers, h.leagueSize
	if req.Workers > 0 {
		workers = req.Workers
	}
	if req.LeagueSize > 0 {
		leagueSize = req.LeagueSize
	}

	opt := optimiser.New(h.sim, optimiser.Options{
		Workers:    workers,
		LeagueSize: leagueSize,
		Cache:      h.cache,
		Metrics:    h.metrics,
		Logger:     h.log,
		OnProgress: h.publishProgress,
	})

	h.publish(ws.TypeOptimiseStarted, ws.OptimiseStartedPayload{Tasks: len(tasks)})
	sum, err := opt.Run(c.Request.Context(), tasks)
	if err != nil {
		h.publish(ws.TypeOptimiseFailed, ws.OptimiseFailedPayload{Error: err.Error()})
		writeError(c, err)
		return
	}

	h.mu.Lock()
	h.last = opt
	h.mu.Unlock()

	resp := models.OptimiseResponse{Summary: *sum}
	if h.store != nil {
		run := sum.Record(h.siteDigest)
		if err := h.store.SaveRun(run); err != nil {
			h.log.Error("save run", zap.Error(err))
		} else {
			resp.RunID = run.ID
		}
	}
	h.publish(ws.TypeOptimiseFinished, ws.OptimiseFinishedPayload{RunID: resp.RunID})
	c.JSON(http.StatusOK, resp)
}

// League handles GET /api/v1/league
func (h *OptimiseHandler) League(c *gin.Context) {
	h.mu.RLock()
	opt := h.last
	h.mu.RUnlock()
	if opt == nil {
		writeError(c, model.ErrInvalidState)
		return
	}
	league, err := opt.League()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"league": league})
}

// Recall handles GET /api/v1/league/tasks/:index
func (h *OptimiseHandler) Recall(c *gin.Context) {
	var uri struct {
		Index int `uri:"index" binding:"min=0"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		badRequest(c, err)
		return
	}
	h.mu.RLock()
	opt := h.last
	h.mu.RUnlock()
	if opt == nil {
		writeError(c, model.ErrInvalidState)
		return
	}
	task, res, err := opt.Recall(uri.Index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task, "result": res})
}

// ListRuns handles GET /api/v1/runs
func (h *OptimiseHandler) ListRuns(c *gin.Context) {
	var req models.RunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []models.RunInfo{}})
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]models.RunInfo, len(runs))
	for i := range runs {
		out[i] = runInfo(&runs[i], false)
	}
	c.JSON(http.StatusOK, gin.H{"runs": out})
}

// GetRun handles GET /api/v1/runs/:id
func (h *OptimiseHandler) GetRun(c *gin.Context) {
	if h.store == nil {
		writeError(c, store.ErrNotFound)
		return
	}
	run, err := h.store.GetRun(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, runInfo(run, true))
}

func runInfo(r *store.Run, withLeague bool) models.RunInfo {
	info := models.RunInfo{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		SiteDigest: r.SiteDigest,
		Tasks:      r.Tasks,
		Evaluated:  r.Evaluated,
		CacheHits:  r.CacheHits,
		Rejected:   r.Rejected,
		Failed:     r.Failed,
		DurationMS: r.DurationMS,
	}
	if withLeague {
		info.League = r.League()
	}
	return info
}

func (h *OptimiseHandler) publishProgress(p optimiser.Progress) {
	h.publish(ws.TypeOptimiseProgress, p)
}

func (h *OptimiseHandler) publish(msgType string, payload any) {
	if h.hub != nil {
		h.hub.Publish(msgType, payload)
	}
}
