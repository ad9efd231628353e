package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"site-energy-sim/internal/api/models"
	"site-energy-sim/internal/config"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/scenario"
)

// SimulationHandler serves single-task requests against the loaded site and
// baseline.
type SimulationHandler struct {
	sim *scenario.Simulator
}

func NewSimulationHandler(sim *scenario.Simulator) *SimulationHandler {
	return &SimulationHandler{sim: sim}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulationHandler) Simulate(c *gin.Context) {
	task, ok := bindTask(c)
	if !ok {
		return
	}
	res, err := h.sim.SimulateScenario(task)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SimulateFull handles POST /api/v1/simulate/full
func (h *SimulationHandler) SimulateFull(c *gin.Context) {
	task, ok := bindTask(c)
	if !ok {
		return
	}
	res, err := h.sim.SimulateFull(task)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Validate handles POST /api/v1/validate
func (h *SimulationHandler) Validate(c *gin.Context) {
	task, ok := bindTask(c)
	if !ok {
		return
	}
	if err := h.sim.ValidateScenario(task); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ValidateResponse{Valid: true, Hash: strconv.FormatUint(task.Hash(), 16)})
}

// Capex handles POST /api/v1/capex
func (h *SimulationHandler) Capex(c *gin.Context) {
	task, ok := bindTask(c)
	if !ok {
		return
	}
	capex, err := h.sim.CalculateCapexWithDiscounts(task)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, capex)
}

// Baseline handles GET /api/v1/baseline
func (h *SimulationHandler) Baseline(c *gin.Context) {
	base, err := h.sim.Baseline()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, base)
}

// bindTask decodes the request body as a task, writing the error response
// itself when it cannot.
func bindTask(c *gin.Context) (*model.TaskData, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, err)
		return nil, false
	}
	task, err := config.DecodeTask(raw)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return task, true
}

func decodeTasks(raw []map[string]any) ([]*model.TaskData, error) {
	tasks := make([]*model.TaskData, len(raw))
	for i, m := range raw {
		task, err := config.DecodeTask(m)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		tasks[i] = task
	}
	return tasks, nil
}
