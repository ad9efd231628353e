package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"site-energy-sim/internal/analysis"
	"site-energy-sim/internal/api/models"
	"site-energy-sim/internal/model"
)

// SiteHandler describes the loaded site and ranks its tariffs.
type SiteHandler struct {
	site       *model.SiteData
	digest     string
	percentile float64
}

func NewSiteHandler(site *model.SiteData, digest string, percentile float64) *SiteHandler {
	return &SiteHandler{site: site, digest: digest, percentile: percentile}
}

// GetSite handles GET /api/v1/site
func (h *SiteHandler) GetSite(c *gin.Context) {
	c.JSON(http.StatusOK, models.SiteInfo{
		Digest:              h.digest,
		Start:               h.site.StartTS,
		End:                 h.site.EndTS,
		Timesteps:           h.site.Timesteps(),
		TimestepHours:       h.site.TimestepHours(),
		ImportTariffs:       len(h.site.ImportTariffs),
		SolarYields:         len(h.site.SolarYields),
		FabricInterventions: len(h.site.FabricInterventions),
	})
}

// RankTariffs handles GET /api/v1/site/tariffs
func (h *SiteHandler) RankTariffs(c *gin.Context) {
	var req models.TariffRankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	percentile := h.percentile
	if req.Percentile > 0 && req.Percentile <= 100 {
		percentile = req.Percentile
	}

	ranked := analysis.RankTariffs(h.site.ImportTariffs, h.site.TimestepHours(), percentile)

	limit := req.Limit
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	ranked = ranked[:limit]

	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{Rank: i + 1, TariffSummary: r}
	}
	c.JSON(http.StatusOK, models.TariffRankResponse{Rankings: rankings})
}

// ListBatteryModes handles GET /api/v1/battery-modes
func ListBatteryModes(c *gin.Context) {
	modes := []models.BatteryModeInfo{
		{
			Name:        model.BatteryModeConsume,
			Description: "Charges from surplus generation and discharges to cover unmet demand.",
		},
		{
			Name:        model.BatteryModeConsumePlus,
			Description: "As consume, and also charges from the grid when the day's tariff is cheap, within the import limit.",
		},
	}
	c.JSON(http.StatusOK, gin.H{"battery_modes": modes})
}
