package component

import (
	"math"

	"site-energy-sim/internal/ledger"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/tariff"
)

const (
	// waterHeatCapacity is kWh per litre per kelvin.
	waterHeatCapacity = 4.186 / 3600
	coldWaterTemp     = 10.0
	cylinderSetpoint  = 60.0
	// standbyLossCoeff scales volume^(2/3) into a kW/K heat loss coefficient.
	standbyLossCoeff = 0.00004
)

// HotWaterCylinder stores DHW as energy above cold-feed temperature. It takes
// DHW demand off the ledger, refills from surplus electricity, then from the
// heat pump in cheap tariff periods, and tops up with direct electric heating
// when it runs dry.
type HotWaterCylinder struct {
	volume     float64
	capacity   float64
	lossCoeff  float64
	hpCharging bool
	tariffs    *tariff.DailyStats
	airTemp    []float64
	dt         float64

	stored float64

	history       []float64
	surplusCharge []float64
	heatCharge    []float64
	standbyLoss   []float64
	topUp         []float64
}

// NewHotWaterCylinder starts the cylinder full. hpCharging places heat pump
// charging requests into the DHW channel in cheap periods; tariffs may be nil
// when it is false.
func NewHotWaterCylinder(site *model.SiteData, dhw model.DomesticHotWater, hpCharging bool, tariffs *tariff.DailyStats) *HotWaterCylinder {
	n := site.Timesteps()
	capacity := dhw.CylinderVolume * waterHeatCapacity * (cylinderSetpoint - coldWaterTemp)
	return &HotWaterCylinder{
		volume:        dhw.CylinderVolume,
		capacity:      capacity,
		lossCoeff:     standbyLossCoeff * math.Pow(dhw.CylinderVolume, 2.0/3.0),
		hpCharging:    hpCharging && tariffs != nil,
		tariffs:       tariffs,
		airTemp:       site.AirTemperature,
		dt:            site.TimestepHours(),
		stored:        capacity,
		history:       make([]float64, n),
		surplusCharge: make([]float64, n),
		heatCharge:    make([]float64, n),
		standbyLoss:   make([]float64, n),
		topUp:         make([]float64, n),
	}
}

// Capacity is the usable energy of a full cylinder in kWh.
func (c *HotWaterCylinder) Capacity() float64 { return c.capacity }

// Temperature is the tank temperature implied by the stored energy.
func (c *HotWaterCylinder) Temperature() float64 {
	if c.volume <= 0 {
		return coldWaterTemp
	}
	return coldWaterTemp + c.stored/(c.volume*waterHeatCapacity)
}

// AllCalcs runs the whole horizon from a full cylinder.
func (c *HotWaterCylinder) AllCalcs(l *ledger.Ledger) {
	c.stored = c.capacity
	for t := range c.history {
		c.step(l, t)
	}
}

func (c *HotWaterCylinder) step(l *ledger.Ledger, t int) {
	c.surplusCharge[t], c.heatCharge[t], c.topUp[t] = 0, 0, 0

	demand := math.Max(0, l.DHW[t])
	l.DHW[t] -= demand

	loss := math.Max(0, c.lossCoeff*(c.Temperature()-c.airTemp[t])*c.dt)
	after := c.stored - demand - loss

	if surplus := -l.Elec[t]; surplus > 0 {
		charge := math.Min(surplus, math.Max(0, c.capacity-after))
		l.Elec[t] += charge
		after += charge
		c.surplusCharge[t] = charge
	}

	if c.hpCharging && c.tariffs.IsCheap(t) {
		request := math.Max(0, c.capacity-after)
		l.DHW[t] += request
		after += request
		c.heatCharge[t] = request
	}

	if after < 0 {
		c.topUp[t] = -after
		l.Elec[t] -= after
		after = 0
	}

	c.stored = math.Min(after, c.capacity)
	c.standbyLoss[t] = loss
	c.history[t] = c.stored
}

func (c *HotWaterCylinder) Report(r *Report) {
	r.DHWStored = clone(c.history)
	r.DHWSurplusCharge = clone(c.surplusCharge)
	r.DHWHeatCharge = clone(c.heatCharge)
	r.DHWStandbyLoss = clone(c.standbyLoss)
	r.DHWElecTopUp = clone(c.topUp)
}
