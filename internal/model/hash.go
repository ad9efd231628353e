package model

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

// hasher accumulates component fields into a 64-bit FNV-1a digest.
type hasher struct {
	buf [8]byte
	h   hash.Hash64
}

func newHasher(tag string) *hasher {
	h := &hasher{h: fnv.New64a()}
	_, _ = h.h.Write([]byte(tag))
	return h
}

func (h *hasher) float(v float64) *hasher {
	// -0 and +0 compare equal, so they must hash equal.
	if v == 0 {
		v = 0
	}
	binary.LittleEndian.PutUint64(h.buf[:], math.Float64bits(v))
	_, _ = h.h.Write(h.buf[:])
	return h
}

func (h *hasher) int(v int) *hasher {
	binary.LittleEndian.PutUint64(h.buf[:], uint64(v))
	_, _ = h.h.Write(h.buf[:])
	return h
}

func (h *hasher) bool(v bool) *hasher {
	if v {
		return h.int(1)
	}
	return h.int(0)
}

func (h *hasher) str(v string) *hasher {
	_, _ = h.h.Write([]byte(v))
	return h.int(len(v))
}

func (h *hasher) installation(i Installation) *hasher {
	return h.bool(i.Incumbent).float(i.Age).float(i.Lifetime)
}

func (h *hasher) sum64() uint64 { return h.h.Sum64() }

// CombineHash folds value into seed (boost::hash_combine mixing).
func CombineHash(seed, value uint64) uint64 {
	return seed ^ (value + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2))
}

func (b Building) Hash() uint64 {
	return newHasher("building").installation(b.Installation).
		float(b.ScalarHeatLoad).float(b.ScalarElectricalLoad).int(b.FabricInterventionIndex).sum64()
}

func (d DataCentre) Hash() uint64 {
	return newHasher("data_centre").installation(d.Installation).
		float(d.MaximumLoad).float(d.FlexibleLoadRatio).float(d.HotroomTemp).float(d.HeatRecoveryRatio).sum64()
}

func (d DomesticHotWater) Hash() uint64 {
	return newHasher("domestic_hot_water").installation(d.Installation).float(d.CylinderVolume).sum64()
}

func (e ElectricVehicles) Hash() uint64 {
	return newHasher("electric_vehicles").installation(e.Installation).
		float(e.FlexibleLoadRatio).float(e.ScalarElectricalLoad).
		int(e.SmallChargers).int(e.FastChargers).int(e.RapidChargers).int(e.UltraChargers).sum64()
}

func (e EnergyStorageSystem) Hash() uint64 {
	return newHasher("energy_storage_system").installation(e.Installation).
		float(e.Capacity).float(e.ChargePower).float(e.DischargePower).str(e.BatteryMode).float(e.InitialCharge).sum64()
}

func (g GasHeater) Hash() uint64 {
	return newHasher("gas_heater").installation(g.Installation).float(g.MaximumOutput).float(g.BoilerEfficiency).sum64()
}

func (g Grid) Hash() uint64 {
	return newHasher("grid").installation(g.Installation).
		float(g.GridExport).float(g.GridImport).float(g.ImportHeadroom).float(g.ExportHeadroom).
		float(g.MinPowerFactor).int(g.TariffIndex).float(g.ExportTariff).sum64()
}

func (h HeatPump) Hash() uint64 {
	return newHasher("heat_pump").installation(h.Installation).float(h.HeatPower).str(h.HeatSource).float(h.SendTemp).sum64()
}

func (m Mop) Hash() uint64 {
	return newHasher("mop").installation(m.Installation).float(m.MaximumLoad).sum64()
}

func (p SolarPanel) Hash() uint64 {
	return newHasher("solar_panel").installation(p.Installation).float(p.YieldScalar).int(p.YieldIndex).sum64()
}

func (c TaskConfig) Hash() uint64 {
	return newHasher("config").float(c.CapexLimit).bool(c.UseBoilerUpgradeScheme).
		float(c.GeneralGrantFunding).int(c.NPVHorizonYears).float(c.NPVDiscountRate).sum64()
}

// Hash combines the hashes of every component slot; an absent component
// contributes a fixed per-slot marker so that presence is part of the identity.
func (t TaskData) Hash() uint64 {
	seed := uint64(0xcbf29ce484222325)
	slot := func(present bool, name string, h func() uint64) {
		if present {
			seed = CombineHash(seed, h())
			return
		}
		seed = CombineHash(seed, newHasher("absent:"+name).sum64())
	}
	slot(t.Building != nil, "building", func() uint64 { return t.Building.Hash() })
	slot(t.DataCentre != nil, "data_centre", func() uint64 { return t.DataCentre.Hash() })
	slot(t.DomesticHotWater != nil, "domestic_hot_water", func() uint64 { return t.DomesticHotWater.Hash() })
	slot(t.ElectricVehicles != nil, "electric_vehicles", func() uint64 { return t.ElectricVehicles.Hash() })
	slot(t.EnergyStorageSystem != nil, "energy_storage_system", func() uint64 { return t.EnergyStorageSystem.Hash() })
	slot(t.GasHeater != nil, "gas_heater", func() uint64 { return t.GasHeater.Hash() })
	slot(t.Grid != nil, "grid", func() uint64 { return t.Grid.Hash() })
	slot(t.HeatPump != nil, "heat_pump", func() uint64 { return t.HeatPump.Hash() })
	slot(t.Mop != nil, "mop", func() uint64 { return t.Mop.Hash() })
	seed = CombineHash(seed, uint64(len(t.SolarPanels)))
	for _, p := range t.SolarPanels {
		seed = CombineHash(seed, p.Hash())
	}
	return CombineHash(seed, t.Config.Hash())
}
