package simulate

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

type column struct {
	name   string
	values []float64
}

func (r ReportData) columns() []column {
	all := []column{
		{"building_eload", r.BuildingELoad},
		{"building_hload", r.BuildingHLoad},
		{"dhw_demand", r.DHWDemand},
		{"pv_generation", r.PVGeneration},
		{"ev_target_load", r.EVTargetLoad},
		{"ev_actual_load", r.EVActualLoad},
		{"ess_charge", r.ESSCharge},
		{"ess_discharge", r.ESSDischarge},
		{"ess_stored", r.ESSStored},
		{"dc_target_load", r.DCTargetLoad},
		{"dc_actual_load", r.DCActualLoad},
		{"dc_waste_heat", r.DCWasteHeat},
		{"hp_elec_load", r.HPElecLoad},
		{"hp_heat_dhw", r.HPHeatDHW},
		{"hp_heat_ch", r.HPHeatCH},
		{"hp_waste_used", r.HPWasteUsed},
		{"dhw_stored", r.DHWStored},
		{"dhw_surplus_charge", r.DHWSurplusCharge},
		{"dhw_heat_charge", r.DHWHeatCharge},
		{"dhw_standby_loss", r.DHWStandbyLoss},
		{"dhw_elec_top_up", r.DHWElecTopUp},
		{"grid_import", r.GridImport},
		{"grid_export", r.GridExport},
		{"gas_heat", r.GasHeat},
		{"gas_fuel", r.GasFuel},
		{"mop_load", r.MopLoad},
		{"import_shortfall", r.ImportShortfall},
		{"curtailed_export", r.CurtailedExport},
		{"heat_shortfall", r.HeatShortfall},
		{"heat_surplus", r.HeatSurplus},
	}
	n := r.Timesteps()
	out := all[:0]
	for _, c := range all {
		if len(c.values) == n {
			out = append(out, c)
		}
	}
	return out
}

// WriteReportCSV writes one row per timestep. Columns for absent components
// are omitted.
func WriteReportCSV(path string, r ReportData, start time.Time, step time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteReport(f, r, start, step)
}

func WriteReport(out io.Writer, r ReportData, start time.Time, step time.Duration) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	cols := r.columns()
	header := make([]string, 0, len(cols)+2)
	header = append(header, "index", "timestamp")
	for _, c := range cols {
		header = append(header, c.name)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for t := 0; t < r.Timesteps(); t++ {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(t), fmtTime(start.Add(time.Duration(t)*step)))
		for _, c := range cols {
			row = append(row, fmtFloat(c.values[t]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
