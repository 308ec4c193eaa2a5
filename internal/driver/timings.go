package driver

import (
	"encoding/json"
	"fmt"
	"strings"

	"astbridge/internal/diag"
	"astbridge/internal/observ"
	"astbridge/internal/source"
)

// unitTimings is the machine-readable note of an ObsTimings diagnostic.
type unitTimings struct {
	Kind       string               `json:"kind"`
	Path       string               `json:"path"`
	Cached     bool                 `json:"cached,omitempty"`
	TotalMS    float64              `json:"total_ms"`
	Phases     []observ.PhaseReport `json:"phases"`
	Dispatches int                  `json:"dispatches,omitempty"`
}

// addTimings files the unit's phase report in its bag. It bypasses the bag
// limit: the report is asked for explicitly and a full bag must not hide it.
func addTimings(bag *diag.Bag, res *UnitResult) {
	if bag == nil {
		return
	}
	t := unitTimings{
		Kind:    "unit",
		Path:    res.Path,
		Cached:  res.Cached,
		TotalMS: res.Timing.TotalMS,
		Phases:  res.Timing.Phases,
	}
	if res.Result != nil {
		for _, n := range res.Result.Stats {
			t.Dispatches += n
		}
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return
	}

	phases := make([]string, 0, len(t.Phases))
	for _, p := range t.Phases {
		phases = append(phases, fmt.Sprintf("%s %.2f", p.Name, p.DurationMS))
	}
	msg := fmt.Sprintf("timings (unit): total %.2f ms [%s]", t.TotalMS, strings.Join(phases, ", "))
	if t.Cached {
		msg += " (decode cached)"
	}

	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg)
	d.Notes = []diag.Note{{Msg: string(payload)}}
	extra := diag.NewBag(1)
	extra.Add(d)
	bag.Merge(extra)
}
