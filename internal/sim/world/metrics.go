package world

import "time"

type WorldMetrics struct {
	Tick         uint64  `json:"tick"`
	LoadedChunks int     `json:"loaded_chunks"`
	Drops        int     `json:"drops"`
	Monsters     int     `json:"monsters"`
	IsDay        bool    `json:"is_day"`
	InboxDepth   int     `json:"inbox_depth"`
	Commands     int     `json:"commands_last_tick"`
	StepMS       float64 `json:"step_ms"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	v := w.metrics.Load()
	if v == nil {
		return WorldMetrics{}
	}
	m, ok := v.(WorldMetrics)
	if !ok {
		return WorldMetrics{}
	}
	return m
}

func (w *World) recordStep(d time.Duration, commands int) {
	m := w.snapshotMetrics()
	m.Commands = commands
	m.StepMS = float64(d.Microseconds()) / 1000
	w.metrics.Store(m)
}

func (w *World) publishMetrics(commands int) {
	m := w.snapshotMetrics()
	m.Commands = commands
	w.metrics.Store(m)
}

func (w *World) snapshotMetrics() WorldMetrics {
	return WorldMetrics{
		Tick:         w.tick.Load(),
		LoadedChunks: w.chunks.Len(),
		Drops:        len(w.drops),
		Monsters:     len(w.monsters),
		IsDay:        w.IsDay(),
		InboxDepth:   len(w.inbox),
	}
}
