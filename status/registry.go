package status

import "sync/atomic"

// Well-known simulation metrics
const (
	MetricTicks         = "sim.ticks"
	MetricAgents        = "npc.count"
	MetricDiverting     = "npc.diverting"
	MetricArrivals      = "npc.arrivals"
	MetricDiversions    = "npc.diversions"
	MetricStalls        = "npc.stall_recoveries"
	MetricDetours       = "npc.detours_completed"
	MetricVehicleSpeed  = "vehicle.speed"
	MetricStepMicros    = "sim.step_us"
	MetricClients       = "net.clients"
	MetricDroppedFrames = "net.dropped"
)

// Registry is the metrics facade shared by the world, renderer and network hub
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// Snapshot copies every metric into a flat map
func (r *Registry) Snapshot() map[string]float64 {
	out := make(map[string]float64, r.Ints.Count()+r.Floats.Count())
	r.Ints.Range(func(k string, v *atomic.Int64) {
		out[k] = float64(v.Load())
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		out[k] = v.Get()
	})
	return out
}
