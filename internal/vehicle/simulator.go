// Package vehicle produces the car telemetry shown on the conditions page
// and streams it to connected dashboards over WebSocket.
package vehicle

import (
	"math"
	"sync"
	"time"

	"campus-drive/internal/models"
)

// StatusProvider yields the current telemetry snapshot.
type StatusProvider interface {
	Status() models.VehicleStatus
}

// Range per percent of battery, a rough EV figure
const kmPerBatteryPercent = 4.2

// Simulator is a deterministic telemetry source. Values drift smoothly with
// elapsed time from a fixed baseline, so two dashboards opened at the same
// moment see the same numbers and restarts don't jump the gauges.
type Simulator struct {
	mu    sync.Mutex
	start time.Time
	now   func() time.Time

	baseline models.VehicleStatus
}

// NewSimulator creates a simulator anchored at the current time.
func NewSimulator() *Simulator {
	return newSimulatorAt(time.Now)
}

func newSimulatorAt(now func() time.Time) *Simulator {
	return &Simulator{
		start: now(),
		now:   now,
		baseline: models.VehicleStatus{
			BatteryPercent:  78,
			SpeedKph:        0,
			TirePressurePsi: [4]float64{34.1, 34.0, 33.8, 33.9},
			CabinTempC:      22.5,
			MotorTempC:      41,
			OdometerKm:      12480.3,
			ChargingState:   "discharging",
		},
	}
}

// Status computes the snapshot for the current instant.
func (s *Simulator) Status() models.VehicleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := s.now().Sub(s.start).Seconds()
	status := s.baseline

	// Campus shuttle speeds: oscillate between stops, never above ~30 km/h
	status.SpeedKph = round1(15 + 14*math.Sin(elapsed/45))
	if status.SpeedKph < 0.5 {
		status.SpeedKph = 0
	}

	// Battery drains slowly while moving; about 1% per 10 minutes
	status.BatteryPercent = round1(s.baseline.BatteryPercent - elapsed/600)
	if status.BatteryPercent < 0 {
		status.BatteryPercent = 0
		status.ChargingState = "empty"
	}
	status.RangeKm = round1(status.BatteryPercent * kmPerBatteryPercent)

	// Temperatures and pressure wander within a narrow band
	status.CabinTempC = round1(s.baseline.CabinTempC + 0.8*math.Sin(elapsed/120))
	status.MotorTempC = round1(s.baseline.MotorTempC + 6*math.Abs(math.Sin(elapsed/90)))
	for i := range status.TirePressurePsi {
		status.TirePressurePsi[i] = round1(s.baseline.TirePressurePsi[i] + 0.2*math.Sin(elapsed/300+float64(i)))
	}

	status.OdometerKm = round1(s.baseline.OdometerKm + elapsed*15.0/3600)
	status.UpdatedAt = s.now().UTC()

	return status
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
