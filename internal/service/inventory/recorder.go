package inventory

import "time"

// Recorder receives operational measurements from the service.
type Recorder interface {
	Operation(name string, err error)
	Refresh(elapsed time.Duration, err error)
	Inventory(lowStockGroups, expiringRecords int)
}

type nopRecorder struct{}

func (nopRecorder) Operation(string, error) {}

func (nopRecorder) Refresh(time.Duration, error) {}

func (nopRecorder) Inventory(int, int) {}
