package models

// DeviceRecord is a device as announced to the control server.
// A record with an empty Address is a catalog slot with no live device behind it.
type DeviceRecord struct {
	ID      string `json:"id"`
	Address string `json:"ip"`
	Port    int    `json:"port"`
}

// Exists reports whether a live device has been seen for this record.
func (r DeviceRecord) Exists() bool { return r.Address != "" }

// DeviceHealth carries both the raw per-poll reading and the debounced flag
// the panel actually displays.
type DeviceHealth struct {
	OK  bool `json:"ok"`
	Raw bool `json:"raw"`
}

// ACState is the last reported operating state of one unit.
type ACState struct {
	Power    bool     `json:"power"`
	Mode     string   `json:"mode"` // cool | hot
	Temp     int      `json:"temp"`
	Fan      string   `json:"fan"`
	Swing    bool     `json:"swing"`
	RoomTemp *float64 `json:"room_temp"`
}

// DeviceStatus is the per-poll snapshot for one device. State is nil when the
// device did not answer its state probe.
type DeviceStatus struct {
	ID     string       `json:"id"`
	Health DeviceHealth `json:"health"`
	State  *ACState     `json:"state"`
}

// Operating modes accepted by the units.
const (
	ModeCool = "cool"
	ModeHot  = "hot"
)
