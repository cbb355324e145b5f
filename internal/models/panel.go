package models

// DeviceView is one device card as the view layer renders it.
type DeviceView struct {
	ID       string   `json:"id"`
	Location string   `json:"location"`
	Floor    int      `json:"floor"`
	Exists   bool     `json:"exists"`
	Healthy  bool     `json:"healthy"`
	Selected bool     `json:"selected"`
	Pending  bool     `json:"pending"`
	PowerOn  bool     `json:"power_on"`
	RoomTemp *float64 `json:"room_temp"`
	State    *ACState `json:"state"`
}

// PanelSnapshot is the full panel state handed to the view layer.
type PanelSnapshot struct {
	Devices   []DeviceView `json:"devices"`
	Selection []string     `json:"selection"`
	Pending   []string     `json:"pending"`
	Command   Command      `json:"command"`
}
