package models

// Temperature setpoint bounds enforced on every command edit.
const (
	MinTemp = 16
	MaxTemp = 30
)

// Command is the pending command edited in the panel and sent to devices.
// Power and Swing travel as "on"/"off" strings on the wire.
type Command struct {
	Power string `json:"power"`
	Mode  string `json:"mode"`
	Temp  int    `json:"temp"`
	Fan   string `json:"fan"`
	Swing string `json:"swing"`
}

// DefaultCommand is used when no cached command exists or the cache is corrupt.
func DefaultCommand() Command {
	return Command{
		Power: "on",
		Mode:  ModeCool,
		Temp:  24,
		Fan:   "auto",
		Swing: "on",
	}
}

// Valid reports whether a command is complete enough to cache and send.
func (c Command) Valid() bool {
	if c.Power != "on" && c.Power != "off" {
		return false
	}
	if c.Mode != ModeCool && c.Mode != ModeHot {
		return false
	}
	if c.Temp < MinTemp || c.Temp > MaxTemp {
		return false
	}
	if c.Fan == "" {
		return false
	}
	return c.Swing == "on" || c.Swing == "off"
}

// CommandPatch is a partial edit of the pending command. Nil fields are left
// unchanged.
type CommandPatch struct {
	Power *string `json:"power,omitempty"`
	Mode  *string `json:"mode,omitempty"`
	Temp  *int    `json:"temp,omitempty"`
	Fan   *string `json:"fan,omitempty"`
	Swing *string `json:"swing,omitempty"`
}

// FromState seeds a command from a reported device state, keeping the previous
// command's fields where the state has no usable value.
func FromState(prev Command, st ACState) Command {
	out := prev
	if st.Power {
		out.Power = "on"
	} else {
		out.Power = "off"
	}
	if st.Mode == ModeHot {
		out.Mode = ModeHot
	} else {
		out.Mode = ModeCool
	}
	if st.Temp >= MinTemp && st.Temp <= MaxTemp {
		out.Temp = st.Temp
	} else {
		out.Temp = 24
	}
	if st.Fan != "" {
		out.Fan = st.Fan
	} else {
		out.Fan = "auto"
	}
	if st.Swing {
		out.Swing = "on"
	} else {
		out.Swing = "off"
	}
	return out
}
