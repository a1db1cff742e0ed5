package spec

import "fmt"

// Topology is the clustering topology a service runs under.
type Topology string

const (
	TopologyStandalone Topology = "standalone"
	TopologyLeader     Topology = "leader"
)

func (t Topology) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *Topology) UnmarshalText(text []byte) error {
	switch v := Topology(text); v {
	case TopologyStandalone, TopologyLeader:
		*t = v
		return nil
	}
	return fmt.Errorf("invalid topology %q", string(text))
}

// UpdateStrategy controls how a running service follows new package releases.
type UpdateStrategy string

const (
	UpdateStrategyNone    UpdateStrategy = "none"
	UpdateStrategyAtOnce  UpdateStrategy = "at-once"
	UpdateStrategyRolling UpdateStrategy = "rolling"
)

func (u UpdateStrategy) MarshalText() ([]byte, error) { return []byte(u), nil }

func (u *UpdateStrategy) UnmarshalText(text []byte) error {
	switch v := UpdateStrategy(text); v {
	case UpdateStrategyNone, UpdateStrategyAtOnce, UpdateStrategyRolling:
		*u = v
		return nil
	}
	return fmt.Errorf("invalid update strategy %q", string(text))
}

// BindingMode decides whether unsatisfied optional binds block startup.
type BindingMode string

const (
	BindingModeStrict  BindingMode = "strict"
	BindingModeRelaxed BindingMode = "relaxed"
)

func (m BindingMode) MarshalText() ([]byte, error) { return []byte(m), nil }

func (m *BindingMode) UnmarshalText(text []byte) error {
	switch v := BindingMode(text); v {
	case BindingModeStrict, BindingModeRelaxed:
		*m = v
		return nil
	}
	return fmt.Errorf("invalid binding mode %q", string(text))
}

// DesiredState is the state the supervisor should drive the service toward.
type DesiredState string

const (
	DesiredUp   DesiredState = "up"
	DesiredDown DesiredState = "down"
)

func (d DesiredState) MarshalText() ([]byte, error) { return []byte(d), nil }

func (d *DesiredState) UnmarshalText(text []byte) error {
	switch v := DesiredState(text); v {
	case DesiredUp, DesiredDown:
		*d = v
		return nil
	}
	return fmt.Errorf("invalid desired state %q", string(text))
}
