package profile

// Tag names one of the two stored profiles
type Tag string

const (
	A Tag = "A"
	B Tag = "B"
)

// Valid reports whether t is one of the two known tags
func (t Tag) Valid() bool {
	return t == A || t == B
}

// Other returns the tag a toggle switches to. Anything but B goes to B.
func (t Tag) Other() Tag {
	if t == B {
		return A
	}
	return B
}

// ProfileConfig is a saved routing intent: one sink, one source and their volumes.
// Node names are empty when unknown.
type ProfileConfig struct {
	SinkID       int    `toml:"sink_id" yaml:"sink_id"`
	SinkLabel    string `toml:"sink_label" yaml:"sink_label"`
	SinkNodeName string `toml:"sink_node_name" yaml:"sink_node_name"`

	SourceID       int    `toml:"source_id" yaml:"source_id"`
	SourceLabel    string `toml:"source_label" yaml:"source_label"`
	SourceNodeName string `toml:"source_node_name" yaml:"source_node_name"`

	SinkVolume   float64 `toml:"sink_volume" yaml:"sink_volume"`
	SourceVolume float64 `toml:"source_volume" yaml:"source_volume"`
}

func DefaultProfileConfig() ProfileConfig {
	return ProfileConfig{
		SinkVolume:   1.0,
		SourceVolume: 1.0,
	}
}

// Endpoint is one side of a profile as seen by the applicator
type Endpoint struct {
	Role   Role
	ID     int
	Label  string
	Node   *string // nil when no node name is stored
	Volume float64
}

func (p ProfileConfig) Sink() Endpoint {
	return Endpoint{Role: RoleSink, ID: p.SinkID, Label: p.SinkLabel, Node: optional(p.SinkNodeName), Volume: p.SinkVolume}
}

func (p ProfileConfig) Source() Endpoint {
	return Endpoint{Role: RoleSource, ID: p.SourceID, Label: p.SourceLabel, Node: optional(p.SourceNodeName), Volume: p.SourceVolume}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AppConfig is the full persisted state
type AppConfig struct {
	CurrentProfile Tag           `toml:"current_profile" yaml:"current_profile"`
	ProfileA       ProfileConfig `toml:"profile_a" yaml:"profile_a"`
	ProfileB       ProfileConfig `toml:"profile_b" yaml:"profile_b"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		CurrentProfile: A,
		ProfileA:       DefaultProfileConfig(),
		ProfileB:       DefaultProfileConfig(),
	}
}

// Profile returns the profile stored under tag. Unknown tags map to A.
func (c *AppConfig) Profile(tag Tag) *ProfileConfig {
	if tag == B {
		return &c.ProfileB
	}
	return &c.ProfileA
}
