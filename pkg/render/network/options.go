package network

// DefaultCDN is the vis-network build loaded by rendered documents.
const DefaultCDN = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"

// Options controls the rendered document.
type Options struct {
	Height     string // CSS height of the canvas, e.g. "750px"
	Width      string // CSS width of the canvas
	Background string
	FontColor  string
	Heading    string // optional heading above the canvas
	CDN        string // vis-network script URL
	Physics    Physics
}

// Physics holds the barnesHut solver constants and the stabilization cap.
type Physics struct {
	Enabled               bool    `toml:"enabled"`
	GravitationalConstant float64 `toml:"gravitational_constant"`
	CentralGravity        float64 `toml:"central_gravity"`
	SpringLength          float64 `toml:"spring_length"`
	SpringConstant        float64 `toml:"spring_constant"`
	Damping               float64 `toml:"damping"`
	AvoidOverlap          float64 `toml:"avoid_overlap"`
	MinVelocity           float64 `toml:"min_velocity"`
	Iterations            int     `toml:"iterations"`
	UpdateInterval        int     `toml:"update_interval"`
}

// DefaultPhysics returns constants that settle within the stabilization cap.
func DefaultPhysics() Physics {
	return Physics{
		Enabled:               true,
		GravitationalConstant: -2000,
		CentralGravity:        0.3,
		SpringLength:          200,
		SpringConstant:        0.04,
		Damping:               0.09,
		AvoidOverlap:          1,
		MinVelocity:           0.75,
		Iterations:            100,
		UpdateInterval:        25,
	}
}

// DefaultOptions returns the standard page setup: a full-width dark canvas.
func DefaultOptions() Options {
	return Options{
		Height:     "750px",
		Width:      "100%",
		Background: "#222222",
		FontColor:  "white",
		CDN:        DefaultCDN,
		Physics:    DefaultPhysics(),
	}
}

// withDefaults fills zero fields from DefaultOptions. Physics is replaced
// only when it is entirely zero.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Height == "" {
		o.Height = d.Height
	}
	if o.Width == "" {
		o.Width = d.Width
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	if o.FontColor == "" {
		o.FontColor = d.FontColor
	}
	if o.CDN == "" {
		o.CDN = d.CDN
	}
	if o.Physics == (Physics{}) {
		o.Physics = d.Physics
	}
	if o.Physics.Iterations <= 0 {
		o.Physics.Iterations = d.Physics.Iterations
	}
	if o.Physics.UpdateInterval <= 0 {
		o.Physics.UpdateInterval = d.Physics.UpdateInterval
	}
	return o
}
