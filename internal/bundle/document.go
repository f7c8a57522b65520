// Package bundle implements the animation bundle engine: a YAML or TOML
// document of artboards, shapes, keyframed animations and state machines,
// imported into drawable objects that render through a vg.Factory.
package bundle

// Document is the decoded form of a bundle file. Field tags serve both the
// YAML and TOML decoders.
type Document struct {
	Artboards []ArtboardDoc `yaml:"artboards" toml:"artboards"`
}

// ArtboardDoc describes one artboard.
type ArtboardDoc struct {
	Name   string  `yaml:"name" toml:"name"`
	Width  float32 `yaml:"width" toml:"width"`
	Height float32 `yaml:"height" toml:"height"`
	// Clip restricts drawing to the artboard rectangle. Defaults to true.
	Clip                *bool             `yaml:"clip" toml:"clip"`
	DefaultStateMachine string            `yaml:"default_state_machine" toml:"default_state_machine"`
	Shapes              []ShapeDoc        `yaml:"shapes" toml:"shapes"`
	Animations          []AnimationDoc    `yaml:"animations" toml:"animations"`
	StateMachines       []StateMachineDoc `yaml:"state_machines" toml:"state_machines"`
}

// ShapeDoc describes a shape. Exactly one of Path, Rect and Ellipse gives
// its geometry.
type ShapeDoc struct {
	Name     string   `yaml:"name" toml:"name"`
	Path     string   `yaml:"path" toml:"path"`
	Rect     *BoxDoc  `yaml:"rect" toml:"rect"`
	Ellipse  *BoxDoc  `yaml:"ellipse" toml:"ellipse"`
	FillRule string   `yaml:"fill_rule" toml:"fill_rule"`
	X        float32  `yaml:"x" toml:"x"`
	Y        float32  `yaml:"y" toml:"y"`
	Rotation float32  `yaml:"rotation" toml:"rotation"` // degrees
	ScaleX   *float32 `yaml:"scale_x" toml:"scale_x"`
	ScaleY   *float32 `yaml:"scale_y" toml:"scale_y"`
	Opacity  *float32 `yaml:"opacity" toml:"opacity"`

	Fills   []PaintDoc `yaml:"fills" toml:"fills"`
	Strokes []PaintDoc `yaml:"strokes" toml:"strokes"`
	// Clip names another shape whose geometry clips this one.
	Clip string `yaml:"clip" toml:"clip"`
}

// BoxDoc is the rectangle of a rect or ellipse shorthand.
type BoxDoc struct {
	X      float32 `yaml:"x" toml:"x"`
	Y      float32 `yaml:"y" toml:"y"`
	Width  float32 `yaml:"width" toml:"width"`
	Height float32 `yaml:"height" toml:"height"`
}

// PaintDoc is a fill or stroke. Exactly one of Color, Linear and Radial
// is set.
type PaintDoc struct {
	Color  string     `yaml:"color" toml:"color"`
	Linear *LinearDoc `yaml:"linear" toml:"linear"`
	Radial *RadialDoc `yaml:"radial" toml:"radial"`
	Blend  string     `yaml:"blend" toml:"blend"`

	Thickness float32 `yaml:"thickness" toml:"thickness"`
	Join      string  `yaml:"join" toml:"join"`
	Cap       string  `yaml:"cap" toml:"cap"`
}

// LinearDoc is a linear gradient in world coordinates; the renderer
// samples it at transformed vertex positions.
type LinearDoc struct {
	Start []float32 `yaml:"start" toml:"start"`
	End   []float32 `yaml:"end" toml:"end"`
	Stops []StopDoc `yaml:"stops" toml:"stops"`
}

// RadialDoc is a radial gradient in world coordinates.
type RadialDoc struct {
	Center []float32 `yaml:"center" toml:"center"`
	Radius float32   `yaml:"radius" toml:"radius"`
	Stops  []StopDoc `yaml:"stops" toml:"stops"`
}

// StopDoc is one gradient stop.
type StopDoc struct {
	Color    string  `yaml:"color" toml:"color"`
	Position float32 `yaml:"position" toml:"position"`
}

// AnimationDoc is a keyframed animation.
type AnimationDoc struct {
	Name     string   `yaml:"name" toml:"name"`
	Duration float32  `yaml:"duration" toml:"duration"` // seconds
	Loop     string   `yaml:"loop" toml:"loop"`
	Keys     []KeyDoc `yaml:"keys" toml:"keys"`
}

// KeyDoc animates one property of one shape.
type KeyDoc struct {
	Shape    string     `yaml:"shape" toml:"shape"`
	Property string     `yaml:"property" toml:"property"`
	Frames   []FrameDoc `yaml:"frames" toml:"frames"`
}

// FrameDoc is a keyframe. Ease controls interpolation towards the next
// frame.
type FrameDoc struct {
	Time  float32 `yaml:"time" toml:"time"`
	Value float32 `yaml:"value" toml:"value"`
	Ease  string  `yaml:"ease" toml:"ease"`
}

// StateMachineDoc describes a state machine and its optional Lua script.
type StateMachineDoc struct {
	Name        string          `yaml:"name" toml:"name"`
	Initial     string          `yaml:"initial" toml:"initial"`
	States      []StateDoc      `yaml:"states" toml:"states"`
	Transitions []TransitionDoc `yaml:"transitions" toml:"transitions"`
	Script      string          `yaml:"script" toml:"script"`
}

// StateDoc is a state playing an optional animation.
type StateDoc struct {
	Name      string `yaml:"name" toml:"name"`
	Animation string `yaml:"animation" toml:"animation"`
}

// TransitionDoc moves from one state (or "any") to another when its
// trigger fires. Target optionally restricts pointer triggers to presses
// inside a shape.
type TransitionDoc struct {
	From   string `yaml:"from" toml:"from"`
	To     string `yaml:"to" toml:"to"`
	On     string `yaml:"on" toml:"on"`
	Target string `yaml:"target" toml:"target"`
}
