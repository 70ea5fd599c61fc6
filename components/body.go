package components

// Body holds the properties an emitter keeps for its whole lifetime.
type Body struct {
	Radius float64 `inspect:"label,fmt:%.3f"` // sphere radius, > 0
	Speed  float64 `inspect:"bar,max:2"`      // distance per second
}
