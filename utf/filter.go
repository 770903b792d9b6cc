package utf

// Filter is a predicate over code points.  A filter returns true for code
// points it rejects.  A nil Filter rejects nothing.
type Filter func(CodePoint) bool

// Predefined filters.
var (
	Noncharacter            Filter = CodePoint.IsNoncharacter
	Surrogate               Filter = CodePoint.IsSurrogate
	SurrogateOrNoncharacter Filter = func(c CodePoint) bool { return c.IsSurrogate() || c.IsNoncharacter() }
	NoncharacterOrNUL       Filter = func(c CodePoint) bool { return c == 0 || c.IsNoncharacter() }
)

// Match reports whether f rejects c.
func (f Filter) Match(c CodePoint) bool {
	return f != nil && f(c)
}
