package styles

// Colors of the club site's dark map theme.
const (
	ColorPaper    = "#2C2A26"
	ColorInk      = "#E8E4DC"
	ColorInkMuted = "#9A958A"
	ColorInkDim   = "#6B6760"
	ColorTeal     = "#4AABB8"
	ColorTealDark = "#2D8A96"
	ColorRoad     = "#5C5040"
	ColorRoadEdge = "#3A3228"
	ColorRoadLine = "#8A7D65"
	ColorDot      = "#D4582A"
	ColorDotHover = "#E8703E"
	ColorWhite    = "#F0ECE4"
	ColorElevated = "#35322D"
)

// Font stacks.
const (
	FontMono    = "'IBM Plex Mono', monospace"
	FontDisplay = "'Playfair Display', Georgia, serif"
)

// Geometry shared by styles.
const (
	GridStep      = 70.0
	LeaderLength  = 18.0
	LabelGap      = 5.0
	MarkerRadius  = 5.0
	HoverRadius   = 7.0
	GlowRadius    = 14.0
	MemberRadius  = 4.0
	TitleMaxRunes = 28
)
