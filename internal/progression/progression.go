// Package progression derives level, title, and progress-bar fractions
// from a user's cumulative experience points. Everything here is a pure
// function of the XP total; the stored level column is only a cache of
// Level(xp).
package progression

// Level thresholds follow xpFloor(L) = (L-1)^2 * 100, so level(xp) is
// the integer square root of xp/100 plus one. Integer arithmetic keeps
// the boundaries exact: players notice off-by-one XP gates.

const xpPerUnit = 100

var titles = [...]string{
	"Seeker",
	"Student",
	"Reciter",
	"Memorizer",
	"Narrator",
	"Muhaddith",
	"Hafiz",
	"Scholar",
	"Imam",
	"Grand Muhaddith",
}

// Level maps total XP to a level, floored at 1.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return isqrt(xp/xpPerUnit) + 1
}

// XPFloor is the XP required to reach a level.
func XPFloor(level int) int {
	if level < 1 {
		level = 1
	}
	return (level - 1) * (level - 1) * xpPerUnit
}

// XPCeiling is the XP required to reach the next level.
func XPCeiling(level int) int {
	if level < 1 {
		level = 1
	}
	return level * level * xpPerUnit
}

// Title returns the ordinal title for a level. Levels past the table are
// pinned to the last title.
func Title(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(titles) {
		level = len(titles)
	}
	return titles[level-1]
}

// Progress is the progress-bar shape consumers render.
type Progress struct {
	Level      int    `json:"level"`
	Title      string `json:"title"`
	Current    int    `json:"progress_current"`
	Required   int    `json:"progress_required"`
	Percentage int    `json:"progress_percentage"`
}

// ProgressFor computes the progress of xp within its level band.
func ProgressFor(xp int) Progress {
	if xp < 0 {
		xp = 0
	}
	level := Level(xp)
	floor := XPFloor(level)
	required := XPCeiling(level) - floor
	current := xp - floor

	percentage := 100
	if required > 0 {
		percentage = (current*100 + required/2) / required
		if percentage > 100 {
			percentage = 100
		}
		if percentage < 0 {
			percentage = 0
		}
	}

	return Progress{
		Level:      level,
		Title:      Title(level),
		Current:    current,
		Required:   required,
		Percentage: percentage,
	}
}

// isqrt is the floor integer square root.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
