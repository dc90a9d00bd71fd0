package progression

import "testing"

func TestLevel_Boundaries(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{8100, 10},
		{10000, 11},
		{-5, 1},
	}
	for _, c := range cases {
		if got := Level(c.xp); got != c.want {
			t.Errorf("Level(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestLevel_Monotone(t *testing.T) {
	prev := Level(0)
	for xp := 1; xp <= 20000; xp++ {
		cur := Level(xp)
		if cur < prev {
			t.Fatalf("Level decreased: Level(%d)=%d < Level(%d)=%d", xp, cur, xp-1, prev)
		}
		prev = cur
	}
}

func TestXPFloor_RoundTrip(t *testing.T) {
	for level := 1; level <= 30; level++ {
		floor := XPFloor(level)
		if got := Level(floor); got != level {
			t.Errorf("Level(XPFloor(%d)) = %d, want %d", level, got, level)
		}
		if floor > 0 {
			if got := Level(floor - 1); got != level-1 {
				t.Errorf("Level(XPFloor(%d)-1) = %d, want %d", level, got, level-1)
			}
		}
	}
}

func TestXPCeiling_MatchesNextFloor(t *testing.T) {
	for level := 1; level <= 30; level++ {
		if XPCeiling(level) != XPFloor(level+1) {
			t.Errorf("XPCeiling(%d) = %d, XPFloor(%d) = %d", level, XPCeiling(level), level+1, XPFloor(level+1))
		}
	}
}

func TestTitle(t *testing.T) {
	cases := []struct {
		level int
		want  string
	}{
		{0, "Seeker"},
		{1, "Seeker"},
		{2, "Student"},
		{5, "Narrator"},
		{9, "Imam"},
		{10, "Grand Muhaddith"},
		{11, "Grand Muhaddith"},
		{100, "Grand Muhaddith"},
	}
	for _, c := range cases {
		if got := Title(c.level); got != c.want {
			t.Errorf("Title(%d) = %q, want %q", c.level, got, c.want)
		}
	}
}

func TestProgressFor(t *testing.T) {
	p := ProgressFor(0)
	if p.Level != 1 || p.Current != 0 || p.Required != 100 || p.Percentage != 0 {
		t.Errorf("ProgressFor(0) = %+v", p)
	}

	p = ProgressFor(50)
	if p.Percentage != 50 {
		t.Errorf("ProgressFor(50).Percentage = %d, want 50", p.Percentage)
	}

	// 150 XP sits a sixth of the way through the 100..400 band.
	p = ProgressFor(150)
	if p.Level != 2 || p.Current != 50 || p.Required != 300 {
		t.Errorf("ProgressFor(150) = %+v", p)
	}
	if p.Percentage != 17 {
		t.Errorf("ProgressFor(150).Percentage = %d, want 17 (rounded)", p.Percentage)
	}

	for xp := 0; xp <= 15000; xp += 7 {
		p := ProgressFor(xp)
		if p.Percentage < 0 || p.Percentage > 100 {
			t.Fatalf("ProgressFor(%d).Percentage = %d out of range", xp, p.Percentage)
		}
		if p.Current < 0 || p.Current > p.Required {
			t.Fatalf("ProgressFor(%d) current %d outside band of %d", xp, p.Current, p.Required)
		}
	}
}
