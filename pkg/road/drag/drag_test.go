package drag

import (
	"testing"

	"github.com/rvno/roadline/pkg/geom"
)

var wide = geom.Limits{MaxDX: 266, MaxDY: 72}

func TestDragRoundTrip(t *testing.T) {
	c := New(Static(true))
	start := geom.Offset{DX: 5, DY: 5}
	if !c.Press("2022", geom.Pt(100, 100), start, wide) {
		t.Fatal("Press should open a session for an editor")
	}

	o, ok := c.Move(geom.Pt(110, 95))
	if !ok || o != (geom.Offset{DX: 15, DY: 0}) {
		t.Errorf("Move = %+v, %v", o, ok)
	}
	res := c.Release(geom.Pt(115, 90))
	want := Result{Kind: Drag, Target: "2022", Offset: geom.Offset{DX: 20, DY: -5}, Persist: true}
	if res.Kind != want.Kind || res.Target != want.Target || res.Offset != want.Offset || !res.Persist {
		t.Errorf("Release = %+v, want %+v", res, want)
	}
	if c.Active() {
		t.Error("session should be cleared after release")
	}
}

func TestDragClampsToLimits(t *testing.T) {
	c := New(Static(true))
	c.Press("2022", geom.Pt(0, 0), geom.Offset{}, geom.Limits{MaxDX: 10, MaxDY: 10})

	if o, _ := c.Move(geom.Pt(50, -50)); o != (geom.Offset{DX: 10, DY: -10}) {
		t.Errorf("Move should clamp, got %+v", o)
	}
	if res := c.Release(geom.Pt(50, -50)); res.Offset != (geom.Offset{DX: 10, DY: -10}) {
		t.Errorf("Release should clamp, got %+v", res.Offset)
	}
}

func TestReleaseBelowThresholdIsClick(t *testing.T) {
	c := New(Static(true))
	c.Press("2022", geom.Pt(100, 100), geom.Offset{DX: 7}, wide)
	c.Move(geom.Pt(102, 101))

	res := c.Release(geom.Pt(102, 101))
	if res.Kind != Click {
		t.Fatalf("Kind = %v, want click", res.Kind)
	}
	if res.Persist || !res.Offset.IsZero() {
		t.Errorf("click must not persist anything: %+v", res)
	}
}

func TestThresholdUsesNetDisplacement(t *testing.T) {
	c := New(Static(true))
	c.Press("2022", geom.Pt(100, 100), geom.Offset{}, wide)
	c.Move(geom.Pt(160, 100))
	if res := c.Release(geom.Pt(101, 100)); res.Kind != Click {
		t.Errorf("returning to the start should be a click, got %v", res.Kind)
	}
}

func TestPressRequiresEditPrivilege(t *testing.T) {
	c := New(Static(false))
	if c.Press("2022", geom.Pt(0, 0), geom.Offset{}, wide) {
		t.Error("viewer must not start a drag")
	}
	if c.Active() {
		t.Error("no session expected")
	}

	c = New(nil)
	if c.Press("2022", geom.Pt(0, 0), geom.Offset{}, wide) {
		t.Error("nil authorizer must deny")
	}
}

func TestSingleSession(t *testing.T) {
	c := New(Static(true))
	c.Press("2021", geom.Pt(0, 0), geom.Offset{}, wide)
	if c.Press("2022", geom.Pt(5, 5), geom.Offset{}, wide) {
		t.Error("second press must be ignored while dragging")
	}
	if c.PressTap("ride-1", geom.Pt(5, 5)) {
		t.Error("tap press must be ignored while dragging")
	}
	if s, _ := c.Session(); s.Target != "2021" {
		t.Errorf("session target = %q, want 2021", s.Target)
	}
}

func TestRevokedPrivilegeDoesNotPersist(t *testing.T) {
	allowed := true
	c := New(AuthorizerFunc(func() bool { return allowed }))
	c.Press("2022", geom.Pt(0, 0), geom.Offset{}, wide)
	c.Move(geom.Pt(30, 0))

	allowed = false
	o, ok := c.Move(geom.Pt(40, 0))
	if !ok || o.DX != 40 {
		t.Errorf("drag feedback should continue after revocation: %+v", o)
	}
	res := c.Release(geom.Pt(40, 0))
	if res.Kind != Drag || res.Offset.DX != 40 {
		t.Errorf("Release = %+v", res)
	}
	if res.Persist {
		t.Error("revoked session must not persist")
	}
}

func TestCancel(t *testing.T) {
	t.Run("drag keeps last offset", func(t *testing.T) {
		c := New(Static(true))
		c.Press("2022", geom.Pt(0, 0), geom.Offset{}, wide)
		c.Move(geom.Pt(15, -10))
		res := c.Cancel()
		if res.Kind != Drag || res.Offset != (geom.Offset{DX: 15, DY: -10}) || !res.Persist {
			t.Errorf("Cancel = %+v", res)
		}
	})
	t.Run("click does nothing", func(t *testing.T) {
		c := New(Static(true))
		c.Press("2022", geom.Pt(0, 0), geom.Offset{}, wide)
		if res := c.Cancel(); res.Kind != None {
			t.Errorf("cancelled click Kind = %v, want none", res.Kind)
		}
	})
	t.Run("idle", func(t *testing.T) {
		if res := New(Static(true)).Cancel(); res.Kind != None || res.Target != "" {
			t.Errorf("idle Cancel = %+v", res)
		}
	})
}

func TestTapSession(t *testing.T) {
	c := New(Static(false))
	if !c.PressTap("ride-3", geom.Pt(10, 10)) {
		t.Fatal("tap press should open a session without privilege")
	}
	if c.Dragging() {
		t.Error("tap session is not a drag")
	}
	if _, ok := c.Move(geom.Pt(11, 11)); ok {
		t.Error("tap session has no live offset")
	}
	if res := c.Release(geom.Pt(11, 11)); res.Kind != Click || res.Target != "ride-3" {
		t.Errorf("tap release = %+v", res)
	}

	c.PressTap("ride-3", geom.Pt(10, 10))
	if res := c.Release(geom.Pt(60, 10)); res.Kind != None || res.Persist {
		t.Errorf("swipe on a tap target = %+v, want none", res)
	}
}

func TestIdleMoveAndRelease(t *testing.T) {
	c := New(Static(true))
	if _, ok := c.Move(geom.Pt(1, 1)); ok {
		t.Error("Move without session should report false")
	}
	if res := c.Release(geom.Pt(1, 1)); res.Kind != None {
		t.Errorf("Release without session = %+v", res)
	}
}

func TestSessionIDs(t *testing.T) {
	n := 0
	c := New(Static(true), WithIDGenerator(func() string { n++; return "s" }), WithClickThreshold(0))
	c.Press("2022", geom.Pt(0, 0), geom.Offset{}, wide)
	s, ok := c.Session()
	if !ok || s.ID != "s" || n != 1 {
		t.Errorf("Session = %+v, %v", s, ok)
	}
	if res := c.Release(geom.Pt(0, 0)); res.Kind != Click {
		t.Errorf("zero threshold: zero displacement is still a click, got %v", res.Kind)
	}
}
