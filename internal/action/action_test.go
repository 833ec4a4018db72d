package action

import (
	"testing"
	"time"

	"github.com/JoelJaison394/Minecraft-Agent/internal/world"
)

func TestValidatePerKindRequirements(t *testing.T) {
	slot := 3
	badSlot := 99
	cases := []struct {
		name    string
		act     Action
		wantErr bool
	}{
		{"unknown kind", Action{Kind: "teleport"}, true},
		{"navigate without target", Action{Kind: KindNavigate}, true},
		{"navigate with target", Action{Kind: KindNavigate, Params: Params{Target: &world.Vec3{X: 10}}}, false},
		{"mine without block", Action{Kind: KindMine}, true},
		{"mine with block", Action{Kind: KindMine, Params: Params{Block: &world.BlockPos{X: 1}}}, false},
		{"place without item", Action{Kind: KindPlace, Params: Params{Block: &world.BlockPos{}}}, true},
		{"eat bare", Action{Kind: KindEat}, false},
		{"attack default entity", Action{Kind: KindAttack}, false},
		{"attack bogus entity", Action{Kind: KindAttack, Params: Params{Entity: "dragon"}}, true},
		{"craft without item", Action{Kind: KindCraft, Params: Params{Count: 1}}, true},
		{"craft zero count", Action{Kind: KindCraft, Params: Params{Item: "stick"}}, true},
		{"select slot ok", Action{Kind: KindSelectSlot, Params: Params{Slot: &slot}}, false},
		{"select slot out of range", Action{Kind: KindSelectSlot, Params: Params{Slot: &badSlot}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.act.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestClampHorizon(t *testing.T) {
	min, max := 2*time.Second, 60*time.Second

	a := Action{Kind: KindEat} // zero horizon
	if got := a.ClampHorizon(min, max).Horizon; got != min {
		t.Errorf("zero horizon clamped to %v, want %v", got, min)
	}
	a.Horizon = 5 * time.Minute
	if got := a.ClampHorizon(min, max).Horizon; got != max {
		t.Errorf("oversized horizon clamped to %v, want %v", got, max)
	}
	a.Horizon = 10 * time.Second
	if got := a.ClampHorizon(min, max).Horizon; got != 10*time.Second {
		t.Errorf("in-range horizon changed to %v", got)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"kind":"fly","params":{}}`,
		`{"kind":"navigate","params":{}}`,
		`{"kind":"mine"}`,
	} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Errorf("Decode(%q) accepted malformed input", raw)
		}
	}
}

func TestDecodeValid(t *testing.T) {
	a, err := Decode([]byte(`{"kind":"navigate","params":{"target":{"x":100,"y":64,"z":-20}},"horizon_ms":15000,"reason":"head to the ridge"}`))
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != KindNavigate {
		t.Errorf("kind = %q", a.Kind)
	}
	if a.Horizon != 15*time.Second {
		t.Errorf("horizon = %v", a.Horizon)
	}
	if a.Params.Target.X != 100 {
		t.Errorf("target = %+v", a.Params.Target)
	}
}

func TestSignatureBucketsNearbyTargets(t *testing.T) {
	a := Action{Kind: KindNavigate, Params: Params{Target: &world.Vec3{X: 100.2, Y: 64, Z: 8}}}
	b := Action{Kind: KindNavigate, Params: Params{Target: &world.Vec3{X: 103.8, Y: 65, Z: 9.5}}}
	c := Action{Kind: KindNavigate, Params: Params{Target: &world.Vec3{X: 300, Y: 64, Z: 8}}}

	if a.Signature() != b.Signature() {
		t.Errorf("nearby targets should share a signature: %q vs %q", a.Signature(), b.Signature())
	}
	if a.Signature() == c.Signature() {
		t.Errorf("distant targets should differ: %q", a.Signature())
	}
}

func TestSignatureDistinguishesKinds(t *testing.T) {
	mine := Action{Kind: KindMine, Params: Params{Block: &world.BlockPos{X: 1, Y: 2, Z: 3}}}
	eat := Action{Kind: KindEat}
	attack := Action{Kind: KindAttack}

	sigs := map[string]bool{mine.Signature(): true, eat.Signature(): true, attack.Signature(): true}
	if len(sigs) != 3 {
		t.Errorf("expected 3 distinct signatures, got %v", sigs)
	}
}
