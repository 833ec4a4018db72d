package policy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
	"github.com/JoelJaison394/Minecraft-Agent/internal/config"
)

func TestExtractActionFromNoisyReply(t *testing.T) {
	reply := "I think we should head for that ore vein.\n\n```json\n" +
		`{"kind": "mine", "params": {"block": {"x": 12, "y": 40, "z": -7}}, "horizon_ms": 8000, "reason": "iron nearby"}` +
		"\n```\nGood luck!"

	a, err := ExtractAction(reply)
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != action.KindMine {
		t.Errorf("kind = %q", a.Kind)
	}
	if a.Params.Block == nil || a.Params.Block.Y != 40 {
		t.Errorf("block = %+v", a.Params.Block)
	}
}

func TestExtractActionSkipsInvalidCandidates(t *testing.T) {
	// First object is schema-invalid, second is fine.
	reply := `{"kind": "fly"} then try {"kind": "eat", "params": {}}`

	a, err := ExtractAction(reply)
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != action.KindEat {
		t.Errorf("kind = %q, want eat", a.Kind)
	}
}

func TestExtractActionInsideEnvelope(t *testing.T) {
	// Some advisors wrap the action in a reasoning envelope; the inner
	// object is the one that validates.
	reply := `{"thoughts": "low on food, bread in slot 3", "action": {"kind": "eat", "params": {}, "reason": "hungry"}}`

	a, err := ExtractAction(reply)
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != action.KindEat {
		t.Errorf("kind = %q, want eat", a.Kind)
	}
	if a.Reason != "hungry" {
		t.Errorf("reason = %q", a.Reason)
	}
}

func TestExtractActionBracesInsideStrings(t *testing.T) {
	reply := `{"kind": "eat", "params": {}, "reason": "inventory {bread: 3}"}`
	a, err := ExtractAction(reply)
	if err != nil {
		t.Fatal(err)
	}
	if a.Reason != "inventory {bread: 3}" {
		t.Errorf("reason = %q", a.Reason)
	}
}

func TestExtractActionNoAction(t *testing.T) {
	for _, reply := range []string{
		"I would wander around and see what happens.",
		"{unbalanced",
		`{"kind": "levitate"}`,
	} {
		if _, err := ExtractAction(reply); !errors.Is(err, ErrNoAction) {
			t.Errorf("ExtractAction(%q) err = %v, want ErrNoAction", reply, err)
		}
	}
}

func advisorStub(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Prompt == "" || req.Model == "" {
			t.Error("prompt or model missing from advisor request")
		}
		json.NewEncoder(w).Encode(generateResponse{Response: reply})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientProposeRoundTrip(t *testing.T) {
	srv := advisorStub(t, `Let's eat. {"kind": "eat", "params": {}, "horizon_ms": 3000}`)

	cfg := config.Default().Policy
	cfg.URL = srv.URL
	client := NewClient(cfg, zap.NewNop())

	a, err := client.Propose(context.Background(), Context{ActiveGoals: []string{"survive"}})
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != action.KindEat {
		t.Errorf("kind = %q", a.Kind)
	}
}

func TestClientProposeNoActionError(t *testing.T) {
	srv := advisorStub(t, "hmm, tough call.")

	cfg := config.Default().Policy
	cfg.URL = srv.URL
	client := NewClient(cfg, zap.NewNop())

	if _, err := client.Propose(context.Background(), Context{}); !errors.Is(err, ErrNoAction) {
		t.Errorf("err = %v, want ErrNoAction", err)
	}
}

func TestClientProposeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default().Policy
	cfg.URL = srv.URL
	client := NewClient(cfg, zap.NewNop())

	if _, err := client.Propose(context.Background(), Context{}); err == nil {
		t.Fatal("expected error on 503")
	}
}
