package history

import "testing"

func TestSanitize(t *testing.T) {
	in := []Message{
		{ID: "1", Content: "what's my balance?"},
		{ID: "2", Content: ""},
		{ID: "3", Role: "assistant", Content: "2.0 SOL", Action: "balance"},
	}
	out := sanitize(in)
	if len(out) != 2 { t.Fatalf("len=%d", len(out)) }
	if out[0].Role != "user" { t.Fatalf("role default=%s", out[0].Role) }
	if out[1].Action != "balance" { t.Fatalf("action=%s", out[1].Action) }
}

func TestSanitize_AllEmpty(t *testing.T) {
	if got := sanitize([]Message{{}, {}}); len(got) != 0 {
		t.Fatalf("len=%d", len(got))
	}
}
