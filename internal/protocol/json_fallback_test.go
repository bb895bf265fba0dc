package protocol

import "testing"

func TestFirstBalancedSpan(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"object in prose", `sure: {"a":1} done`, `{"a":1}`, true},
		{"array in prose", `list: [1,2,3] end`, `[1,2,3]`, true},
		{"nested", `{"a":{"b":[1,{"c":2}]}}`, `{"a":{"b":[1,{"c":2}]}}`, true},
		{"brace inside string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"escaped quote", `{"a":"\"}\""}`, `{"a":"\"}\""}`, true},
		{"unterminated", `{"a":1`, "", false},
		{"no json", "nothing here", "", false},
		{"mismatched closer", `{"a":["b"}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstBalancedSpan(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("firstBalancedSpan(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFencedJSONBlock(t *testing.T) {
	raw := "prose\n```json\n{\"x\": 1}\n```\nmore prose"
	block, ok := fencedJSONBlock(raw)
	if !ok || block != `{"x": 1}` {
		t.Fatalf("fencedJSONBlock = (%q, %v)", block, ok)
	}

	if _, ok := fencedJSONBlock("no fences at all"); ok {
		t.Fatal("fencedJSONBlock found a block in fence-free input")
	}
}

func TestMarkerName(t *testing.T) {
	tests := []struct {
		line string
		name string
		ok   bool
	}{
		{"---ELEMENTS---", "ELEMENTS", true},
		{"  ---SKIP---  ", "SKIP", true},
		{"---two words---", "", false},
		{"------", "", false},
		{"---------", "", false},
		{"--ELEMENTS--", "", false},
		{"plain text", "", false},
	}

	for _, tt := range tests {
		name, ok := markerName(tt.line)
		if name != tt.name || ok != tt.ok {
			t.Fatalf("markerName(%q) = (%q, %v), want (%q, %v)", tt.line, name, ok, tt.name, tt.ok)
		}
	}
}
