package classify

import "testing"

func TestBlocklistMatching(t *testing.T) {
	b := NewBlocklist([]string{"Serviços", "Spirit of Gamer", "HP"})

	cases := []struct {
		brand string
		want  bool
	}{
		{"HP", true},
		{"hp", true},
		{" hp ", true},
		{"Serviços", true},
		{"servicos", true},
		{"SERVIÇOS", true},
		{"Spirit of Gamer", true},
		{"spirit of gamer", true},
		{"Ajax", false},
		{"", false},
		{"HP Inc", false},
	}
	for _, c := range cases {
		if got := b.Blocked(c.brand); got != c.want {
			t.Errorf("Blocked(%q) = %v, want %v", c.brand, got, c.want)
		}
	}
}

func TestDefaultBlocklist(t *testing.T) {
	b := DefaultBlocklist()
	if b.Len() == 0 {
		t.Fatal("default blocklist is empty")
	}
	if !b.Blocked("Samsung") || !b.Blocked("apple") {
		t.Error("expected well-known blocked brands")
	}
	if b.Blocked("Ajax") {
		t.Error("Ajax must not be blocked")
	}
}

func TestNilBlocklist(t *testing.T) {
	var b *Blocklist
	if b.Blocked("anything") {
		t.Error("nil blocklist must block nothing")
	}
}

func TestBlocklistFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		brands  []string
		blocked string
		want    bool
	}{
		{"empty falls back to defaults", nil, "Samsung", true},
		{"explicit list replaces defaults", []string{"Ajax"}, "Samsung", false},
		{"explicit list blocks its brands", []string{"Ajax"}, "ajax", true},
		{"none disables blocking", []string{"none"}, "Samsung", false},
		{"none is case insensitive", []string{" NONE "}, "Apple", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BlocklistFromConfig(tt.brands)
			if got := b.Blocked(tt.blocked); got != tt.want {
				t.Errorf("Blocked(%q) = %v, want %v", tt.blocked, got, tt.want)
			}
		})
	}
}

func TestBlocklistFromConfigNoneIsEmpty(t *testing.T) {
	if b := BlocklistFromConfig([]string{"none"}); b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}
