package teamname

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"diacritics", "Ánderson Jósé", "Anderson Jose"},
		{"curly quotes", "St. John’s", "St. John's"},
		{"en dash", "Texas A&M–Corpus Christi", "Texas A&M-Corpus Christi"},
		{"whitespace runs", "  North\t Carolina  ", "North Carolina"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.in); got != tt.want {
				t.Fatalf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanRuleSets(t *testing.T) {
	tests := []struct {
		name string
		set  string
		in   string
		want string
	}{
		{"duplicated collapses", RuleSetDuplicated, "DukeDuke", "Duke"},
		{"duplicated keeps inner spaces", RuleSetDuplicated, "North CarolinaNorth Carolina", "North Carolina"},
		{"duplicated short name untouched", RuleSetDuplicated, "Duke", "Duke"},
		{"duplicated non-repeat untouched", RuleSetDuplicated, "Kansas St", "Kansas St"},
		{"duplicated case-insensitive", RuleSetDuplicated, "IowaIOWA", "Iowa"},
		{"conference suffix", RuleSetConference, "Houston B12", "Houston"},
		{"conference suffix keeps short names", RuleSetConference, "Ab SEC", "Ab SEC"},
		{"conference needs upper case", RuleSetConference, "Notre Dame", "Notre Dame"},
		{"region prefix", RuleSetRegion, "MW San Diego State", "San Diego State"},
		{"region prefix alone", RuleSetRegion, "UCLA", "UCLA"},
		{"paren seed", RuleSetSeeded, "Gonzaga (12)", "Gonzaga"},
		{"record", RuleSetSeeded, "Duke (15-3)", "Duke"},
		{"rank prefix", RuleSetSeeded, "#5 Kentucky", "Kentucky"},
		{"numeric prefix", RuleSetSeeded, "12 Gonzaga", "Gonzaga"},
		{"seed suffix", RuleSetSeeded, "Purdue 1", "Purdue"},
		{"stacked annotations", RuleSetSeeded, "3 Baylor 2 (22-9)", "Baylor"},
		{"generic leaves codes", RuleSetGeneric, "Houston B12", "Houston B12"},
		{"generic still folds", RuleSetGeneric, "  San José   State ", "San Jose State"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := LookupRuleSet(tt.set)
			if err != nil {
				t.Fatalf("LookupRuleSet(%q): %v", tt.set, err)
			}
			if got := Clean(tt.in, set); got != tt.want {
				t.Fatalf("Clean(%q, %s) = %q, want %q", tt.in, tt.set, got, tt.want)
			}
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"DukeDukeDukeDuke",
		"Houston B12 ACC",
		"MW SE San Diego State",
		"1 #2 Duke 3 (4) (20-5)",
		"St. John’s (NY)",
		"Ole  Miss",
		"",
		"AB",
	}
	for _, name := range RuleSetNames() {
		set, err := LookupRuleSet(name)
		if err != nil {
			t.Fatalf("LookupRuleSet(%q): %v", name, err)
		}
		for _, in := range inputs {
			once := Clean(in, set)
			twice := Clean(once, set)
			if once != twice {
				t.Errorf("%s: Clean not idempotent for %q: %q then %q", name, in, once, twice)
			}
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"st. john's", "saintjohns"},
		{"St Johns", "saintjohns"},
		{"Michigan St.", "michiganstate"},
		{"Michigan State", "michiganstate"},
		{"Texas A&M", "texasam"},
		{"St", "st"},
		{"Hawai‘i", "hawaii"},
	}
	for _, tt := range tests {
		if got := Key(tt.in); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupRuleSetUnknown(t *testing.T) {
	if _, err := LookupRuleSet("bogus"); err == nil {
		t.Fatal("expected error for unknown rule set")
	}
	set, err := LookupRuleSet("")
	if err != nil || set.Name != RuleSetGeneric {
		t.Fatalf("empty name should select generic, got %q err=%v", set.Name, err)
	}
}
