package depspec

import "testing"

var (
	guava  = Dependency{Kind: KindModule, Group: "com.google.guava", Name: "guava", Version: "33.0"}
	junit  = Dependency{Kind: KindModule, Group: "junit", Name: "junit", Version: "4.13"}
	app    = Dependency{Kind: KindProject, Group: "", Name: "app"}
	libDir = Dependency{Kind: KindFiles, Name: "libs"}
)

func TestIsSatisfyAll(t *testing.T) {
	if !IsSatisfyAll(SatisfyAll) {
		t.Error("SatisfyAll should be recognized")
	}
	everything := Func(func(Dependency) bool { return true })
	if IsSatisfyAll(everything) {
		t.Error("a Func accepting everything is not the sentinel")
	}
	if IsSatisfyAll(SatisfyNone) {
		t.Error("SatisfyNone is not the sentinel")
	}
	if IsSatisfyAll(nil) {
		t.Error("nil is not the sentinel")
	}
}

func TestAnd(t *testing.T) {
	if !IsSatisfyAll(And()) {
		t.Error("And() should be SatisfyAll")
	}
	if !IsSatisfyAll(And(SatisfyAll, SatisfyAll)) {
		t.Error("And(SatisfyAll, SatisfyAll) should be SatisfyAll")
	}

	s := And(SatisfyAll, Module("com.google.guava", "guava"), OfKind(KindModule))
	if !s.IsSatisfiedBy(guava) {
		t.Error("And should accept guava")
	}
	if s.IsSatisfiedBy(junit) {
		t.Error("And should reject junit")
	}
}

func TestOr(t *testing.T) {
	if Or().IsSatisfiedBy(guava) {
		t.Error("Or() should be SatisfyNone")
	}
	if !IsSatisfyAll(Or(Module("", "x"), SatisfyAll)) {
		t.Error("Or containing SatisfyAll should be SatisfyAll")
	}

	s := Or(Module("", "guava"), Module("junit", "junit"))
	for _, dep := range []Dependency{guava, junit} {
		if !s.IsSatisfiedBy(dep) {
			t.Errorf("Or should accept %v", dep)
		}
	}
	if s.IsSatisfiedBy(app) {
		t.Error("Or should reject app")
	}
}

func TestNot(t *testing.T) {
	if Not(SatisfyAll).IsSatisfiedBy(guava) {
		t.Error("Not(SatisfyAll) should reject everything")
	}
	if !IsSatisfyAll(Not(SatisfyNone)) {
		t.Error("Not(SatisfyNone) should be SatisfyAll")
	}
	s := Not(OfKind(KindFiles))
	if s.IsSatisfiedBy(libDir) || !s.IsSatisfiedBy(app) {
		t.Error("Not(OfKind(files)) mismatch")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		selector string
		dep      Dependency
		want     bool
	}{
		{"guava", guava, true},
		{"guava", junit, false},
		{"com.google.guava:guava", guava, true},
		{"junit:guava", guava, false},
		{"com.google.*:*", guava, true},
		{"com.google.*:*", junit, false},
		{"ju*", junit, true},
		{"app", app, true},
		{":app", app, true},
	}

	for _, tt := range tests {
		t.Run(tt.selector+"/"+tt.dep.Name, func(t *testing.T) {
			s, err := Parse(tt.selector)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.selector, err)
			}
			if got := s.IsSatisfiedBy(tt.dep); got != tt.want {
				t.Errorf("IsSatisfiedBy(%v) = %v, want %v", tt.dep, got, tt.want)
			}
		})
	}
}

func TestParse_Wildcard(t *testing.T) {
	for _, sel := range []string{"*", "*:*", " * "} {
		s, err := Parse(sel)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", sel, err)
		}
		if !IsSatisfyAll(s) {
			t.Errorf("Parse(%q) should return SatisfyAll", sel)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, sel := range []string{"", "   ", "[", "g:[a"} {
		if _, err := Parse(sel); err == nil {
			t.Errorf("Parse(%q) should fail", sel)
		}
	}
}

func TestParseAll(t *testing.T) {
	s, err := ParseAll(nil)
	if err != nil || !IsSatisfyAll(s) {
		t.Fatalf("ParseAll(nil) = %v, %v; want SatisfyAll", s, err)
	}

	s, err = ParseAll([]string{"guava", "junit:junit"})
	if err != nil {
		t.Fatalf("ParseAll error = %v", err)
	}
	if !s.IsSatisfiedBy(guava) || !s.IsSatisfiedBy(junit) || s.IsSatisfiedBy(app) {
		t.Error("ParseAll should OR its selectors")
	}

	if _, err := ParseAll([]string{"ok", "["}); err == nil {
		t.Error("ParseAll should propagate parse errors")
	}
}

func TestKind_RoundTrip(t *testing.T) {
	for _, k := range []Kind{KindModule, KindProject, KindFiles} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("bogus"); err == nil {
		t.Error("ParseKind(bogus) should fail")
	}
}

func TestDependency_String(t *testing.T) {
	if got := guava.String(); got != "com.google.guava:guava:33.0" {
		t.Errorf("String() = %q", got)
	}
	if got := libDir.String(); got != "files libs" {
		t.Errorf("String() = %q", got)
	}
}
