package pages

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   Page
		wantOK bool
	}{
		{"services", Services, true},
		{"#about", About, true},
		{"/careers", Careers, true},
		{"  CONTACT ", Contact, true},
		{"home", Home, true},
		{"", Home, false},
		{"#", Home, false},
		{"pricing", Home, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Parse(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	for _, p := range All() {
		got, ok := Parse(p.Fragment())
		if !ok || got != p {
			t.Errorf("Parse(%q) = (%v, %v), want %v", p.Fragment(), got, ok, p)
		}
	}
}

func TestAllCoversEveryPage(t *testing.T) {
	all := All()
	if len(all) != int(pageCount) {
		t.Fatalf("All() returned %d pages, want %d", len(all), pageCount)
	}
	seen := map[string]bool{}
	for _, p := range all {
		if seen[p.String()] {
			t.Errorf("duplicate token %q", p.String())
		}
		seen[p.String()] = true
		if p.Title() == "" {
			t.Errorf("page %q has no title", p.String())
		}
	}
}

func TestPath(t *testing.T) {
	if Home.Path() != "/" {
		t.Errorf("Home.Path() = %q", Home.Path())
	}
	if Vision.Path() != "/vision" {
		t.Errorf("Vision.Path() = %q", Vision.Path())
	}
}

func TestInvalidPageFallsBackToHome(t *testing.T) {
	p := Page(99)
	if p.Valid() {
		t.Fatal("Page(99) should be invalid")
	}
	if p.String() != "home" || p.Path() != "/" || p.Title() != "Home" {
		t.Errorf("invalid page should render as home, got %q %q %q", p.String(), p.Path(), p.Title())
	}
}
