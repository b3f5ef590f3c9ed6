package registry

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func strPtr(s string) *string { return &s }

func TestNormalizeProcessIdentity(t *testing.T) {
	c := qt.New(t)
	tests := map[string]string{
		"Code.exe":                       "code",
		"code":                           "code",
		"CHROME.EXE":                     "chrome",
		"  firefox  ":                    "firefox",
		"/usr/share/code/code":           "code",
		`C:\Program Files\App\Thing.exe`: "thing",
		"gnome-terminal-server":          "gnome-terminal-server",
		"archive.tar":                    "archive.tar",
		"":                               "",
	}
	for in, want := range tests {
		c.Assert(NormalizeProcessIdentity(in), qt.Equals, want, qt.Commentf("input %q", in))
	}
}

func TestProcessMatchingUsesSimpleFolding(t *testing.T) {
	c := qt.New(t)
	pairs := [][2]string{
		// strings.ToLower leaves the long s and the final sigma unchanged.
		{"ſlack", "SLACK"},
		{"ΟΔΥΣΣΕΥΣ", "οδυσσευς"},
		{"\u212Aate", "kate"},
		{"Code.EXE", "code"},
	}
	for _, p := range pairs {
		c.Assert(SameProcess(p[0], p[1]), qt.IsTrue, qt.Commentf("%q vs %q", p[0], p[1]))
		c.Assert(NormalizeProcessIdentity(p[0]), qt.Equals, NormalizeProcessIdentity(p[1]))

		reg := Resolve([]Application{{ID: "bundled", ProcessName: p[0]}}, []Application{{ID: "user", ProcessName: p[1]}})
		c.Assert(reg, qt.HasLen, 1, qt.Commentf("%q vs %q", p[0], p[1]))
		app, ok := reg.Lookup(p[0])
		c.Assert(ok, qt.IsTrue)
		c.Assert(app.ID, qt.Equals, "user")
	}
	c.Assert(SameProcess("code", "codium"), qt.IsFalse)
}

func TestResolveOverrideReplacesInPlace(t *testing.T) {
	c := qt.New(t)
	bundled := []Application{
		{ID: "a", Name: "Visual Studio Code", ProcessName: "Code.exe"},
		{ID: "b", Name: "Google Chrome", ProcessName: "chrome.exe"},
	}
	overrides := []Application{
		{ID: "user-1", Name: "VS Code (custom)", ProcessName: "code.exe", LastUsedListID: strPtr("L1")},
	}

	reg := Resolve(bundled, overrides)
	c.Assert(reg, qt.HasLen, 2)
	c.Assert(reg[0].Name, qt.Equals, "VS Code (custom)")
	c.Assert(reg[0].ID, qt.Equals, "user-1")
	c.Assert(*reg[0].LastUsedListID, qt.Equals, "L1")
	c.Assert(reg[1].ID, qt.Equals, "b")
}

func TestResolveAppendsUnknownOverrides(t *testing.T) {
	c := qt.New(t)
	bundled := []Application{{ID: "a", Name: "Visual Studio Code", ProcessName: "Code.exe"}}
	overrides := []Application{
		{ID: "u1", Name: "Firefox", ProcessName: "firefox"},
		{ID: "u2", Name: "Terminal", ProcessName: "alacritty"},
	}

	reg := Resolve(bundled, overrides)
	c.Assert(reg, qt.HasLen, 3)
	c.Assert([]string{reg[0].ID, reg[1].ID, reg[2].ID}, qt.DeepEquals, []string{"a", "u1", "u2"})
}

func TestResolveDuplicateOverridesLastWins(t *testing.T) {
	c := qt.New(t)
	overrides := []Application{
		{ID: "u1", Name: "First", ProcessName: "slack"},
		{ID: "u2", Name: "Second", ProcessName: "Slack.exe"},
	}

	reg := Resolve(nil, overrides)
	c.Assert(reg, qt.HasLen, 1)
	c.Assert(reg[0].Name, qt.Equals, "Second")
}

func TestResolveEmptyInputs(t *testing.T) {
	c := qt.New(t)
	c.Assert(Resolve(nil, nil), qt.HasLen, 0)

	overrides := []Application{{ID: "u1", Name: "Firefox", ProcessName: "firefox"}}
	c.Assert(Resolve(nil, overrides), qt.DeepEquals, Registry(overrides))
}

func TestResolveIsIdempotent(t *testing.T) {
	c := qt.New(t)
	bundled := BundledApplications()
	overrides := []Application{
		{ID: "u1", Name: "Chrome", ProcessName: "CHROME"},
		{ID: "u2", Name: "Firefox", ProcessName: "firefox"},
	}

	once := Resolve(bundled, overrides)
	twice := Resolve(once, overrides)
	c.Assert(twice, qt.DeepEquals, once)
}

func TestResolveDoesNotModifyInputs(t *testing.T) {
	c := qt.New(t)
	bundled := BundledApplications()
	before := BundledApplications()
	Resolve(bundled, []Application{{ID: "x", Name: "X", ProcessName: "code"}})
	c.Assert(bundled, qt.DeepEquals, before)
}

func TestLookup(t *testing.T) {
	c := qt.New(t)
	reg := Resolve(BundledApplications(), nil)

	for _, identity := range []string{"Code.exe", "code", "CODE", "/usr/share/code/code"} {
		app, ok := Lookup(reg, identity)
		c.Assert(ok, qt.IsTrue, qt.Commentf("identity %q", identity))
		c.Assert(app.Name, qt.Equals, "Visual Studio Code")
	}

	_, ok := Lookup(reg, "notepad.exe")
	c.Assert(ok, qt.IsFalse)

	_, ok = Lookup(reg, "   ")
	c.Assert(ok, qt.IsFalse)
}

func TestDisplayNameFallsBackToRawIdentity(t *testing.T) {
	c := qt.New(t)
	reg := Resolve(BundledApplications(), nil)
	c.Assert(DisplayName(reg, "chrome"), qt.Equals, "Google Chrome")
	c.Assert(DisplayName(reg, "Unknown.exe"), qt.Equals, "Unknown.exe")
}

func TestBundledIDsAreStable(t *testing.T) {
	c := qt.New(t)
	first := BundledApplications()
	second := BundledApplications()
	c.Assert(first[0].ID, qt.Equals, second[0].ID)
	c.Assert(first[0].ID, qt.Not(qt.Equals), first[1].ID)
	c.Assert(BundledID("Code.exe"), qt.Equals, BundledID("code"))
}

func TestRegistryByID(t *testing.T) {
	c := qt.New(t)
	reg := Resolve(BundledApplications(), nil)
	app, ok := reg.ByID(BundledID("chrome.exe"))
	c.Assert(ok, qt.IsTrue)
	c.Assert(app.Name, qt.Equals, "Google Chrome")

	_, ok = reg.ByID("missing")
	c.Assert(ok, qt.IsFalse)
}

func TestSuggest(t *testing.T) {
	c := qt.New(t)
	reg := Resolve(BundledApplications(), []Application{{ID: "u1", Name: "Firefox", ProcessName: "firefox"}})

	got := Suggest(reg, "chrom", 3)
	c.Assert(got, qt.HasLen, 1)
	c.Assert(got[0].Application.Name, qt.Equals, "Google Chrome")
	c.Assert(got[0].Distance, qt.Equals, 1)

	c.Assert(Suggest(reg, "firefox", 3), qt.HasLen, 0)
	c.Assert(Suggest(reg, "zzzzzzzz", 3), qt.HasLen, 0)
	c.Assert(Suggest(reg, "", 3), qt.IsNil)
}

func TestRegistryFind(t *testing.T) {
	c := qt.New(t)
	reg := Resolve(BundledApplications(), nil)
	chromeID := BundledID("chrome.exe")

	byID, ok := reg.Find(chromeID)
	c.Assert(ok, qt.IsTrue)
	c.Assert(byID.Name, qt.Equals, "Google Chrome")

	byProcess, ok := reg.Find("/usr/share/code/code")
	c.Assert(ok, qt.IsTrue)
	c.Assert(byProcess.Name, qt.Equals, "Visual Studio Code")

	byName, ok := reg.Find("google chrome")
	c.Assert(ok, qt.IsTrue)
	c.Assert(byName.ID, qt.Equals, chromeID)

	_, ok = reg.Find("  ")
	c.Assert(ok, qt.IsFalse)
	_, ok = reg.Find("firefox")
	c.Assert(ok, qt.IsFalse)
}
