package component

import (
	"testing"

	"golang.org/x/text/language"
)

type stubDescriptor struct {
	id        ModuleID
	artifacts []Artifact
	deps      []Dependency
	extra     map[string]string
}

func (s *stubDescriptor) ID() ModuleID { return s.id }
func (s *stubDescriptor) Dependencies() []Dependency { return s.deps }
func (s *stubDescriptor) Artifacts() []Artifact { return s.artifacts }
func (s *stubDescriptor) ExtraAttribute(n string) string { return s.extra[n] }
func (s *stubDescriptor) Description() string { return "  A voice.\n" }
func (s *stubDescriptor) License() string { return "by-sa" }

func voiceDescriptor() *stubDescriptor {
	return &stubDescriptor{
		id: ModuleID{Organisation: "de.dfki.mary", Module: "voice-en-GB-demo", Revision: "5.2"},
		artifacts: []Artifact{
			{Name: "voice-en-GB-demo", Type: "zip", Ext: "zip", Classifier: "data"},
			{Name: "voice-en-GB-demo", Type: "jar", Ext: "jar"},
		},
		extra: map[string]string{
			AttrName:   "en-GB-demo",
			AttrLocale: "en_GB",
			AttrGender: "female",
			AttrType:   UnitSelection,
			AttrSize:   "123456",
		},
	}
}

func TestNewVoice(t *testing.T) {
	c := New(KindVoice, voiceDescriptor())

	if c.Name != "voice-en-GB-demo" {
		t.Errorf("Name = %q", c.Name)
	}
	if c.ArtifactName != "voice-en-GB-demo-5.2.jar" {
		t.Errorf("ArtifactName = %q", c.ArtifactName)
	}
	if c.Size != 123456 {
		t.Errorf("Size = %d", c.Size)
	}
	if c.Locale != "en_GB" || c.Gender != "female" || c.Type != UnitSelection {
		t.Errorf("voice fields = %q/%q/%q", c.Locale, c.Gender, c.Type)
	}
	if c.Description != "A voice." {
		t.Errorf("Description = %q", c.Description)
	}
	if !c.IsVoice() || !c.HasLocale() || !c.IsUnitSelection() {
		t.Error("expected a unit-selection voice with locale")
	}
	if c.BareName() != "en-GB-demo" {
		t.Errorf("BareName() = %q", c.BareName())
	}
	if c.Status != Available {
		t.Errorf("Status = %v, want AVAILABLE", c.Status)
	}
}

func TestNewGenericIgnoresVoiceAttributes(t *testing.T) {
	c := New(KindGeneric, voiceDescriptor())

	if c.Locale != "" || c.Gender != "" || c.Type != "" {
		t.Errorf("generic component should not carry voice fields: %+v", c)
	}
	if c.HasLocale() || c.IsVoice() {
		t.Error("generic component reports voice capabilities")
	}
}

func TestNewLangKeepsLocaleOnly(t *testing.T) {
	c := New(KindLang, voiceDescriptor())

	if c.Locale != "en_GB" {
		t.Errorf("Locale = %q", c.Locale)
	}
	if c.Gender != "" || c.Type != "" {
		t.Error("lang component should not carry gender or type")
	}
}

func TestArtifactNameFallback(t *testing.T) {
	d := &stubDescriptor{id: ModuleID{Module: "marytts-core", Revision: "5.2"}}
	if got := ArtifactName(d); got != "marytts-core-5.2.jar" {
		t.Errorf("ArtifactName = %q", got)
	}
}

func TestBareNameFallsBackToName(t *testing.T) {
	d := &stubDescriptor{id: ModuleID{Module: "voice-x", Revision: "1"}}
	c := New(KindVoice, d)
	if c.BareName() != "voice-x" {
		t.Errorf("BareName() = %q", c.BareName())
	}
}

func TestLanguage(t *testing.T) {
	c := New(KindVoice, voiceDescriptor())
	if got := c.Language(); got.String() != "en-GB" {
		t.Errorf("Language() = %v, want en-GB", got)
	}

	g := New(KindGeneric, voiceDescriptor())
	if got := g.Language(); got != language.Und {
		t.Errorf("generic Language() = %v, want und", got)
	}
}

func TestOrderingIgnoresCase(t *testing.T) {
	a := &Component{Name: "marytts-Lang-en"}
	b := &Component{Name: "MARYTTS-core"}
	if !Less(b, a) {
		t.Error("expected marytts-core before marytts-lang-en")
	}
	if a.Key() != "marytts-lang-en" {
		t.Errorf("Key() = %q", a.Key())
	}
}

func TestStatusNames(t *testing.T) {
	tests := []struct {
		status Status
		name   string
	}{
		{Available, "AVAILABLE"},
		{Downloaded, "DOWNLOADED"},
		{Installed, "INSTALLED"},
		{Status(7), "UNKNOWN"},
	}
	for _, tt := range tests {
		if tt.status.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.status.String(), tt.name)
		}
	}
	if !Installed.MatchesName("installed") {
		t.Error("MatchesName should ignore case")
	}
}

func TestBareNameRejectsPaths(t *testing.T) {
	for _, n := range []string{"..", "../..", "a/b", "."} {
		d := &stubDescriptor{id: ModuleID{Module: "voice-x", Revision: "1"}, extra: map[string]string{AttrName: n}}
		if got := New(KindVoice, d).BareName(); got != "voice-x" {
			t.Errorf("BareName() with e:name %q = %q, want voice-x", n, got)
		}
	}
}
