package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/descriptor"
	"github.com/marytts-labs/marytts-installer/internal/layout"
)

const org = "de.dfki.mary"

// testModule describes a module published into a test repository.
type testModule struct {
	name, rev string
	extra     string   // raw e: attributes for <info>
	pubs      []string // raw <artifact/> elements
	deps      []string // raw <dependency/> elements
	files     map[string]string
}

func (m testModule) xml() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<ivy-module version="2.0" xmlns:e="http://ant.apache.org/ivy/extra">`)
	fmt.Fprintf(&b, `<info organisation="%s" module="%s" revision="%s" %s/>`, org, m.name, m.rev, m.extra)
	b.WriteString("<publications>" + strings.Join(m.pubs, "") + "</publications>")
	b.WriteString("<dependencies>" + strings.Join(m.deps, "") + "</dependencies>")
	b.WriteString("</ivy-module>")
	return b.String()
}

func (m testModule) descriptor(t *testing.T) component.Descriptor {
	t.Helper()
	d, err := descriptor.Decode(strings.NewReader(m.xml()))
	if err != nil {
		t.Fatalf("decoding %s: %v", m.name, err)
	}
	return d
}

func jar(name string) string {
	return fmt.Sprintf(`<artifact name="%s" type="jar"/>`, name)
}

func dep(name, rev string, artifacts ...string) string {
	return fmt.Sprintf(`<dependency org="%s" name="%s" rev="%s">%s</dependency>`, org, name, rev, strings.Join(artifacts, ""))
}

// publish writes modules into an Ivy-layout repository under dir.
func publish(t *testing.T, dir string, modules ...testModule) {
	t.Helper()
	for _, m := range modules {
		base := filepath.Join(dir, org, m.name, m.rev)
		write(t, filepath.Join(base, "ivy.xml"), m.xml())
		for name, content := range m.files {
			write(t, filepath.Join(base, name), content)
		}
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// standardRepo publishes a voice, a language pack and three runtime
// revisions.
func standardRepo(t *testing.T) (string, testModule) {
	t.Helper()
	dir := t.TempDir()
	voice := testModule{
		name:  "voice-en-GB-demo",
		rev:   "5.2",
		extra: `e:name="en-GB-demo" e:type="unit selection"`,
		pubs: []string{
			jar("voice-en-GB-demo"),
			`<artifact name="voice-en-GB-demo" type="zip" e:classifier="data"/>`,
		},
		deps: []string{dep("marytts-lang-en", "5.2", jar("marytts-lang-en"))},
		files: map[string]string{
			"voice-en-GB-demo-5.2.jar":      "voice jar",
			"voice-en-GB-demo-5.2-data.zip": "voice data",
		},
	}
	publish(t, dir,
		voice,
		testModule{
			name:  "marytts-lang-en",
			rev:   "5.2",
			pubs:  []string{jar("marytts-lang-en"), `<artifact name="marytts-lang-en" type="jar" e:classifier="sources"/>`},
			deps:  []string{dep("marytts-runtime", ">= 5.0")},
			files: map[string]string{"marytts-lang-en-5.2.jar": "lang jar", "marytts-lang-en-5.2-sources.jar": "src"},
		},
		testModule{name: "marytts-runtime", rev: "5.0", pubs: []string{jar("marytts-runtime")},
			files: map[string]string{"marytts-runtime-5.0.jar": "old runtime"}},
		testModule{name: "marytts-runtime", rev: "5.2", pubs: []string{jar("marytts-runtime")},
			files: map[string]string{"marytts-runtime-5.2.jar": "runtime"}},
		testModule{name: "marytts-runtime", rev: "6.0.0-beta", pubs: []string{jar("marytts-runtime")},
			files: map[string]string{"marytts-runtime-6.0.0-beta.jar": "beta runtime"}},
	)
	return dir, voice
}

func newTestRoot(t *testing.T) layout.Root {
	t.Helper()
	return layout.NewRoot(t.TempDir())
}

func sha256Of(s string) string {
	return digest.FromString(s).String()
}
