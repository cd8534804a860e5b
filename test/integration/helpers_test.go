//go:build integration

package integration_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/marytts-labs/marytts-installer/internal/descriptor"
	"github.com/marytts-labs/marytts-installer/internal/installer"
	"github.com/marytts-labs/marytts-installer/internal/layout"
	"github.com/marytts-labs/marytts-installer/internal/logging"
	"github.com/marytts-labs/marytts-installer/internal/registry"
	"github.com/marytts-labs/marytts-installer/internal/resolver"
)

const org = "de.dfki.mary"

// testEnv holds paths to isolated test directories.
type testEnv struct {
	Root layout.Root // install root with lib/ and download/
	Repo string      // Ivy-layout component repository
}

// setupTestEnv creates an empty install root and repository.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{Root: layout.NewRoot(t.TempDir()), Repo: t.TempDir()}
	if err := layout.Ensure(quietContext(), env.Root); err != nil {
		t.Fatalf("preparing install root: %v", err)
	}
	return env
}

func quietContext() context.Context {
	return logging.Discard(context.Background())
}

// descriptorXML renders a descriptor with e: attributes from extra and
// dependencies naming the jar of each listed module.
func descriptorXML(module string, extra map[string]string, pubs string, deps ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<ivy-module version="2.0" xmlns:e="http://ant.apache.org/ivy/extra">` + "\n")
	fmt.Fprintf(&b, `  <info organisation="%s" module="%s" revision="5.2"`, org, module)
	for _, k := range []string{"name", "locale", "gender", "type", "size"} {
		if v, ok := extra[k]; ok {
			fmt.Fprintf(&b, ` e:%s="%s"`, k, v)
		}
	}
	b.WriteString("/>\n")
	if pubs == "" {
		pubs = fmt.Sprintf(`<artifact name="%s" type="jar"/>`, module)
	}
	b.WriteString("  <publications>" + pubs + "</publications>\n")
	b.WriteString("  <dependencies>")
	for _, d := range deps {
		fmt.Fprintf(&b, `<dependency org="%s" name="%s" rev="5.2"><artifact name="%s" type="jar"/></dependency>`, org, d, d)
	}
	b.WriteString("</dependencies>\n</ivy-module>\n")
	return b.String()
}

// demo is the three-component catalog used by the scenarios.
var demo = map[string]string{
	"voice-en-GB-demo": descriptorXML("voice-en-GB-demo",
		map[string]string{"locale": "en_GB", "gender": "female", "type": "unit selection", "size": "4096"},
		`<artifact name="voice-en-GB-demo" type="jar"/><artifact name="voice-en-GB-demo" type="zip" e:classifier="data"/>`,
		"marytts-lang-en"),
	"marytts-lang-en": descriptorXML("marytts-lang-en", map[string]string{"locale": "en_GB", "size": "2048"}, "", "marytts-core"),
	"marytts-core":    descriptorXML("marytts-core", map[string]string{"size": "1024"}, ""),
}

// demoSources bundles the demo descriptors as the descriptor list.
func demoSources() registry.Sources {
	fsys := fstest.MapFS{}
	var list []string
	for _, name := range []string{"voice-en-GB-demo", "marytts-lang-en", "marytts-core"} {
		file := "descriptors/" + name + "-5.2.xml"
		fsys[file] = &fstest.MapFile{Data: []byte(demo[name])}
		list = append(list, fmt.Sprintf("%q", file))
	}
	fsys[descriptor.ListFile] = &fstest.MapFile{Data: []byte("[" + strings.Join(list, ", ") + "]")}
	return registry.Sources{List: descriptor.NewFSListSource(fsys, "demo"), Parser: descriptor.XMLParser{}}
}

// voiceData is the content of the demo voice's data archive.
var voiceData = map[string]string{
	"voices/voice-en-GB-demo/voice.config":       "name = voice-en-GB-demo\nlocale = en_GB\n",
	"voices/voice-en-GB-demo/halfphoneUnits.mry": "units",
}

// publishDemo writes the demo modules and their artifacts into env.Repo.
func publishDemo(t *testing.T, env *testEnv) {
	t.Helper()
	for name, xml := range demo {
		dir := filepath.Join(env.Repo, org, name, "5.2")
		writeFile(t, filepath.Join(dir, "ivy.xml"), []byte(xml))
		writeFile(t, filepath.Join(dir, name+"-5.2.jar"), []byte(name+" jar"))
	}
	writeFile(t, filepath.Join(env.Repo, org, "voice-en-GB-demo", "5.2", "voice-en-GB-demo-5.2-data.zip"), zipArchive(t, voiceData))
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// openSession builds an installer over the demo catalog resolving from
// repo.
func openSession(t *testing.T, env *testEnv, repo resolver.Repository) *installer.Installer {
	t.Helper()
	in, err := installer.New(quietContext(), env.Root, demoSources(), repo)
	if err != nil {
		t.Fatalf("opening installer: %v", err)
	}
	return in
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s to be absent", path)
	}
}
