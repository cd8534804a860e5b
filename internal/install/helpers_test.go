package install

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/marytts-labs/marytts-installer/internal/component"
	"github.com/marytts-labs/marytts-installer/internal/descriptor"
	"github.com/marytts-labs/marytts-installer/internal/layout"
	"github.com/marytts-labs/marytts-installer/internal/resolver"
)

const org = "de.dfki.mary"

// ivyXML renders a minimal descriptor.
func ivyXML(name, extra, pubs, deps string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ivy-module version="2.0" xmlns:e="http://ant.apache.org/ivy/extra">
  <info organisation="%s" module="%s" revision="5.2" %s/>
  <publications>%s</publications>
  <dependencies>%s</dependencies>
</ivy-module>`, org, name, extra, pubs, deps)
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range sortedKeys(files) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func tgzBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, name := range sortedKeys(files) {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(files[name])), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(files[name])); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// publish writes one module revision 5.2 into an Ivy-layout repository.
func publish(t *testing.T, repo, name, ivy string, files map[string][]byte) {
	t.Helper()
	base := filepath.Join(repo, org, name, "5.2")
	writeFile(t, filepath.Join(base, "ivy.xml"), []byte(ivy))
	for fn, data := range files {
		writeFile(t, filepath.Join(base, fn), data)
	}
}

// fixture is a repository holding a runtime, an English language pack, an
// HMM voice and a unit-selection voice with zipped data.
type fixture struct {
	repo       string
	root       layout.Root
	resolver   *resolver.RepositoryResolver
	runtime    *component.Component
	lang       *component.Component
	hmm        *component.Component
	prudence   *component.Component
	voiceFiles map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{repo: t.TempDir(), root: layout.NewRoot(t.TempDir())}
	f.voiceFiles = map[string]string{
		"voices/dfki-prudence/dfki-prudence.config": "name = dfki-prudence\n",
		"voices/dfki-prudence/timeline.mry":         "timeline",
	}

	runtimeXML := ivyXML("marytts-runtime", "",
		`<artifact name="marytts-runtime" type="jar"/><artifact name="marytts-runtime" type="jar" e:classifier="sources"/><artifact name="marytts-runtime" type="pom"/>`, "")
	langXML := ivyXML("marytts-lang-en", `e:locale="en_US"`,
		`<artifact name="marytts-lang-en" type="jar"/>`,
		fmt.Sprintf(`<dependency org="%s" name="marytts-runtime" rev="5.2"><artifact name="marytts-runtime" type="jar"/></dependency>`, org))
	hmmXML := ivyXML("voice-cmu-slt-hsmm", `e:name="cmu-slt-hsmm" e:locale="en_US" e:gender="female" e:type="hmm"`,
		`<artifact name="voice-cmu-slt-hsmm" type="jar"/>`,
		fmt.Sprintf(`<dependency org="%s" name="marytts-lang-en" rev="5.2"><artifact name="marytts-lang-en" type="jar"/></dependency>`, org))
	prudenceXML := ivyXML("voice-dfki-prudence", `e:name="dfki-prudence" e:locale="en_GB" e:gender="female" e:type="unit selection"`,
		`<artifact name="voice-dfki-prudence" type="jar"/><artifact name="voice-dfki-prudence" type="zip" e:classifier="data"/>`,
		fmt.Sprintf(`<dependency org="%s" name="marytts-lang-en" rev="5.2"><artifact name="marytts-lang-en" type="jar"/></dependency>`, org))

	publish(t, f.repo, "marytts-runtime", runtimeXML, map[string][]byte{
		"marytts-runtime-5.2.jar":         []byte("runtime"),
		"marytts-runtime-5.2-sources.jar": []byte("sources"),
		"marytts-runtime-5.2.pom":         []byte("<project/>"),
	})
	publish(t, f.repo, "marytts-lang-en", langXML, map[string][]byte{
		"marytts-lang-en-5.2.jar": []byte("lang"),
	})
	publish(t, f.repo, "voice-cmu-slt-hsmm", hmmXML, map[string][]byte{
		"voice-cmu-slt-hsmm-5.2.jar": []byte("slt"),
	})
	publish(t, f.repo, "voice-dfki-prudence", prudenceXML, map[string][]byte{
		"voice-dfki-prudence-5.2.jar":      []byte("prudence"),
		"voice-dfki-prudence-5.2-data.zip": zipBytes(t, f.voiceFiles),
	})

	repo, err := resolver.NewFileRepository(f.repo)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	f.resolver = resolver.New(repo, f.root)
	f.runtime = newComponent(t, component.KindGeneric, runtimeXML)
	f.lang = newComponent(t, component.KindLang, langXML)
	f.hmm = newComponent(t, component.KindVoice, hmmXML)
	f.prudence = newComponent(t, component.KindVoice, prudenceXML)
	return f
}

func newComponent(t *testing.T, kind component.Kind, xml string) *component.Component {
	t.Helper()
	d, err := descriptor.Decode(strings.NewReader(xml))
	if err != nil {
		t.Fatalf("decoding descriptor: %v", err)
	}
	return component.New(kind, d)
}

// libFiles lists the regular files below lib/ relative to it.
func libFiles(t *testing.T, root layout.Root) []string {
	t.Helper()
	var out []string
	err := filepath.Walk(root.Lib(), func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, _ := filepath.Rel(root.Lib(), p)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("walking lib: %v", err)
	}
	sort.Strings(out)
	return out
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// countingRefresher records RefreshStatuses calls.
type countingRefresher struct {
	calls int
}

func (c *countingRefresher) RefreshStatuses(layout.Root) { c.calls++ }

// stubResolver fails resolution with err.
type stubResolver struct {
	patterns resolver.Patterns
	err      error
}

func (s *stubResolver) Resolve(_ context.Context, d component.Descriptor) (*resolver.Report, error) {
	return nil, &resolver.ResolutionError{Module: d.ID(), Err: s.err}
}

func (s *stubResolver) Retrieve(context.Context, *resolver.Report, resolver.ArtifactFilter) ([]string, error) {
	return nil, nil
}

func (s *stubResolver) Patterns() resolver.Patterns { return s.patterns }
