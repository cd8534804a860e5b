package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/marytts-labs/marytts-installer/internal/descriptor"
	"github.com/marytts-labs/marytts-installer/internal/layout"
)

// ivy renders a minimal descriptor. extra is a list of key=value pairs
// written as e: attributes; deps names dependency modules.
func ivy(module string, extra []string, deps ...string) string {
	var b strings.Builder
	b.WriteString(`<ivy-module version="2.0" xmlns:e="http://ant.apache.org/ivy/extra">`)
	fmt.Fprintf(&b, `<info organisation="de.dfki.mary" module="%s" revision="5.2"`, module)
	for _, kv := range extra {
		k, v, _ := strings.Cut(kv, "=")
		fmt.Fprintf(&b, ` e:%s="%s"`, k, v)
	}
	b.WriteString(`/>`)
	fmt.Fprintf(&b, `<publications><artifact name="%s" type="jar"/></publications>`, module)
	b.WriteString(`<dependencies>`)
	for _, d := range deps {
		fmt.Fprintf(&b, `<dependency org="de.dfki.mary" name="%s" rev="5.2"/>`, d)
	}
	b.WriteString(`</dependencies></ivy-module>`)
	return b.String()
}

// bundle builds a list source over descriptors keyed by file name, listed in
// the given order.
func bundle(t *testing.T, order []string, files map[string]string) Sources {
	t.Helper()
	fsys := fstest.MapFS{}
	var list []string
	for _, name := range order {
		fsys[name] = &fstest.MapFile{Data: []byte(files[name])}
		list = append(list, fmt.Sprintf("%q", name))
	}
	fsys[descriptor.ListFile] = &fstest.MapFile{Data: []byte("[" + strings.Join(list, ",") + "]")}
	return Sources{
		List:   descriptor.NewFSListSource(fsys, "test"),
		Parser: descriptor.XMLParser{},
	}
}

// demoSources is the catalog used across the registry tests.
func demoSources(t *testing.T) Sources {
	files := map[string]string{
		"marytts-core-5.2.xml":     ivy("marytts-core", []string{"size=100"}, "marytts-common"),
		"marytts-lang-en-5.2.xml":  ivy("marytts-lang-en", []string{"locale=en_GB", "size=200"}, "marytts-core"),
		"marytts-lang-de-5.2.xml":  ivy("marytts-lang-de", []string{"locale=de"}, "marytts-core"),
		"voice-en-GB-demo-5.2.xml": ivy("voice-en-GB-demo", []string{"name=en-GB-demo", "locale=en_GB", "gender=female", "type=unit selection", "size=4096"}, "marytts-lang-en"),
		"voice-de-hsmm-5.2.xml":    ivy("voice-de-hsmm", []string{"name=de-hsmm", "locale=de", "gender=male", "type=hmm"}, "marytts-lang-de"),
		"other-thing-5.2.xml":      ivy("other-thing", nil, "marytts-core"),
	}
	order := []string{
		"voice-en-GB-demo-5.2.xml",
		"marytts-core-5.2.xml",
		"other-thing-5.2.xml",
		"marytts-lang-en-5.2.xml",
		"voice-de-hsmm-5.2.xml",
		"marytts-lang-de-5.2.xml",
	}
	return bundle(t, order, files)
}

// newRoot creates lib/ and download/ under a temp dir.
func newRoot(t *testing.T) layout.Root {
	t.Helper()
	root := layout.NewRoot(t.TempDir())
	for _, d := range []string{root.Lib(), root.Download()} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func build(t *testing.T, src Sources, root layout.Root) *Catalog {
	t.Helper()
	cat, err := Build(context.Background(), src, root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return cat
}
