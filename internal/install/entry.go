package install

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/petervdpas/deskview/internal/util"
)

const entryGroup = "[Desktop Entry]"

// DesktopEntry is the subset of the freedesktop.org desktop entry keys
// deskview writes.
type DesktopEntry struct {
	Type           string
	Name           string
	Comment        string
	Icon           string
	Exec           string
	Terminal       bool
	Categories     []string
	StartupWMClass string
}

// ReadDesktopEntry parses the [Desktop Entry] group. Other groups and
// unknown keys are ignored.
func ReadDesktopEntry(r io.Reader) (*DesktopEntry, error) {
	e := &DesktopEntry{}
	in := false
	found := false

	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			in = line == entryGroup
			found = found || in
			continue
		}
		if !in {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("desktop entry: line %d: missing '='", n)
		}
		key, value = strings.TrimSpace(key), unescape(strings.TrimSpace(value))

		switch key {
		case "Type":
			e.Type = value
		case "Name":
			e.Name = value
		case "Comment":
			e.Comment = value
		case "Icon":
			e.Icon = value
		case "Exec":
			e.Exec = value
		case "Terminal":
			e.Terminal = value == "true"
		case "Categories":
			for _, c := range strings.Split(value, ";") {
				if c = strings.TrimSpace(c); c != "" {
					e.Categories = append(e.Categories, c)
				}
			}
		case "StartupWMClass":
			e.StartupWMClass = value
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("desktop entry: no %s group", entryGroup)
	}
	return e, nil
}

// WriteTo writes the entry in desktop file syntax.
func (e *DesktopEntry) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	b.WriteString(entryGroup + "\n")
	put := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%s=%s\n", k, escape(v))
		}
	}
	put("Type", e.Type)
	put("Name", e.Name)
	put("Comment", e.Comment)
	put("Icon", e.Icon)
	put("Exec", e.Exec)
	fmt.Fprintf(&b, "Terminal=%t\n", e.Terminal)
	if len(e.Categories) > 0 {
		put("Categories", strings.Join(e.Categories, ";")+";")
	}
	put("StartupWMClass", e.StartupWMClass)

	n, err := w.Write(b.Bytes())
	return int64(n), err
}

func ReadDesktopFile(path string) (*DesktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDesktopEntry(f)
}

func WriteDesktopFile(path string, e *DesktopEntry) error {
	var b bytes.Buffer
	if _, err := e.WriteTo(&b); err != nil {
		return err
	}
	return util.WriteFile(path, b.Bytes())
}

var (
	escaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t", `\r`, "\r", `\s`, " ")
)

func escape(s string) string   { return escaper.Replace(s) }
func unescape(s string) string { return unescaper.Replace(s) }

// execArg quotes one Exec argument. Reserved characters force double
// quotes, inside which ", `, $ and \ are backslash-escaped.
func execArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`=%") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '`', '$', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// ExecLine builds an Exec value from argv.
func ExecLine(argv ...string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = execArg(a)
	}
	return strings.Join(parts, " ")
}
