// main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
)

var log = logging.Logger("deskview/cli")

// appVersion is set at build time via -ldflags "-X main.appVersion=x.y.z"
var appVersion = "dev"

// The toolkits require every UI call on the thread that started the process.
func init() { runtime.LockOSThread() }

// cli holds the parsed command line. over collects flag values; only the
// flags that were actually set are copied onto the descriptor.
type cli struct {
	fs *flag.FlagSet

	configPath string
	mode       string
	help       bool
	version    bool

	over config.Descriptor
}

func newCLI(out io.Writer) *cli {
	c := &cli{fs: flag.NewFlagSet("deskview", flag.ContinueOnError)}
	c.fs.SetOutput(out)
	c.fs.Usage = func() { showUsage(out) }

	def := config.Default()
	fs := c.fs
	fs.StringVar(&c.configPath, "config", "", "Descriptor file (.json, .yaml, .toml)")
	fs.StringVar(&c.mode, "mode", "native", "Run mode: native, browser or headless")
	fs.BoolVar(&c.help, "h", false, "Show help")
	fs.BoolVar(&c.version, "version", false, "Show version")

	fs.StringVar(&c.over.Name, "name", def.Name, "Application name")
	fs.StringVar(&c.over.BundleID, "id", def.BundleID, "Bundle identifier")
	fs.StringVar(&c.over.Icon, "icon", def.Icon, "Icon file or theme icon name")
	fs.StringVar(&c.over.URL, "url", def.URL, "Content URL")
	fs.StringVar(&c.over.Version, "app-version", def.Version, "Application version")
	fs.StringVar(&c.over.Vendor, "vendor", def.Vendor, "Vendor name")
	fs.BoolVar(&c.over.FullScreen, "fullscreen", def.FullScreen, "Start fullscreen")
	fs.BoolVar(&c.over.Maximized, "maximized", def.Maximized, "Start maximized")
	fs.BoolVar(&c.over.Decorated, "decorated", def.Decorated, "Show window decorations")
	fs.IntVar(&c.over.Width, "width", def.Width, "Window width")
	fs.IntVar(&c.over.Height, "height", def.Height, "Window height")
	fs.BoolVar(&c.over.DevelopMode, "dev", def.DevelopMode, "Developer mode (inspector, reload, console)")
	return c
}

// apply copies every flag that was set onto d.
func (c *cli) apply(d *config.Descriptor) {
	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			d.Name = c.over.Name
		case "id":
			d.BundleID = c.over.BundleID
		case "icon":
			d.Icon = c.over.Icon
		case "url":
			d.URL = c.over.URL
		case "app-version":
			d.Version = c.over.Version
		case "vendor":
			d.Vendor = c.over.Vendor
		case "fullscreen":
			d.FullScreen = c.over.FullScreen
		case "maximized":
			d.Maximized = c.over.Maximized
		case "decorated":
			d.Decorated = c.over.Decorated
		case "width":
			d.Width = c.over.Width
		case "height":
			d.Height = c.over.Height
		case "dev":
			d.DevelopMode = c.over.DevelopMode
		}
	})
}

// descriptor loads -config (or the defaults) and applies the flags.
func (c *cli) descriptor(path string) (config.Descriptor, error) {
	d := config.Default()
	if path != "" {
		var err error
		if d, err = config.Load(path); err != nil {
			return config.Descriptor{}, err
		}
	}
	c.apply(&d)
	return d, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	c := newCLI(stderr)
	if err := c.fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return desktop.StatusOK
		}
		return desktop.StatusConfig
	}

	if c.version {
		fmt.Fprintf(stdout, "deskview v%s\n", appVersion)
		return desktop.StatusOK
	}
	if c.help {
		showUsage(stdout)
		return desktop.StatusOK
	}

	rest := c.fs.Args()
	if len(rest) == 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return c.runApp(ctx, stderr)
	}

	command := rest[0]
	path := c.configPath
	if len(rest) > 1 {
		path = rest[1]
	}

	switch command {
	case "init", "install", "uninstall":
		if path == "" {
			fmt.Fprintf(stderr, "Error: %s requires a descriptor file\n", command)
			fmt.Fprintf(stderr, "Usage: deskview %s <file>\n", command)
			return desktop.StatusConfig
		}
	default:
		fmt.Fprintf(stderr, "Error: unknown command '%s'\n\n", command)
		showUsage(stderr)
		return desktop.StatusConfig
	}

	switch command {
	case "init":
		return c.runInit(path, stdout, stderr)
	case "install":
		return c.runInstall(path, stdout, stderr)
	default:
		return c.runUninstall(path, stdout, stderr)
	}
}

func showUsage(w io.Writer) {
	fmt.Fprintln(w, "deskview - run a web application in a native desktop window")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskview [flags]                  Run the application")
	fmt.Fprintln(w, "  deskview [flags] init <file>      Write a default descriptor")
	fmt.Fprintln(w, "  deskview [flags] install <file>   Register with the desktop")
	fmt.Fprintln(w, "  deskview [flags] uninstall <file> Remove the desktop registration")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	newCLI(w).fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  # Run a local dev server in a window with the inspector enabled")
	fmt.Fprintln(w, "  deskview -url http://127.0.0.1:5173 -dev")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Run from a descriptor, overriding the size")
	fmt.Fprintln(w, "  deskview -config app.yaml -width 1600 -height 900")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Open in a browser's app mode instead of a native window")
	fmt.Fprintln(w, "  deskview -config app.yaml -mode browser")
}
