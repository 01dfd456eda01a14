//go:build linux && cgo

package webkit

/*
#cgo pkg-config: gtk+-3.0 webkit2gtk-4.0
#include <stdlib.h>
#include <gtk/gtk.h>
#include <webkit2/webkit2.h>

static int dv_init(const char *prgname) {
	g_set_prgname(prgname);
	g_set_application_name(prgname);
	return gtk_init_check(NULL, NULL) ? 1 : 0;
}

static WebKitWebView *dv_view(void *window) {
	GtkWidget *child = gtk_bin_get_child(GTK_BIN(window));
	if (child == NULL || !WEBKIT_IS_WEB_VIEW(child)) {
		return NULL;
	}
	return WEBKIT_WEB_VIEW(child);
}

static int dv_window(void *window, const char *icon, int icon_is_file, int decorated, int display) {
	GtkWindow *w = GTK_WINDOW(window);
	int ok = 1;
	if (icon != NULL && icon[0] != '\0') {
		if (icon_is_file) {
			GError *err = NULL;
			if (!gtk_window_set_icon_from_file(w, icon, &err)) {
				ok = 0;
				g_clear_error(&err);
			}
		} else {
			gtk_window_set_icon_name(w, icon);
		}
	}
	gtk_window_set_decorated(w, decorated ? TRUE : FALSE);
	gtk_window_set_resizable(w, TRUE);
	switch (display) {
	case 2:
		gtk_window_fullscreen(w);
		break;
	case 1:
		gtk_window_maximize(w);
		break;
	}
	return ok;
}

static int dv_settings(void *window, const char *name, const char *version,
		int js, int clipboard, int storage, int console, int extras) {
	WebKitWebView *view = dv_view(window);
	if (view == NULL) {
		return 0;
	}
	WebKitSettings *s = webkit_web_view_get_settings(view);
	webkit_settings_set_user_agent_with_application_details(s, name, version);
	webkit_settings_set_enable_javascript(s, js ? TRUE : FALSE);
	webkit_settings_set_javascript_can_access_clipboard(s, clipboard ? TRUE : FALSE);
	webkit_settings_set_enable_html5_local_storage(s, storage ? TRUE : FALSE);
	webkit_settings_set_enable_write_console_messages_to_stdout(s, console ? TRUE : FALSE);
	webkit_settings_set_enable_developer_extras(s, extras ? TRUE : FALSE);
	return 1;
}

static gboolean dv_quit(GtkAccelGroup *group, GObject *acceleratable,
		guint key, GdkModifierType mods, gpointer data) {
	gtk_main_quit();
	return TRUE;
}

// The accel group is consulted before the focused web view sees the key.
static int dv_quit_accel(void *window) {
	GtkAccelGroup *group = gtk_accel_group_new();
	GClosure *closure = g_cclosure_new(G_CALLBACK(dv_quit), NULL, NULL);
	gtk_accel_group_connect(group, GDK_KEY_q, GDK_CONTROL_MASK, 0, closure);
	gtk_window_add_accel_group(GTK_WINDOW(window), group);
	g_object_unref(group);
	return 1;
}

static int dv_present(void *window, int inspector) {
	gtk_window_present(GTK_WINDOW(window));
	if (!inspector) {
		return 1;
	}
	WebKitWebView *view = dv_view(window);
	if (view == NULL) {
		return 0;
	}
	webkit_web_inspector_show(webkit_web_view_get_inspector(view));
	return 1;
}
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/petervdpas/deskview/internal/config"
	"github.com/petervdpas/deskview/internal/desktop"
	"github.com/petervdpas/deskview/internal/icon"
)

// gtkTuner drives GTK3 and WebKit2GTK directly through the window handle
// webview hands out.
type gtkTuner struct{}

func newTuner() tuner { return gtkTuner{} }

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

// cstr returns nil for empty strings so WebKit falls back to its defaults.
func cstr(s string) *C.char {
	if s == "" {
		return nil
	}
	return C.CString(s)
}

func free(p *C.char) {
	if p != nil {
		C.free(unsafe.Pointer(p))
	}
}

func (gtkTuner) Prepare(programName string) ([]string, error) {
	name := cstr(programName)
	defer free(name)
	if C.dv_init(name) == 0 {
		return nil, errors.New("gtk: cannot open display")
	}
	return nil, nil
}

func (gtkTuner) Window(handle unsafe.Pointer, spec desktop.WindowSpec) []string {
	if handle == nil {
		return []string{KnobIcon, KnobDecorated, KnobDisplay}
	}
	var display C.int
	switch spec.Display {
	case config.DisplayFullScreen:
		display = 2
	case config.DisplayMaximized:
		display = 1
	}

	ic := cstr(spec.Icon)
	defer free(ic)
	if C.dv_window(handle, ic, cbool(icon.IsFile(spec.Icon)), cbool(spec.Decorated), display) == 0 {
		return []string{KnobIcon}
	}
	return nil
}

func (gtkTuner) Settings(handle unsafe.Pointer, s desktop.WebSettings) []string {
	name, version := cstr(s.ApplicationName), cstr(s.ApplicationVersion)
	defer free(name)
	defer free(version)

	ok := handle != nil && C.dv_settings(handle, name, version,
		cbool(s.JavaScript), cbool(s.ClipboardAccess), cbool(s.LocalStorage),
		cbool(s.ConsoleToStdout), cbool(s.DeveloperExtras)) != 0
	if !ok {
		return []string{KnobUserAgent, KnobClipboard, KnobStorage, KnobConsole}
	}
	return nil
}

func (gtkTuner) Present(handle unsafe.Pointer, showInspector bool) []string {
	if handle == nil || C.dv_present(handle, cbool(showInspector)) == 0 {
		if showInspector {
			return []string{KnobInspector}
		}
	}
	return nil
}

func (gtkTuner) QuitAccelerator(handle unsafe.Pointer) []string {
	if handle == nil || C.dv_quit_accel(handle) == 0 {
		return []string{KnobAccelerator}
	}
	return nil
}
