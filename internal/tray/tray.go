// Package tray provides a system tray status display for saturn.
package tray

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/ayusman/saturn/internal/app"
)

const refreshInterval = 250 * time.Millisecond

// Lines is the text shown in the tray menu for one status snapshot.
type Lines struct {
	Title   string
	Gesture string
	Action  string
	Mode    string
	Quality string
	Toggle  string
}

// LinesFor renders a status snapshot.
func LinesFor(st app.Status) Lines {
	l := Lines{
		Title:   "Saturn",
		Gesture: "Gesture: " + st.Gesture,
		Action:  st.Action,
		Mode:    "Mode: " + string(st.Mode),
		Quality: fmt.Sprintf("Quality: %s %.0f fps", st.Tier, st.FPS),
		Toggle:  "● Enabled",
	}
	if st.FPS == 0 {
		l.Quality = "Quality: " + st.Tier.String()
	}
	if st.Error != "" {
		l.Mode += " (" + st.Error + ")"
	}
	if !st.Enabled {
		l.Title = "Saturn (paused)"
		l.Toggle = "○ Paused"
	}
	return l
}

// Tray represents the system tray application.
type Tray struct {
	status   func() app.Status
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	mu       sync.RWMutex

	menuToggle  *systray.MenuItem
	menuGesture *systray.MenuItem
	menuAction  *systray.MenuItem
	menuMode    *systray.MenuItem
	menuQuality *systray.MenuItem
	last        Lines
}

// New creates a Tray that polls status for its display.
func New(status func() app.Status) *Tray {
	return &Tray{status: status}
}

// OnToggle sets the callback called when pause is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback called when "Open Renderer" is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback called when "Quit" is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray and blocks until Quit. It must run on the main
// goroutine on macOS.
func (t *Tray) Run(ctx context.Context) {
	systray.Run(func() { t.onReady(ctx) }, func() {})
}

// Quit closes the tray, unblocking Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady(ctx context.Context) {
	systray.SetTitle("Saturn")
	systray.SetTooltip("Saturn gesture control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem("● Enabled", "Pause or resume gesture control")
	systray.AddSeparator()
	t.menuGesture = systray.AddMenuItem("Gesture: None", "Stable gesture")
	t.menuAction = systray.AddMenuItem(" ", "Current action")
	t.menuMode = systray.AddMenuItem("Mode: Starting", "Control mode")
	t.menuQuality = systray.AddMenuItem("Quality: full", "Render quality tier")
	for _, m := range []*systray.MenuItem{t.menuGesture, t.menuAction, t.menuMode, t.menuQuality} {
		m.Disable()
	}
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Renderer...", "Open the renderer in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Saturn")

	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				systray.Quit()
				return
			case <-ticker.C:
				t.refresh()
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.call(func() func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.call(func() func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

// refresh updates only the menu items whose text changed.
func (t *Tray) refresh() {
	l := LinesFor(t.status())

	t.mu.Lock()
	defer t.mu.Unlock()
	if l.Title != t.last.Title {
		systray.SetTitle(l.Title)
	}
	set := func(m *systray.MenuItem, cur, prev string) {
		if cur != prev {
			m.SetTitle(cur)
		}
	}
	set(t.menuToggle, l.Toggle, t.last.Toggle)
	set(t.menuGesture, l.Gesture, t.last.Gesture)
	set(t.menuAction, l.Action, t.last.Action)
	set(t.menuMode, l.Mode, t.last.Mode)
	set(t.menuQuality, l.Quality, t.last.Quality)
	t.last = l
}

func (t *Tray) handleToggle() {
	enabled := !t.status().Enabled

	t.mu.RLock()
	callback := t.onToggle
	t.mu.RUnlock()

	if callback != nil {
		callback(enabled)
	}
	t.refresh()
}

func (t *Tray) call(get func() func()) {
	t.mu.RLock()
	fn := get()
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
