package theme

// Env is the client side of the theme: the prefers-color-scheme media query,
// the root element class and the persisted preference
type Env interface {
	// SystemDark reports the media query, ok is false when it cannot be read
	SystemDark() (dark, ok bool)
	Apply(t Theme)
	Persist(p Preference)
}

// Controller drives the toggle button in the browser
type Controller struct {
	env      Env
	pref     Preference
	theme    Theme
	resolved bool
	mounted  bool
	onChange []func(*Controller)
}

// NewController starts from the preference the page was rendered with
func NewController(env Env, pref Preference) *Controller {
	return &Controller{env: env, pref: pref, theme: ThemeLight}
}

// Mount reads the system scheme and applies the resolved theme. Until it runs
// the toggle shows no icon.
func (c *Controller) Mount() {
	c.mounted = true
	c.resolve()
}

func (c *Controller) resolve() {
	var systemDark *bool
	if dark, ok := c.env.SystemDark(); ok {
		systemDark = &dark
	}
	c.theme, c.resolved = Resolve(c.pref, systemDark)
	if c.resolved {
		c.env.Apply(c.theme)
	}
	for _, fn := range c.onChange {
		fn(c)
	}
}

// SystemChanged re-resolves after the media query fired
func (c *Controller) SystemChanged() {
	if c.mounted && c.pref == System {
		c.resolve()
	}
}

// Toggle flips to the opposite of what is shown and persists it
func (c *Controller) Toggle() {
	if !c.mounted {
		return
	}
	c.pref = Toggle(c.theme)
	c.env.Persist(c.pref)
	c.resolve()
}

// OnChange registers fn to run after every resolution
func (c *Controller) OnChange(fn func(*Controller)) {
	c.onChange = append(c.onChange, fn)
}

func (c *Controller) Preference() Preference { return c.pref }

// Theme is the resolved theme and whether it is known
func (c *Controller) Theme() (Theme, bool) { return c.theme, c.mounted && c.resolved }

// Icon reflects the resolved theme, never the requested one
func (c *Controller) Icon() Icon {
	t, ok := c.Theme()
	return IconFor(t, ok)
}

func (c *Controller) Label() string {
	t, ok := c.Theme()
	return Label(t, ok)
}
