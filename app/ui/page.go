// Package ui adapts the services' view callbacks to a terminal or to a
// request-scoped record the dashboard serialises.
package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	authservice "github.com/cuwais/cuwais-portal/app/modules/auth/application"
	submissionservice "github.com/cuwais/cuwais-portal/app/modules/submission/application"
)

var (
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e74c3c"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#18bc9c"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// State is what a page shows after an action.
type State struct {
	Error      string `json:"error,omitempty"`
	Invalid    bool   `json:"invalid,omitempty"`
	InputClear bool   `json:"input_cleared,omitempty"`
	Reloaded   bool   `json:"reloaded,omitempty"`
	Redirect   string `json:"redirect,omitempty"`
}

// Page records view callbacks and, when out is set, echoes them.
type Page struct {
	mu     sync.Mutex
	out    io.Writer
	state  State
	reload func()
}

// NewPage creates a page. out may be nil. onReload, if set, runs on every
// Reload, for example to list the refreshed submissions.
func NewPage(out io.Writer, onReload func()) *Page {
	return &Page{out: out, reload: onReload}
}

// State returns a snapshot of what the page shows.
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the shown error, if any.
func (p *Page) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Error == "" {
		return nil
	}
	return fmt.Errorf("%s", p.state.Error)
}

func (p *Page) ShowLoginError(message string) {
	p.ShowError(message)
}

func (p *Page) Redirect(path string) {
	p.mu.Lock()
	p.state.Redirect = path
	p.mu.Unlock()
	p.println(faintStyle.Render("→ " + path))
}

func (p *Page) ClearInput() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.InputClear = true
	p.state.Invalid = false
}

func (p *Page) HideError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Error = ""
}

func (p *Page) ShowError(message string) {
	p.mu.Lock()
	p.state.Error = message
	p.mu.Unlock()
	p.println(errorStyle.Render("Error: ") + message)
}

func (p *Page) MarkInvalid() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Invalid = true
}

func (p *Page) Reload() {
	p.mu.Lock()
	p.state.Reloaded = true
	reload := p.reload
	p.mu.Unlock()

	p.println(noticeStyle.Render("Done."))
	if reload != nil {
		reload()
	}
}

func (p *Page) println(s string) {
	if p.out == nil {
		return
	}
	_, _ = fmt.Fprintln(p.out, s)
}

var (
	_ authservice.Banner       = (*Page)(nil)
	_ authservice.Navigator    = (*Page)(nil)
	_ submissionservice.View   = (*Page)(nil)
	_ submissionservice.Toggle = (*Checkbox)(nil)
)

// Checkbox is a Toggle without a widget behind it.
type Checkbox struct {
	mu      sync.Mutex
	checked bool
}

func NewCheckbox(checked bool) *Checkbox {
	return &Checkbox{checked: checked}
}

func (c *Checkbox) Checked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checked
}

func (c *Checkbox) SetChecked(checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checked = checked
}
