// Package ui lays out and styles the editor panels. Drawing lives in ui/panels; this
// package stays free of the graphics library so layouts can be computed anywhere.
package ui

import (
	_ "embed"
	"os"
)

//go:embed editor.css
var defaultCSS string

// Engine holds the current stylesheet and resolves node styles against it.
// Resolved styles are cached and only recomputed when the sheet changes.
type Engine struct {
	sheet *Stylesheet
	cache map[string]ComputedStyle
}

// New returns an engine with the built-in editor theme.
func New() *Engine {
	e := &Engine{}
	sheet, err := ParseCSS(defaultCSS)
	if err != nil {
		sheet = &Stylesheet{}
	}
	e.SetStylesheet(sheet)
	return e
}

// LoadCSS loads and parses a CSS file from path. Replaces the current stylesheet.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly (e.g. from embedded or merged CSS).
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.cache = map[string]ComputedStyle{}
}

// resolveProps returns merged properties for the classes and id (matched in sheet order;
// last wins).
func (e *Engine) resolveProps(classes []string, id string) map[string]string {
	merged := make(map[string]string)
	if e.sheet == nil {
		return merged
	}
	for _, rule := range e.sheet.Rules {
		sel := rule.Selector
		if len(sel) < 2 {
			continue
		}
		matches := false
		switch sel[0] {
		case '.':
			for _, c := range classes {
				if c == sel[1:] {
					matches = true
				}
			}
		case '#':
			matches = id != "" && id == sel[1:]
		}
		if matches {
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

// Style resolves the style for an element with the given classes and id. Every element
// also matches .panel first, so it sets the shared theme.
func (e *Engine) Style(class, id string) ComputedStyle {
	key := class + "#" + id
	if s, ok := e.cache[key]; ok {
		return s
	}
	s := ResolveProps(e.resolveProps([]string{"panel", class}, id))
	e.cache[key] = s
	return s
}

// StyleOf resolves n's style.
func (e *Engine) StyleOf(n *Node) ComputedStyle { return e.Style(n.Class, n.ID) }

// HasStylesheet returns whether any rules are loaded.
func (e *Engine) HasStylesheet() bool {
	return e.sheet != nil && len(e.sheet.Rules) > 0
}

// Stylesheet returns the current stylesheet (may be nil).
func (e *Engine) Stylesheet() *Stylesheet {
	return e.sheet
}
