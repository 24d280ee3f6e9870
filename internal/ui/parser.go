package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseCSS parses a stylesheet of .class and #id rules with "key: value;" declarations.
// Other selectors and at-rules are skipped. A comma-separated selector list yields one
// rule per selector.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)

	var selectors []string
	var props map[string]string
	depth := 0 // nesting inside skipped at-rule blocks
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != io.EOF {
				return sheet, fmt.Errorf("ui: parse css: %w", err)
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.QualifiedRuleGrammar:
			selectors = append(selectors, splitSelectors(p.Values())...)
		case css.BeginRulesetGrammar:
			selectors = append(selectors, splitSelectors(p.Values())...)
			props = map[string]string{}
		case css.DeclarationGrammar:
			if props == nil {
				continue
			}
			var b strings.Builder
			for _, v := range p.Values() {
				b.Write(v.Data)
			}
			props[strings.ToLower(string(data))] = strings.TrimSpace(b.String())
		case css.EndRulesetGrammar:
			if depth == 0 {
				for _, sel := range selectors {
					if validSelector(sel) {
						sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
					}
				}
			}
			selectors, props = nil, nil
		}
	}
}

func splitSelectors(toks []css.Token) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, t := range toks {
		if t.TokenType == css.CommaToken {
			flush()
			continue
		}
		b.Write(t.Data)
	}
	flush()
	return out
}

func validSelector(sel string) bool {
	if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') {
		return false
	}
	return !strings.ContainsAny(sel[1:], " .#>+~:[")
}
