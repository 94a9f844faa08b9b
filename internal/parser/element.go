package parser

import (
	"strings"

	"github.com/beevik/etree"
)

// Registry elements are read through etree. The helpers below accept nil
// elements so optional blocks can be chained without checks.

// attr returns a trimmed attribute value. Empty values report as absent.
func attr(el *etree.Element, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	v := strings.TrimSpace(el.SelectAttrValue(name, ""))
	return v, v != ""
}

func attrOr(el *etree.Element, name, def string) string {
	if v, ok := attr(el, name); ok {
		return v
	}
	return def
}

func child(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	return el.SelectElement(tag)
}

func children(el *etree.Element, tag string) []*etree.Element {
	if el == nil {
		return nil
	}
	return el.SelectElements(tag)
}

// find resolves a relative "a/b" path. Only the first match is returned.
func find(el *etree.Element, path string) *etree.Element {
	if el == nil {
		return nil
	}
	return el.FindElement(path)
}

func childText(el *etree.Element, tag string) string {
	c := child(el, tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
