package main

// Synthetic host trees for tests. Nodes are built from Elements so tests run
// through the same adapter the file and command hosts use.

func el(role string, children ...*Element) *Element {
	return &Element{Role: role, Children: children}
}

func text(s string) *Element {
	return &Element{Role: "text", Text: s}
}

// scrollText is a scroll region wrapping a text area, the usual editor shape.
func scrollText(s string) *Element {
	return el("scroll", el("container", text(s)))
}

func tabs(titles []string, selected int, panels ...*Element) *Element {
	return &Element{Role: "tabbed", Tabs: titles, Selected: &selected, Children: panels}
}

func window(children ...*Element) *Element {
	return el("window", children...)
}

// editorTab is one Repeater sub-tab holding a request and response editor.
func editorTab(request, response string) *Element {
	return el("container",
		el("split",
			el("container", scrollText(request)),
			el("container", scrollText(response)),
		),
	)
}

// hostTree builds a frame whose root tabs are Proxy and Repeater, with the
// given Repeater sub-tabs and the given tab selected at the root.
func hostTree(rootSelected int, proxyPanel *Element, subSelected int, subTabs ...*Element) *Element {
	titles := make([]string, len(subTabs))
	for i := range subTabs {
		titles[i] = string(rune('1' + i))
	}
	if proxyPanel == nil {
		proxyPanel = el("container")
	}
	return window(
		el("container",
			tabs([]string{"Dashboard", "Proxy", "Repeater"}, rootSelected,
				el("container"),
				proxyPanel,
				el("container", tabs(titles, subSelected, subTabs...)),
			),
		),
	)
}

// memHost serves a fixed set of windows and counts commits.
type memHost struct {
	windows []*Element
	err     error
	commits int
}

func (h *memHost) Windows() ([]Node, error) {
	if h.err != nil {
		return nil, h.err
	}
	return (&Snapshot{Windows: h.windows}).Nodes(), nil
}

func (h *memHost) Commit() error {
	h.commits++
	return nil
}

// staticHistory serves fixed records.
type staticHistory []Record

func (h staticHistory) Records() ([]Record, error) { return h, nil }

func wrap(e *Element) Node { return &elementNode{el: e} }

func unwrap(n Node) *Element {
	if e, ok := n.(*elementNode); ok {
		return e.el
	}
	return nil
}
