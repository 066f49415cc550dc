package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoRoute is returned for a path that no route matches. Unmatched paths
// are an error, never a redirect.
var ErrNoRoute = errors.New("navigation: no route matches path")

type View string

const (
	ViewConversations View = "ConversationsView"
	ViewChat          View = "ChatView"
	ViewAssistant     View = "AssistantView"
)

const (
	RouteConversations = "conversations"
	RouteChat          = "chat"
	RouteNewChat       = "new-chat"
	RouteAssistant     = "assistant"
)

// Route binds a path pattern to a view. Pattern segments starting with ':'
// are parameters, passed to the view as inputs.
type Route struct {
	Name string
	Path string
	View View
}

// Match is the result of resolving a path.
type Match struct {
	Name   string            `json:"name"`
	View   View              `json:"view"`
	Path   string            `json:"path"`
	Params map[string]string `json:"params"`
}

type segment struct {
	value string
	param bool
}

type compiledRoute struct {
	Route
	segments []segment
	statics  int
}

// Table is an immutable, ordered route table.
type Table struct {
	routes []compiledRoute
	byName map[string]int
}

// Default returns the application table. The assistant route belongs to the
// second router variant and is only present when assistant is true.
func Default(assistant bool) *Table {
	routes := []Route{
		{Name: RouteConversations, Path: "/", View: ViewConversations},
		{Name: RouteChat, Path: "/chat/:id", View: ViewChat},
		{Name: RouteNewChat, Path: "/chat/new", View: ViewChat},
	}
	if assistant {
		routes = append(routes, Route{Name: RouteAssistant, Path: "/assistant/:id", View: ViewAssistant})
	}
	t, err := New(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// New validates and compiles routes, keeping their declaration order.
func New(routes ...Route) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(routes))}
	patterns := make(map[string]string, len(routes))
	for _, r := range routes {
		if r.Name == "" {
			return nil, fmt.Errorf("navigation: route %q has no name", r.Path)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("navigation: duplicate route name %q", r.Name)
		}
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("navigation: route %q: path %q must start with /", r.Name, r.Path)
		}
		parts, ok := splitPath(r.Path)
		if !ok {
			return nil, fmt.Errorf("navigation: route %q: path %q has an empty segment", r.Name, r.Path)
		}
		cr := compiledRoute{Route: r}
		seen := map[string]bool{}
		var shape []string
		for _, s := range parts {
			if strings.HasPrefix(s, ":") {
				name := s[1:]
				if name == "" {
					return nil, fmt.Errorf("navigation: route %q: empty parameter name", r.Name)
				}
				if seen[name] {
					return nil, fmt.Errorf("navigation: route %q: duplicate parameter %q", r.Name, name)
				}
				seen[name] = true
				cr.segments = append(cr.segments, segment{value: name, param: true})
				shape = append(shape, ":")
				continue
			}
			cr.segments = append(cr.segments, segment{value: s})
			cr.statics++
			shape = append(shape, s)
		}
		key := "/" + strings.Join(shape, "/")
		if other, dup := patterns[key]; dup {
			return nil, fmt.Errorf("navigation: routes %q and %q have the same pattern", other, r.Name)
		}
		patterns[key] = r.Name
		t.byName[r.Name] = len(t.routes)
		t.routes = append(t.routes, cr)
	}
	return t, nil
}

// Routes lists the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, r.Route)
	}
	return out
}

// Resolve maps a path to exactly one route. Static segments win over
// parameters, so /chat/new never resolves to chat with id "new". Query
// string, fragment and a single trailing slash are ignored; any other empty
// segment, as in //chat//42, matches nothing.
func (t *Table) Resolve(rawPath string) (Match, error) {
	p := rawPath
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	parts, ok := splitPath(p)
	if !ok {
		return Match{}, fmt.Errorf("%w: %q", ErrNoRoute, rawPath)
	}
	for i, s := range parts {
		un, err := url.PathUnescape(s)
		if err != nil {
			return Match{}, fmt.Errorf("%w: %q", ErrNoRoute, rawPath)
		}
		parts[i] = un
	}

	best := -1
	var bestParams map[string]string
	for i, r := range t.routes {
		params, ok := r.match(parts)
		if !ok {
			continue
		}
		if best < 0 || r.statics > t.routes[best].statics {
			best, bestParams = i, params
		}
	}
	if best < 0 {
		return Match{}, fmt.Errorf("%w: %q", ErrNoRoute, rawPath)
	}

	r := t.routes[best]
	return Match{
		Name:   r.Name,
		View:   r.View,
		Path:   "/" + strings.Join(parts, "/"),
		Params: bestParams,
	}, nil
}

// Path builds the path of a named route.
func (t *Table) Path(name string, params map[string]string) (string, error) {
	i, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("navigation: unknown route %q", name)
	}
	var b strings.Builder
	for _, s := range t.routes[i].segments {
		b.WriteByte('/')
		if !s.param {
			b.WriteString(s.value)
			continue
		}
		v, ok := params[s.value]
		if !ok || v == "" {
			return "", fmt.Errorf("navigation: route %q: missing parameter %q", name, s.value)
		}
		b.WriteString(url.PathEscape(v))
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

func (r compiledRoute) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(r.segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, s := range r.segments {
		if s.param {
			params[s.value] = parts[i]
			continue
		}
		if s.value != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// splitPath drops one leading and one trailing slash. It reports false when
// an empty segment remains.
func splitPath(p string) ([]string, bool) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil, true
	}
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return nil, false
	}
	parts := strings.Split(p, "/")
	for _, s := range parts {
		if s == "" {
			return nil, false
		}
	}
	return parts, true
}
