// Package admin reads the server-rendered admin users dashboard and drives
// its user-detail and edit modals.
package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"tasklist/internal/service"
)

// ErrUnknownUser is returned when the dashboard has no card for a user id.
var ErrUnknownUser = errors.New("unknown user")

var (
	cardRe       = regexp.MustCompile(`^\s*showUserDetails\((\d+)\)\s*$`)
	editFormRe   = regexp.MustCompile(`^edit-form-(\d+)$`)
	deleteFormRe = regexp.MustCompile(`^delete-form-(\d+)$`)
)

// User is one user card of the dashboard.
type User struct {
	ID    int
	Email string
	Role  string

	// EditForm is the inner markup of the user's hidden edit form.
	EditForm string

	// DeleteAction is the action of the user's delete form, and
	// DeleteFields its hidden inputs.
	DeleteAction string
	DeleteFields map[string]string
}

// Dashboard holds the users found on the page, in page order.
type Dashboard struct {
	Users []User
	index map[int]int
}

// User returns the card for id.
func (d *Dashboard) User(id int) (User, bool) {
	i, ok := d.index[id]
	if !ok {
		return User{}, false
	}
	return d.Users[i], true
}

// Load fetches the dashboard at path and parses it.
func Load(ctx context.Context, pages service.PageService, path string) (*Dashboard, error) {
	page, err := pages.FetchPage(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}
	return ParseDashboard(page)
}

// ParseDashboard extracts user cards and their edit and delete forms.
// Cards are elements whose onclick calls showUserDetails(N); the email and
// role are the text of their .user-email and .role-badge descendants.
func ParseDashboard(page string) (*Dashboard, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse dashboard: %w", err)
	}

	d := &Dashboard{index: make(map[int]int)}
	edit := make(map[int]string)
	del := make(map[int]*html.Node)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id, ok := matchID(cardRe, attr(n, "onclick")); ok {
				if _, seen := d.index[id]; !seen {
					d.index[id] = len(d.Users)
					d.Users = append(d.Users, User{
						ID:    id,
						Email: strings.TrimSpace(text(findClass(n, "user-email"))),
						Role:  strings.TrimSpace(text(findClass(n, "role-badge"))),
					})
				}
			}
			elemID := attr(n, "id")
			if id, ok := matchID(editFormRe, elemID); ok {
				edit[id] = inner(n)
			}
			if id, ok := matchID(deleteFormRe, elemID); ok && n.DataAtom == atom.Form {
				del[id] = n
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for i := range d.Users {
		u := &d.Users[i]
		u.EditForm = edit[u.ID]
		if form, ok := del[u.ID]; ok {
			u.DeleteAction = attr(form, "action")
			u.DeleteFields = hiddenFields(form)
		}
	}
	return d, nil
}

func matchID(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findClass returns the first descendant of n carrying class.
func findClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, class) {
			return c
		}
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func inner(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return strings.TrimSpace(buf.String())
}

func hiddenFields(form *html.Node) map[string]string {
	fields := make(map[string]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Input && strings.EqualFold(attr(n, "type"), "hidden") {
			if name := attr(n, "name"); name != "" {
				fields[name] = attr(n, "value")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(form)
	return fields
}
