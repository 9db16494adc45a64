// Package navigation provides utilities for managing navigation state and breadcrumbs.
package navigation

// Section names used by the sidebar and the page handlers.
const (
	SectionEvents       = "events"
	SectionCFP          = "cfp"
	SectionAttendees    = "attendees"
	SectionSponsorships = "sponsorships"
	SectionSettings     = "settings"
)

// Item is a single sidebar entry. Roles lists the roles allowed to see it;
// an empty list means every signed-in user.
type Item struct {
	Title   string
	URL     string
	Section string
	Roles   []string
}

// Items is the full sidebar in display order.
var Items = []Item{
	{Title: "Events", URL: "/events", Section: SectionEvents},
	{Title: "Call for Papers", URL: "/cfp", Section: SectionCFP},
	{Title: "Attendees", URL: "/attendees", Section: SectionAttendees},
	{Title: "Sponsorships", URL: "/sponsorships", Section: SectionSponsorships, Roles: []string{"organizer", "admin"}},
	{Title: "Settings", URL: "/settings", Section: SectionSettings, Roles: []string{"admin"}},
}

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
	Sidebar       []Item
}

// NewContext creates a new navigation context with the sidebar filtered by
// the viewer's roles.
func NewContext(pageTitle, activeSection string, roles []string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
		Sidebar:       visibleItems(roles),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

func visibleItems(roles []string) []Item {
	out := make([]Item, 0, len(Items))

	for _, item := range Items {
		if len(item.Roles) == 0 || hasAnyRole(roles, item.Roles) {
			out = append(out, item)
		}
	}

	return out
}

func hasAnyRole(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}

	return false
}
