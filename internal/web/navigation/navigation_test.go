package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContextFiltersSidebarByRole(t *testing.T) {
	ctx := NewContext("Events", SectionEvents, []string{"viewer"})

	sections := make([]string, 0, len(ctx.Sidebar))
	for _, item := range ctx.Sidebar {
		sections = append(sections, item.Section)
	}

	assert.Contains(t, sections, SectionEvents)
	assert.Contains(t, sections, SectionCFP)
	assert.NotContains(t, sections, SectionSponsorships)
	assert.NotContains(t, sections, SectionSettings)
}

func TestNewContextAdminSeesEverything(t *testing.T) {
	ctx := NewContext("Settings", SectionSettings, []string{"admin"})

	assert.Len(t, ctx.Sidebar, len(Items))
	assert.True(t, ctx.IsSectionActive(SectionSettings))
	assert.False(t, ctx.IsSectionActive(SectionEvents))
}

func TestAddBreadcrumb(t *testing.T) {
	ctx := NewContext("Events", SectionEvents, nil)
	ctx.AddBreadcrumb("Home", "/", false).AddBreadcrumb("Events", "/events", true)

	assert.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "Events", ctx.Breadcrumbs[1].Title)
	assert.True(t, ctx.Breadcrumbs[1].Active)
}
