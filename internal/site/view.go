package site

import (
	"github.com/dvasava/portfolio/internal/contact"
)

const (
	PagePortfolio = "portfolio"
	PageProjects  = "projects"
	PagePrivacy   = "privacy"

	navActive   = "text-pink-300 border-b-2 border-pink-400"
	navInactive = "text-purple-200 hover:text-pink-300"
)

// NavItem is one entry of the top navigation.
type NavItem struct {
	Page  string
	Label string
	Href  string
}

var navItems = []NavItem{
	{Page: PagePortfolio, Label: "Portfolio", Href: "/"},
	{Page: PageProjects, Label: "Projects", Href: "/projects"},
}

// NavClass returns the CSS classes of the nav entry for target when the
// current page is current.
func NavClass(current, target string) string {
	if current == target {
		return navActive
	}
	return navInactive
}

// form is the data handed to the contact form templates.
type form struct {
	View contact.View
	Attr contact.Attributes
}

func formFor(f *contact.Flow) form {
	v := f.View()
	return form{View: v, Attr: contact.Display(v)}
}
