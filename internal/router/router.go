package router

import (
	"strings"

	"handsaround/internal/domain"
)

// Page identifies a screen of the application.
type Page string

const (
	PageLanding  Page = "landing"
	PageAuth     Page = "auth"
	PageHome     Page = "home"
	PageProfile  Page = "profile"
	PageEvents   Page = "events"
	PageAddPost  Page = "ngo-add-post"
	PageNGOPosts Page = "ngo-posts"
)

// Access describes who may enter a page.
type Access int

const (
	Public Access = iota
	Authenticated
	VolunteerOnly
	NGOOnly
)

type Route struct {
	Path   string
	Page   Page
	Access Access
}

// Routes is the page table, in match order.
var Routes = []Route{
	{Path: "/", Page: PageLanding, Access: Public},
	{Path: "/auth", Page: PageAuth, Access: Public},
	{Path: "/home", Page: PageHome, Access: Authenticated},
	{Path: "/profile", Page: PageProfile, Access: Authenticated},
	{Path: "/events", Page: PageEvents, Access: VolunteerOnly},
	{Path: "/ngo/add-post", Page: PageAddPost, Access: NGOOnly},
	{Path: "/ngo/posts", Page: PageNGOPosts, Access: NGOOnly},
}

const (
	PathLanding = "/"
	PathAuth    = "/auth"
)

// Decision is the outcome of navigating to a path.
// When Redirect is set, Page is empty and the caller should navigate again.
type Decision struct {
	Page     Page
	Redirect string
}

// LandingFor returns the default page of a role.
func LandingFor(role domain.Role) string {
	if role == domain.RoleNGO {
		return "/ngo/posts"
	}
	return "/home"
}

// Lookup finds the route for a path. Trailing slashes are ignored.
func Lookup(path string) (Route, bool) {
	p := normalize(path)
	for _, r := range Routes {
		if r.Path == p {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve runs the guards for path against the current user. It never blocks.
func Resolve(path string, user *domain.User) Decision {
	route, ok := Lookup(path)
	if !ok {
		return Decision{Redirect: PathLanding}
	}

	switch route.Access {
	case Public:
		return Decision{Page: route.Page}
	}

	if user == nil {
		return Decision{Redirect: PathAuth}
	}

	switch route.Access {
	case VolunteerOnly:
		if user.Role != domain.RoleVolunteer {
			return Decision{Redirect: LandingFor(user.Role)}
		}
	case NGOOnly:
		if user.Role != domain.RoleNGO {
			return Decision{Redirect: LandingFor(user.Role)}
		}
	}
	return Decision{Page: route.Page}
}

// Final follows redirects until a page is reached.
func Final(path string, user *domain.User) (Page, string) {
	for i := 0; i < len(Routes)+1; i++ {
		d := Resolve(path, user)
		if d.Redirect == "" {
			return d.Page, normalize(path)
		}
		path = d.Redirect
	}
	return PageLanding, PathLanding
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}
