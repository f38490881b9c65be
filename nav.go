package main

// NavLink is one entry in the navigation bar. Links with Method "post" are
// rendered as a form button rather than an anchor.
type NavLink struct {
	Label  string
	Href   string
	Method string
}

// Navigation is the bar shown on top of every page
type Navigation struct {
	Brand NavLink
	Links []NavLink
}

var (
	navBrand     = NavLink{Label: "Sports Card Tracker", Href: "/"}
	navDashboard = NavLink{Label: "Dashboard", Href: "/dashboard"}
	navLogout    = NavLink{Label: "Logout", Href: "/logout", Method: "post"}
	navLogin     = NavLink{Label: "Login", Href: "/login"}
	navRegister  = NavLink{Label: "Register", Href: "/register"}
)

// navigationFor picks the link set for the given session
func navigationFor(sess Session) Navigation {
	if sess.Active() {
		return Navigation{Brand: navBrand, Links: []NavLink{navDashboard, navLogout}}
	}
	return Navigation{Brand: navBrand, Links: []NavLink{navLogin, navRegister}}
}
