package session

// Route is a navigation intent for the presentation layer.
type Route string

const (
	RouteLanding  Route = "/"
	RouteProblems Route = "/problems"
)

type Navigator interface {
	Navigate(route Route)
}

type NavigatorFunc func(route Route)

func (f NavigatorFunc) Navigate(route Route) {
	f(route)
}

type nopNavigator struct{}

func (nopNavigator) Navigate(Route) {}

func NopNavigator() Navigator {
	return nopNavigator{}
}
