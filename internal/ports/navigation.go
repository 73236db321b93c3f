package ports

import "net/url"

// Navigator moves the console between routes. Navigation never blocks on
// listeners; requests issued while another navigation is being dispatched are queued.
type Navigator interface {
	// Navigate goes to path with the given query (nil for none).
	Navigate(path string, query url.Values)
	// NavigateURL goes to a relative URL such as "/productos?success=created".
	NavigateURL(raw string)
	// Current returns the current location, including its query string.
	Current() string
}
