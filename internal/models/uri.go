package models

import "strings"

// EndpointURI identifies an endpoint by component scheme and the name or
// address it points at.
type EndpointURI struct {
	Scheme string
	Name   string
}

// ParseEndpointURI splits "scheme:path?query". When the path is empty the
// "name" or "address" parameter is used instead.
func ParseEndpointURI(uri string, parameters map[string]string) EndpointURI {
	uri = strings.TrimSpace(uri)
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		uri = uri[:i]
	}

	scheme, path, _ := strings.Cut(uri, ":")
	path = strings.TrimPrefix(path, "//")

	if path == "" {
		if v := parameters["name"]; v != "" {
			path = v
		} else if v := parameters["address"]; v != "" {
			path = v
		}
	}

	return EndpointURI{Scheme: scheme, Name: path}
}

func (u EndpointURI) String() string {
	if u.Name == "" {
		return u.Scheme
	}
	return u.Scheme + ":" + u.Name
}

func (u EndpointURI) IsZero() bool {
	return u.Scheme == ""
}
