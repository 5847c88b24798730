// Package router assembles the gin engine: the middleware stack and the
// route groups of every API surface.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIPrefix is where every surface is mounted. /health stays at the root.
const APIPrefix = "/api"

// Surface is one area of the API (dashboard, chat, reports...) mounted under
// a single prefix with its own middleware.
type Surface struct {
	Name       string
	Prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewSurface returns an empty surface
func NewSurface(name, prefix string, middleware ...gin.HandlerFunc) *Surface {
	return &Surface{Name: name, Prefix: prefix, middleware: middleware}
}

// Handle adds a route. Handlers may include route-level middleware ahead of
// the endpoint.
func (s *Surface) Handle(method, path string, handlers ...gin.HandlerFunc) *Surface {
	s.routes = append(s.routes, route{method: method, path: path, handlers: handlers})
	return s
}

func (s *Surface) Get(path string, handlers ...gin.HandlerFunc) *Surface {
	return s.Handle(http.MethodGet, path, handlers...)
}

func (s *Surface) Post(path string, handlers ...gin.HandlerFunc) *Surface {
	return s.Handle(http.MethodPost, path, handlers...)
}

func (s *Surface) Put(path string, handlers ...gin.HandlerFunc) *Surface {
	return s.Handle(http.MethodPut, path, handlers...)
}

func (s *Surface) Delete(path string, handlers ...gin.HandlerFunc) *Surface {
	return s.Handle(http.MethodDelete, path, handlers...)
}

// Endpoints lists "METHOD /prefix/path" for each route, in registration order
func (s *Surface) Endpoints() []string {
	out := make([]string, 0, len(s.routes))
	for _, r := range s.routes {
		out = append(out, r.method+" "+s.Prefix+r.path)
	}
	return out
}

// Mount registers every surface on rg
func Mount(rg *gin.RouterGroup, surfaces ...*Surface) {
	for _, s := range surfaces {
		g := rg.Group(s.Prefix, s.middleware...)
		for _, r := range s.routes {
			g.Handle(r.method, r.path, r.handlers...)
		}
	}
}
