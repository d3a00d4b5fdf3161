// Package kernel assembles the HTTP handler: global middleware, the
// metrics and storage endpoints, then the application routes.
package kernel

import (
	"net/http"
	"os"

	"github.com/shashiranjanraj/shopfront/app/controllers"
	"github.com/shashiranjanraj/shopfront/app/routes"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
	"github.com/shashiranjanraj/shopfront/pkg/reqid"
	"github.com/shashiranjanraj/shopfront/pkg/router"
)

// Options configures the kernel. StorageRoot, when set, is served read-only
// under /storage so local photo URLs resolve.
type Options struct {
	CORS        middleware.CORSOptions
	StorageRoot string
}

type HTTPKernel struct {
	router *router.Router
}

func NewHTTPKernel(c *controllers.Set, opts Options) *HTTPKernel {
	r := router.New()

	// Outermost first. The request id must exist before Logger runs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(opts.CORS))

	r.HandleFunc("/metrics", metrics.Handler())
	if opts.StorageRoot != "" {
		r.Mount("/storage", http.StripPrefix("/storage", http.FileServer(noListing{http.Dir(opts.StorageRoot)})))
	}

	routes.RegisterAPI(r, c)
	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Router() *router.Router { return k.router }

// noListing hides directory indexes.
type noListing struct{ fs http.FileSystem }

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	return f, nil
}
