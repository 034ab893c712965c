// Package oven is a file-convention web framework: the directory layout of
// an app directory defines its URLs, layouts and error pages.
//
//	app/
//	  layout.html            wraps every page
//	  page.html              GET /
//	  not-found.html         404 page
//	  blog/[slug]/page.html  GET /blog/:slug
//	  api/users/route.go     GET, POST... /api/users
//
// Build an App from the directory, add middleware and manual routes, and
// serve it:
//
//	app := oven.New(oven.Config{AppDir: "app"})
//	app.Use(middleware.CORS(middleware.CORSOptions{}))
//	log.Fatal(http.ListenAndServe(":3000", oven.Static(oven.DefaultStaticConfig(), app)))
//
// Template files are handled by router.TemplateLoader. Go route modules are
// registered in a router.Registry under their path in the app directory and
// chained ahead of the template loader with router.Loaders.
package oven

// Version is the framework version.
const Version = "0.4.0"
