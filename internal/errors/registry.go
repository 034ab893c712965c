package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Build Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryBuild,
		Message:  "App directory not found",
		Detail:   "The app directory does not exist. No file routes were registered; manually added routes are still served.",
		DocURL:   "https://oven.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryBuild,
		Message:  "Route module failed to load",
		Detail:   "A page, layout, route or boundary file could not be loaded. The file was skipped and the rest of the tree was built.",
		DocURL:   "https://oven.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryBuild,
		Message:  "Template parse error",
		Detail:   "The template could not be parsed by html/template.",
		DocURL:   "https://oven.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryBuild,
		Message:  "Invalid front matter",
		Detail:   "The YAML block between the leading --- lines is not valid metadata.",
		DocURL:   "https://oven.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryBuild,
		Message:  "No module for route file",
		Detail:   "No loader handles this file. Register a Go module for it or use a template extension (.html, .gohtml, .tmpl).",
		DocURL:   "https://oven.dev/docs/errors/E104",
	},
	"E105": {
		Category: CategoryBuild,
		Message:  "Duplicate layout",
		Detail:   "Two layout files resolve to the same layout scope. The one scanned last is used.",
		DocURL:   "https://oven.dev/docs/errors/E105",
	},
	"E106": {
		Category: CategoryBuild,
		Message:  "Invalid route pattern",
		Detail:   "The directory names of this file do not form a valid route pattern.",
		DocURL:   "https://oven.dev/docs/errors/E106",
	},
	"E107": {
		Category: CategoryBuild,
		Message:  "Directory not readable",
		Detail:   "A directory under the app root could not be listed and was skipped.",
		DocURL:   "https://oven.dev/docs/errors/E107",
	},
	"E108": {
		Category: CategoryBuild,
		Message:  "Conflicting routes",
		Detail:   "Several files serve the same method and URL, often from two route groups. Only the first one found is reachable.",
		DocURL:   "https://oven.dev/docs/errors/E108",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid oven.json",
		Detail:   "The oven.json file contains invalid JSON syntax.",
		DocURL:   "https://oven.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Config file not readable",
		Detail:   "The configuration file exists but could not be read.",
		DocURL:   "https://oven.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value failed validation.",
		DocURL:   "https://oven.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid .env file",
		Detail:   "The .env file could not be parsed.",
		DocURL:   "https://oven.dev/docs/errors/E123",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Not an Oven project",
		Detail:   "Could not find oven.json in the current directory or any parent directory.",
		DocURL:   "https://oven.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Port in use",
		Detail:   "The port is already in use by another process.",
		DocURL:   "https://oven.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
		DocURL:   "https://oven.dev/docs/errors/E142",
	},

	// ============================================
	// Runtime Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryRuntime,
		Message:  "Handler failed",
		Detail:   "A middleware or route handler returned an error. The client received a generic 500 response.",
		DocURL:   "https://oven.dev/docs/errors/E200",
	},
	"E201": {
		Category: CategoryRuntime,
		Message:  "Handler panicked",
		Detail:   "A middleware or route handler panicked. The panic was recovered and the client received a generic 500 response.",
		DocURL:   "https://oven.dev/docs/errors/E201",
	},
	"E202": {
		Category: CategoryRuntime,
		Message:  "Boundary render failed",
		Detail:   "An error or not-found boundary failed to render. The fixed fallback response was sent instead.",
		DocURL:   "https://oven.dev/docs/errors/E202",
	},
	"E203": {
		Category: CategoryRuntime,
		Message:  "Reload failed",
		Detail:   "Rebuilding the route tree after a file change failed. The previous routes are still served.",
		DocURL:   "https://oven.dev/docs/errors/E203",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
