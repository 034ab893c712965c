// Package errors provides coded, actionable errors for Oven.
//
// Every error has a code (e.g. "E101") that maps to a short message, a
// longer explanation and a documentation URL. Build-time problems carry the
// location of the offending file so the CLI can point at it.
//
// # Error Categories
//
//   - build: route tree problems (missing app dir, module load failures)
//   - runtime: request handling failures (handler error or panic)
//   - config: oven.json and .env problems
//   - cli: command-line problems
//
// # Usage
//
//	err := errors.New("E102").
//	    WithLocationFromError("app/blog/page.html", parseErr).
//	    WithSuggestion("Check the {{ }} actions around the reported line")
//
//	fmt.Println(err.Format())
//	// ERROR E102: Template parse error
//	//
//	//   app/blog/page.html:3
//	//
//	//       1 │ <h1>Blog</h1>
//	//       2 │ <ul>
//	//   →   3 │ {{range .Posts}
//	//       4 │ </ul>
//	//
//	//   The template could not be parsed by html/template.
//	//
//	//   Hint: Check the {{ }} actions around the reported line
package errors
