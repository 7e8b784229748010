// Package resource provides async data loading for the demo components.
//
// A Resource tracks the complete lifecycle of fetching one value by locator:
//
//   - Idle, Loading, Succeeded, and Failed states
//   - a generation counter that discards stale completions, so rapid
//     re-triggering and locator changes can never surface an outdated result
//   - retention of the last good value when a later attempt fails
//   - pattern matching over the current state for rendering
//
// Basic usage:
//
//	posts := resource.New(func(ctx context.Context, locator string) ([]Post, error) {
//	    return fetch.JSON[[]Post](ctx, client, locator)
//	})
//	posts.Start("https://api.example.com/posts")
//
//	html := resource.Match(posts,
//	    resource.OnLoading[[]Post](func() string { return "<p>Loading...</p>" }),
//	    resource.OnFailed[[]Post](func(err *fetch.Error) string { return renderError(err) }),
//	    resource.OnSucceeded(func(posts []Post) string { return renderPosts(posts) }),
//	)
package resource
