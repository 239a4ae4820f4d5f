// Package categories serves article category options for async selects.
//
// The handler answers GET and HEAD requests with {"data": [{value, label}]}
// and supports q and limit parameters. Categories come from a static list
// (the embedded data/categories.txt by default) merged with an optional
// dynamic Source, such as the categories of existing articles.
package categories
