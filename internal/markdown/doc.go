// Package markdown discovers Markdown sources, splits front-matter from body
// content, and renders bodies to HTML for downstream consumers.
package markdown
