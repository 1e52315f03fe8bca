// Package notion implements the Notion page source adapter. It lists a
// workspace's importable pages and databases through the search API and
// extracts page text from block trees, throttled to Notion's published
// request rate.
package notion
