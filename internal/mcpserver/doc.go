// Package mcpserver serves the docker tools and container resources over the
// Model Context Protocol on stdio.
package mcpserver
