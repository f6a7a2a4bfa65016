//go:build !linux

package pages

var defaultResizer resizer = tailUnmapper{}
