package main

import "github.com/pkg/browser"

// linkOpener hands URLs to the host environment. The editor keeps it
// behind an interface so tests capture opens instead of spawning a
// browser.
type linkOpener interface {
	OpenURL(raw string) error
}

type browserOpener struct{}

func (browserOpener) OpenURL(raw string) error {
	return browser.OpenURL(raw)
}
