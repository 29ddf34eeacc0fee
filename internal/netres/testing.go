// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netres

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// FakeLinks is an in-memory [LinkOps] implementation for tests.
type FakeLinks struct {
	mu      sync.Mutex
	links   map[string]netlink.Link
	masters map[string]string
	up      map[string]bool
	failOn  map[string]error
	calls   []string
}

// NewFakeLinks returns a [FakeLinks] with the given links present.
func NewFakeLinks(links ...netlink.Link) *FakeLinks {
	f := &FakeLinks{
		links:   make(map[string]netlink.Link),
		masters: make(map[string]string),
		up:      make(map[string]bool),
		failOn:  make(map[string]error),
	}

	for _, link := range links {
		f.links[link.Attrs().Name] = link
	}

	return f
}

// FailOn makes the operation with the given method name fail with err.
func (f *FakeLinks) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failOn[op] = err
}

// Names returns the names of all present links, sorted.
func (f *FakeLinks) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Sorted(maps.Keys(f.links))
}

// Master returns the name of the master of the named link.
func (f *FakeLinks) Master(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.masters[name]
}

// IsUp returns whether the named link is up.
func (f *FakeLinks) IsUp(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.up[name]
}

// Calls returns the recorded operations as "Method name" strings.
func (f *FakeLinks) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.calls)
}

func (f *FakeLinks) record(op string, link netlink.Link) error {
	f.calls = append(f.calls, op+" "+link.Attrs().Name)
	return f.failOn[op]
}

func (f *FakeLinks) lookup(link netlink.Link) (string, error) {
	name := link.Attrs().Name
	if _, exists := f.links[name]; !exists {
		return "", fmt.Errorf("link %s: %w", name, unix.ENODEV)
	}

	return name, nil
}

// LinkByName implements [LinkOps].
func (f *FakeLinks) LinkByName(name string) (netlink.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	link, exists := f.links[name]
	if !exists {
		return nil, fmt.Errorf("link %s: %w", name, unix.ENODEV)
	}

	return link, nil
}

// LinkAdd implements [LinkOps].
func (f *FakeLinks) LinkAdd(link netlink.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("LinkAdd", link); err != nil {
		return err
	}

	name := link.Attrs().Name
	if _, exists := f.links[name]; exists {
		return unix.EEXIST
	}

	f.links[name] = link

	return nil
}

// LinkDel implements [LinkOps].
func (f *FakeLinks) LinkDel(link netlink.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("LinkDel", link); err != nil {
		return err
	}

	name, err := f.lookup(link)
	if err != nil {
		return err
	}

	delete(f.links, name)
	delete(f.masters, name)
	delete(f.up, name)

	return nil
}

// LinkSetUp implements [LinkOps].
func (f *FakeLinks) LinkSetUp(link netlink.Link) error {
	return f.setUp(link, "LinkSetUp", true)
}

// LinkSetDown implements [LinkOps].
func (f *FakeLinks) LinkSetDown(link netlink.Link) error {
	return f.setUp(link, "LinkSetDown", false)
}

func (f *FakeLinks) setUp(link netlink.Link, op string, up bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(op, link); err != nil {
		return err
	}

	name, err := f.lookup(link)
	if err != nil {
		return err
	}

	f.up[name] = up

	return nil
}

// LinkSetMaster implements [LinkOps].
func (f *FakeLinks) LinkSetMaster(link, master netlink.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("LinkSetMaster", link); err != nil {
		return err
	}

	name, err := f.lookup(link)
	if err != nil {
		return err
	}

	masterName, err := f.lookup(master)
	if err != nil {
		return err
	}

	f.masters[name] = masterName

	return nil
}

// LinkSetNoMaster implements [LinkOps].
func (f *FakeLinks) LinkSetNoMaster(link netlink.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("LinkSetNoMaster", link); err != nil {
		return err
	}

	name, err := f.lookup(link)
	if err != nil {
		return err
	}

	delete(f.masters, name)

	return nil
}
