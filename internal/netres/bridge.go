// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netres

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

const privilegeHint = "CAP_NET_ADMIN is required, run as root or grant the capability"

// LinkOps are the link operations required for bridged networking.
//
// It is satisfied by [*netlink.Handle].
type LinkOps interface {
	LinkByName(name string) (netlink.Link, error)
	LinkAdd(link netlink.Link) error
	LinkDel(link netlink.Link) error
	LinkSetUp(link netlink.Link) error
	LinkSetDown(link netlink.Link) error
	LinkSetMaster(link, master netlink.Link) error
	LinkSetNoMaster(link netlink.Link) error
}

// linkOps returns the link operations to use and a function that frees them
// once they are no longer needed.
func (m *Manager) linkOps() (LinkOps, func(), error) {
	if m.Links != nil {
		return m.Links, func() {}, nil
	}

	handle, err := netlink.NewHandle()
	if err != nil {
		return nil, nil, fmt.Errorf("netlink handle: %w", err)
	}

	return handle, handle.Close, nil
}

func (m *Manager) acquireTap(spec Spec, logger *slog.Logger) (Resource, error) {
	name := spec.InterfaceName()
	logger = logger.With(slog.String("bridge", spec.Bridge), slog.String("interface", name))

	links, closeLinks, err := m.linkOps()
	if err != nil {
		return nil, &SetupError{Mode: ModeTap, Object: name, Err: err}
	}

	if name == spec.Bridge {
		closeLinks()
		return nil, &SetupError{
			Mode:   ModeTap,
			Object: name,
			Hint:   "choose another TAP_NAME",
			Err:    ErrInterfaceIsBridge,
		}
	}

	bridge, err := ensureBridge(links, spec.Bridge, logger)
	if err != nil {
		closeLinks()
		return nil, &SetupError{
			Mode:   ModeTap,
			Object: spec.Bridge,
			Hint:   privilegeHint,
			Err:    err,
		}
	}

	err = removeStaleLink(links, name, logger)
	if err != nil {
		hint := "remove the interface manually"
		if errors.Is(err, ErrLinkNotTap) {
			hint = "choose another TAP_NAME"
		}

		closeLinks()

		return nil, &SetupError{
			Mode:   ModeTap,
			Object: name,
			Hint:   hint,
			Err:    err,
		}
	}

	res := &tapResource{
		links:  links,
		close:  closeLinks,
		name:   name,
		logger: logger,
	}

	err = createTap(links, name, bridge)
	if err != nil {
		// Roll back whatever part of the interface exists already.
		rollbackErr := res.Release()

		return nil, &SetupError{
			Mode:   ModeTap,
			Object: name,
			Hint:   privilegeHint,
			Err:    errors.Join(err, rollbackErr),
		}
	}

	logger.Info("Tap interface attached")

	return res, nil
}

func ensureBridge(links LinkOps, name string, logger *slog.Logger) (netlink.Link, error) {
	link, err := links.LinkByName(name)
	if isLinkNotFound(err) {
		logger.Info("Creating bridge")

		bridge := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: name}}

		err = links.LinkAdd(bridge)
		if err != nil && !errors.Is(err, unix.EEXIST) {
			return nil, fmt.Errorf("create bridge: %w", err)
		}

		link, err = links.LinkByName(name)
	}

	if err != nil {
		return nil, fmt.Errorf("lookup bridge: %w", err)
	}

	if link.Type() != "bridge" {
		return nil, fmt.Errorf("link exists with type %s, not bridge", link.Type())
	}

	err = links.LinkSetUp(link)
	if err != nil {
		return nil, fmt.Errorf("set bridge up: %w", err)
	}

	return link, nil
}

func removeStaleLink(links LinkOps, name string, logger *slog.Logger) error {
	link, err := links.LinkByName(name)
	if isLinkNotFound(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if !isTap(link) {
		return fmt.Errorf("%w: existing link has type %s", ErrLinkNotTap, link.Type())
	}

	logger.Warn("Removing stale interface")

	return removeLink(links, link)
}

func createTap(links LinkOps, name string, bridge netlink.Link) error {
	tap := &netlink.Tuntap{
		LinkAttrs: netlink.LinkAttrs{Name: name},
		Mode:      netlink.TUNTAP_MODE_TAP,
		Flags:     netlink.TUNTAP_NO_PI,
	}

	err := links.LinkAdd(tap)
	if err != nil {
		return fmt.Errorf("create tap: %w", err)
	}

	// The interface is persistent, the emulator opens its own queue.
	for _, f := range tap.Fds {
		_ = f.Close()
	}

	link, err := links.LinkByName(name)
	if err != nil {
		return fmt.Errorf("lookup tap: %w", err)
	}

	err = links.LinkSetMaster(link, bridge)
	if err != nil {
		return fmt.Errorf("attach to bridge: %w", err)
	}

	err = links.LinkSetUp(link)
	if err != nil {
		return fmt.Errorf("set tap up: %w", err)
	}

	return nil
}

// removeLink detaches, downs and deletes the link. Links that vanished in the
// meantime are not an error.
func removeLink(links LinkOps, link netlink.Link) error {
	var errs []error

	for _, op := range []func(netlink.Link) error{
		links.LinkSetNoMaster,
		links.LinkSetDown,
		links.LinkDel,
	} {
		err := op(link)
		if err != nil && !isLinkNotFound(err) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// isTap reports whether the link is a tun/tap device. Only those are ever
// removed.
func isTap(link netlink.Link) bool {
	return link.Type() == "tuntap"
}

func isLinkNotFound(err error) bool {
	if err == nil {
		return false
	}

	var notFound netlink.LinkNotFoundError

	return errors.As(err, &notFound) ||
		errors.Is(err, unix.ENODEV) ||
		errors.Is(err, os.ErrNotExist)
}

type tapResource struct {
	links  LinkOps
	close  func()
	name   string
	logger *slog.Logger

	once sync.Once
	err  error
}

func (*tapResource) Mode() Mode {
	return ModeTap
}

func (r *tapResource) Endpoint() string {
	return r.name
}

// Release removes the tap interface. The bridge is left in place as other
// sessions might use it.
func (r *tapResource) Release() error {
	r.once.Do(func() {
		r.err = r.release()
	})

	return r.err
}

func (r *tapResource) release() error {
	defer r.close()

	link, err := r.links.LinkByName(r.name)
	if isLinkNotFound(err) {
		return nil
	}

	if err == nil {
		if !isTap(link) {
			r.logger.Warn("Interface is not a tap, leaving it in place",
				slog.String("type", link.Type()))

			return nil
		}

		err = removeLink(r.links, link)
	}

	if err != nil {
		return &ReleaseError{Mode: ModeTap, Object: r.name, Err: err}
	}

	r.logger.Debug("Tap interface removed")

	return nil
}
