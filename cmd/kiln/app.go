package main

import (
	"github.com/jbweber/kiln/internal/hostnet"
	"github.com/jbweber/kiln/internal/launch"
	"github.com/jbweber/kiln/internal/profile"
	"github.com/jbweber/kiln/internal/qemu"
	"github.com/jbweber/kiln/internal/session"
	"github.com/jbweber/kiln/internal/snapshot"
	"github.com/jbweber/kiln/internal/storage"
	"github.com/jbweber/kiln/internal/usb"
)

// app holds the production collaborators shared by the menu and the
// profile subcommands.
type app struct {
	images   *storage.QemuImg
	probe    *qemu.SystemProbe
	compiler *qemu.Compiler
	resolver *usb.Resolver
	store    *profile.Store
	launcher *launch.Launcher
}

func newApp() (*app, error) {
	l, err := launch.New(privilege, logger)
	if err != nil {
		return nil, err
	}
	probe := qemu.NewSystemProbe()
	return &app{
		images:   storage.NewQemuImg(logger),
		probe:    probe,
		compiler: qemu.NewCompiler(probe, firmwarePath, logger),
		resolver: usb.NewResolver(usb.NewSysfsLocator(), logger),
		store:    profile.NewStore(profilesPath, logger),
		launcher: l,
	}, nil
}

func (a *app) newSession() *session.Session {
	return session.New(session.Deps{
		Images:    a.images,
		Media:     storage.Inspector{},
		Snapshots: snapshot.NewManager(a.images, logger),
		Devices:   usb.NewLsusbEnumerator(),
		Resolver:  a.resolver,
		Compiler:  a.compiler,
		Probe:     a.probe,
		Profiles:  a.store,
		Links:     hostnet.NewInspector(),
		Launcher:  a.launcher,
	}, logger)
}
