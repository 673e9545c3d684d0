// Package qemu compiles a VM configuration into the argument vector used to
// start qemu-system-*.
//
// Compilation never fails. Optional data that is missing or unusable on the
// host degrades to an omitted fragment, and where the operator asked for
// something that cannot be honored (UEFI firmware that is not installed) the
// Invocation carries a warning instead.
//
// Fragment order is fixed:
//
//	binary, -m, -smp, disks, -cdrom, firmware, network, -enable-kvm,
//	USB passthrough, -boot menu=on, -name, -loadvm
//
// Example usage:
//
//	c := qemu.NewCompiler(qemu.NewSystemProbe(), qemu.DefaultFirmwarePath, logger)
//	inv := c.Compile(cfg, usbResolution.Args)
//	for _, w := range inv.Warnings {
//	    fmt.Println("Warning:", w)
//	}
//	fmt.Println(inv.CommandLine())
package qemu
