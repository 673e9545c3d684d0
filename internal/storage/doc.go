// Package storage wraps the host image tooling kiln depends on.
//
// It covers three concerns:
//   - qemu-img invocation (create, info, internal snapshots) through QemuImg
//   - magic byte detection of image formats (QCOW2, bootable RAW)
//   - ISO9660 inspection of installer media
//
// Every qemu-img failure is reported as a *config.ExternalToolFailure
// carrying the arguments and combined output of the failed run.
//
// Example usage:
//
//	img := storage.NewQemuImg(logger)
//
//	format, err := img.ImageFormat(ctx, "/vms/disk.qcow2")
//	if err != nil {
//	    return err
//	}
//	if format == "qcow2" {
//	    if err := img.SnapshotCreate(ctx, "/vms/disk.qcow2", "clean-install"); err != nil {
//	        return err
//	    }
//	}
package storage
