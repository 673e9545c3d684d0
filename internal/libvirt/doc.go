// Package libvirt renders a kiln configuration as libvirt domain XML.
//
// kiln launches QEMU directly; the export exists so a profile that works
// interactively can be handed to virsh unchanged:
//
//	xml, err := libvirt.GenerateDomainXML("kiln-dev", cfg, libvirt.DomainOptions{
//	    FirmwarePath: "/usr/share/OVMF/OVMF_CODE.fd",
//	    KVMAvailable: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	// virsh define /dev/stdin <<< "$xml"
//
// The domain mirrors the QEMU argument vector: the same disks in the same
// order with the same bus, cache and format, the ISO as a read-only cdrom,
// the NAT or Tap interface, and USB attachments as resolved by internal/usb.
// The domain UUID is derived from the domain name, so repeated exports of a
// profile are stable.
package libvirt
