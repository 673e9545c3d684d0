package qemu

import (
	"reflect"
	"testing"

	"github.com/jbweber/kiln/internal/config"
)

func TestNetworkArgs(t *testing.T) {
	tests := []struct {
		mode config.NetworkMode
		want []string
	}{
		{config.NetworkNAT, []string{"-netdev", "user,id=net0,hostfwd=tcp::2222-:22", "-device", "e1000,netdev=net0"}},
		{config.NetworkTap, []string{"-device", "virtio-net-pci,netdev=net0", "-netdev", "tap,id=net0,ifname=tap0,script=no,downscript=no"}},
		{config.NetworkNone, []string{"-nic", "none"}},
		{config.NetworkUnset, nil},
		{config.NetworkMode("bridge"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got, err := NetworkArgs(tt.mode)
			if err != nil {
				t.Fatalf("NetworkArgs() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NetworkArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}
