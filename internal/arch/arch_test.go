package arch

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Architecture
		wantErr bool
	}{
		{in: "x86_64", want: X86_64},
		{in: "AMD64", want: X86_64},
		{in: "arm64", want: AArch64},
		{in: "i386", want: I686},
		{in: "armhf", want: ARMV7L},
		{in: " riscv64 ", want: RISCV64},
		{in: "sparc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBinary(t *testing.T) {
	tests := []struct {
		arch Architecture
		want string
	}{
		{X86_64, "qemu-system-x86_64"},
		{I686, "qemu-system-i386"},
		{AArch64, "qemu-system-aarch64"},
		{ARMV7L, "qemu-system-arm"},
		{PPC64LE, "qemu-system-ppc64"},
		{Architecture("bogus"), "qemu-system-x86_64"},
	}

	for _, tt := range tests {
		if got := tt.arch.Binary(); got != tt.want {
			t.Errorf("%v.Binary() = %v, want %v", tt.arch, got, tt.want)
		}
	}
}

func TestFromBinary(t *testing.T) {
	tests := []struct {
		binary string
		want   Architecture
	}{
		{"qemu-system-x86_64", X86_64},
		{"/usr/bin/qemu-system-aarch64", AArch64},
		{"qemu-system-i386", I686},
		{"qemu-kvm", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FromBinary(tt.binary); got != tt.want {
			t.Errorf("FromBinary(%q) = %v, want %v", tt.binary, got, tt.want)
		}
	}
}

func TestSupportedRoundTrip(t *testing.T) {
	for _, a := range Supported() {
		if !a.IsValid() {
			t.Errorf("%v reported invalid", a)
		}
		if got := FromBinary(a.Binary()); got != a {
			t.Errorf("FromBinary(%v.Binary()) = %v", a, got)
		}
	}
	if !Host().IsValid() {
		t.Errorf("Host() = %v is not supported", Host())
	}
}
