package qemu

// mockProbe is a mock implementation of HostProbe for testing.
type mockProbe struct {
	kvm   bool
	files map[string]bool
}

func (m *mockProbe) KVMSupported() bool {
	return m.kvm
}

func (m *mockProbe) FileExists(path string) bool {
	return m.files[path]
}
