package paging

import "fmt"

// A ConfigError reports an invalid simulation configuration, such as a
// non-positive frame count.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// A DuplicateProcessError reports an attempt to create a process under a pid
// that is already registered.
type DuplicateProcessError struct {
	PID string
}

func (e DuplicateProcessError) Error() string {
	return fmt.Sprintf("process %q already exists", e.PID)
}

// An UnknownProcessError reports an access on behalf of a pid that is not
// registered.
type UnknownProcessError struct {
	PID string
}

func (e UnknownProcessError) Error() string {
	return fmt.Sprintf("unknown process %q", e.PID)
}

// An InvalidPageError reports an access to a virtual page number outside the
// process's page table.
type InvalidPageError struct {
	PID  string
	VPN  int
	Size int
}

func (e InvalidPageError) Error() string {
	return fmt.Sprintf("vpn %d out of range for process %q with %d pages",
		e.VPN, e.PID, e.Size)
}
