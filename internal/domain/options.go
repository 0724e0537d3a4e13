package domain

// CommonOptions contains run-wide switches shared by pipeline components.
type CommonOptions struct {
	Verbose  bool
	DryRun   bool
	Progress bool
}

// DefaultCommonOptions returns CommonOptions with default values.
func DefaultCommonOptions() CommonOptions {
	return CommonOptions{Progress: true}
}
