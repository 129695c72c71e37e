package model

// Reserved codes shared across the pipeline. These are the single declaration
// site for every sentinel value an output row can carry.
const (
	// UnallocatedPCN absorbs practices with no active PCN membership.
	// Distinct from any real PCN code.
	UnallocatedPCN = "U"

	// UnknownLabel substitutes for missing name and postcode metadata
	UnknownLabel = "Unknown"

	// UnknownCode substitutes for a parent code whose directory row is missing
	UnknownCode = "UNK"
)
