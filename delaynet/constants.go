package delaynet

// Process-wide simulation constants (§6.4). These govern ideal-FCT
// computation, ACK-rate bookkeeping, and packet normalization, and are set
// to match the ns-3-derived reference implementation's defaults.
const (
	// MaxPacketSize is the maximum payload carried by one packet.
	MaxPacketSize Bytes = 1000

	// PacketHeaderSize is the per-packet header overhead.
	PacketHeaderSize Bytes = 48

	// AckSize is the size of one synthetic ACK packet.
	AckSize Bytes = 60

	// DestFatLinkFactor scales the destination-side synthetic link
	// bandwidth in a LinkSimDesc (§4.4) relative to the minimum bandwidth
	// on the path from the bottleneck to the destination host. This is
	// historical and may need to become configurable (§9 Open Questions).
	DestFatLinkFactor = 10.0
)

// DefaultBucketFactor (x) and DefaultBucketMinSize (b) are the default
// size-bucketing parameters (§4.7).
const (
	DefaultBucketFactor  = 2.0
	DefaultBucketMinSize = 100
)
