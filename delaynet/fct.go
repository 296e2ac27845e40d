package delaynet

// FctRecord is one simulated flow-completion-time observation returned by a
// link simulator (§6.3, §4.6).
type FctRecord struct {
	Size  Bytes
	Fct   Nanosecs
	Ideal Nanosecs
}

// PktnormDelay returns the packet-normalized delay above ideal (§4.6):
// max(0, fct - ideal) / ceil(size / max_packet_size). Normalizing by packet
// count lets a query re-multiply the sample by the queried flow's own
// packet count.
func (r FctRecord) PktnormDelay() float64 {
	above := r.Fct.Sub(r.Ideal)
	packets := r.Size.CeilDiv(MaxPacketSize)
	if packets == 0 {
		packets = 1
	}
	return float64(above) / float64(packets)
}
