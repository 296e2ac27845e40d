package delaynet

// eightNodeClos builds the two-tier Clos fixture used throughout the test
// suite: hosts 0..3, ToRs 4,5, Aggs 6,7, each ToR connected to its two
// hosts and to both Aggs, all links 10 Gbps / 1000 ns.
func eightNodeClos() (nodes []Node, links []Link) {
	nodes = []Node{
		NewHost(0), NewHost(1), NewHost(2), NewHost(3),
		NewSwitch(4), NewSwitch(5), NewSwitch(6), NewSwitch(7),
	}
	bw := BitsPerSecFromGbps(10)
	delay := Nanosecs(1000)
	links = []Link{
		NewLink(0, 4, bw, delay),
		NewLink(1, 4, bw, delay),
		NewLink(2, 5, bw, delay),
		NewLink(3, 5, bw, delay),
		NewLink(4, 6, bw, delay),
		NewLink(4, 7, bw, delay),
		NewLink(5, 6, bw, delay),
		NewLink(5, 7, bw, delay),
	}
	return
}
