package delaynet

// Cluster is a disjoint group of directed edges simulated together: the
// representative is the one edge a link simulator actually runs on, and
// its results are shared across every member (§4.5).
type Cluster struct {
	Representative EdgeKey
	Members        []EdgeKey
}

// ClusteringAlgo partitions a SimNetwork's edges into disjoint Clusters
// covering every edge (§4.5). Implementations must guarantee the
// invariants: clusters are disjoint, every edge belongs to exactly one
// cluster, and a representative is always a member of its own cluster.
type ClusteringAlgo interface {
	Cluster(sn *SimNetwork) []Cluster
}

// IdentityClustering is the default clustering algorithm: one cluster per
// edge, with that edge as its own representative (§4.5).
type IdentityClustering struct{}

// Cluster implements ClusteringAlgo.
func (IdentityClustering) Cluster(sn *SimNetwork) []Cluster {
	edges := sn.EdgeIndices()
	clusters := make([]Cluster, len(edges))
	for i, e := range edges {
		clusters[i] = Cluster{Representative: e, Members: []EdgeKey{e}}
	}
	return clusters
}
