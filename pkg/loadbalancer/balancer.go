package loadbalancer

import "sync"

// LoadBalancer hands out backend targets round-robin. The gateway uses one
// per proxied service when replicas are configured.
type LoadBalancer struct {
	targets []string
	mu      sync.Mutex
	current int
}

func New(targets []string) *LoadBalancer {
	return &LoadBalancer{targets: targets}
}

// NextTarget returns the next backend in rotation, or "" when none are
// configured.
func (lb *LoadBalancer) NextTarget() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if len(lb.targets) == 0 {
		return ""
	}
	target := lb.targets[lb.current]
	lb.current = (lb.current + 1) % len(lb.targets)
	return target
}
