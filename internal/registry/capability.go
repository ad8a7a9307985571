package registry

// StaticProber answers feature queries from a fixed set, typically built
// from configuration at startup.
type StaticProber struct {
	available map[string]bool
}

// NewStaticProber builds a prober from the list of available feature ids.
func NewStaticProber(features []string) *StaticProber {
	m := make(map[string]bool, len(features))
	for _, f := range features {
		if f != "" {
			m[f] = true
		}
	}
	return &StaticProber{available: m}
}

func (p *StaticProber) FeatureStatus(featureID string) (FeatureStatus, error) {
	if p.available[featureID] {
		return FeatureAvailable, nil
	}
	return FeatureUnavailable, nil
}
