package model

// WatchItem is one stock on the watchlist.
type WatchItem struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
	// JThreshold overrides the global buy threshold when set.
	JThreshold *float64      `yaml:"j_threshold,omitempty" json:"j_threshold,omitempty"`
	Monitors   []MonitorRule `yaml:"monitors,omitempty" json:"monitors,omitempty"`
}
