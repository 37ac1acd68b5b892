package config

import "github.com/namsral/flag"

type Config struct {
	SearchDepth    int
	TimeDivisor    int
	CacheSize      int
	BookTarget     int
	BookPath       string
	EdgeWeight     int
	CornerWeight   int
	MobilityWeight int
	Debug          bool
}

// DefaultConfig returns the configuration the engine ships with.
func DefaultConfig() Config {
	return Config{
		SearchDepth:  5,
		TimeDivisor:  500,
		CacheSize:    100000,
		BookTarget:   25000,
		EdgeWeight:   5,
		CornerWeight: 25,
	}
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("iago", flag.ContinueOnError)
	fs.IntVar(&c.SearchDepth, "search-depth", 5, "base depth for fixed searches and the first deepening iteration")
	fs.IntVar(&c.TimeDivisor, "time-divisor", 500, "per-move allowance is the remaining game clock divided by this; a running iteration is never aborted, so keep it conservative")
	fs.IntVar(&c.CacheSize, "cache-size", 100000, "maximum number of position-cache entries")
	fs.IntVar(&c.BookTarget, "book-target", 25000, "precompute opening positions until the cache holds this many entries; 0 disables the warm-up")
	fs.StringVar(&c.BookPath, "book-path", "", "directory for the persisted opening book; empty disables persistence")
	fs.IntVar(&c.EdgeWeight, "edge-weight", 5, "bonus per edge square occupied")
	fs.IntVar(&c.CornerWeight, "corner-weight", 25, "bonus per corner square occupied")
	fs.IntVar(&c.MobilityWeight, "mobility-weight", 0, "bonus per legal move of advantage; 0 leaves the mobility term out")
	fs.BoolVar(&c.Debug, "debug", false, "debug logging")
	err := fs.Parse(args)
	return err
}
