package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagMethod     = flag.String("method", "", "Simplification method (edge_collapse, vertex_decimation, vertex_clustering, all)")
	flagReduction  = flag.Float64("reduction", -1, "Fraction of vertices to keep (0..1)")
	flagGrid       = flag.Int("grid", 0, "Clustering grid resolution (0 = derive from reduction)")
	flagShape      = flag.String("shape", "", "Input shape (sphere, grid, cube, fan)")
	flagDetail     = flag.Int("detail", 0, "Input shape detail")
	flagSaveConfig = flag.String("save-config", "", "Write the effective config to this path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveConfigPath returns the --save-config destination, if any.
func SaveConfigPath() string {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMethod != "" {
		cfg.Simplify.Method = *flagMethod
	}
	if *flagReduction >= 0 {
		cfg.Simplify.Reduction = float32(*flagReduction)
	}
	if *flagGrid > 0 {
		cfg.Simplify.GridResolution = *flagGrid
	}
	if *flagShape != "" {
		cfg.Input.Shape = *flagShape
	}
	if *flagDetail > 0 {
		cfg.Input.Detail = *flagDetail
	}
}
