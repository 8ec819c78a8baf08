package config

// document is the root of a graph YAML file.
type document struct {
	Bounds   boundsDoc    `yaml:"bounds"`
	Actors   []actorDoc   `yaml:"actors"`
	Channels []channelDoc `yaml:"channels"`
}

// boundsDoc mirrors Bounds with YAML tags; ThroughputBound uses a
// float64 pointer so an omitted value can default to +Inf (explore
// the whole Pareto front) rather than 0 (stop immediately).
type boundsDoc struct {
	MaxStackSize    int      `yaml:"maxStackSize"`
	MaxHashSize     int      `yaml:"maxHashSize"`
	MaxConfigs      int      `yaml:"maxConfigs"`
	ThroughputBound *float64 `yaml:"throughputBound"`
}

// Bounds is config.Load's resolved analysis-bounds output (spec.md
// §5): the engine/explorer/TPS-builder resource ceilings plus the
// throughput target buffer.ExploreBounded searches up to.
type Bounds struct {
	MaxStackSize    int
	MaxHashSize     int
	MaxConfigs      int
	ThroughputBound float64
}

type portDoc struct {
	Name  string `yaml:"name"`
	Dir   string `yaml:"dir"` // "in" | "out"
	Rates []int  `yaml:"rates"`
}

type profileDoc struct {
	ExecTime int     `yaml:"execTime"`
	Weight   float64 `yaml:"weight"`
}

type scenarioDoc struct {
	Name     string       `yaml:"name"`
	Profiles []profileDoc `yaml:"profiles"`
}

type markovDoc struct {
	Scenario string                        `yaml:"scenario"`
	States   []string                      `yaml:"states"`
	Initial  string                        `yaml:"initial"`
	Trans    map[string]map[string]float64 `yaml:"trans"`
}

type actorDoc struct {
	Name         string        `yaml:"name"`
	Kind         string        `yaml:"kind"` // "plain" | "kernel" | "detector"
	ExecTimes    []int         `yaml:"execTimes"`
	Ports        []portDoc     `yaml:"ports"`
	Scenarios    []scenarioDoc `yaml:"scenarios"`
	SubScenarios []scenarioDoc `yaml:"subScenarios"`
	Markov       []markovDoc   `yaml:"markov"`
}

type endpointDoc struct {
	Actor string `yaml:"actor"`
	Port  string `yaml:"port"`
}

type channelDoc struct {
	Src           endpointDoc `yaml:"src"`
	Dst           endpointDoc `yaml:"dst"`
	InitialTokens int         `yaml:"initialTokens"`
	BufferSize    *int        `yaml:"bufferSize"`
	Control       bool        `yaml:"control"`
}
