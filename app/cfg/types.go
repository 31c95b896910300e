package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	ProfilesDir       string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Linked data configuration
	UserAgent        string
	RequestTimeout   int // seconds
	ResourceCacheTTL int // seconds
	MaxContentSize   int64

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
