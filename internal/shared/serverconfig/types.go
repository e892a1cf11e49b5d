package serverconfig

type Config struct {
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
	Persistence   PersistenceConfig   `yaml:"persistence" mapstructure:"persistence"`
	MySQL         MySQLConfig         `yaml:"mysql" mapstructure:"mysql"`
	Postgres      PostgresConfig      `yaml:"postgres" mapstructure:"postgres"`
	MongoDB       MongoDBConfig       `yaml:"mongodb" mapstructure:"mongodb"`
	Faker         FakerConfig         `yaml:"faker" mapstructure:"faker"`
	FixtureServer FixtureServerConfig `yaml:"fixture_server" mapstructure:"fixture_server"`
}

// 持久化后端。
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
)

type PersistenceConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // memory/mysql/postgres/mongodb，表结构需提前建好
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	// SlowThresholdMS 超过该耗时的 SQL 记为慢查询。
	SlowThresholdMS int `yaml:"slow_threshold_ms" mapstructure:"slow_threshold_ms"`
}

type PostgresConfig struct {
	DSN             string `yaml:"dsn" mapstructure:"dsn"`
	MaxIdle         int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn         int    `yaml:"max_conn" mapstructure:"max_conn"`
	SlowThresholdMS int    `yaml:"slow_threshold_ms" mapstructure:"slow_threshold_ms"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type FakerConfig struct {
	Seed uint64 `yaml:"seed" mapstructure:"seed"` // 0 表示每次随机
}

type FixtureServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// Secret 非空时造数接口要求 Bearer token。
	Secret      string `yaml:"secret" mapstructure:"secret"`
	TokenTTLMin int    `yaml:"token_ttl_min" mapstructure:"token_ttl_min"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

func (c *Config) applyDefaults() {
	if c.Persistence.Driver == "" {
		c.Persistence.Driver = DriverMemory
	}
	if c.MySQL.Charset == "" {
		c.MySQL.Charset = "utf8mb4"
	}
	if c.MySQL.SlowThresholdMS <= 0 {
		c.MySQL.SlowThresholdMS = 200
	}
	if c.Postgres.SlowThresholdMS <= 0 {
		c.Postgres.SlowThresholdMS = 200
	}
	if c.MongoDB.Database == "" {
		c.MongoDB.Database = "entity_factory"
	}
	if c.FixtureServer.Port == 0 {
		c.FixtureServer.Port = 8089
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
